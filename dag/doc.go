// Package dag models field validation as a graph of named nodes.
//
// A node declares the record fields it requires (inputs), the fields it
// guarantees to produce (outputs), and its dependency edges to other nodes.
// A ValidatorNode adds an ordered list of Validator functions and the
// single-record validation algorithm:
//
//   - every input must be present in the record, otherwise the call fails
//     with a MISSING_INPUT error before any validator runs
//   - validators run in order on a shallow copy of the record; a validator
//     either returns a replacement record or returns nil after mutating
//     (or merely inspecting) the working copy
//   - every output missing from the final record is set to nil
//
// Nodes are normally built from a Declaration with Compile, which infers
// inputs from dependencies and outputs from inputs, and wires dependency
// edges eagerly. Declarations can also be written as YAML files and compiled
// through a Compiler backed by a Registry and a validator Catalog.
//
// The package does not schedule nodes: callers that need to run several
// nodes read Dependencies and Dependants and decide the order themselves.
package dag
