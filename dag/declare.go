package dag

import "fmt"

// Declaration describes a ValidatorNode before it exists.
//
// A nil Inputs or Outputs slice means the field was not stated and is
// inferred by Compile; a non-nil empty slice states the empty set.
type Declaration struct {
	// Name identifies the compiled node.
	Name string
	// Inputs lists required fields. When nil, the union of the outputs of
	// Depends is used.
	Inputs []string
	// Outputs lists guaranteed fields. When nil, the resolved inputs are used.
	Outputs []string
	// Depends lists already-compiled nodes the new node depends on.
	Depends []Node
	// Validators run first, in order.
	Validators []Validator
	// Methods, when set, contributes its Validate* and Coerce* methods after
	// Validators. See Methods for the ordering contract.
	Methods any
}

// Compile builds the node described by decl and wires an edge to each of
// its dependencies.
func Compile(decl Declaration, opts ...Option) (*ValidatorNode, error) {
	for i, dep := range decl.Depends {
		if dep == nil {
			return nil, fmt.Errorf("dag: declaration %q: dependency %d is nil", decl.Name, i)
		}
	}

	inputs := decl.Inputs
	if inputs == nil {
		inputs = dependencyOutputs(decl.Depends)
	}
	outputs := decl.Outputs
	if outputs == nil {
		outputs = inputs
	}

	validators := append([]Validator(nil), decl.Validators...)
	if decl.Methods != nil {
		methods, err := Methods(decl.Methods)
		if err != nil {
			return nil, fmt.Errorf("dag: declaration %q: %w", decl.Name, err)
		}
		validators = append(validators, methods...)
	}

	node := NewValidatorNode(NodeConfig{
		Name:    decl.Name,
		Inputs:  inputs,
		Outputs: outputs,
	}, validators, opts...)

	for _, dep := range decl.Depends {
		node.AddDependency(dep)
	}
	return node, nil
}

// MustCompile is like Compile but panics on error. It suits package-level
// node variables.
func MustCompile(decl Declaration, opts ...Option) *ValidatorNode {
	node, err := Compile(decl, opts...)
	if err != nil {
		panic(err)
	}
	return node
}

func dependencyOutputs(deps []Node) []string {
	set := NewFieldSet()
	for _, dep := range deps {
		set = set.Union(dep.Outputs())
	}
	return set.Names()
}
