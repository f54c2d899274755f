package dag

import (
	"context"
	"errors"
	"sort"
)

// ErrNotImplemented is returned by Validate on a plain graph node.
var ErrNotImplemented = errors.New("dag: node does not implement validation")

// Node is a named, graph-linked set of input/output field declarations.
//
// Implementations outside this package embed *Base, which provides edge
// bookkeeping. Nodes are compared by identity, so implementations must be
// pointer types.
type Node interface {
	Name() string
	Inputs() FieldSet
	Outputs() FieldSet
	Dependencies() []Node
	Dependants() []Node
	Validate(ctx context.Context, rec Record, params Params) (Record, error)

	adjacency() *adjacency
}

// NodeConfig configures the identity and field declarations of a node.
type NodeConfig struct {
	// Name identifies the node. It may be empty for ad-hoc nodes.
	Name string
	// Inputs lists the fields a record must contain. Nil means none.
	Inputs []string
	// Outputs lists the fields the node guarantees. Nil means none.
	Outputs []string
}

// Base is a plain graph node: identity, field sets and dependency edges.
type Base struct {
	name    string
	inputs  FieldSet
	outputs FieldSet
	adj     adjacency
}

var _ Node = (*Base)(nil)

// NewBase creates a graph node without validation behaviour.
func NewBase(cfg NodeConfig) *Base {
	return &Base{
		name:    cfg.Name,
		inputs:  NewFieldSet(cfg.Inputs...),
		outputs: NewFieldSet(cfg.Outputs...),
		adj:     newAdjacency(),
	}
}

func (b *Base) Name() string      { return b.name }
func (b *Base) Inputs() FieldSet  { return b.inputs }
func (b *Base) Outputs() FieldSet { return b.outputs }

// Dependencies returns the nodes this node depends on, in the order the
// edges were added.
func (b *Base) Dependencies() []Node {
	graphMu.RLock()
	defer graphMu.RUnlock()
	return append([]Node(nil), b.adj.dependencies...)
}

// Dependants returns the nodes that depend on this node, in the order the
// edges were added.
func (b *Base) Dependants() []Node {
	graphMu.RLock()
	defer graphMu.RUnlock()
	return append([]Node(nil), b.adj.dependants...)
}

// Validate always fails: a plain graph node has nothing to apply.
func (b *Base) Validate(context.Context, Record, Params) (Record, error) {
	return nil, ErrNotImplemented
}

func (b *Base) adjacency() *adjacency { return &b.adj }

// FieldSet is an immutable set of field names.
type FieldSet struct {
	names map[string]struct{}
}

// NewFieldSet builds a set from names; duplicates collapse.
func NewFieldSet(names ...string) FieldSet {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return FieldSet{names: m}
}

// Has reports whether name is in the set.
func (s FieldSet) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of names in the set.
func (s FieldSet) Len() int { return len(s.names) }

// Names returns the names in sorted order.
func (s FieldSet) Names() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Union returns a new set holding the names of both sets.
func (s FieldSet) Union(other FieldSet) FieldSet {
	m := make(map[string]struct{}, len(s.names)+len(other.names))
	for n := range s.names {
		m[n] = struct{}{}
	}
	for n := range other.names {
		m[n] = struct{}{}
	}
	return FieldSet{names: m}
}

// Equal reports whether both sets hold the same names.
func (s FieldSet) Equal(other FieldSet) bool {
	if len(s.names) != len(other.names) {
		return false
	}
	for n := range s.names {
		if !other.Has(n) {
			return false
		}
	}
	return true
}

// Missing returns the names absent from rec, sorted.
func (s FieldSet) Missing(rec Record) []string {
	var missing []string
	for n := range s.names {
		if _, ok := rec[n]; !ok {
			missing = append(missing, n)
		}
	}
	sort.Strings(missing)
	return missing
}
