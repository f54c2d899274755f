package dag

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	apperrors "github.com/kbukum/adapters/errors"
)

// Registry provides named node lookup. Each name is registered once.
type Registry struct {
	mu    sync.RWMutex
	nodes map[string]Node
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{nodes: make(map[string]Node)}
}

// Register adds a node under its name. Anonymous nodes and names already
// taken are rejected.
func (r *Registry) Register(node Node) error {
	name := node.Name()
	if name == "" {
		return fmt.Errorf("dag: cannot register a node without a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.nodes[name]; exists {
		return apperrors.AlreadyExists("node", name)
	}
	r.nodes[name] = node
	return nil
}

// Get retrieves a node by name.
func (r *Registry) Get(name string) (Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.nodes[name]
	return n, ok
}

// Lookup is like Get but returns a NOT_FOUND error for unknown names.
func (r *Registry) Lookup(name string) (Node, error) {
	n, ok := r.Get(name)
	if !ok {
		return nil, apperrors.NotFound("node", name)
	}
	return n, nil
}

// List returns the registered names in lexicographic order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.nodes))
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}
