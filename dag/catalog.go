package dag

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a Validator from its YAML definition.
type Factory func(def ValidatorDef) (Validator, error)

// Catalog maps validator names used in declaration files to factories.
type Catalog struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{factories: make(map[string]Factory)}
}

// Register adds or replaces a factory.
func (c *Catalog) Register(name string, f Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[name] = f
}

// Build resolves def into a Validator.
func (c *Catalog) Build(def ValidatorDef) (Validator, error) {
	c.mu.RLock()
	f, ok := c.factories[def.Use]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("dag: validator %q not found in catalog", def.Use)
	}
	v, err := f(def)
	if err != nil {
		return nil, fmt.Errorf("dag: validator %q: %w", def.Use, err)
	}
	return v, nil
}

// List returns sorted names of all registered factories.
func (c *Catalog) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.factories))
	for name := range c.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
