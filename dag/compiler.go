package dag

import (
	"fmt"

	apperrors "github.com/kbukum/adapters/errors"
	"github.com/kbukum/adapters/logger"
)

// Compiler compiles declarations once each and registers the resulting
// nodes by name.
type Compiler struct {
	// Registry receives every compiled node. Required.
	Registry *Registry
	// Catalog resolves validators named in declaration files.
	Catalog *Catalog
	// Loader resolves includes of declaration files.
	Loader DeclarationLoader
	// NodeOptions are applied to every compiled node.
	NodeOptions []Option
	// Log receives compile events. Nil disables logging.
	Log *logger.Logger
}

// Compile compiles decl and registers the node. A declaration whose name is
// empty or already registered is rejected before any edge is added.
func (c *Compiler) Compile(decl Declaration) (*ValidatorNode, error) {
	if decl.Name == "" {
		return nil, fmt.Errorf("dag: declaration without a name cannot be compiled into a registry")
	}
	if _, exists := c.Registry.Get(decl.Name); exists {
		return nil, apperrors.AlreadyExists("node", decl.Name)
	}

	node, err := Compile(decl, c.NodeOptions...)
	if err != nil {
		return nil, err
	}
	if err := c.Registry.Register(node); err != nil {
		return nil, err
	}

	if c.Log != nil {
		c.Log.Debug("node compiled", logger.Fields(
			logger.FieldNode, node.Name(),
			"inputs", node.Inputs().Names(),
			"outputs", node.Outputs().Names(),
			logger.FieldValidators, len(node.validators),
			logger.FieldDependsOn, names(node.Dependencies()),
		))
	}
	return node, nil
}

// CompileFile compiles the includes of f, then its nodes in order.
//
// Compilation is not transactional. When a declaration fails, the nodes
// compiled before it stay registered with their edges wired, and they are
// returned together with the error. Edges cannot be removed, so callers that
// need all-or-nothing semantics compile into a fresh Registry and discard it
// on error.
func (c *Compiler) CompileFile(f *DeclarationFile) ([]*ValidatorNode, error) {
	stack := make(map[string]bool)    // current include path (cycle detection)
	resolved := make(map[string]bool) // already compiled files (dedup)
	return c.compileFile(f, stack, resolved)
}

// CompileNamed loads each named file through Loader and compiles it. Files
// included by several of them are compiled once. On error it returns the
// nodes registered so far, as CompileFile does.
func (c *Compiler) CompileNamed(files ...string) ([]*ValidatorNode, error) {
	if c.Loader == nil {
		return nil, fmt.Errorf("dag: compiler has no declaration loader")
	}
	stack := make(map[string]bool)
	resolved := make(map[string]bool)

	var out []*ValidatorNode
	for _, name := range files {
		if resolved[name] {
			continue
		}
		f, err := c.Loader.Load(name)
		if err != nil {
			return out, err
		}
		nodes, err := c.compileFile(f, stack, resolved)
		out = append(out, nodes...)
		if err != nil {
			return out, err
		}
		resolved[name] = true
	}
	return out, nil
}

func (c *Compiler) compileFile(f *DeclarationFile, stack, resolved map[string]bool) ([]*ValidatorNode, error) {
	if stack[f.Name] {
		return nil, fmt.Errorf("dag: circular include detected for declaration file %q", f.Name)
	}
	stack[f.Name] = true
	defer delete(stack, f.Name)

	var out []*ValidatorNode
	for _, include := range f.Includes {
		if resolved[include] {
			continue // already compiled through another branch
		}
		if c.Loader == nil {
			return out, fmt.Errorf("dag: declaration file %q includes %q but compiler has no loader", f.Name, include)
		}

		sub, err := c.Loader.Load(include)
		if err != nil {
			return out, fmt.Errorf("dag: loading include %q: %w", include, err)
		}
		nodes, err := c.compileFile(sub, stack, resolved)
		out = append(out, nodes...)
		if err != nil {
			return out, err
		}
		resolved[include] = true
	}

	for _, nd := range f.Nodes {
		decl, err := c.declaration(nd)
		if err != nil {
			return out, fmt.Errorf("dag: file %q: %w", f.Name, err)
		}
		node, err := c.Compile(decl)
		if err != nil {
			return out, err
		}
		out = append(out, node)
	}

	resolved[f.Name] = true
	if c.Log != nil {
		c.Log.Info("declarations compiled", logger.Fields(logger.FieldFile, f.Name, "nodes", len(f.Nodes)))
	}
	return out, nil
}

// declaration resolves names in nd against the registry and catalog.
func (c *Compiler) declaration(nd NodeDecl) (Declaration, error) {
	decl := Declaration{
		Name:    nd.Name,
		Inputs:  nd.Inputs,
		Outputs: nd.Outputs,
	}

	for _, name := range nd.Depends {
		dep, err := c.Registry.Lookup(name)
		if err != nil {
			return Declaration{}, fmt.Errorf("node %q depends on %q: %w", nd.Name, name, err)
		}
		decl.Depends = append(decl.Depends, dep)
	}

	for _, def := range nd.Validators {
		if c.Catalog == nil {
			return Declaration{}, fmt.Errorf("node %q uses validator %q but compiler has no catalog", nd.Name, def.Use)
		}
		v, err := c.Catalog.Build(def)
		if err != nil {
			return Declaration{}, fmt.Errorf("node %q: %w", nd.Name, err)
		}
		decl.Validators = append(decl.Validators, v)
	}
	return decl, nil
}

func names(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name()
	}
	return out
}
