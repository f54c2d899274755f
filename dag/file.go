package dag

// DeclarationFile is a YAML document declaring nodes in dependency order.
type DeclarationFile struct {
	// Name identifies the file for includes.
	Name string `yaml:"name"`
	// Includes lists other declaration files compiled before this one.
	Includes []string `yaml:"includes,omitempty"`
	// Nodes are compiled in order; a node may only depend on nodes
	// compiled before it.
	Nodes []NodeDecl `yaml:"nodes"`
}

// NodeDecl is the YAML form of a Declaration.
type NodeDecl struct {
	Name string `yaml:"name"`
	// Inputs and Outputs follow Declaration: omitted means inferred,
	// an empty list means none.
	Inputs     []string       `yaml:"inputs,omitempty"`
	Outputs    []string       `yaml:"outputs,omitempty"`
	Depends    []string       `yaml:"depends,omitempty"`
	Validators []ValidatorDef `yaml:"validators,omitempty"`
}

// ValidatorDef selects a validator factory from a Catalog.
type ValidatorDef struct {
	// Use is the catalog name of the factory.
	Use string `yaml:"use"`
	// Field is the record field the validator acts on, if any.
	Field string `yaml:"field,omitempty"`
	// Args holds factory-specific settings.
	Args map[string]any `yaml:"args,omitempty"`
}

// Arg returns the named argument as a string, or def when it is absent.
func (d ValidatorDef) Arg(name, def string) string {
	v, ok := d.Args[name]
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return def
}
