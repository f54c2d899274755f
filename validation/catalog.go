package validation

import (
	"fmt"

	"github.com/kbukum/adapters/dag"
)

// Catalog names of the validators in this package.
const (
	NameRequired = "required"
	NameTag      = "tag"
	NameSafe     = "safe"
	NameDefault  = "default"
	NameTrim     = "trim"
	NameUUID     = "uuid"
	NameInt      = "int"
	NameBool     = "bool"
	NameSize     = "size"
)

// RegisterDefaults makes the validators of this package available to
// declaration files:
//
//	validators:
//	  - use: required
//	    args: {fields: [id, email]}
//	  - use: tag
//	    field: email
//	    args: {tag: "required,email"}
//	  - use: default
//	    field: locale
//	    args: {value: en}
//	  - use: uuid
//	    field: id
func RegisterDefaults(c *dag.Catalog) {
	c.Register(NameRequired, func(def dag.ValidatorDef) (dag.Validator, error) {
		fields, err := stringList(def.Args["fields"])
		if err != nil {
			return nil, err
		}
		if def.Field != "" {
			fields = append([]string{def.Field}, fields...)
		}
		if len(fields) == 0 {
			return nil, fmt.Errorf("field or args.fields is required")
		}
		return Required(fields...), nil
	})
	c.Register(NameTag, func(def dag.ValidatorDef) (dag.Validator, error) {
		if def.Field == "" {
			return nil, fmt.Errorf("field is required")
		}
		tag := def.Arg("tag", "")
		if tag == "" {
			return nil, fmt.Errorf("args.tag is required")
		}
		return Tag(def.Field, tag), nil
	})
	c.Register(NameDefault, func(def dag.ValidatorDef) (dag.Validator, error) {
		if def.Field == "" {
			return nil, fmt.Errorf("field is required")
		}
		value, ok := def.Args["value"]
		if !ok {
			return nil, fmt.Errorf("args.value is required")
		}
		return Default(def.Field, value), nil
	})

	for name, build := range map[string]func(string) dag.Validator{
		NameSafe: Safe,
		NameTrim: CoerceTrim,
		NameUUID: CoerceUUID,
		NameInt:  CoerceInt,
		NameBool: CoerceBool,
		NameSize: CoerceSize,
	} {
		c.Register(name, fieldFactory(build))
	}
}

func fieldFactory(build func(string) dag.Validator) dag.Factory {
	return func(def dag.ValidatorDef) (dag.Validator, error) {
		if def.Field == "" {
			return nil, fmt.Errorf("field is required")
		}
		return build(def.Field), nil
	}
}

func stringList(v any) ([]string, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return x, nil
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected a list of strings, got element %v", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of strings, got %T", v)
	}
}
