// Package validation provides field validators for dag nodes and struct
// validation helpers.
//
// # Record Validators
//
// Required, Tag, Struct, Safe and Default check or fill fields; the Coerce*
// functions normalise values in place:
//
//	node, err := dag.Compile(dag.Declaration{
//	    Name:   "identity",
//	    Inputs: []string{"id", "email"},
//	    Validators: []dag.Validator{
//	        validation.CoerceUUID("id"),
//	        validation.CoerceTrim("email"),
//	        validation.Tag("email", "required,email"),
//	    },
//	})
//
// RegisterDefaults exposes them to declaration files by name.
//
// # Struct Tag Validation
//
//	type CreateUserCmd struct {
//	    Name  string `validate:"required,min=2"`
//	    Email string `validate:"required,email"`
//	}
//	err := validation.Validate(cmd)
//
// # Programmatic Validation
//
//	c := validation.New()
//	c.Required("name", name).MaxLength("name", name, 100)
//	err := c.Err()
package validation
