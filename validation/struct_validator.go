package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/adapters/errors"
	"github.com/kbukum/adapters/util"
)

// engine is shared by Validate, Var and the tag validator. Field names in
// errors come from the json tag, then mapstructure, then the snake_cased
// Go name.
var engine = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	return v
})

func fieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "mapstructure"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return util.ToSnakeCase(f.Name)
}

// Validate checks s against its `validate` struct tags.
func Validate(s any) error {
	return fromValidator(engine().Struct(s), "")
}

// Var checks one value against a tag expression such as "required,email".
// Errors are reported under field.
func Var(field string, value any, tag string) error {
	return fromValidator(engine().Var(value, tag), field)
}

// fromValidator turns validator output into a VALIDATION AppError with one
// FieldError per violation. A non-empty field replaces the reported names.
func fromValidator(err error, field string) error {
	if err == nil {
		return nil
	}
	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return errors.Validation("validation failed").WithCause(err)
	}

	fields := make([]FieldError, len(violations))
	lines := make([]string, len(violations))
	for i, fe := range violations {
		name := field
		if name == "" {
			name = fe.Field()
		}
		fields[i] = FieldError{Field: name, Message: describe(fe)}
		lines[i] = name + ": " + fields[i].Message
	}

	appErr := errors.Validation(strings.Join(lines, "; "))
	appErr.Details = map[string]any{"fields": fields}
	return appErr
}

var tagMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"url":      "must be a valid URL",
	"uuid":     "must be a valid UUID",
	"uuid4":    "must be a valid UUID",
	"numeric":  "must be numeric",
	"alphanum": "must contain only letters and digits",
}

// describe renders one violation. Length bounds read as characters for
// strings and as items for collections.
func describe(fe validator.FieldError) string {
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return msg
	}
	unit := ""
	switch fe.Kind() {
	case reflect.String:
		unit = " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		unit = " items"
	}
	switch fe.Tag() {
	case "min", "gte":
		return "must be at least " + fe.Param() + unit
	case "max", "lte":
		return "must be at most " + fe.Param() + unit
	case "len":
		return "must be exactly " + fe.Param() + unit
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	return "is invalid"
}
