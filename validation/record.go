package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"

	"github.com/kbukum/adapters/dag"
	"github.com/kbukum/adapters/errors"
	"github.com/kbukum/adapters/util"
)

// The validators below act on the working record of a dag.ValidatorNode.
// Coercers rewrite a field in place and return a nil record. A field that is
// absent or nil is left alone by every coercer; use Required to demand it.

// Required fails unless every field is present with a non-empty value.
// Nil, blank strings and empty slices or maps count as empty.
func Required(fields ...string) dag.Validator {
	fields = util.Unique(fields)
	return func(_ context.Context, rec dag.Record, _ dag.Params) (dag.Record, error) {
		c := New()
		for _, f := range fields {
			if isEmpty(rec[f]) {
				c.AddError(f, "is required")
			}
		}
		return nil, c.Err()
	}
}

// Tag validates one field against a go-playground/validator tag expression,
// e.g. Tag("email", "required,email"). An absent field is validated as nil.
func Tag(field, tag string) dag.Validator {
	return func(_ context.Context, rec dag.Record, _ dag.Params) (dag.Record, error) {
		return nil, Var(field, rec[field], tag)
	}
}

// Struct decodes the record into a T, matching fields by json tag, and
// validates it with its struct tags. The record itself is not changed.
func Struct[T any]() dag.Validator {
	return func(_ context.Context, rec dag.Record, _ dag.Params) (dag.Record, error) {
		var target T
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			WeaklyTypedInput: true,
			Result:           &target,
		})
		if err != nil {
			return nil, errors.Internal(err)
		}
		if err := dec.Decode(map[string]any(rec)); err != nil {
			return nil, errors.Validation("record does not match the expected shape").WithCause(err)
		}
		return nil, Validate(target)
	}
}

// Safe rejects string values that look like SQL injection or script
// payloads.
func Safe(field string) dag.Validator {
	return func(_ context.Context, rec dag.Record, _ dag.Params) (dag.Record, error) {
		s, ok := rec[field].(string)
		if ok && !util.IsSafeString(s) {
			return nil, errors.InvalidInput(field, fmt.Sprintf("%s contains unsafe characters", field))
		}
		return nil, nil
	}
}

// Default sets field to value when it is absent or nil.
func Default(field string, value any) dag.Validator {
	return func(_ context.Context, rec dag.Record, _ dag.Params) (dag.Record, error) {
		if rec[field] == nil {
			rec[field] = value
		}
		return nil, nil
	}
}

// CoerceTrim trims whitespace and strips control characters from a string
// field, or from each string of a list field.
func CoerceTrim(field string) dag.Validator {
	return coerce(field, func(v any) (any, error) {
		return util.SanitizeValue(v), nil
	})
}

// CoerceUUID parses a UUID and stores its canonical lowercase form.
func CoerceUUID(field string) dag.Validator {
	return coerce(field, func(v any) (any, error) {
		switch x := v.(type) {
		case uuid.UUID:
			return x.String(), nil
		case string:
			id, err := ValidateUUID(field, x)
			if err != nil {
				return nil, err
			}
			return id.String(), nil
		default:
			return nil, errors.InvalidFormat(field, "UUID")
		}
	})
}

// CoerceInt converts numeric strings and whole floats to int.
func CoerceInt(field string) dag.Validator {
	return coerce(field, func(v any) (any, error) {
		switch x := v.(type) {
		case int:
			return x, nil
		case int32:
			return int(x), nil
		case int64:
			return int(x), nil
		case float64:
			if x != math.Trunc(x) {
				return nil, errors.InvalidFormat(field, "integer")
			}
			return int(x), nil
		case json.Number:
			n, err := x.Int64()
			if err != nil {
				return nil, errors.InvalidFormat(field, "integer")
			}
			return int(n), nil
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(x))
			if err != nil {
				return nil, errors.InvalidFormat(field, "integer")
			}
			return n, nil
		default:
			return nil, errors.InvalidFormat(field, "integer")
		}
	})
}

// CoerceBool converts strings such as "true", "1", "yes" or "off" to bool.
func CoerceBool(field string) dag.Validator {
	return coerce(field, func(v any) (any, error) {
		switch x := v.(type) {
		case bool:
			return x, nil
		case string:
			b, err := util.ParseBool(x)
			if err != nil {
				return nil, errors.InvalidFormat(field, "boolean")
			}
			return b, nil
		default:
			return nil, errors.InvalidFormat(field, "boolean")
		}
	})
}

// CoerceSize converts human-readable sizes such as "10MB" to a byte count
// (int64).
func CoerceSize(field string) dag.Validator {
	return coerce(field, func(v any) (any, error) {
		switch x := v.(type) {
		case int:
			return int64(x), nil
		case int64:
			return x, nil
		case float64:
			if x != math.Trunc(x) || x < 0 {
				return nil, errors.InvalidFormat(field, "size")
			}
			return int64(x), nil
		case string:
			n, err := util.ParseSizeStrict(x)
			if err != nil {
				return nil, errors.InvalidFormat(field, "size such as 512KB or 10MB")
			}
			return n, nil
		default:
			return nil, errors.InvalidFormat(field, "size")
		}
	})
}

func coerce(field string, fn func(any) (any, error)) dag.Validator {
	return func(_ context.Context, rec dag.Record, _ dag.Params) (dag.Record, error) {
		v, ok := rec[field]
		if !ok || v == nil {
			return nil, nil
		}
		out, err := fn(v)
		if err != nil {
			return nil, err
		}
		rec[field] = out
		return nil, nil
	}
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	default:
		return false
	}
}
