package dag

import (
	"fmt"
	"reflect"
	"strings"
)

// Method name prefixes collected by Methods.
const (
	ValidatePrefix = "Validate"
	CoercePrefix   = "Coerce"
)

var validatorType = reflect.TypeOf(Validator(nil))

// Methods collects the exported methods of v whose names start with
// "Validate" or "Coerce" and returns them as validators.
//
// The order is Go's method-set order, which is lexicographic by method name,
// so "CoerceEmail" runs before "ValidateEmail". Every matching method must
// have the Validator signature; anything else is an error. Pass a pointer to
// include methods declared on the pointer receiver.
func Methods(v any) ([]Validator, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, nil
	}
	rt := rv.Type()

	var out []Validator
	for i := 0; i < rt.NumMethod(); i++ {
		m := rt.Method(i)
		if !strings.HasPrefix(m.Name, ValidatePrefix) && !strings.HasPrefix(m.Name, CoercePrefix) {
			continue
		}
		fn := rv.Method(i)
		if !fn.Type().ConvertibleTo(validatorType) {
			return nil, fmt.Errorf("method %s.%s has signature %s, want %s", rt, m.Name, fn.Type(), validatorType)
		}
		out = append(out, fn.Convert(validatorType).Interface().(Validator))
	}
	return out, nil
}
