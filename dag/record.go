package dag

import (
	"context"
	"sort"
)

// Record maps field names to values. It is the unit a node validates.
type Record map[string]any

// Clone returns a shallow copy. A nil record clones to an empty one.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Keys returns the field names in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Params is the keyword context forwarded unchanged to every validator of a
// Validate call.
type Params map[string]any

// Validator checks or transforms a record.
//
// Returning a non-nil Record replaces the working record. Returning nil keeps
// the current working record, including any in-place changes the validator
// made to it. A non-nil error aborts the node and is returned unmodified.
type Validator func(ctx context.Context, rec Record, params Params) (Record, error)
