// Package dagtest provides helpers for testing code built on package dag.
package dagtest

import (
	"context"
	"sync"

	"github.com/kbukum/adapters/dag"
)

// Recorder is a validator that counts its calls and remembers what it saw.
// It can optionally replace or mutate the record, or fail.
type Recorder struct {
	mu      sync.Mutex
	calls   int
	records []dag.Record
	params  []dag.Params

	fn func(rec dag.Record, params dag.Params) (dag.Record, error)
}

// NewRecorder returns a Recorder that leaves the record untouched.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// NewRecorderFunc returns a Recorder backed by fn.
func NewRecorderFunc(fn func(rec dag.Record, params dag.Params) (dag.Record, error)) *Recorder {
	return &Recorder{fn: fn}
}

// Validator returns the dag.Validator bound to this recorder.
func (r *Recorder) Validator() dag.Validator {
	return func(_ context.Context, rec dag.Record, params dag.Params) (dag.Record, error) {
		r.mu.Lock()
		r.calls++
		r.records = append(r.records, rec.Clone())
		r.params = append(r.params, params)
		r.mu.Unlock()

		if r.fn != nil {
			return r.fn(rec, params)
		}
		return nil, nil
	}
}

// Calls returns how many times the validator ran.
func (r *Recorder) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// Seen returns a copy of the record received on call i.
func (r *Recorder) Seen(i int) dag.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[i]
}

// Params returns the params received on call i.
func (r *Recorder) Params(i int) dag.Params {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.params[i]
}

// Set returns a validator that assigns value to field in place.
func Set(field string, value any) dag.Validator {
	return func(_ context.Context, rec dag.Record, _ dag.Params) (dag.Record, error) {
		rec[field] = value
		return nil, nil
	}
}

// Replace returns a validator that returns a fresh record built by fn.
func Replace(fn func(rec dag.Record) dag.Record) dag.Validator {
	return func(_ context.Context, rec dag.Record, _ dag.Params) (dag.Record, error) {
		return fn(rec), nil
	}
}

// Fail returns a validator that always returns err.
func Fail(err error) dag.Validator {
	return func(context.Context, dag.Record, dag.Params) (dag.Record, error) {
		return nil, err
	}
}

// Node compiles a node with the given outputs and no inputs. It fails the
// test binary via panic on error, which cannot happen for these arguments.
func Node(name string, outputs ...string) *dag.ValidatorNode {
	return dag.MustCompile(dag.Declaration{
		Name:    name,
		Inputs:  []string{},
		Outputs: outputs,
	})
}
