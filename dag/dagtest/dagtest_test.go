package dagtest

import (
	"context"
	"errors"
	"testing"

	"github.com/kbukum/adapters/dag"
)

func TestRecorder_CountsAndCopies(t *testing.T) {
	r := NewRecorder()
	v := r.Validator()

	rec := dag.Record{"a": 1}
	out, err := v(context.Background(), rec, dag.Params{"p": true})
	if err != nil || out != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", out, err)
	}
	rec["a"] = 2

	if r.Calls() != 1 {
		t.Fatalf("expected 1 call, got %d", r.Calls())
	}
	if r.Seen(0)["a"] != 1 {
		t.Errorf("expected recorded copy to keep a=1, got %v", r.Seen(0)["a"])
	}
	if r.Params(0)["p"] != true {
		t.Errorf("expected params to be recorded")
	}
}

func TestHelpers(t *testing.T) {
	ctx := context.Background()
	rec := dag.Record{}

	if out, _ := Set("x", 1)(ctx, rec, nil); out != nil || rec["x"] != 1 {
		t.Errorf("Set should mutate in place and return nil")
	}
	out, _ := Replace(func(dag.Record) dag.Record { return dag.Record{"y": 2} })(ctx, rec, nil)
	if out["y"] != 2 {
		t.Errorf("Replace should return the new record")
	}
	sentinel := errors.New("boom")
	if _, err := Fail(sentinel)(ctx, rec, nil); !errors.Is(err, sentinel) {
		t.Errorf("Fail should return its error")
	}
	n := Node("n", "p")
	if n.Name() != "n" || !n.Outputs().Has("p") || n.Inputs().Len() != 0 {
		t.Errorf("unexpected node %+v", dag.Describe(n))
	}
}
