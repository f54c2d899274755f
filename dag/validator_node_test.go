package dag_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kbukum/adapters/dag"
	"github.com/kbukum/adapters/dag/dagtest"
	apperrors "github.com/kbukum/adapters/errors"
)

func TestValidatorNode_OutputCompleteness(t *testing.T) {
	n := dag.NewValidatorNode(dag.NodeConfig{
		Name:    "complete",
		Inputs:  []string{"a"},
		Outputs: []string{"a", "b", "c"},
	}, nil)

	out, err := n.Validate(context.Background(), dag.Record{"a": 1}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := dag.Record{"a": 1, "b": nil, "c": nil}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("expected %v, got %v", want, out)
	}
}

func TestValidatorNode_ExistingOutputsKept(t *testing.T) {
	n := dag.NewValidatorNode(dag.NodeConfig{
		Outputs: []string{"b"},
	}, []dag.Validator{dagtest.Set("b", "filled")})

	out, err := n.Validate(context.Background(), dag.Record{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["b"] != "filled" {
		t.Errorf("expected validator value to survive, got %v", out["b"])
	}
}

func TestValidatorNode_MissingInputFailsClosed(t *testing.T) {
	rec := dagtest.NewRecorder()
	n := dag.NewValidatorNode(dag.NodeConfig{
		Name:   "strict",
		Inputs: []string{"x", "y", "z"},
	}, []dag.Validator{rec.Validator()})

	out, err := n.Validate(context.Background(), dag.Record{"y": 1}, nil)
	if err == nil {
		t.Fatal("expected missing input error")
	}
	if out != nil {
		t.Errorf("expected nil record on failure, got %v", out)
	}
	if rec.Calls() != 0 {
		t.Errorf("validator must not run, ran %d times", rec.Calls())
	}
	if !apperrors.IsMissingInput(err) {
		t.Fatalf("expected MISSING_INPUT error, got %v", err)
	}

	appErr, _ := apperrors.AsAppError(err)
	if appErr.Message != "missing data: x, z" {
		t.Errorf("unexpected message %q", appErr.Message)
	}
	if !reflect.DeepEqual(appErr.Details["fields"], []string{"x", "z"}) {
		t.Errorf("unexpected fields detail %v", appErr.Details["fields"])
	}
	if appErr.Details["node"] != "strict" {
		t.Errorf("unexpected node detail %v", appErr.Details["node"])
	}
}

func TestValidatorNode_NilValueSatisfiesInput(t *testing.T) {
	n := dag.NewValidatorNode(dag.NodeConfig{Inputs: []string{"a"}}, nil)
	if _, err := n.Validate(context.Background(), dag.Record{"a": nil}, nil); err != nil {
		t.Fatalf("a present key with nil value is not missing: %v", err)
	}
}

func TestValidatorNode_CallerRecordNotMutated(t *testing.T) {
	n := dag.NewValidatorNode(dag.NodeConfig{
		Inputs:  []string{"a"},
		Outputs: []string{"a", "b"},
	}, []dag.Validator{dagtest.Set("a", "changed"), dagtest.Set("extra", true)})

	in := dag.Record{"a": "original"}
	out, err := n.Validate(context.Background(), in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(in, dag.Record{"a": "original"}) {
		t.Errorf("caller record was modified: %v", in)
	}
	if out["a"] != "changed" || out["extra"] != true {
		t.Errorf("unexpected output %v", out)
	}
}

func TestValidatorNode_ReplaceMutateDuality(t *testing.T) {
	second := dagtest.NewRecorderFunc(func(rec dag.Record, _ dag.Params) (dag.Record, error) {
		rec["k"] = 2
		return nil, nil
	})
	third := dagtest.NewRecorder()

	n := dag.NewValidatorNode(dag.NodeConfig{Name: "chain"}, []dag.Validator{
		dagtest.Replace(func(dag.Record) dag.Record { return dag.Record{"k": 1} }),
		second.Validator(),
		third.Validator(),
	})

	out, err := n.Validate(context.Background(), dag.Record{"orig": true}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(second.Seen(0), dag.Record{"k": 1}) {
		t.Errorf("second validator must see the replacement, saw %v", second.Seen(0))
	}
	if !reflect.DeepEqual(third.Seen(0), dag.Record{"k": 2}) {
		t.Errorf("third validator must see the mutation, saw %v", third.Seen(0))
	}
	if !reflect.DeepEqual(out, dag.Record{"k": 2}) {
		t.Errorf("expected {k:2}, got %v", out)
	}
}

func TestValidatorNode_MutateReplaceMutate(t *testing.T) {
	replacer := dagtest.NewRecorderFunc(func(rec dag.Record, _ dag.Params) (dag.Record, error) {
		return dag.Record{"r": rec["x"]}, nil
	})
	last := dagtest.NewRecorderFunc(func(rec dag.Record, _ dag.Params) (dag.Record, error) {
		rec["z"] = 3
		return nil, nil
	})

	n := dag.NewValidatorNode(dag.NodeConfig{Name: "chain", Outputs: []string{"x"}}, []dag.Validator{
		dagtest.Set("x", 1),
		replacer.Validator(),
		last.Validator(),
	})

	in := dag.Record{"orig": true}
	out, err := n.Validate(context.Background(), in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(replacer.Seen(0), dag.Record{"orig": true, "x": 1}) {
		t.Errorf("replacing validator must see the earlier mutation, saw %v", replacer.Seen(0))
	}
	if !reflect.DeepEqual(last.Seen(0), dag.Record{"r": 1}) {
		t.Errorf("last validator must see the replacement, saw %v", last.Seen(0))
	}
	want := dag.Record{"r": 1, "x": nil, "z": 3}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("expected %v, got %v", want, out)
	}
	if !reflect.DeepEqual(in, dag.Record{"orig": true}) {
		t.Errorf("caller record was modified: %v", in)
	}
}

func TestValidatorNode_ErrorPropagatesUnmodified(t *testing.T) {
	sentinel := errors.New("bad value")
	after := dagtest.NewRecorder()
	n := dag.NewValidatorNode(dag.NodeConfig{}, []dag.Validator{
		dagtest.Fail(sentinel),
		after.Validator(),
	})

	_, err := n.Validate(context.Background(), dag.Record{}, nil)
	if err != sentinel {
		t.Fatalf("expected the validator's own error, got %v", err)
	}
	if after.Calls() != 0 {
		t.Error("validators after a failure must not run")
	}
}

func TestValidatorNode_ParamsForwarded(t *testing.T) {
	a := dagtest.NewRecorder()
	b := dagtest.NewRecorder()
	n := dag.NewValidatorNode(dag.NodeConfig{}, []dag.Validator{a.Validator(), b.Validator()})

	params := dag.Params{"locale": "tr"}
	if _, err := n.Validate(context.Background(), dag.Record{}, params); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Params(0)["locale"] != "tr" || b.Params(0)["locale"] != "tr" {
		t.Error("params must reach every validator")
	}
}

func TestValidatorNode_NilRecord(t *testing.T) {
	n := dag.NewValidatorNode(dag.NodeConfig{Outputs: []string{"a"}}, []dag.Validator{dagtest.Set("b", 1)})

	out, err := n.Validate(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(out, dag.Record{"a": nil, "b": 1}) {
		t.Errorf("unexpected output %v", out)
	}
}

func TestValidatorNode_ValidatorsCopy(t *testing.T) {
	n := dag.NewValidatorNode(dag.NodeConfig{}, []dag.Validator{dagtest.Set("a", 1)})
	vs := n.Validators()
	vs[0] = nil
	if n.Validators()[0] == nil {
		t.Error("Validators must return a copy")
	}
}

func TestValidatorNode_EdgeMethods(t *testing.T) {
	a := dagtest.Node("a", "x")
	b := dagtest.Node("b", "y")
	c := dagtest.Node("c")

	b.AddDependency(a)
	b.AddDependant(c)

	if !dag.DependsOn(b, a) || !dag.DependsOn(c, b) {
		t.Error("method forms must record the same edges as the package functions")
	}
	if got := a.Dependants(); len(got) != 1 || got[0] != dag.Node(b) {
		t.Errorf("expected a's dependant to be b, got %v", got)
	}
}
