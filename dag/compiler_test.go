package dag_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/kbukum/adapters/dag"
	"github.com/kbukum/adapters/dag/dagtest"
	apperrors "github.com/kbukum/adapters/errors"
)

func newCompiler(dirs ...string) *dag.Compiler {
	catalog := dag.NewCatalog()
	catalog.Register("set", func(def dag.ValidatorDef) (dag.Validator, error) {
		if def.Field == "" {
			return nil, errors.New("field is required")
		}
		return dagtest.Set(def.Field, def.Arg("value", "")), nil
	})
	c := &dag.Compiler{Registry: dag.NewRegistry(), Catalog: catalog}
	if len(dirs) > 0 {
		c.Loader = dag.NewFileDeclarationLoader(dirs...)
	}
	return c
}

func TestCompiler_CompileRegisters(t *testing.T) {
	c := newCompiler()
	n, err := c.Compile(dag.Declaration{Name: "base", Inputs: []string{"id"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := c.Registry.Get("base")
	if !ok || got != dag.Node(n) {
		t.Error("expected compiled node to be registered under its name")
	}
}

func TestCompiler_RejectsDuplicate(t *testing.T) {
	c := newCompiler()
	dep := dagtest.Node("dep", "a")
	if _, err := c.Compile(dag.Declaration{Name: "once"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := c.Compile(dag.Declaration{Name: "once", Depends: []dag.Node{dep}})
	if !apperrors.IsCode(err, apperrors.ErrCodeAlreadyExists) {
		t.Fatalf("expected ALREADY_EXISTS, got %v", err)
	}
	if len(dep.Dependants()) != 0 {
		t.Error("a rejected declaration must not add edges")
	}
}

func TestCompiler_RejectsAnonymous(t *testing.T) {
	c := newCompiler()
	if _, err := c.Compile(dag.Declaration{}); err == nil {
		t.Fatal("expected error for anonymous declaration")
	}
	if c.Registry.Len() != 0 {
		t.Error("anonymous declaration must not be registered")
	}
}

func TestCompiler_CompileFile(t *testing.T) {
	f, err := dag.ParseDeclarationFile([]byte(`
name: users
nodes:
  - name: identity
    inputs: [id]
    outputs: [id, kind]
    validators:
      - use: set
        field: kind
        args: {value: user}
  - name: contact
    depends: [identity]
    outputs: [email]
  - name: empty
    inputs: []
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	c := newCompiler()
	nodes, err := c.CompileFile(f)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(nodes))
	}

	identity, contact := nodes[0], nodes[1]
	if got := contact.Inputs().Names(); !reflect.DeepEqual(got, []string{"id", "kind"}) {
		t.Errorf("expected inferred inputs [id kind], got %v", got)
	}
	if !dag.DependsOn(contact, identity) {
		t.Error("expected contact to depend on identity")
	}

	out, err := identity.Validate(context.Background(), dag.Record{"id": "42"}, nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out["kind"] != "user" {
		t.Errorf("expected catalog validator to run, got %v", out)
	}

	if got := c.Registry.List(); !reflect.DeepEqual(got, []string{"contact", "empty", "identity"}) {
		t.Errorf("unexpected registry contents %v", got)
	}
}

func TestCompiler_CompileFileErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown dependency",
			yaml: "name: f\nnodes:\n  - name: a\n    depends: [ghost]\n",
			want: `depends on "ghost"`,
		},
		{
			name: "unknown validator",
			yaml: "name: f\nnodes:\n  - name: a\n    validators:\n      - use: nope\n",
			want: `validator "nope" not found`,
		},
		{
			name: "factory error",
			yaml: "name: f\nnodes:\n  - name: a\n    validators:\n      - use: set\n",
			want: "field is required",
		},
		{
			name: "forward reference",
			yaml: "name: f\nnodes:\n  - name: a\n    depends: [b]\n  - name: b\n",
			want: `depends on "b"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := dag.ParseDeclarationFile([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			_, err = newCompiler().CompileFile(f)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestCompiler_CompileFilePartial(t *testing.T) {
	f, err := dag.ParseDeclarationFile([]byte("name: f\nnodes:\n  - name: a\n    outputs: [x]\n  - name: b\n    depends: [a]\n    validators:\n      - use: nope\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	c := newCompiler()
	nodes, err := c.CompileFile(f)
	if err == nil {
		t.Fatal("expected error for unknown validator")
	}
	if len(nodes) != 1 || nodes[0].Name() != "a" {
		t.Fatalf("expected the node compiled before the failure, got %v", nodes)
	}
	if _, ok := c.Registry.Get("a"); !ok {
		t.Error("a should stay registered")
	}
	if _, ok := c.Registry.Get("b"); ok {
		t.Error("b must not be registered")
	}
	if len(nodes[0].Dependants()) != 0 {
		t.Error("the failed declaration must not add edges")
	}
}

func TestCompiler_CompileNamedPartial(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.yaml", "name: good\nnodes:\n  - name: base\n")
	writeFile(t, dir, "bad.yaml", "name: bad\nincludes: [good]\nnodes:\n  - name: broken\n    depends: [ghost]\n")

	c := newCompiler(dir)
	nodes, err := c.CompileNamed("bad")
	if err == nil {
		t.Fatal("expected error for unknown dependency")
	}
	if len(nodes) != 1 || nodes[0].Name() != "base" {
		t.Fatalf("expected the included node in the partial result, got %v", nodes)
	}
	if c.Registry.Len() != 1 {
		t.Errorf("expected 1 registered node, got %d", c.Registry.Len())
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestCompiler_CompileNamedIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "common.yaml", "name: common\nnodes:\n  - name: base\n    inputs: [id]\n")
	writeFile(t, dir, "left.yml", "name: left\nincludes: [common]\nnodes:\n  - name: l\n    depends: [base]\n")
	writeFile(t, dir, "nested/right.yaml", "name: right\nincludes: [common]\nnodes:\n  - name: r\n    depends: [base]\n")
	writeFile(t, dir, "top.yaml", "name: top\nincludes: [left, right]\nnodes:\n  - name: t\n    depends: [l, r]\n")

	c := newCompiler(dir)
	nodes, err := c.CompileNamed("top", "common")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if len(nodes) != 4 {
		t.Fatalf("expected shared include compiled once, got %d nodes", len(nodes))
	}

	base, _ := c.Registry.Get("base")
	if len(base.Dependants()) != 2 {
		t.Errorf("expected base to have 2 dependants, got %d", len(base.Dependants()))
	}
	top, _ := c.Registry.Get("t")
	if got := top.Inputs().Names(); !reflect.DeepEqual(got, []string{"id"}) {
		t.Errorf("expected inputs to flow through the includes, got %v", got)
	}
}

func TestCompiler_CircularInclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "name: a\nincludes: [b]\n")
	writeFile(t, dir, "b.yaml", "name: b\nincludes: [a]\n")

	_, err := newCompiler(dir).CompileNamed("a")
	if err == nil || !strings.Contains(err.Error(), "circular include") {
		t.Fatalf("expected circular include error, got %v", err)
	}
}

func TestCompiler_NoLoader(t *testing.T) {
	if _, err := newCompiler().CompileNamed("x"); err == nil {
		t.Fatal("expected error without a loader")
	}
	f := &dag.DeclarationFile{Name: "f", Includes: []string{"other"}}
	if _, err := newCompiler().CompileFile(f); err == nil {
		t.Fatal("expected error for includes without a loader")
	}
}

func TestFileDeclarationLoader_NotFound(t *testing.T) {
	_, err := dag.NewFileDeclarationLoader(t.TempDir()).Load("missing")
	if err == nil {
		t.Fatal("expected not found error")
	}
}

func TestLoadDeclarationFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.yaml", "name: x\nnodes:\n  - name: n\n")

	f, err := dag.LoadDeclarationFile("x", filepath.Join(dir, "nope.yaml"), filepath.Join(dir, "x.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Name != "x" || len(f.Nodes) != 1 {
		t.Errorf("unexpected file %+v", f)
	}

	if _, err := dag.LoadDeclarationFile("x"); err == nil {
		t.Error("expected error without paths")
	}
}

func TestParseDeclarationFile_StatedVsOmitted(t *testing.T) {
	f, err := dag.ParseDeclarationFile([]byte("name: f\nnodes:\n  - name: a\n    inputs: []\n  - name: b\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.Nodes[0].Inputs == nil {
		t.Error("an empty list must decode as stated")
	}
	if f.Nodes[1].Inputs != nil {
		t.Error("an omitted list must decode as nil")
	}
}

func TestParseDeclarationFile_Invalid(t *testing.T) {
	if _, err := dag.ParseDeclarationFile([]byte("nodes: [")); err == nil {
		t.Fatal("expected parse error")
	}
}
