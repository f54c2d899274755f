package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// setup writes a config and two declaration files, one per format.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	decls := filepath.Join(dir, "declarations")

	writeFile(t, filepath.Join(dir, "config.yml"), `
name: adapters-test
logging:
  level: error
  output: stderr
declarations:
  dirs: [`+decls+`]
`)
	writeFile(t, filepath.Join(decls, "identity.yaml"), `
name: identity
nodes:
  - name: identity
    inputs: [id, email]
    validators:
      - use: trim
        field: email
      - use: tag
        field: email
        args: {tag: email}
`)
	writeFile(t, filepath.Join(decls, "contact.hcl"), `
name     = "contact"
includes = ["identity"]

node "contact" {
  depends = ["identity"]
  outputs = ["email", "phone"]

  validator "default" {
    field = "phone"
    args  = { value = "unknown" }
  }
}
`)
	return filepath.Join(dir, "config.yml")
}

func TestRunCheck(t *testing.T) {
	cfgPath := setup(t)

	var out bytes.Buffer
	if err := run(context.Background(), []string{"--config", cfgPath, "--check"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 nodes, got %q", out.String())
	}
	if !strings.HasPrefix(lines[0], "NODE") {
		t.Errorf("expected header, got %q", lines[0])
	}
	contact := strings.Fields(lines[1])
	if want := []string{"contact", "email,id", "email,phone", "identity"}; !reflect.DeepEqual(contact, want) {
		t.Errorf("contact row = %v, want %v", contact, want)
	}
	identity := strings.Fields(lines[2])
	if want := []string{"identity", "email,id", "email,id", "-"}; !reflect.DeepEqual(identity, want) {
		t.Errorf("identity row = %v, want %v", identity, want)
	}
}

func TestRunCheckUnknownValidator(t *testing.T) {
	cfgPath := setup(t)
	decls := filepath.Join(filepath.Dir(cfgPath), "declarations")
	writeFile(t, filepath.Join(decls, "broken.yaml"), "name: broken\nnodes:\n  - name: b\n    validators:\n      - use: nope\n")

	err := run(context.Background(), []string{"--config", cfgPath, "--check"}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "nope") {
		t.Fatalf("expected unknown validator error, got %v", err)
	}
}

func TestRunVersion(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"--version"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "dev") {
		t.Errorf("expected dev build info, got %q", out.String())
	}
}

func TestRunBadFlag(t *testing.T) {
	if err := run(context.Background(), []string{"--bogus"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected flag error")
	}
}

func TestDiscoverFiles(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(a, "users.yaml"), "")
	writeFile(t, filepath.Join(a, "orders.hcl"), "")
	writeFile(t, filepath.Join(a, "notes.txt"), "")
	writeFile(t, filepath.Join(b, "users.yml"), "")
	writeFile(t, filepath.Join(b, "nested", "deep.yaml"), "")

	got := discoverFiles([]string{a, b})
	if want := []string{"orders", "users"}; !reflect.DeepEqual(got, want) {
		t.Errorf("discoverFiles = %v, want %v", got, want)
	}
}
