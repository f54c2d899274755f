package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.ServiceName != "svc" {
			t.Errorf("expected logging service name 'svc', got %q", cfg.Logging.ServiceName)
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr bool
		errMsg  string
	}{
		{"valid staging", ServiceConfig{Name: "svc", Environment: "staging"}, false, ""},
		{"missing name", ServiceConfig{Environment: "production"}, true, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "invalid"}, true, "config.environment must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			cfg.Logging.ApplyDefaults()
			err := cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yml", `
name: adapters
environment: staging
version: "1.0.0"
declarations:
  dirs: [/etc/adapters]
  files: [users, orders]
server:
  port: 9090
  max_body_size: 2MB
tracing:
  enabled: true
  sample_rate: 0.25
`)

	var cfg Config
	if err := LoadConfig("adapters", &cfg, WithConfigFile(configPath), WithEnvPrefix("ADAPTERS_TEST")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Name != "adapters" || cfg.Environment != "staging" {
		t.Errorf("unexpected service section %+v", cfg.ServiceConfig)
	}
	if got := strings.Join(cfg.Declarations.Files, ","); got != "users,orders" {
		t.Errorf("expected files users,orders, got %q", got)
	}
	if cfg.Server.Port != 9090 || cfg.Server.MaxBodySize != "2MB" {
		t.Errorf("unexpected server section %+v", cfg.Server)
	}
	if !cfg.Tracing.Enabled || cfg.Tracing.SampleRate != 0.25 {
		t.Errorf("unexpected tracing section %+v", cfg.Tracing)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yml", "name: adapters\nserver:\n  port: 9090\n")
	t.Setenv("ADAPTERS_TEST_SERVER_PORT", "7070")
	t.Setenv("ADAPTERS_TEST_DECLARATIONS_DIRS", `"/a,/b"`)

	var cfg Config
	if err := LoadConfig("adapters", &cfg, WithConfigFile(configPath), WithEnvPrefix("ADAPTERS_TEST")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("expected env to override port, got %d", cfg.Server.Port)
	}
	if got := strings.Join(cfg.Declarations.Dirs, "|"); got != "/a|/b" {
		t.Errorf("expected dirs from env with quotes stripped, got %q", got)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yml", "name: adapters\n")
	envPath := writeFile(t, dir, ".env", "ADAPTERS_ENVFILE_ENVIRONMENT=production\n")
	t.Cleanup(func() { os.Unsetenv("ADAPTERS_ENVFILE_ENVIRONMENT") })

	var cfg Config
	err := LoadConfig("adapters", &cfg,
		WithConfigFile(configPath), WithEnvFile(envPath), WithEnvPrefix("ADAPTERS_ENVFILE"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Environment != "production" {
		t.Errorf("expected environment from .env, got %q", cfg.Environment)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg Config
	// With no config file found, LoadConfig should still succeed (just empty config)
	err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml"), WithEnvPrefix("ADAPTERS_NONE"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yml", "environment: production\n")

	cfg, err := Load(WithConfigFile(configPath), WithEnvFile(filepath.Join(dir, "missing.env")))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Name != "adapters" {
		t.Errorf("expected default name, got %q", cfg.Name)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
	if len(cfg.Declarations.Dirs) != 1 || cfg.Declarations.Dirs[0] != "./declarations" {
		t.Errorf("expected default declaration dir, got %v", cfg.Declarations.Dirs)
	}
	if cfg.TracerConfig().ServiceName != "adapters" || cfg.MeterConfig().Interval.Seconds() != 15 {
		t.Errorf("unexpected observability configs")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yml", "tracing:\n  sample_rate: 2\n")

	if _, err := Load(WithConfigFile(configPath), WithEnvFile(filepath.Join(dir, "missing.env"))); err == nil {
		t.Fatal("expected sample_rate above 1 to be rejected")
	}
}

func TestResolveWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/adapters/config.yml": true,
		"../config/config.yml":      true,
		"./.env.adapters":           true,
		"./.env":                    true,
	}}
	lc := LoaderConfig{FileSystem: fs}.Resolve("adapters")
	if lc.ConfigFile != "./cmd/adapters/config.yml" {
		t.Errorf("expected config file at ./cmd/adapters/config.yml, got %q", lc.ConfigFile)
	}
	if lc.EnvFile != "./.env.adapters" {
		t.Errorf("expected the service env file to win, got %q", lc.EnvFile)
	}
}

func TestResolveExplicitPathsWin(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./config.yml": true}}
	lc := LoaderConfig{FileSystem: fs, ConfigFile: "/etc/adapters.yml"}.Resolve("adapters")
	if lc.ConfigFile != "/etc/adapters.yml" {
		t.Errorf("expected explicit path, got %q", lc.ConfigFile)
	}
	if lc.EnvFile != "" {
		t.Errorf("expected no env file, got %q", lc.EnvFile)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(string) error    { return nil }

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	WithFileSystem(&mockFS{})(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithEnvPrefix("adapters_")(&lc)

	if lc.FileSystem == nil {
		t.Error("expected FileSystem to be set")
	}
	if lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" {
		t.Errorf("unexpected paths %+v", lc)
	}
	if lc.EnvPrefix != "ADAPTERS" {
		t.Errorf("expected normalized prefix ADAPTERS, got %q", lc.EnvPrefix)
	}
}

func TestKeys(t *testing.T) {
	keys := Keys(&Config{})
	set := map[string]bool{}
	for _, k := range keys {
		set[k] = true
	}
	for _, want := range []string{"name", "logging.level", "server.port", "server.cors.allowed_origins", "declarations.dirs", "tracing.sample_rate"} {
		if !set[want] {
			t.Errorf("expected key %q in %v", want, keys)
		}
	}
	if set["serviceconfig"] || set["server.cors"] {
		t.Errorf("expected only leaf keys, got %v", keys)
	}
	if Keys("not a struct") != nil {
		t.Error("expected no keys for a non-struct")
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yml", "server: [unclosed\n")

	var cfg Config
	if err := LoadConfig("adapters", &cfg, WithConfigFile(configPath), WithEnvPrefix("ADAPTERS_BAD")); err == nil {
		t.Fatal("expected a malformed config file to be reported")
	}
}
