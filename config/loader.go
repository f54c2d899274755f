package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/adapters/logger"
	"github.com/kbukum/adapters/util"
)

// FileSystem is the slice of the OS the loader touches. Tests swap it out.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// OSFileSystem reads the real file system and process environment.
type OSFileSystem struct{}

func (OSFileSystem) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadEnv exports the variables in path. Variables already set win.
func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderConfig collects the LoaderOptions of one LoadConfig call.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	// EnvPrefix restricts environment overrides to PREFIX_* variables.
	EnvPrefix string
}

// LoaderOption configures LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem replaces the OS file system.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile skips the config.yml search.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile skips the .env search.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix makes PREFIX_SERVER_PORT override server.port.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = strings.ToUpper(strings.TrimSuffix(prefix, "_")) }
}

// Resolve fills in ConfigFile and EnvFile when they were not given, using
// the first existing candidate from searchPaths.
func (lc LoaderConfig) Resolve(service string) LoaderConfig {
	if lc.ConfigFile == "" {
		lc.ConfigFile = lc.firstExisting(searchPaths(service, "config.yml"))
	}
	if lc.EnvFile == "" {
		lc.EnvFile = lc.firstExisting(append(searchPaths(service, ".env."+service), searchPaths(service, ".env")...))
	}
	return lc
}

func (lc LoaderConfig) firstExisting(paths []string) string {
	for _, p := range paths {
		if lc.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// searchPaths lists where file may live relative to the working directory:
// cmd/<service>, config and the directory itself, each checked from here
// and up to two levels above.
func searchPaths(service, file string) []string {
	var paths []string
	for _, dir := range []string{"cmd/" + service, "config", ""} {
		for _, up := range []string{".", "..", "../.."} {
			if dir == "" {
				paths = append(paths, up+"/"+file)
			} else {
				paths = append(paths, up+"/"+dir+"/"+file)
			}
		}
	}
	return paths
}

// LoadConfig decodes the configuration of service into cfg, a pointer to a
// struct with mapstructure tags. Sources, lowest precedence first: the
// config file, the .env file, the process environment. Missing files are
// not an error.
func LoadConfig(service string, cfg any, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: OSFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}
	lc = lc.Resolve(service)

	v := viper.New()
	if lc.ConfigFile != "" && lc.FileSystem.Exists(lc.ConfigFile) {
		v.SetConfigFile(lc.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: reading %s: %w", lc.ConfigFile, err)
		}
	}
	if lc.EnvFile != "" && lc.FileSystem.Exists(lc.EnvFile) {
		if err := lc.FileSystem.LoadEnv(lc.EnvFile); err != nil {
			logger.Warn("Ignoring unreadable env file", map[string]interface{}{
				logger.FieldFile:  lc.EnvFile,
				logger.FieldError: err.Error(),
			})
		}
	}

	v.SetEnvPrefix(lc.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range Keys(cfg) {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("config: binding %s: %w", key, err)
		}
	}

	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		sanitizeHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, hook); err != nil {
		return fmt.Errorf("config: decoding %s: %w", service, err)
	}
	return nil
}

// sanitizeHook strips the quotes and whitespace env files tend to carry.
func sanitizeHook(from, _ reflect.Type, data any) (any, error) {
	s, ok := data.(string)
	if !ok || from.Kind() != reflect.String {
		return data, nil
	}
	return util.SanitizeEnvValue(s), nil
}

// Keys lists the dotted mapstructure keys of every leaf field of cfg.
// Squashed structs contribute their fields at the parent level; fields
// tagged "-" are skipped.
func Keys(cfg any) []string {
	t := reflect.TypeOf(cfg)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	var keys []string
	collectKeys(t, "", &keys)
	return keys
}

func collectKeys(t reflect.Type, prefix string, keys *[]string) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "-" {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if strings.Contains(opts, "squash") && ft.Kind() == reflect.Struct {
			collectKeys(ft, prefix, keys)
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		if ft.Kind() == reflect.Struct {
			collectKeys(ft, prefix+name+".", keys)
			continue
		}
		*keys = append(*keys, prefix+name)
	}
}
