package config

import (
	"fmt"
	"time"

	"github.com/kbukum/adapters/observability"
	"github.com/kbukum/adapters/server"
)

// Config is the configuration of the adapters binary.
//
//	name: adapters
//	declarations:
//	  dirs: [./declarations]
//	  files: [users]
//	server:
//	  port: 8080
//	tracing:
//	  enabled: true
//	  endpoint: localhost:4318
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Declarations DeclarationsConfig `yaml:"declarations" mapstructure:"declarations"`
	Server       server.Config      `yaml:"server" mapstructure:"server"`
	Tracing      TracingConfig      `yaml:"tracing" mapstructure:"tracing"`
	Metrics      MetricsConfig      `yaml:"metrics" mapstructure:"metrics"`
}

// DeclarationsConfig lists the declaration files compiled at startup.
// Files are names resolved against Dirs, in order.
type DeclarationsConfig struct {
	Dirs  []string `yaml:"dirs" mapstructure:"dirs"`
	Files []string `yaml:"files" mapstructure:"files"`
}

// TracingConfig configures OTLP trace export.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig configures OTLP metric export.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure bool   `yaml:"insecure" mapstructure:"insecure"`
	Interval int    `yaml:"interval" mapstructure:"interval"` // seconds
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "adapters"
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()

	if len(c.Declarations.Dirs) == 0 {
		c.Declarations.Dirs = []string{"./declarations"}
	}
	if c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = "localhost:4318"
	}
	if c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = 1.0
	}
	if c.Metrics.Endpoint == "" {
		c.Metrics.Endpoint = c.Tracing.Endpoint
	}
	if c.Metrics.Interval == 0 {
		c.Metrics.Interval = 15
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be between 0 and 1 (got: %v)", c.Tracing.SampleRate)
	}
	if c.Metrics.Interval < 0 {
		return fmt.Errorf("metrics.interval must be non-negative (got: %d)", c.Metrics.Interval)
	}
	return nil
}

// TracerConfig converts the tracing section for observability.InitTracer.
func (c *Config) TracerConfig() *observability.TracerConfig {
	return &observability.TracerConfig{
		Collector:  c.collector(c.Tracing.Endpoint, c.Tracing.Insecure),
		SampleRate: c.Tracing.SampleRate,
	}
}

// MeterConfig converts the metrics section for observability.InitMeter.
func (c *Config) MeterConfig() *observability.MeterConfig {
	return &observability.MeterConfig{
		Collector: c.collector(c.Metrics.Endpoint, c.Metrics.Insecure),
		Interval:  time.Duration(c.Metrics.Interval) * time.Second,
	}
}

func (c *Config) collector(endpoint string, insecure bool) observability.Collector {
	return observability.Collector{
		ServiceName:    c.Name,
		ServiceVersion: c.Version,
		Environment:    c.Environment,
		Endpoint:       endpoint,
		Insecure:       insecure,
	}
}

// Load reads the binary's configuration with ADAPTERS_* environment
// overrides, then applies defaults and validates it.
func Load(opts ...LoaderOption) (*Config, error) {
	var cfg Config
	opts = append([]LoaderOption{WithEnvPrefix("ADAPTERS")}, opts...)
	if err := LoadConfig("adapters", &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
