// Package config loads the weftctl configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/plexsphere/weftctl/internal/api"
	"github.com/plexsphere/weftctl/internal/handoff"
	"github.com/plexsphere/weftctl/internal/logtail"
	"github.com/plexsphere/weftctl/internal/metrics"
	"github.com/plexsphere/weftctl/internal/probe"
	"github.com/plexsphere/weftctl/internal/telemetry"
)

// DefaultLogLevel is the default log level.
const DefaultLogLevel = "info"

// Config is the top-level weftctl configuration. It aggregates the
// per-package configurations and is populated from YAML via ParseConfig.
type Config struct {
	// LogLevel is the log level: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	API       api.Config       `yaml:"api"`
	Probe     probe.Config     `yaml:"probe"`
	Telemetry telemetry.Config `yaml:"telemetry"`
	LogTail   logtail.Config   `yaml:"log_tail"`
	Handoff   handoff.Config   `yaml:"handoff"`
	Metrics   metrics.Config   `yaml:"metrics"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.ApplyDefaults()
	return &cfg
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.API.ApplyDefaults()
	c.Probe.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
	c.LogTail.ApplyDefaults()
	c.Handoff.ApplyDefaults()
	c.Metrics.ApplyDefaults()
}

// Validate checks that values are acceptable.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log_level %q (must be debug, info, warn or error)", c.LogLevel)
	}
	if err := c.API.Validate(); err != nil {
		return err
	}
	if err := c.Probe.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	if err := c.LogTail.Validate(); err != nil {
		return err
	}
	if err := c.Handoff.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	return nil
}

// DefaultPath returns the per-user configuration file location,
// normally ~/.config/weftctl/config.yaml. It is empty when no user
// configuration directory can be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "weftctl", "config.yaml")
}

// ParseConfig reads a YAML configuration file, applies defaults and
// validates the result.
func ParseConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load is ParseConfig for an optional file: a missing file yields the
// defaults. An empty path also yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	cfg, err := ParseConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}
