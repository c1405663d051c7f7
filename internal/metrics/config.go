// Package metrics exposes weftctl's own Prometheus metrics endpoint.
package metrics

import (
	"errors"
	"net"
	"strings"
	"time"
)

// DefaultPath is the default HTTP path metrics are served on.
const DefaultPath = "/metrics"

// DefaultShutdownTimeout bounds graceful shutdown of the metrics server.
const DefaultShutdownTimeout = 5 * time.Second

// Config holds the configuration for the metrics endpoint.
type Config struct {
	// ListenAddr is the TCP address to serve metrics on, e.g. "127.0.0.1:9477".
	// Empty disables the endpoint.
	ListenAddr string `yaml:"listen_addr"`

	// Path is the HTTP path metrics are served on.
	// Default: /metrics
	Path string `yaml:"path"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 5s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Path == "" {
		c.Path = DefaultPath
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
}

// Enabled reports whether the endpoint should be served.
func (c *Config) Enabled() bool {
	return c.ListenAddr != ""
}

// Validate checks that configuration values are acceptable.
func (c *Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
		return errors.New("metrics: config: ListenAddr must be host:port")
	}
	if !strings.HasPrefix(c.Path, "/") {
		return errors.New("metrics: config: Path must start with /")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("metrics: config: ShutdownTimeout must be positive")
	}
	return nil
}
