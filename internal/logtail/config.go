// Package logtail incrementally follows the dashboard's packet log.
package logtail

import (
	"errors"
	"time"
)

// DefaultInterval is the default time between /logs_tail polls.
const DefaultInterval = 2 * time.Second

// Config holds the configuration for log tailing.
type Config struct {
	// Interval is the time between polls.
	// Default: 2s
	Interval time.Duration `yaml:"interval"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
}

// Validate checks that configuration values are acceptable.
func (c *Config) Validate() error {
	if c.Interval < 250*time.Millisecond {
		return errors.New("logtail: config: Interval must be at least 250ms")
	}
	return nil
}
