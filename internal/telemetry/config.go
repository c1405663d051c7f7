// Package telemetry merges polled dashboard counters into the values a
// client displays.
package telemetry

import (
	"errors"
	"time"
)

// DefaultInterval is the default time between /stats polls.
const DefaultInterval = 2 * time.Second

// DefaultAnimationTick is the default time between headline animation frames.
const DefaultAnimationTick = 40 * time.Millisecond

// Config holds the configuration for telemetry polling.
type Config struct {
	// Interval is the time between polls.
	// Default: 2s
	Interval time.Duration `yaml:"interval"`

	// AnimationTick is the time between headline counter animation frames.
	// Default: 40ms
	AnimationTick time.Duration `yaml:"animation_tick"`

	// WarnThreshold and DropThreshold are user-entered DOS thresholds
	// (packets per 5s window). Zero leaves the field empty so the server's
	// suggestion is shown instead.
	WarnThreshold int64 `yaml:"warn_threshold"`
	DropThreshold int64 `yaml:"drop_threshold"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
	if c.AnimationTick == 0 {
		c.AnimationTick = DefaultAnimationTick
	}
}

// Validate checks that configuration values are acceptable.
func (c *Config) Validate() error {
	if c.Interval < 250*time.Millisecond {
		return errors.New("telemetry: config: Interval must be at least 250ms")
	}
	if c.AnimationTick <= 0 {
		return errors.New("telemetry: config: AnimationTick must be positive")
	}
	if c.AnimationTick >= c.Interval {
		return errors.New("telemetry: config: AnimationTick must be shorter than Interval")
	}
	if c.WarnThreshold < 0 || c.DropThreshold < 0 {
		return errors.New("telemetry: config: thresholds must not be negative")
	}
	return nil
}
