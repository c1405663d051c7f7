// Package probe derives human-runnable diagnostic command sequences that
// verify whether a firewall rule behaves as configured.
package probe

import (
	"errors"
	"strings"

	"github.com/plexsphere/weftctl/internal/rule"
)

// DefaultFallbackTarget is probed when a rule's destination is unconstrained.
// It is a public DNS resolver that answers ping, DNS and HTTPS reachability
// checks from almost any network.
const DefaultFallbackTarget = "8.8.8.8"

// Config holds the configuration for the recommendation engine.
type Config struct {
	// FallbackTarget is the address substituted for an "any" destination.
	// Default: 8.8.8.8
	FallbackTarget string `yaml:"fallback_target"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.FallbackTarget == "" {
		c.FallbackTarget = DefaultFallbackTarget
	}
}

// Validate checks that configuration values are acceptable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.FallbackTarget) == "" {
		return errors.New("probe: config: FallbackTarget must not be empty")
	}
	if !rule.IsPlain(c.FallbackTarget) {
		return errors.New("probe: config: FallbackTarget must be a single address")
	}
	return nil
}
