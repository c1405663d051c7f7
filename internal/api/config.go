package api

import (
	"errors"
	"net/url"
	"time"
)

// Config holds the configuration for the Dashboard client.
// Config is passed as a constructor argument; this package does no file I/O.
type Config struct {
	// BaseURL is the dashboard base URL.
	// Default: http://127.0.0.1:5000
	BaseURL string `yaml:"base_url"`

	// ConnectTimeout is the maximum time to wait for a TCP connection.
	// Default: 3s
	ConnectTimeout time.Duration `yaml:"connect_timeout"`

	// RequestTimeout is the maximum time for a complete HTTP request/response cycle.
	// It should stay below the poll intervals so a slow server cannot stack polls.
	// Default: 5s
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// DefaultBaseURL is the address the dashboard server listens on by default.
const DefaultBaseURL = "http://127.0.0.1:5000"

// DefaultConnectTimeout is the default TCP connect timeout.
const DefaultConnectTimeout = 3 * time.Second

// DefaultRequestTimeout is the default HTTP request timeout.
const DefaultRequestTimeout = 5 * time.Second

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
}

// Validate checks that required fields are set.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("api: config: BaseURL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("api: config: BaseURL must be an absolute http(s) URL")
	}
	if c.ConnectTimeout < 0 || c.RequestTimeout < 0 {
		return errors.New("api: config: timeouts must not be negative")
	}
	return nil
}
