package config

import (
	"fmt"

	"github.com/plexsphere/weftctl/internal/api"
	"github.com/plexsphere/weftctl/internal/logtail"
	"github.com/plexsphere/weftctl/internal/probe"
	"github.com/plexsphere/weftctl/internal/telemetry"
)

// GenerateDefault produces a starter config.yaml. If baseURL is empty the
// dashboard address is left commented out at its default.
func GenerateDefault(baseURL string) string {
	apiLine := "  # base_url: " + api.DefaultBaseURL
	if baseURL != "" {
		apiLine = "  base_url: " + baseURL
	}

	return fmt.Sprintf(`# weftctl configuration
# Every option may be omitted; the values below are the defaults.

log_level: %s

api:
%s
  request_timeout: %s

probe:
  fallback_target: %s

telemetry:
  interval: %s
  # warn_threshold: 0
  # drop_threshold: 0

log_tail:
  interval: %s

metrics:
  # listen_addr: 127.0.0.1:9477
`, DefaultLogLevel, apiLine, api.DefaultRequestTimeout, probe.DefaultFallbackTarget,
		telemetry.DefaultInterval, logtail.DefaultInterval)
}
