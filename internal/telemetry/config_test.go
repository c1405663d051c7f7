package telemetry

import (
	"testing"
	"time"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Interval != 2*time.Second {
		t.Errorf("Interval = %v, want 2s", cfg.Interval)
	}
	if cfg.AnimationTick != 40*time.Millisecond {
		t.Errorf("AnimationTick = %v, want 40ms", cfg.AnimationTick)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"interval too short", Config{Interval: 10 * time.Millisecond, AnimationTick: time.Millisecond}},
		{"zero tick", Config{Interval: time.Second}},
		{"tick not shorter", Config{Interval: time.Second, AnimationTick: time.Second}},
		{"negative threshold", Config{Interval: time.Second, AnimationTick: time.Millisecond, WarnThreshold: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
