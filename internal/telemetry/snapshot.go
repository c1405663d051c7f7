package telemetry

import (
	"fmt"
	"strings"

	"github.com/plexsphere/weftctl/internal/api"
)

// Server-side defaults for the DOS thresholds, used when /stats omits them.
const (
	DefaultWarnThreshold int64 = 50
	DefaultDropThreshold int64 = 110
)

// DOSState summarizes recent traffic rate against the thresholds.
type DOSState int

const (
	StateNormal DOSState = iota
	StateWarn
	StateDrop
)

// String returns the state name.
func (s DOSState) String() string {
	switch s {
	case StateWarn:
		return "warn"
	case StateDrop:
		return "drop"
	default:
		return "normal"
	}
}

// ParseDOSState maps the server's dos_state field. Anything other than
// "warn" or "drop" is normal.
func ParseDOSState(raw string) DOSState {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "warn":
		return StateWarn
	case "drop":
		return StateDrop
	default:
		return StateNormal
	}
}

// Snapshot is one successful /stats poll.
type Snapshot struct {
	Total            int64
	Accepted         int64
	Dropped          int64
	PacketsPerSecond float64
	WarnThreshold    int64 // server suggestion
	DropThreshold    int64 // server suggestion
	State            DOSState
}

// SnapshotFromStats converts a /stats response. The total falls back to the
// legacy packets field; missing counters read as zero and negative values
// are clamped.
func SnapshotFromStats(s *api.StatsResponse) Snapshot {
	if s == nil {
		return Snapshot{WarnThreshold: DefaultWarnThreshold, DropThreshold: DefaultDropThreshold}
	}
	total := s.Total
	if total == nil {
		total = s.Packets
	}
	snap := Snapshot{
		Total:         nonNeg(total, 0),
		Accepted:      nonNeg(s.Accept, 0),
		Dropped:       nonNeg(s.Drop, 0),
		WarnThreshold: nonNeg(s.Warn5s, DefaultWarnThreshold),
		DropThreshold: nonNeg(s.Drop5s, DefaultDropThreshold),
		State:         ParseDOSState(s.DOSState),
	}
	if s.PPS != nil && *s.PPS > 0 {
		snap.PacketsPerSecond = *s.PPS
	}
	return snap
}

func nonNeg(v *int64, def int64) int64 {
	if v == nil {
		return def
	}
	if *v < 0 {
		return 0
	}
	return *v
}

// Threshold is an input field that is either empty or holds a value.
type Threshold struct {
	Value int64
	Set   bool
}

// String renders the field, empty when unset.
func (t Threshold) String() string {
	if !t.Set {
		return ""
	}
	return fmt.Sprint(t.Value)
}

// Bounds the dashboard enforces on stored DOS thresholds.
const (
	MinThreshold = 10
	MaxThreshold = 2000

	// thresholdGap is added to warn when drop would not exceed it.
	thresholdGap = 10
)

// ClampThresholds applies the dashboard's storage rules to a warn/drop
// pair: both are clamped to [MinThreshold, MaxThreshold] and drop is raised
// to warn+10 unless it is already above warn.
func ClampThresholds(warn, drop int64) (int64, int64) {
	warn = min(max(warn, MinThreshold), MaxThreshold)
	drop = min(max(drop, MinThreshold), MaxThreshold)
	if drop <= warn {
		drop = warn + thresholdGap
	}
	return warn, drop
}
