package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/plexsphere/weftctl/internal/telemetry"
)

// Telemetry renders the counter panel. Every numeric field reads as
// Unavailable while the display is degraded.
func Telemetry(d telemetry.Display) string {
	value := func(v string) string {
		if !d.Available {
			return StyleUnavailable.Render(Unavailable)
		}
		return StyleValue.Render(v)
	}

	rows := []string{
		StyleTitle.Render("Packets"),
		field("total", value(fmt.Sprint(d.Headline))),
		field("accept", value(fmt.Sprint(d.Accepted))),
		field("drop", value(fmt.Sprint(d.Dropped))),
		field("pps", value(fmt.Sprintf("%.2f", d.PPS))),
		field("warn/5s", threshold(d.WarnThreshold)),
		field("drop/5s", threshold(d.DropThreshold)),
		field("dos", DOSState(d)),
	}
	return StyleCard.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// StatusLine renders the counters on a single line.
func StatusLine(d telemetry.Display) string {
	if !d.Available {
		return strings.Join([]string{
			"total=" + Unavailable,
			"accept=" + Unavailable,
			"drop=" + Unavailable,
			"pps=" + Unavailable,
			"dos=" + Unavailable,
		}, " ")
	}
	return fmt.Sprintf("total=%d accept=%d drop=%d pps=%.2f dos=%s",
		d.Headline, d.Accepted, d.Dropped, d.PPS, d.State)
}

// DOSState renders the three-valued indicator.
func DOSState(d telemetry.Display) string {
	if !d.Available {
		return StyleUnavailable.Render(Unavailable)
	}
	switch d.State {
	case telemetry.StateDrop:
		return StyleDrop.Render("DROP")
	case telemetry.StateWarn:
		return StyleWarn.Render("WARN")
	default:
		return StyleAccept.Render("normal")
	}
}

func threshold(t telemetry.Threshold) string {
	if !t.Set {
		return StyleUnavailable.Render(Unavailable)
	}
	return StyleValue.Render(t.String())
}

func field(label, value string) string {
	return StyleLabel.Width(9).Render(label) + value
}
