package view

import (
	"strings"

	"github.com/plexsphere/weftctl/internal/logtail"
)

// LogRow renders one packet log entry as a single line.
func LogRow(r logtail.Row) string {
	parts := []string{
		StyleLabel.Render(orDash(r.Timestamp)),
		Verdict(r.Verdict),
		orDash(r.Protocol),
		orDash(r.Source) + " → " + orDash(r.Destination),
		orDash(r.SourcePort),
		orDash(r.DestinationPort),
	}
	if r.Note != "" {
		parts = append(parts, StyleComment.Render(r.Note))
	}
	if len(r.Extra) > 0 {
		parts = append(parts, StyleComment.Render(strings.Join(r.Extra, " ")))
	}
	return strings.Join(parts, "  ")
}

// LogRows renders rows one per line.
func LogRows(rows []logtail.Row) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = LogRow(r)
	}
	return strings.Join(lines, "\n")
}

// Verdict colours a packet verdict.
func Verdict(v string) string {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "ACCEPT":
		return StyleAccept.Render("ACCEPT")
	case "DROP":
		return StyleDrop.Render("DROP")
	default:
		return orDash(v)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
