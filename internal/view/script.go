package view

import (
	"strings"

	"github.com/plexsphere/weftctl/internal/probe"
	"github.com/plexsphere/weftctl/internal/rule"
)

// Script renders a probe script with comments dimmed and expectations
// coloured by outcome.
func Script(s probe.Script) string {
	lines := s.Lines()
	out := make([]string, len(lines))
	for i, l := range lines {
		switch l.Kind {
		case probe.Command:
			out[i] = StyleCommand.Render(l.String())
		case probe.Expectation:
			if l.Text == probe.ExpectAllowed {
				out[i] = StyleAccept.Render(l.String())
			} else {
				out[i] = StyleDrop.Render(l.String())
			}
		case probe.Comment:
			out[i] = StyleComment.Render(l.String())
		default:
			out[i] = ""
		}
	}
	return strings.Join(out, "\n")
}

// Rule renders a rule descriptor as a one-line summary.
func Rule(d rule.Descriptor) string {
	n := d.Normalized()
	action := StyleAccept.Render(string(n.Action))
	if n.Action == string(rule.Drop) {
		action = StyleDrop.Render(string(n.Action))
	}
	var b strings.Builder
	b.WriteString(action)
	b.WriteString(" proto=" + n.Protocol)
	b.WriteString(" src=" + n.Source)
	b.WriteString(" dst=" + n.Destination)
	b.WriteString(" dport=" + n.DestinationPort)
	if n.Comment != "" {
		b.WriteString(" " + StyleComment.Render("("+n.Comment+")"))
	}
	return b.String()
}
