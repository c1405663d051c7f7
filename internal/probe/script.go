package probe

import "strings"

// LineKind classifies a script line.
type LineKind int

const (
	// Command is an executable shell command.
	Command LineKind = iota
	// Comment is an informational, non-executable line.
	Comment
	// Expectation is a comment stating the predicted outcome of the
	// preceding command.
	Expectation
	// Blank separates groups of lines.
	Blank
)

// commentMarker prefixes non-executable lines in the rendered script.
const commentMarker = "# "

// Line is a single line of a probe script.
type Line struct {
	Kind LineKind
	Text string
}

// String renders the line as it appears in the script text.
func (l Line) String() string {
	switch l.Kind {
	case Comment, Expectation:
		return commentMarker + l.Text
	case Blank:
		return ""
	default:
		return l.Text
	}
}

// Script is an ordered probe script. A Script is immutable once returned by
// the engine; Lines returns a copy.
type Script struct {
	// Recipe names the match rule that produced the script.
	Recipe string

	lines []Line
}

// Lines returns a copy of the script lines.
func (s Script) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Commands returns the executable lines in order.
func (s Script) Commands() []string {
	var cmds []string
	for _, l := range s.lines {
		if l.Kind == Command {
			cmds = append(cmds, l.Text)
		}
	}
	return cmds
}

// String renders the full script, one line per row.
func (s Script) String() string {
	rows := make([]string, len(s.lines))
	for i, l := range s.lines {
		rows[i] = l.String()
	}
	return strings.Join(rows, "\n")
}

// Executable renders only the command lines, ready to paste into a shell.
func (s Script) Executable() string {
	return strings.Join(s.Commands(), "\n")
}

// ParseScript classifies the lines of a rendered script. Comment lines that
// follow a command are read back as expectations.
func ParseScript(text string) Script {
	var lines []Line
	afterCommand := false
	for _, row := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(row)
		switch {
		case trimmed == "":
			lines = append(lines, Line{Kind: Blank})
		case strings.HasPrefix(trimmed, "#"):
			body := strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
			kind := Comment
			if afterCommand {
				kind = Expectation
				afterCommand = false
			}
			lines = append(lines, Line{Kind: kind, Text: body})
		default:
			lines = append(lines, Line{Kind: Command, Text: trimmed})
			afterCommand = true
		}
	}
	return Script{lines: lines}
}
