package rule

import (
	"strconv"
	"strings"
	"unicode"
)

// Any is the canonical token for an unconstrained field.
const Any = "any"

// Normalize trims and lowercases raw. The empty string, "any" and "*" all
// map to Any. Unknown tokens are returned lowercased and trimmed.
func Normalize(raw string) string {
	v := strings.ToLower(trim(raw))
	switch v {
	case "", Any, "*":
		return Any
	}
	return v
}

// IsAny reports whether raw normalizes to Any.
func IsAny(raw string) bool {
	return Normalize(raw) == Any
}

// NormalizeAction maps "drop" (any case) to Drop and everything else to Accept.
func NormalizeAction(raw string) Action {
	if Normalize(raw) == "drop" {
		return Drop
	}
	return Accept
}

// ParsePort returns the concrete port encoded in raw. Non-numeric or out of
// range values are treated as Any and reported with ok=false.
func ParsePort(raw string) (port int, ok bool) {
	v := Normalize(raw)
	if v == Any {
		return 0, false
	}
	p, err := strconv.Atoi(v)
	if err != nil || p < 0 || p > 65535 {
		return 0, false
	}
	return p, true
}

// shellSeparators are characters that end or chain a shell command.
const shellSeparators = ";|&`$<>()"

// IsPlain reports whether raw is a single shell word that can be pasted into
// a command line as is: non-empty, without whitespace, control characters,
// quotes or shell separators.
func IsPlain(raw string) bool {
	if raw == "" {
		return false
	}
	for _, r := range raw {
		if unicode.IsSpace(r) || unicode.IsControl(r) || r == '"' || r == '\'' || r == '\\' {
			return false
		}
		if strings.ContainsRune(shellSeparators, r) {
			return false
		}
	}
	return true
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
