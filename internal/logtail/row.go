package logtail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Row is one packet log entry.
type Row struct {
	ID              int64
	Timestamp       string
	Verdict         string
	Protocol        string
	Source          string
	Destination     string
	SourcePort      string
	DestinationPort string
	Note            string

	// Extra holds trailing fields newer servers may append.
	Extra []string
}

// positional field order of a /logs_tail row
const (
	fieldID = iota
	fieldTimestamp
	fieldVerdict
	fieldProtocol
	fieldSource
	fieldDestination
	fieldSourcePort
	fieldDestinationPort
	fieldNote
	knownFields
)

// DecodeRow converts a positional /logs_tail tuple. Only the id is
// required; missing or null fields decode as empty strings.
func DecodeRow(fields []json.RawMessage) (Row, error) {
	if len(fields) == 0 {
		return Row{}, fmt.Errorf("logtail: decode row: empty row")
	}
	idText := fieldText(fields[fieldID])
	id, err := strconv.ParseInt(idText, 10, 64)
	if err != nil {
		return Row{}, fmt.Errorf("logtail: decode row: id %q: %w", idText, err)
	}

	at := func(i int) string {
		if i >= len(fields) {
			return ""
		}
		return fieldText(fields[i])
	}
	row := Row{
		ID:              id,
		Timestamp:       at(fieldTimestamp),
		Verdict:         at(fieldVerdict),
		Protocol:        at(fieldProtocol),
		Source:          at(fieldSource),
		Destination:     at(fieldDestination),
		SourcePort:      at(fieldSourcePort),
		DestinationPort: at(fieldDestinationPort),
		Note:            at(fieldNote),
	}
	for i := knownFields; i < len(fields); i++ {
		row.Extra = append(row.Extra, fieldText(fields[i]))
	}
	return row, nil
}

// fieldText renders a JSON scalar as text: strings are unquoted, null is
// empty and anything else is kept verbatim.
func fieldText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return strings.TrimSpace(s)
		}
	}
	return string(raw)
}
