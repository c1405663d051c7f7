package logtail

import (
	"encoding/json"
	"testing"
)

func rawRow(t *testing.T, s string) []json.RawMessage {
	t.Helper()
	var fields []json.RawMessage
	if err := json.Unmarshal([]byte(s), &fields); err != nil {
		t.Fatalf("unmarshal %s: %v", s, err)
	}
	return fields
}

func TestDecodeRow(t *testing.T) {
	row, err := DecodeRow(rawRow(t, `[7, "2026-01-02 10:00:00", "DROP", "tcp", "10.0.0.1", "8.8.8.8", 51000, 443, "blocked"]`))
	if err != nil {
		t.Fatalf("DecodeRow: %v", err)
	}
	want := Row{
		ID: 7, Timestamp: "2026-01-02 10:00:00", Verdict: "DROP", Protocol: "tcp",
		Source: "10.0.0.1", Destination: "8.8.8.8", SourcePort: "51000", DestinationPort: "443",
		Note: "blocked",
	}
	if row.ID != want.ID || row.Timestamp != want.Timestamp || row.Verdict != want.Verdict ||
		row.Protocol != want.Protocol || row.Source != want.Source || row.Destination != want.Destination ||
		row.SourcePort != want.SourcePort || row.DestinationPort != want.DestinationPort || row.Note != want.Note {
		t.Errorf("DecodeRow = %+v, want %+v", row, want)
	}
	if len(row.Extra) != 0 {
		t.Errorf("Extra = %v, want none", row.Extra)
	}
}

func TestDecodeRow_NullsAndShortRows(t *testing.T) {
	row, err := DecodeRow(rawRow(t, `[3, "ts", "ACCEPT", "icmp", "1.1.1.1", "2.2.2.2", null, null]`))
	if err != nil {
		t.Fatalf("DecodeRow: %v", err)
	}
	if row.SourcePort != "" || row.DestinationPort != "" || row.Note != "" {
		t.Errorf("null fields = %q/%q/%q, want empty", row.SourcePort, row.DestinationPort, row.Note)
	}
}

func TestDecodeRow_Extra(t *testing.T) {
	row, err := DecodeRow(rawRow(t, `[1, "", "", "", "", "", "", "", "", "eth0", 64]`))
	if err != nil {
		t.Fatalf("DecodeRow: %v", err)
	}
	if len(row.Extra) != 2 || row.Extra[0] != "eth0" || row.Extra[1] != "64" {
		t.Errorf("Extra = %v, want [eth0 64]", row.Extra)
	}
}

func TestDecodeRow_StringID(t *testing.T) {
	row, err := DecodeRow(rawRow(t, `["12", "ts"]`))
	if err != nil {
		t.Fatalf("DecodeRow: %v", err)
	}
	if row.ID != 12 {
		t.Errorf("ID = %d, want 12", row.ID)
	}
}

func TestDecodeRow_Invalid(t *testing.T) {
	for _, s := range []string{`[]`, `["abc"]`, `[null]`, `[1.5]`} {
		if _, err := DecodeRow(rawRow(t, s)); err == nil {
			t.Errorf("DecodeRow(%s) = nil error, want error", s)
		}
	}
}
