package api

import "encoding/json"

// StatsResponse is the body of GET /stats. Fields are pointers so callers can
// tell an absent counter from a zero one.
type StatsResponse struct {
	Total    *int64   `json:"total,omitempty"`
	Packets  *int64   `json:"packets,omitempty"` // older servers report the total here
	Accept   *int64   `json:"accept,omitempty"`
	Drop     *int64   `json:"drop,omitempty"`
	PPS      *float64 `json:"pps,omitempty"`
	Warn5s   *int64   `json:"warn_5s,omitempty"`
	Drop5s   *int64   `json:"drop_5s,omitempty"`
	DOSState string   `json:"dos_state,omitempty"`
}

// LogsTailResponse is the body of GET /logs_tail. Each row is a positional
// tuple: id, ts, verdict, proto, src, dst, sport, dport, note.
type LogsTailResponse struct {
	Rows [][]json.RawMessage `json:"rows"`
}
