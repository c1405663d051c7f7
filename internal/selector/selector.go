// Package selector picks the most recently created user rule out of a
// rendered rule table.
package selector

import (
	"io"
	"strconv"
	"strings"

	"github.com/plexsphere/weftctl/internal/page"
	"github.com/plexsphere/weftctl/internal/rule"
)

// LocalhostComment marks the rule the dashboard injects to keep loopback
// traffic working.
const LocalhostComment = "Allow localhost"

// RequiredHeaders identifies the rules table among the tables of a page.
var RequiredHeaders = []string{"action", "proto", "dport"}

// minCells is the number of cells a rule row needs: id, action, proto, src,
// dst and dport. The comment column is optional.
const minCells = 6

// Row is one rendered rule row. ID is kept as text because rendered tables
// may carry non-numeric identifiers.
type Row struct {
	ID          string
	Action      string
	Protocol    string
	Source      string
	Destination string
	Port        string
	Comment     string
}

// IsSystemRule reports whether the row was injected by the dashboard rather
// than authored by a user.
func (r Row) IsSystemRule() bool {
	if r.Comment == LocalhostComment {
		return true
	}
	c := strings.ToLower(r.Comment)
	return strings.HasPrefix(c, "default allow") || strings.HasPrefix(c, "default deny")
}

// FindRulesTable returns the first table carrying every RequiredHeaders entry.
func FindRulesTable(tables []page.Table) (page.Table, bool) {
	for _, t := range tables {
		if t.HasHeaders(RequiredHeaders...) {
			return t, true
		}
	}
	return page.Table{}, false
}

// RowsFromTable converts table rows into rule rows, skipping rows with too
// few cells.
func RowsFromTable(t page.Table) []Row {
	var rows []Row
	for _, r := range t.Rows {
		if len(r.Cells) < minCells {
			continue
		}
		rows = append(rows, Row{
			ID:          r.Cell(0),
			Action:      r.Cell(1),
			Protocol:    r.Cell(2),
			Source:      orAny(r.Cell(3)),
			Destination: orAny(r.Cell(4)),
			Port:        orAny(r.Cell(5)),
			Comment:     r.Cell(6),
		})
	}
	return rows
}

// SelectNewest returns the user rule with the greatest numeric id. System
// rules and rows with non-numeric ids are skipped. ok is false when no
// eligible row exists; callers treat that as nothing to recommend.
func SelectNewest(rows []Row) (best rule.Descriptor, ok bool) {
	var bestID int64 = -1
	for _, r := range rows {
		id, err := strconv.ParseInt(strings.TrimSpace(r.ID), 10, 64)
		if err != nil {
			continue
		}
		if r.IsSystemRule() {
			continue
		}
		if id > bestID {
			bestID = id
			best = rule.Descriptor{
				ID:              id,
				Action:          r.Action,
				Protocol:        r.Protocol,
				Source:          r.Source,
				Destination:     r.Destination,
				DestinationPort: r.Port,
				Comment:         r.Comment,
			}
			ok = true
		}
	}
	return best, ok
}

// SelectNewestFromTables locates the rules table and selects its newest
// user rule.
func SelectNewestFromTables(tables []page.Table) (rule.Descriptor, bool) {
	t, found := FindRulesTable(tables)
	if !found {
		return rule.Descriptor{}, false
	}
	return SelectNewest(RowsFromTable(t))
}

// SelectNewestFromPage parses a rendered rules page. A parse failure is
// returned as an error; a page without a rules table or without user rules
// yields ok=false.
func SelectNewestFromPage(r io.Reader) (rule.Descriptor, bool, error) {
	tables, err := page.ParseTables(r)
	if err != nil {
		return rule.Descriptor{}, false, err
	}
	d, ok := SelectNewestFromTables(tables)
	return d, ok, nil
}

func orAny(v string) string {
	if v == "" {
		return rule.Any
	}
	return v
}
