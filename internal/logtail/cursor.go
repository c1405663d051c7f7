package logtail

import (
	"io"
	"strconv"

	"github.com/plexsphere/weftctl/internal/page"
)

// LogBodyID is the id of the <tbody> holding the pre-rendered log rows.
const LogBodyID = "logBody"

// Cursor is the highest log row id already shown.
type Cursor int64

// InitialCursor returns the highest of ids, or 0 when ids is empty.
func InitialCursor(ids []int64) Cursor {
	var c Cursor
	for _, id := range ids {
		if Cursor(id) > c {
			c = Cursor(id)
		}
	}
	return c
}

// CursorFromPage derives the initial cursor from a rendered logs page. Rows
// of the table whose body is #logBody are used; when no such table exists
// every row carrying a data-id attribute counts. Non-numeric ids are
// ignored.
//
// The rendered page and /logs_tail are assumed to share one id space.
func CursorFromPage(r io.Reader) (Cursor, error) {
	tables, err := page.ParseTables(r)
	if err != nil {
		return 0, err
	}

	candidates := tables
	for _, t := range tables {
		if t.BodyIDs[LogBodyID] {
			candidates = []page.Table{t}
			break
		}
	}

	var ids []int64
	for _, t := range candidates {
		for _, row := range t.Rows {
			raw, ok := row.Attrs["data-id"]
			if !ok {
				continue
			}
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
				ids = append(ids, id)
			}
		}
	}
	return InitialCursor(ids), nil
}
