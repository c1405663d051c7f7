// Package page extracts tables from rendered dashboard pages.
package page

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Row is a table row: its cell texts and the attributes of its <tr> element.
type Row struct {
	Cells []string
	Attrs map[string]string
}

// Cell returns the trimmed text of cell i, or "" when the row is shorter.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}

// Table is a rendered HTML table.
type Table struct {
	Headers []string // lowercased header texts
	Rows    []Row    // data rows (rows without <td> cells are skipped)
	BodyIDs map[string]bool
}

// HasHeaders reports whether every name appears among the table headers.
func (t Table) HasHeaders(names ...string) bool {
	for _, n := range names {
		found := false
		for _, h := range t.Headers {
			if h == n {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ParseTables parses an HTML document and returns its tables in document order.
func ParseTables(r io.Reader) ([]Table, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("page: parse html: %w", err)
	}
	var tables []Table
	walk(doc, func(n *html.Node) bool {
		if n.DataAtom != atom.Table {
			return true
		}
		tables = append(tables, parseTable(n))
		// Nested tables are not part of the dashboard layout.
		return false
	})
	return tables, nil
}

func parseTable(n *html.Node) Table {
	t := Table{
		BodyIDs: map[string]bool{},
	}
	walk(n, func(c *html.Node) bool {
		switch c.DataAtom {
		case atom.Th:
			t.Headers = append(t.Headers, strings.ToLower(text(c)))
			return false
		case atom.Tbody:
			if id := attr(c, "id"); id != "" {
				t.BodyIDs[id] = true
			}
		case atom.Tr:
			if row, ok := parseRow(c); ok {
				t.Rows = append(t.Rows, row)
			}
			for h := c.FirstChild; h != nil; h = h.NextSibling {
				if h.DataAtom == atom.Th {
					t.Headers = append(t.Headers, strings.ToLower(text(h)))
				}
			}
			return false
		}
		return true
	})
	return t
}

func parseRow(tr *html.Node) (Row, bool) {
	row := Row{Attrs: map[string]string{}}
	for _, a := range tr.Attr {
		row.Attrs[a.Key] = a.Val
	}
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.DataAtom == atom.Td {
			row.Cells = append(row.Cells, text(c))
		}
	}
	return row, len(row.Cells) > 0
}

// walk visits n and its descendants depth first. Returning false from fn
// skips the children of the visited node.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if n.Type == html.ElementNode && !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// text returns the whitespace-collapsed text content of n.
func text(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteByte(' ')
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			collect(k)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
