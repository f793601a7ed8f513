// Package dataset loads tabular procurement exports and normalizes them for
// the aggregation pipeline. The loaders produce an in-memory Table; dataset
// acquisition (download, caching) is the caller's responsibility.
package dataset

import (
	"strings"

	"github.com/rotisserie/eris"
)

// ErrMissingColumn indicates a resolved column name does not exist in the
// loaded dataset.
var ErrMissingColumn = eris.New("dataset: required column not found")

// Table is a rows-by-named-columns dataset. Column names are lower-cased at
// construction, mirroring how SECOP exports are normalized before schema
// resolution. Rows may be ragged; missing cells read as empty strings.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewTable builds a Table from a header row and data rows.
func NewTable(columns []string, rows [][]string) *Table {
	normalized := make([]string, len(columns))
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		name := strings.ToLower(strings.TrimSpace(col))
		normalized[i] = name
		// First occurrence wins on duplicate headers.
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}
	return &Table{Columns: normalized, Rows: rows, index: index}
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// HasColumn reports whether the table has a column with the given
// (lower-cased) name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Cell returns the value at (row, column name). Out-of-range cells on ragged
// rows return the empty string.
func (t *Table) Cell(row int, col string) string {
	idx, ok := t.index[col]
	if !ok || row < 0 || row >= len(t.Rows) {
		return ""
	}
	cells := t.Rows[row]
	if idx >= len(cells) {
		return ""
	}
	return cells[idx]
}
