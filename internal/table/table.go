package table

import (
	"time"
)

// Table is an in-memory string-valued table with an ordered header.
// Rows are aligned to Headers; Timestamps, when non-nil, is a parallel
// column of derived instants (second precision) aligned to Rows.
type Table struct {
	// Source is the originating filename, carried for diagnostics only.
	Source string

	Headers    []string
	Rows       [][]string
	Timestamps []time.Time
}

// New creates an empty table for the given source filename.
func New(source string, headers []string) *Table {
	return &Table{
		Source:  source,
		Headers: headers,
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// IsEmpty reports whether the table has no data rows.
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, col), or "" when the row is ragged.
func (t *Table) Cell(row, col int) string {
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// AppendRow adds a row, padding or truncating it to the header width.
func (t *Table) AppendRow(row []string) {
	if len(row) < len(t.Headers) {
		padded := make([]string, len(t.Headers))
		copy(padded, row)
		row = padded
	} else if len(row) > len(t.Headers) {
		row = row[:len(t.Headers)]
	}
	t.Rows = append(t.Rows, row)
}
