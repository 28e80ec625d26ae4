package core

import (
	"fmt"
	"strings"
)

// Table is an in-memory tabular dataset as read from a source.
//
// A Table is immutable once built: accessors return copies, and every
// downstream step (classification, reshaping, filtering) produces new values
// instead of editing the table.
type Table struct {
	source  string
	columns []string
	rows    [][]string
	index   HeaderIndex
}

// NewTable builds a Table from a header row and data rows.
// Header cells are cleaned; data rows shorter than the header are padded
// with empty cells and longer rows are truncated.
func NewTable(source string, header []string, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("empty header")
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = CleanHeader(h)
	}

	normalized := make([][]string, 0, len(rows))
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		r := make([]string, len(columns))
		copy(r, row)
		for i := range r {
			r[i] = strings.TrimSpace(r[i])
		}
		normalized = append(normalized, r)
	}

	return &Table{
		source:  source,
		columns: columns,
		rows:    normalized,
		index:   MakeHeaderIndex(columns),
	}, nil
}

// Source returns the identifier of the source the table was read from.
func (t *Table) Source() string { return t.source }

// Columns returns a copy of the column names in header order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Cell returns the value at row i, column j.
func (t *Table) Cell(i, j int) string {
	if i < 0 || i >= len(t.rows) || j < 0 || j >= len(t.columns) {
		return ""
	}
	return t.rows[i][j]
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []string {
	out := make([]string, len(t.columns))
	copy(out, t.rows[i])
	return out
}

// ColumnIndex returns the position of a column by case-insensitive name.
func (t *Table) ColumnIndex(name string) (int, bool) {
	pos, ok := t.index[strings.ToLower(CleanHeader(name))]
	return pos, ok
}

// Head returns up to n rows for preview display.
func (t *Table) Head(n int) [][]string {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		out[i] = t.Row(i)
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
