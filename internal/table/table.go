// Package table provides the column-ordered result set passed between the
// query executors, the result cache, and the derived-field and aggregation
// engines.
package table

import (
	"encoding/json"
	"fmt"
	"time"
)

// Table is an ordered set of named columns over scalar-valued rows.
// Cell values are float64, string, time.Time, bool, or nil (NULL).
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]any
}

// New creates an empty table with the given column names.
func New(cols ...string) *Table {
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c] = i
	}
	return &Table{cols: append([]string(nil), cols...), index: index}
}

// AppendRow adds a row. The number of values must match the column count.
func (t *Table) AppendRow(vals ...any) error {
	if len(vals) != len(t.cols) {
		return fmt.Errorf("append row: got %d values, table has %d columns", len(vals), len(t.cols))
	}
	t.rows = append(t.rows, vals)
	return nil
}

// MustAppendRow is AppendRow for fixture construction; panics on arity mismatch.
func (t *Table) MustAppendRow(vals ...any) {
	if err := t.AppendRow(vals...); err != nil {
		panic(err)
	}
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(col string) bool {
	_, ok := t.index[col]
	return ok
}

// NumRows returns the row count.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return len(t.rows) == 0
}

// Value returns the raw cell value, or nil if the column does not exist.
func (t *Table) Value(row int, col string) any {
	i, ok := t.index[col]
	if !ok || row < 0 || row >= len(t.rows) {
		return nil
	}
	return t.rows[row][i]
}

// Float returns the cell as a float64. The second return is false for NULL,
// missing columns, and non-numeric values.
func (t *Table) Float(row int, col string) (float64, bool) {
	switch v := t.Value(row, col).(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// String returns the cell as a string. The second return is false for NULL,
// missing columns, and non-string values.
func (t *Table) String(row int, col string) (string, bool) {
	s, ok := t.Value(row, col).(string)
	return s, ok
}

// Time returns the cell as a time.Time. The second return is false for NULL,
// missing columns, and non-time values.
func (t *Table) Time(row int, col string) (time.Time, bool) {
	ts, ok := t.Value(row, col).(time.Time)
	return ts, ok
}

// WithColumn returns a copy of the table with an extra column appended.
// vals must have one entry per row; nil entries represent NULL.
func (t *Table) WithColumn(col string, vals []any) (*Table, error) {
	if len(vals) != len(t.rows) {
		return nil, fmt.Errorf("with column %s: got %d values, table has %d rows", col, len(vals), len(t.rows))
	}
	if t.HasColumn(col) {
		return nil, fmt.Errorf("with column %s: column already exists", col)
	}
	out := New(append(t.Columns(), col)...)
	for i, row := range t.rows {
		next := make([]any, 0, len(row)+1)
		next = append(next, row...)
		next = append(next, vals[i])
		out.rows = append(out.rows, next)
	}
	return out, nil
}

// Select returns a new table containing the rows at the given indices, in the
// given order. Rows share cell values with the receiver; cells are never
// mutated after construction.
func (t *Table) Select(indices []int) *Table {
	out := New(t.cols...)
	for _, i := range indices {
		if i >= 0 && i < len(t.rows) {
			out.rows = append(out.rows, t.rows[i])
		}
	}
	return out
}

// Row returns a copy of the row's cell values.
func (t *Table) Row(row int) []any {
	if row < 0 || row >= len(t.rows) {
		return nil
	}
	return append([]any(nil), t.rows[row]...)
}

// MarshalJSON encodes the table as {"columns": [...], "rows": [[...], ...]}.
func (t *Table) MarshalJSON() ([]byte, error) {
	rows := t.rows
	if rows == nil {
		rows = [][]any{}
	}
	return json.Marshal(struct {
		Columns []string `json:"columns"`
		Rows    [][]any  `json:"rows"`
	}{Columns: t.cols, Rows: rows})
}
