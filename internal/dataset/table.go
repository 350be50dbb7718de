package dataset

import (
	"fmt"

	"salescli/internal/errors"
)

// Table is an ordered sequence of rows sharing one column schema. Columns may
// carry an ordered categorical level set as first-class metadata; the levels
// survive concatenation, joins, and aggregation so level-order sorting never
// depends on when a column was tagged.
//
// Tables are built with AppendRow and treated as immutable afterwards: every
// transform returns a new Table and never mutates its inputs.
type Table struct {
	cols   []string
	index  map[string]int
	levels map[string][]string
	rows   [][]Value
}

// New creates an empty table with the given column names.
// Column names must be non-empty and unique.
func New(columns ...string) (*Table, error) {
	t := &Table{
		cols:   make([]string, 0, len(columns)),
		index:  make(map[string]int, len(columns)),
		levels: make(map[string][]string),
	}
	for _, name := range columns {
		if name == "" {
			return nil, errors.NewSchemaError("empty column name", nil)
		}
		if _, exists := t.index[name]; exists {
			return nil, errors.NewSchemaError(fmt.Sprintf("duplicate column name %q", name), nil)
		}
		t.index[name] = len(t.cols)
		t.cols = append(t.cols, name)
	}
	return t, nil
}

// MustNew is New for statically known column sets, typically in tests
func MustNew(columns ...string) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// NumRows returns the row count
func (t *Table) NumRows() int {
	return len(t.rows)
}

// NumCols returns the column count
func (t *Table) NumCols() int {
	return len(t.cols)
}

// Columns returns a copy of the column names in schema order
func (t *Table) Columns() []string {
	out := make([]string, len(t.cols))
	copy(out, t.cols)
	return out
}

// HasColumn reports whether the named column exists
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// AppendRow adds a row. The cell count must match the column count.
func (t *Table) AppendRow(cells ...Value) error {
	if len(cells) != len(t.cols) {
		return errors.NewSchemaError(
			fmt.Sprintf("row has %d cells, table has %d columns", len(cells), len(t.cols)), nil)
	}
	row := make([]Value, len(cells))
	copy(row, cells)
	t.rows = append(t.rows, row)
	return nil
}

// Value returns the cell at the given row and column.
// ok is false when the row is out of range or the column does not exist.
func (t *Table) Value(row int, column string) (Value, bool) {
	col, exists := t.index[column]
	if !exists || row < 0 || row >= len(t.rows) {
		return Null(), false
	}
	return t.rows[row][col], true
}

// Row returns a copy of the row at the given index, in schema order
func (t *Table) Row(i int) []Value {
	out := make([]Value, len(t.rows[i]))
	copy(out, t.rows[i])
	return out
}

// IsCategorical reports whether the column carries an ordered level set
func (t *Table) IsCategorical(column string) bool {
	_, ok := t.levels[column]
	return ok
}

// Levels returns a copy of the ordered level set for a categorical column,
// or nil when the column is not categorical
func (t *Table) Levels(column string) []string {
	lv, ok := t.levels[column]
	if !ok {
		return nil
	}
	out := make([]string, len(lv))
	copy(out, lv)
	return out
}

// shell returns an empty table with the same columns and level metadata
func (t *Table) shell() *Table {
	out := MustNew(t.cols...)
	for col, lv := range t.levels {
		out.levels[col] = append([]string(nil), lv...)
	}
	return out
}

// levelIndex builds a level → position lookup for a categorical column
func (t *Table) levelIndex(column string) map[string]int {
	lv, ok := t.levels[column]
	if !ok {
		return nil
	}
	idx := make(map[string]int, len(lv))
	for i, l := range lv {
		idx[l] = i
	}
	return idx
}
