package dataset

import (
	"fmt"
	"strings"

	"salescli/internal/errors"
)

// JoinOptions configures LeftJoin.
type JoinOptions struct {
	// On lists the key columns, which must exist in both tables.
	On []string
	// Defaults maps reference-only column names to the value used instead of
	// null when a primary row has no match.
	Defaults map[string]Value
}

// LeftJoin joins reference onto primary by equality of the key columns.
//
// Every primary row appears in the output, in its original order. A matched
// row gains the reference-only columns; an unmatched row gets null there,
// except columns with a configured default. When the reference table holds
// several rows with the same key, the join fans out: one output row per
// (primary, reference) match pair.
func LeftJoin(primary, reference *Table, opts JoinOptions) (*Table, error) {
	if len(opts.On) == 0 {
		return nil, errors.NewJoinKeyError("no join key columns given")
	}
	for _, key := range opts.On {
		if !primary.HasColumn(key) {
			return nil, errors.NewJoinKeyError(
				fmt.Sprintf("join key column %q missing from primary table", key))
		}
		if !reference.HasColumn(key) {
			return nil, errors.NewJoinKeyError(
				fmt.Sprintf("join key column %q missing from reference table", key))
		}
	}

	// Reference-only columns, in reference schema order.
	var refOnly []string
	for _, name := range reference.cols {
		if !primary.HasColumn(name) {
			refOnly = append(refOnly, name)
		}
	}
	for name := range opts.Defaults {
		found := false
		for _, col := range refOnly {
			if col == name {
				found = true
				break
			}
		}
		if !found {
			return nil, errors.NewSchemaError(
				fmt.Sprintf("default configured for column %q, which the join does not produce", name), nil)
		}
	}

	out, err := New(append(primary.Columns(), refOnly...)...)
	if err != nil {
		return nil, err
	}
	for col, lv := range primary.levels {
		out.levels[col] = append([]string(nil), lv...)
	}
	for _, col := range refOnly {
		if lv, ok := reference.levels[col]; ok {
			out.levels[col] = append([]string(nil), lv...)
		}
	}

	// Hash index over the reference key; values are row indices so duplicate
	// keys fan out in reference row order.
	index := make(map[string][]int, reference.NumRows())
	for r := 0; r < reference.NumRows(); r++ {
		k := joinKey(reference, r, opts.On)
		index[k] = append(index[k], r)
	}

	refIdx := make([]int, len(refOnly))
	for i, name := range refOnly {
		refIdx[i] = reference.index[name]
	}

	for r := 0; r < primary.NumRows(); r++ {
		matches := index[joinKey(primary, r, opts.On)]
		if len(matches) == 0 {
			row := make([]Value, 0, len(out.cols))
			row = append(row, primary.rows[r]...)
			for _, name := range refOnly {
				if def, ok := opts.Defaults[name]; ok {
					row = append(row, def)
				} else {
					row = append(row, Null())
				}
			}
			out.rows = append(out.rows, row)
			continue
		}
		for _, m := range matches {
			row := make([]Value, 0, len(out.cols))
			row = append(row, primary.rows[r]...)
			for _, ci := range refIdx {
				row = append(row, reference.rows[m][ci])
			}
			out.rows = append(out.rows, row)
		}
	}

	return out, nil
}

// joinKey encodes a row's key column values into one comparable string
func joinKey(t *Table, row int, on []string) string {
	var b strings.Builder
	for _, name := range on {
		b.WriteString(t.rows[row][t.index[name]].hashKey())
		b.WriteByte(0x1f)
	}
	return b.String()
}
