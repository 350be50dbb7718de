package dataset

import (
	"fmt"

	"salescli/internal/errors"
)

// SchemaPolicy controls how Concat reconciles differing column sets.
type SchemaPolicy string

const (
	// SchemaUnion keeps every column seen in any input; cells for columns
	// absent from a given input are null.
	SchemaUnion SchemaPolicy = "union"
	// SchemaIntersect keeps only columns present in every input.
	SchemaIntersect SchemaPolicy = "intersect"
	// SchemaStrict requires every input to have an identical ordered column
	// set and fails otherwise.
	SchemaStrict SchemaPolicy = "strict"
)

// ConcatOptions configures Concat.
type ConcatOptions struct {
	// Policy defaults to SchemaUnion when empty.
	Policy SchemaPolicy
	// ExpectedColumns, when non-empty, requires every listed column to be
	// present in the result.
	ExpectedColumns []string
}

// Concat appends the rows of the given tables into a single table. Table
// order follows the slice order and rows keep their within-table order, so
// the result row count is always the sum of the input row counts.
//
// Categorical level metadata is carried through; two inputs tagging the same
// column with different level orders is a schema conflict.
func Concat(tables []*Table, opts ConcatOptions) (*Table, error) {
	if len(tables) == 0 {
		return nil, errors.NewSchemaError("no tables to concatenate", nil)
	}

	policy := opts.Policy
	if policy == "" {
		policy = SchemaUnion
	}

	var cols []string
	var err error
	switch policy {
	case SchemaUnion:
		cols = unionColumns(tables)
	case SchemaIntersect:
		cols = intersectColumns(tables)
	case SchemaStrict:
		cols, err = strictColumns(tables)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.NewSchemaError(fmt.Sprintf("unknown schema policy %q", policy), nil)
	}

	out, err := New(cols...)
	if err != nil {
		return nil, err
	}
	if err := mergeLevels(out, tables); err != nil {
		return nil, err
	}

	for _, name := range opts.ExpectedColumns {
		if !out.HasColumn(name) {
			return nil, errors.NewSchemaError(
				fmt.Sprintf("expected column %q missing from concatenated result", name), nil)
		}
	}

	for _, t := range tables {
		for r := 0; r < t.NumRows(); r++ {
			row := make([]Value, len(cols))
			for i, name := range cols {
				if v, ok := t.Value(r, name); ok {
					row[i] = v
				} else {
					row[i] = Null()
				}
			}
			out.rows = append(out.rows, row)
		}
	}

	return out, nil
}

func unionColumns(tables []*Table) []string {
	var cols []string
	seen := make(map[string]bool)
	for _, t := range tables {
		for _, name := range t.cols {
			if !seen[name] {
				seen[name] = true
				cols = append(cols, name)
			}
		}
	}
	return cols
}

func intersectColumns(tables []*Table) []string {
	var cols []string
	for _, name := range tables[0].cols {
		inAll := true
		for _, t := range tables[1:] {
			if !t.HasColumn(name) {
				inAll = false
				break
			}
		}
		if inAll {
			cols = append(cols, name)
		}
	}
	return cols
}

func strictColumns(tables []*Table) ([]string, error) {
	first := tables[0].cols
	for i, t := range tables[1:] {
		if len(t.cols) != len(first) {
			return nil, errors.NewSchemaError("column sets differ under strict policy", nil).
				WithContext("table", i+1)
		}
		for j, name := range t.cols {
			if name != first[j] {
				return nil, errors.NewSchemaError("column sets differ under strict policy", nil).
					WithContext("table", i+1).
					WithContext("column", name)
			}
		}
	}
	return append([]string(nil), first...), nil
}

func mergeLevels(out *Table, tables []*Table) error {
	for _, t := range tables {
		for col, lv := range t.levels {
			if !out.HasColumn(col) {
				continue
			}
			existing, tagged := out.levels[col]
			if !tagged {
				out.levels[col] = append([]string(nil), lv...)
				continue
			}
			if !equalLevels(existing, lv) {
				return errors.NewSchemaError(
					fmt.Sprintf("conflicting category orders for column %q", col), nil)
			}
		}
	}
	return nil
}

func equalLevels(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
