package dataset

import (
	"fmt"
	"sort"

	"salescli/internal/errors"
)

// AssignCategoryOrder tags the named column as categorical with the given
// total order. Every non-null value already in the column must be one of the
// levels; sorting and grouping on the column use level index order afterwards,
// never lexical order.
func AssignCategoryOrder(t *Table, column string, levels []string) (*Table, error) {
	col, ok := t.index[column]
	if !ok {
		return nil, errors.NewLevelError(fmt.Sprintf("column %q not found", column))
	}
	if len(levels) == 0 {
		return nil, errors.NewLevelError("empty level set")
	}

	seen := make(map[string]bool, len(levels))
	for _, l := range levels {
		if seen[l] {
			return nil, errors.NewLevelError(fmt.Sprintf("duplicate level %q", l))
		}
		seen[l] = true
	}

	for r, row := range t.rows {
		v := row[col]
		if v.IsNull() {
			continue
		}
		s, isString := v.AsString()
		if !isString {
			return nil, errors.NewLevelError(
				fmt.Sprintf("column %q holds a %s value, categorical columns must be strings", column, v.Kind())).
				WithContext("row", r)
		}
		if !seen[s] {
			return nil, errors.NewLevelError(
				fmt.Sprintf("value %q in column %q is not among the configured levels", s, column)).
				WithContext("row", r)
		}
	}

	out := t.shell()
	out.levels[column] = append([]string(nil), levels...)
	out.rows = make([][]Value, len(t.rows))
	for i, row := range t.rows {
		out.rows[i] = append([]Value(nil), row...)
	}
	return out, nil
}

// SortByColumn stably sorts rows by the named column, ascending. Categorical
// columns sort by level index; other columns sort by natural value order
// (numeric, lexical, or chronological by kind). Null cells sort last.
func SortByColumn(t *Table, column string) (*Table, error) {
	col, ok := t.index[column]
	if !ok {
		return nil, errors.NewSchemaError(fmt.Sprintf("sort column %q not found", column), nil)
	}

	levelIdx := t.levelIndex(column)

	order := make([]int, len(t.rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return compareCells(t.rows[order[a]][col], t.rows[order[b]][col], levelIdx) < 0
	})

	out := t.shell()
	out.rows = make([][]Value, 0, len(t.rows))
	for _, i := range order {
		row := append([]Value(nil), t.rows[i]...)
		out.rows = append(out.rows, row)
	}
	return out, nil
}

// compareCells orders two cells of one column. Nulls sort after everything;
// levelIdx is non-nil for categorical columns and wins over lexical order.
// Values outside the level set rank after every level, matching the group
// ordering in GroupAggregate, so a merge that smuggles an untagged value into
// a categorical column cannot silently promote it to the front.
func compareCells(a, b Value, levelIdx map[string]int) int {
	if a.IsNull() || b.IsNull() {
		switch {
		case a.IsNull() && b.IsNull():
			return 0
		case a.IsNull():
			return 1
		default:
			return -1
		}
	}

	if levelIdx != nil {
		return categoricalRank(a, levelIdx) - categoricalRank(b, levelIdx)
	}

	if a.Kind() != b.Kind() {
		return int(a.Kind()) - int(b.Kind())
	}
	switch a.Kind() {
	case KindFloat:
		af, _ := a.AsFloat()
		bf, _ := b.AsFloat()
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	case KindString:
		as, _ := a.AsString()
		bs, _ := b.AsString()
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		default:
			return 0
		}
	default:
		at, _ := a.AsTime()
		bt, _ := b.AsTime()
		switch {
		case at.Before(bt):
			return -1
		case at.After(bt):
			return 1
		default:
			return 0
		}
	}
}
