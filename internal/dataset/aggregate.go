package dataset

import (
	"fmt"
	"math"
	"sort"

	"salescli/internal/errors"
)

// AggFunc names a supported aggregation.
type AggFunc string

const (
	AggSum   AggFunc = "sum"
	AggMean  AggFunc = "mean"
	AggStd   AggFunc = "std"
	AggCount AggFunc = "count"
)

// GroupAggregate partitions rows by equality of the group columns and reduces
// each value column with each requested aggregation, ignoring null cells.
//
// The output has one row per distinct group and columns groupCols followed by
// a "<value>_<agg>" column per (value column, aggregation) pair. Group order
// is deterministic: groups compare column by column, categorical columns by
// level index and other columns by first-seen order of the value.
//
// Aggregation semantics: count counts non-null cells; sum of an empty set is
// 0; mean of an empty set is null; std is the sample standard deviation
// (divisor n-1) and null when fewer than two numeric cells are present.
// On a mixed column, non-numeric cells are still non-null, so count can
// exceed the sample size sum, mean, and std were computed over.
func GroupAggregate(t *Table, groupCols, valueCols []string, aggs []AggFunc) (*Table, error) {
	if len(groupCols) == 0 {
		return nil, errors.NewSchemaError("no group columns given", nil)
	}
	if len(valueCols) == 0 {
		return nil, errors.NewSchemaError("no value columns given", nil)
	}
	if len(aggs) == 0 {
		return nil, errors.NewSchemaError("no aggregations given", nil)
	}
	for _, name := range append(append([]string(nil), groupCols...), valueCols...) {
		if !t.HasColumn(name) {
			return nil, errors.NewSchemaError(fmt.Sprintf("column %q not found", name), nil)
		}
	}
	for _, agg := range aggs {
		switch agg {
		case AggSum, AggMean, AggStd, AggCount:
		default:
			return nil, errors.NewSchemaError(fmt.Sprintf("unknown aggregation %q", agg), nil)
		}
	}

	type group struct {
		key  []Value
		rows []int
	}

	// Partition preserving first-seen order, both of whole groups and of each
	// group column's individual values (the tiebreak for non-categorical
	// ordering).
	var groups []*group
	byKey := make(map[string]*group)
	firstSeen := make([]map[string]int, len(groupCols))
	for i := range firstSeen {
		firstSeen[i] = make(map[string]int)
	}

	for r := 0; r < t.NumRows(); r++ {
		key := make([]Value, len(groupCols))
		for i, name := range groupCols {
			key[i] = t.rows[r][t.index[name]]
			hk := key[i].hashKey()
			if _, ok := firstSeen[i][hk]; !ok {
				firstSeen[i][hk] = len(firstSeen[i])
			}
		}
		enc := joinKey(t, r, groupCols)
		g, ok := byKey[enc]
		if !ok {
			g = &group{key: key}
			byKey[enc] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, r)
	}

	levelIdx := make([]map[string]int, len(groupCols))
	for i, name := range groupCols {
		levelIdx[i] = t.levelIndex(name)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		ga, gb := groups[a], groups[b]
		for i := range groupCols {
			if c := compareGroupCells(ga.key[i], gb.key[i], levelIdx[i], firstSeen[i]); c != 0 {
				return c < 0
			}
		}
		return false
	})

	outCols := append([]string(nil), groupCols...)
	for _, vc := range valueCols {
		for _, agg := range aggs {
			outCols = append(outCols, fmt.Sprintf("%s_%s", vc, agg))
		}
	}
	out, err := New(outCols...)
	if err != nil {
		return nil, err
	}
	for i, name := range groupCols {
		if lv := levelIdx[i]; lv != nil {
			out.levels[name] = t.Levels(name)
		}
	}

	for _, g := range groups {
		row := append([]Value(nil), g.key...)
		for _, vc := range valueCols {
			ci := t.index[vc]
			var vals []float64
			nonNull := 0
			for _, r := range g.rows {
				cell := t.rows[r][ci]
				if cell.IsNull() {
					continue
				}
				nonNull++
				if f, ok := cell.AsFloat(); ok {
					vals = append(vals, f)
				}
			}
			for _, agg := range aggs {
				row = append(row, aggregate(agg, vals, nonNull))
			}
		}
		out.rows = append(out.rows, row)
	}

	return out, nil
}

// compareGroupCells orders group key cells: level index for categorical
// columns, first-seen order otherwise. Nulls sort last in categorical
// columns so untagged values never interleave with the level order.
func compareGroupCells(a, b Value, levelIdx map[string]int, firstSeen map[string]int) int {
	if levelIdx != nil {
		return categoricalRank(a, levelIdx) - categoricalRank(b, levelIdx)
	}
	return firstSeen[a.hashKey()] - firstSeen[b.hashKey()]
}

func categoricalRank(v Value, levelIdx map[string]int) int {
	if s, ok := v.AsString(); ok {
		if i, tagged := levelIdx[s]; tagged {
			return i
		}
	}
	return len(levelIdx)
}

func aggregate(agg AggFunc, vals []float64, nonNull int) Value {
	switch agg {
	case AggCount:
		return Float(float64(nonNull))
	case AggSum:
		sum := 0.0
		for _, v := range vals {
			sum += v
		}
		return Float(sum)
	case AggMean:
		if len(vals) == 0 {
			return Null()
		}
		sum := 0.0
		for _, v := range vals {
			sum += v
		}
		return Float(sum / float64(len(vals)))
	default: // AggStd
		if len(vals) <= 1 {
			return Null()
		}
		mean := 0.0
		for _, v := range vals {
			mean += v
		}
		mean /= float64(len(vals))
		ss := 0.0
		for _, v := range vals {
			d := v - mean
			ss += d * d
		}
		return Float(math.Sqrt(ss / float64(len(vals)-1)))
	}
}

// DistinctCount deduplicates rows by first occurrence of the dedup key tuple,
// then counts the deduplicated rows per value of the group column. Rows whose
// group cell is null are not counted.
//
// It answers "how many distinct entities fall into each category" rather than
// "how many raw rows".
func DistinctCount(t *Table, dedupKey []string, groupCol string) (map[string]int, error) {
	if len(dedupKey) == 0 {
		return nil, errors.NewSchemaError("no dedup key columns given", nil)
	}
	for _, name := range dedupKey {
		if !t.HasColumn(name) {
			return nil, errors.NewSchemaError(fmt.Sprintf("column %q not found", name), nil)
		}
	}
	if !t.HasColumn(groupCol) {
		return nil, errors.NewSchemaError(fmt.Sprintf("column %q not found", groupCol), nil)
	}

	gi := t.index[groupCol]
	seen := make(map[string]bool)
	counts := make(map[string]int)
	for r := 0; r < t.NumRows(); r++ {
		enc := joinKey(t, r, dedupKey)
		if seen[enc] {
			continue
		}
		seen[enc] = true

		cell := t.rows[r][gi]
		if cell.IsNull() {
			continue
		}
		counts[cell.String()]++
	}
	return counts, nil
}
