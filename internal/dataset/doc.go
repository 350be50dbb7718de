// Package dataset provides the in-memory tabular model and the transforms the
// aggregation pipeline is built from: concatenation, time conversion, left
// joins with configurable default fill, ordered categorical tagging, grouped
// aggregation, and distinct-entity counting.
//
// # Model
//
// A Table is an ordered sequence of rows over a named column set. Cells are
// Value, an explicitly nullable scalar (float, string, or time), so missing
// data is always visible and null policy is always an explicit choice. A
// column may carry an ordered categorical level set; the order is column
// metadata that survives every transform, and sorting or grouping on such a
// column uses level index order rather than lexical order.
//
// # Transforms
//
// Every transform consumes tables and returns a new Table; inputs are never
// mutated. A typical pipeline:
//
//	combined, err := dataset.Concat(tables, dataset.ConcatOptions{})
//	combined, err = dataset.ConvertColumnToTime(combined, "date", dataset.ConvertOptions{})
//	joined, err := dataset.LeftJoin(combined, status, dataset.JoinOptions{
//	    On:       []string{"account number", "name"},
//	    Defaults: map[string]dataset.Value{"status": dataset.String("bronze")},
//	})
//	joined, err = dataset.AssignCategoryOrder(joined, "status", []string{"gold", "silver", "bronze"})
//	summary, err := dataset.GroupAggregate(joined,
//	    []string{"status"},
//	    []string{"quantity", "unit price", "ext price"},
//	    []dataset.AggFunc{dataset.AggSum, dataset.AggMean, dataset.AggStd})
//
// # Error Handling
//
// Transforms fail fast with typed errors from internal/errors: schema
// mismatches, unparseable values, missing join keys, and values outside a
// configured level set all surface immediately. The only configured recovery
// is the per-column default fill for unmatched join rows.
package dataset
