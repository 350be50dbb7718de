package dataset

import (
	"fmt"
	"time"

	"salescli/internal/errors"
)

// ConvertPolicy controls what happens when a cell cannot be parsed as a time.
type ConvertPolicy string

const (
	// ConvertReject fails the whole operation on the first unparseable cell.
	ConvertReject ConvertPolicy = "reject"
	// ConvertSetNull nulls the offending cell and continues.
	ConvertSetNull ConvertPolicy = "null"
)

// ConvertOptions configures ConvertColumnToTime.
type ConvertOptions struct {
	// Layout is the time layout used for every cell. When empty, a single
	// layout is inferred from the data: the first candidate layout that
	// parses the first non-null cell is used for the whole column.
	Layout string
	// Policy defaults to ConvertReject when empty.
	Policy ConvertPolicy
}

// candidateLayouts are tried in order during layout inference.
var candidateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"02-Jan-2006",
}

// ConvertColumnToTime returns a copy of the table with the named column's
// string cells replaced by parsed time values. Null cells stay null and cells
// that already hold times are kept. The error policy is explicit: the default
// rejects the whole operation on the first bad cell.
func ConvertColumnToTime(t *Table, column string, opts ConvertOptions) (*Table, error) {
	col, ok := t.index[column]
	if !ok {
		return nil, errors.NewConversionError(fmt.Sprintf("column %q not found", column), nil)
	}

	policy := opts.Policy
	if policy == "" {
		policy = ConvertReject
	}
	if policy != ConvertReject && policy != ConvertSetNull {
		return nil, errors.NewConversionError(fmt.Sprintf("unknown conversion policy %q", policy), nil)
	}

	layout := opts.Layout
	if layout == "" {
		inferred, err := inferLayout(t, col)
		if err != nil {
			return nil, err
		}
		layout = inferred
	}

	out := t.shell()
	out.rows = make([][]Value, 0, len(t.rows))
	for r, row := range t.rows {
		newRow := make([]Value, len(row))
		copy(newRow, row)

		v := row[col]
		switch v.Kind() {
		case KindNull, KindTime:
			// nothing to convert
		case KindString:
			s, _ := v.AsString()
			parsed, err := time.Parse(layout, s)
			if err != nil {
				if policy == ConvertReject {
					return nil, errors.NewConversionError(
						fmt.Sprintf("cannot parse %q as time with layout %q", s, layout), err).
						WithContext("column", column).
						WithContext("row", r)
				}
				newRow[col] = Null()
				break
			}
			newRow[col] = Time(parsed)
		default:
			if policy == ConvertReject {
				return nil, errors.NewConversionError(
					fmt.Sprintf("cannot convert %s cell to time", v.Kind()), nil).
					WithContext("column", column).
					WithContext("row", r)
			}
			newRow[col] = Null()
		}

		out.rows = append(out.rows, newRow)
	}

	return out, nil
}

// inferLayout picks the first candidate layout that parses the first non-null
// string cell in the column
func inferLayout(t *Table, col int) (string, error) {
	for _, row := range t.rows {
		v := row[col]
		if v.Kind() == KindTime || v.IsNull() {
			continue
		}
		s, ok := v.AsString()
		if !ok {
			continue
		}
		for _, layout := range candidateLayouts {
			if _, err := time.Parse(layout, s); err == nil {
				return layout, nil
			}
		}
		return "", errors.NewConversionError(
			fmt.Sprintf("no known time layout matches %q", s), nil)
	}
	// nothing to convert, any layout will do
	return candidateLayouts[0], nil
}
