package dataset

import (
	"strconv"
	"time"
)

// Kind identifies the scalar type held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindFloat
	KindString
	KindTime
)

// String returns a human-readable name for the kind
func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	default:
		return "null"
	}
}

// Value is an explicitly nullable scalar cell. Missing data is represented by
// the null kind rather than a sentinel, so null handling in joins and
// aggregations is a visible policy instead of an accident.
type Value struct {
	kind Kind
	f    float64
	s    string
	t    time.Time
}

// Null returns the missing-data value
func Null() Value {
	return Value{kind: KindNull}
}

// Float returns a numeric value
func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// String returns a string value
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Time returns a date/time value
func Time(t time.Time) Value {
	return Value{kind: KindTime, t: t}
}

// Kind returns the scalar type of the value
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value represents missing data
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsFloat returns the numeric value; ok is false for any other kind
func (v Value) AsFloat() (float64, bool) {
	return v.f, v.kind == KindFloat
}

// AsString returns the string value; ok is false for any other kind
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// AsTime returns the time value; ok is false for any other kind
func (v Value) AsTime() (time.Time, bool) {
	return v.t, v.kind == KindTime
}

// Equal reports whether two values have the same kind and content.
// Times compare with time.Equal so identical instants in different
// locations match.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	default:
		return v.t.Equal(o.t)
	}
}

// Format renders the value for display or export. Null renders as the empty
// string; times use the given layout ("2006-01-02" when layout is empty).
func (v Value) Format(layout string) string {
	switch v.kind {
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindTime:
		if layout == "" {
			layout = "2006-01-02"
		}
		return v.t.Format(layout)
	default:
		return ""
	}
}

// String implements fmt.Stringer using the default time layout
func (v Value) String() string {
	return v.Format("")
}

// hashKey returns a canonical encoding used for join and group key equality.
// The kind prefix keeps Float(1) and String("1") distinct.
func (v Value) hashKey() string {
	switch v.kind {
	case KindFloat:
		return "f:" + strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return "s:" + v.s
	case KindTime:
		return "t:" + strconv.FormatInt(v.t.UnixNano(), 10)
	default:
		return "n:"
	}
}
