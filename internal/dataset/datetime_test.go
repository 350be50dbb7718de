package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/errors"
)

func TestConvertColumnToTime(t *testing.T) {
	tbl := buildTable(t, []string{"account number", "date"},
		[]Value{Float(740150), String("2014-01-01")},
		[]Value{Float(714466), String("2014-02-15")},
		[]Value{Float(218895), Null()},
	)

	got, err := ConvertColumnToTime(tbl, "date", ConvertOptions{Layout: "2006-01-02"})
	require.NoError(t, err)
	require.Equal(t, 3, got.NumRows())

	v, _ := got.Value(0, "date")
	ts, ok := v.AsTime()
	require.True(t, ok)
	assert.Equal(t, time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC), ts)

	v, _ = got.Value(2, "date")
	assert.True(t, v.IsNull())

	// input untouched
	v, _ = tbl.Value(0, "date")
	assert.Equal(t, KindString, v.Kind())
}

func TestConvertColumnToTime_LayoutInference(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		want  time.Time
	}{
		{
			name:  "iso date",
			cells: []string{"2014-06-01"},
			want:  time.Date(2014, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "us slash date",
			cells: []string{"06/15/2014"},
			want:  time.Date(2014, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "timestamp",
			cells: []string{"2014-06-01 13:45:00"},
			want:  time.Date(2014, 6, 1, 13, 45, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := MustNew("date")
			for _, c := range tt.cells {
				require.NoError(t, tbl.AppendRow(String(c)))
			}

			got, err := ConvertColumnToTime(tbl, "date", ConvertOptions{})
			require.NoError(t, err)

			v, _ := got.Value(0, "date")
			ts, ok := v.AsTime()
			require.True(t, ok)
			assert.Equal(t, tt.want, ts)
		})
	}
}

func TestConvertColumnToTime_Policies(t *testing.T) {
	tbl := buildTable(t, []string{"date"},
		[]Value{String("2014-01-01")},
		[]Value{String("not a date")},
	)

	t.Run("reject fails the whole operation", func(t *testing.T) {
		_, err := ConvertColumnToTime(tbl, "date", ConvertOptions{Layout: "2006-01-02"})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeConversion))
	})

	t.Run("set-null nulls the offending cell", func(t *testing.T) {
		got, err := ConvertColumnToTime(tbl, "date", ConvertOptions{
			Layout: "2006-01-02",
			Policy: ConvertSetNull,
		})
		require.NoError(t, err)

		v, _ := got.Value(0, "date")
		assert.Equal(t, KindTime, v.Kind())
		v, _ = got.Value(1, "date")
		assert.True(t, v.IsNull())
	})
}

func TestConvertColumnToTime_MissingColumn(t *testing.T) {
	tbl := buildTable(t, []string{"a"}, []Value{Float(1)})

	_, err := ConvertColumnToTime(tbl, "date", ConvertOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeConversion))
}

func TestConvertColumnToTime_NumericCellRejected(t *testing.T) {
	tbl := buildTable(t, []string{"date"}, []Value{Float(42)})

	_, err := ConvertColumnToTime(tbl, "date", ConvertOptions{Layout: "2006-01-02"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeConversion))
}

func TestConvertColumnToTime_UnknownLayoutInData(t *testing.T) {
	tbl := buildTable(t, []string{"date"}, []Value{String("first of june")})

	_, err := ConvertColumnToTime(tbl, "date", ConvertOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeConversion))
}
