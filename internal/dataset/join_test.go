package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/errors"
)

func salesFixture(t *testing.T) *Table {
	t.Helper()
	return buildTable(t, []string{"account number", "name", "ext price"},
		[]Value{Float(740150), String("Barton LLC"), Float(100)},
		[]Value{Float(714466), String("Trantow-Barrows"), Float(200)},
		[]Value{Float(737550), String("Fritsch, Russel and Anderson"), Float(300)},
	)
}

func statusFixture(t *testing.T) *Table {
	t.Helper()
	return buildTable(t, []string{"account number", "name", "status"},
		[]Value{Float(740150), String("Barton LLC"), String("gold")},
		[]Value{Float(714466), String("Trantow-Barrows"), String("silver")},
	)
}

func TestLeftJoin_PreservesPrimaryRows(t *testing.T) {
	primary := salesFixture(t)
	reference := statusFixture(t)

	got, err := LeftJoin(primary, reference, JoinOptions{
		On: []string{"account number", "name"},
	})
	require.NoError(t, err)

	assert.Equal(t, primary.NumRows(), got.NumRows())
	assert.Equal(t, []string{"account number", "name", "ext price", "status"}, got.Columns())

	v, _ := got.Value(0, "status")
	s, _ := v.AsString()
	assert.Equal(t, "gold", s)

	// unmatched row has a null status when no default is configured
	v, _ = got.Value(2, "status")
	assert.True(t, v.IsNull())
}

func TestLeftJoin_DefaultFillsUnmatchedOnly(t *testing.T) {
	got, err := LeftJoin(salesFixture(t), statusFixture(t), JoinOptions{
		On:       []string{"account number", "name"},
		Defaults: map[string]Value{"status": String("bronze")},
	})
	require.NoError(t, err)

	// matched rows are untouched by the default policy
	v, _ := got.Value(0, "status")
	s, _ := v.AsString()
	assert.Equal(t, "gold", s)
	v, _ = got.Value(1, "status")
	s, _ = v.AsString()
	assert.Equal(t, "silver", s)

	// unmatched row gets the configured default, never null
	v, _ = got.Value(2, "status")
	s, _ = v.AsString()
	assert.Equal(t, "bronze", s)

	for r := 0; r < got.NumRows(); r++ {
		v, _ := got.Value(r, "status")
		assert.False(t, v.IsNull())
	}
}

func TestLeftJoin_DuplicateReferenceKeysFanOut(t *testing.T) {
	primary := buildTable(t, []string{"account number", "ext price"},
		[]Value{Float(740150), Float(100)},
		[]Value{Float(714466), Float(200)},
	)
	// 740150 appears twice in the reference
	reference := buildTable(t, []string{"account number", "status"},
		[]Value{Float(740150), String("gold")},
		[]Value{Float(740150), String("silver")},
		[]Value{Float(714466), String("bronze")},
	)

	got, err := LeftJoin(primary, reference, JoinOptions{On: []string{"account number"}})
	require.NoError(t, err)

	// one output row per (primary, reference) match pair
	require.Equal(t, 3, got.NumRows())

	v, _ := got.Value(0, "status")
	s, _ := v.AsString()
	assert.Equal(t, "gold", s)
	v, _ = got.Value(1, "status")
	s, _ = v.AsString()
	assert.Equal(t, "silver", s)
	v, _ = got.Value(2, "status")
	s, _ = v.AsString()
	assert.Equal(t, "bronze", s)
}

func TestLeftJoin_KeyErrors(t *testing.T) {
	primary := salesFixture(t)
	reference := statusFixture(t)

	tests := []struct {
		name string
		opts JoinOptions
	}{
		{name: "no key columns", opts: JoinOptions{}},
		{name: "key missing from primary", opts: JoinOptions{On: []string{"status"}}},
		{name: "key missing from reference", opts: JoinOptions{On: []string{"ext price"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LeftJoin(primary, reference, tt.opts)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrTypeJoinKey))
		})
	}
}

func TestLeftJoin_DefaultForUnknownColumnFails(t *testing.T) {
	_, err := LeftJoin(salesFixture(t), statusFixture(t), JoinOptions{
		On:       []string{"account number", "name"},
		Defaults: map[string]Value{"tier": String("bronze")},
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeSchema))
}

func TestLeftJoin_CarriesReferenceLevels(t *testing.T) {
	reference, err := AssignCategoryOrder(statusFixture(t), "status",
		[]string{"gold", "silver", "bronze"})
	require.NoError(t, err)

	got, err := LeftJoin(salesFixture(t), reference, JoinOptions{
		On: []string{"account number", "name"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"gold", "silver", "bronze"}, got.Levels("status"))
}
