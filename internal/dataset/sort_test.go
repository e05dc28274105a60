package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icpcli/pkg/contracts/domain"
)

func TestDefaultSortColumn(t *testing.T) {
	tests := []struct {
		name     string
		columns  []string
		expected string
	}{
		{name: "pool_size preferred", columns: []string{"city", "pool_size"}, expected: "pool_size"},
		{name: "first column otherwise", columns: []string{"city", "state"}, expected: "city"},
		{name: "empty dataset", columns: nil, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DefaultSortColumn(New(tt.columns, nil)))
		})
	}
}

func TestSort_NumericAscending(t *testing.T) {
	ds := New([]string{"pool_size"}, [][]string{{"9"}, {"5"}, {"10"}})

	Sort(ds, domain.SortSpec{Column: "pool_size"})

	assert.Equal(t, [][]string{{"5"}, {"9"}, {"10"}}, ds.Rows)
}

func TestSort_NumericDescending(t *testing.T) {
	ds := New([]string{"pool_size"}, [][]string{{"9"}, {"5"}, {"10"}})

	Sort(ds, domain.SortSpec{Column: "pool_size", Descending: true})

	assert.Equal(t, [][]string{{"10"}, {"9"}, {"5"}}, ds.Rows)
}

func TestSort_Lexicographic(t *testing.T) {
	ds := New([]string{"city"}, [][]string{{"Dallas"}, {"Austin"}, {"Houston"}})

	Sort(ds, domain.SortSpec{Column: "city"})

	assert.Equal(t, [][]string{{"Austin"}, {"Dallas"}, {"Houston"}}, ds.Rows)
}

func TestSort_MixedValuesFallBackToLexicographic(t *testing.T) {
	// "10" < "9" lexicographically; one non-numeric value demotes the
	// whole column to string ordering.
	ds := New([]string{"v"}, [][]string{{"9"}, {"10"}, {"n/a"}})

	Sort(ds, domain.SortSpec{Column: "v"})

	assert.Equal(t, [][]string{{"10"}, {"9"}, {"n/a"}}, ds.Rows)
}

func TestSort_StableOnTies(t *testing.T) {
	ds := New([]string{"pool_size", "city"}, [][]string{
		{"5", "Austin"},
		{"9", "Dallas"},
		{"5", "Houston"},
		{"5", "El Paso"},
	})

	Sort(ds, domain.SortSpec{Column: "pool_size"})

	require.Equal(t, 4, ds.RowCount())
	// Tied rows keep their pre-sort relative order.
	assert.Equal(t, "Austin", ds.Rows[0][1])
	assert.Equal(t, "Houston", ds.Rows[1][1])
	assert.Equal(t, "El Paso", ds.Rows[2][1])
	assert.Equal(t, "Dallas", ds.Rows[3][1])
}

func TestSort_MissingValuesLast(t *testing.T) {
	ds := New([]string{"pool_size"}, [][]string{{""}, {"9"}, {"5"}})

	Sort(ds, domain.SortSpec{Column: "pool_size"})
	assert.Equal(t, [][]string{{"5"}, {"9"}, {""}}, ds.Rows)

	Sort(ds, domain.SortSpec{Column: "pool_size", Descending: true})
	assert.Equal(t, [][]string{{"9"}, {"5"}, {""}}, ds.Rows, "missing values stay last when descending")
}

func TestSort_UnknownColumnIsNoOp(t *testing.T) {
	ds := New([]string{"city"}, [][]string{{"Dallas"}, {"Austin"}})

	Sort(ds, domain.SortSpec{Column: "zip"})

	assert.Equal(t, [][]string{{"Dallas"}, {"Austin"}}, ds.Rows)
}
