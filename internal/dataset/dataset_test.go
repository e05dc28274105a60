package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_PadsAndTruncatesRows(t *testing.T) {
	ds := New([]string{"a", "b", "c"}, [][]string{
		{"1"},
		{"1", "2", "3", "4"},
		{"1", "2", "3"},
	})

	require.Equal(t, 3, ds.RowCount())
	assert.Equal(t, []string{"1", "", ""}, ds.Rows[0])
	assert.Equal(t, []string{"1", "2", "3"}, ds.Rows[1])
	assert.Equal(t, []string{"1", "2", "3"}, ds.Rows[2])
}

func TestDataset_Value(t *testing.T) {
	ds := New([]string{"city", "state"}, [][]string{
		{"Austin", "TX"},
		{"", "TX"},
		{"   ", "TX"},
	})

	tests := []struct {
		name     string
		row      int
		column   string
		expected string
		ok       bool
	}{
		{name: "present value", row: 0, column: "city", expected: "Austin", ok: true},
		{name: "empty cell is missing", row: 1, column: "city", ok: false},
		{name: "whitespace cell is missing", row: 2, column: "city", ok: false},
		{name: "absent column", row: 0, column: "zip", ok: false},
		{name: "row out of range", row: 5, column: "city", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok := ds.Value(tt.row, tt.column)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestDataset_RenameColumn(t *testing.T) {
	ds := New([]string{"Aggregated Location", "city"}, [][]string{{"US", "Austin"}})

	ds.RenameColumn("Aggregated Location", "location_clean")
	assert.Equal(t, []string{"location_clean", "city"}, ds.Columns)
	assert.True(t, ds.HasColumn("location_clean"))
	assert.False(t, ds.HasColumn("Aggregated Location"))

	// No-op when the target already exists.
	ds.RenameColumn("city", "location_clean")
	assert.Equal(t, []string{"location_clean", "city"}, ds.Columns)

	// No-op when the source is absent.
	ds.RenameColumn("missing", "other")
	assert.Equal(t, []string{"location_clean", "city"}, ds.Columns)
}

func TestDataset_DropColumn(t *testing.T) {
	ds := New([]string{"a", "b", "c"}, [][]string{{"1", "2", "3"}, {"4", "5", "6"}})

	ds.DropColumn("b")
	assert.Equal(t, []string{"a", "c"}, ds.Columns)
	assert.Equal(t, []string{"1", "3"}, ds.Rows[0])
	assert.Equal(t, []string{"4", "6"}, ds.Rows[1])

	ds.DropColumn("nope")
	assert.Equal(t, []string{"a", "c"}, ds.Columns)
}

func TestDataset_AppendColumn(t *testing.T) {
	ds := New([]string{"a"}, [][]string{{"1"}, {"2"}})

	ds.AppendColumn("b", []string{"x"})
	assert.Equal(t, []string{"a", "b"}, ds.Columns)
	assert.Equal(t, []string{"1", "x"}, ds.Rows[0])
	assert.Equal(t, []string{"2", ""}, ds.Rows[1])
}

func TestDataset_SelectIsDeepCopy(t *testing.T) {
	ds := New([]string{"a", "b"}, [][]string{{"1", "2"}, {"3", "4"}})

	sub := ds.Select([]int{1})
	require.Equal(t, 1, sub.RowCount())
	assert.Equal(t, []string{"3", "4"}, sub.Rows[0])

	sub.Rows[0][0] = "mutated"
	sub.DropColumn("b")
	assert.Equal(t, []string{"3", "4"}, ds.Rows[1], "raw dataset must be untouched")
	assert.Equal(t, []string{"a", "b"}, ds.Columns)
}

func TestDataset_Clone(t *testing.T) {
	ds := New([]string{"a"}, [][]string{{"1"}})
	clone := ds.Clone()

	clone.Rows[0][0] = "changed"
	clone.AppendColumn("b", []string{"x"})

	assert.Equal(t, "1", ds.Rows[0][0])
	assert.Equal(t, []string{"a"}, ds.Columns)
}
