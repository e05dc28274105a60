package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoader_LoadCSV(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		expectedColumns []string
		expectedRows    int
	}{
		{
			name:            "simple csv",
			input:           "city,state\nAustin,TX\nDallas,TX\n",
			expectedColumns: []string{"city", "state"},
			expectedRows:    2,
		},
		{
			name:            "utf8 bom stripped",
			input:           "\xEF\xBB\xBFcity,state\nAustin,TX\n",
			expectedColumns: []string{"city", "state"},
			expectedRows:    1,
		},
		{
			name:            "ragged rows tolerated",
			input:           "a,b,c\n1\n1,2,3,4\n",
			expectedColumns: []string{"a", "b", "c"},
			expectedRows:    2,
		},
		{
			name:            "header only",
			input:           "a,b\n",
			expectedColumns: []string{"a", "b"},
			expectedRows:    0,
		},
		{
			name:         "empty input",
			input:        "",
			expectedRows: 0,
		},
	}

	loader := NewLoader(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := loader.LoadCSV(strings.NewReader(tt.input))
			require.NoError(t, err)
			if tt.expectedColumns != nil {
				assert.Equal(t, tt.expectedColumns, ds.Columns)
			}
			assert.Equal(t, tt.expectedRows, ds.RowCount())
		})
	}
}

func TestLoader_LoadCSV_NormalizesSchema(t *testing.T) {
	loader := NewLoader(nil)

	ds, err := loader.LoadCSV(strings.NewReader("Aggregated Location,city\nUS,Austin\n"))
	require.NoError(t, err)

	assert.True(t, ds.HasColumn(ColLocation))
	assert.False(t, ds.HasColumn(ColAggregatedLocation))
}

func TestLoader_LoadPath_MissingFile(t *testing.T) {
	loader := NewLoader(nil)

	ds, err := loader.LoadPath(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	require.NotNil(t, ds, "load failure must still return an empty dataset")
	assert.Equal(t, 0, ds.RowCount())
}

func TestLoader_LoadPath_CachesByPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "segments.csv")
	require.NoError(t, os.WriteFile(path, []byte("city\nAustin\n"), 0644))

	loader := NewLoader(nil)
	ctx := context.Background()

	first, err := loader.LoadPath(ctx, path)
	require.NoError(t, err)
	require.Equal(t, 1, first.RowCount())

	// Rewrite the file; the cached dataset must still be served.
	require.NoError(t, os.WriteFile(path, []byte("city\nAustin\nDallas\n"), 0644))

	second, err := loader.LoadPath(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, second.RowCount())

	// Invalidating forces a re-read.
	loader.Invalidate(path)
	third, err := loader.LoadPath(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, third.RowCount())
}

func TestLoader_LoadPath_DifferentPathsAreDistinctEntries(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.csv")
	pathB := filepath.Join(dir, "b.csv")
	require.NoError(t, os.WriteFile(pathA, []byte("city\nAustin\n"), 0644))
	require.NoError(t, os.WriteFile(pathB, []byte("city\nDallas\nHouston\n"), 0644))

	loader := NewLoader(nil)
	ctx := context.Background()

	a, err := loader.LoadPath(ctx, pathA)
	require.NoError(t, err)
	b, err := loader.LoadPath(ctx, pathB)
	require.NoError(t, err)

	assert.Equal(t, 1, a.RowCount())
	assert.Equal(t, 2, b.RowCount())
}

func TestLoader_LoadXLSX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "segments.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]string{"city", "pool_size"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]string{"Austin", "5"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	loader := NewLoader(nil)
	ds, err := loader.LoadPath(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"city", "pool_size"}, ds.Columns)
	require.Equal(t, 1, ds.RowCount())
	value, ok := ds.Value(0, "city")
	assert.True(t, ok)
	assert.Equal(t, "Austin", value)
}
