package dataset

import (
	"strings"
)

// Canonical column names. Presence of a column conditionally enables the
// feature built on it; absence is never an error.
const (
	ColCleanedRoles       = "cleaned_roles"
	ColGPTIndustry        = "gpt_industry"
	ColLocation           = "location_clean"
	ColAggregatedLocation = "Aggregated Location"
	ColState              = "state"
	ColCity               = "city"
	ColPoolSize           = "pool_size"
	ColPCURL              = "PC URL"
	ColPCLink             = "PC Link"
	ColPrimaryRole        = "primary_role"
	ColIndustriesClean    = "industries_clean"
)

// Dataset is an ordered, column-named record set. Cells are stored as raw
// strings; a cell that trims to the empty string counts as missing. The raw
// dataset produced by a load is never mutated in place: every pipeline stage
// that changes shape works on a copy.
type Dataset struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// New creates a dataset from a header row and data rows. Short rows are
// padded so every row has one cell per column.
func New(columns []string, rows [][]string) *Dataset {
	ds := &Dataset{
		Columns: columns,
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, row := range rows {
		if len(row) < len(columns) {
			padded := make([]string, len(columns))
			copy(padded, row)
			row = padded
		} else if len(row) > len(columns) {
			row = row[:len(columns)]
		}
		ds.Rows = append(ds.Rows, row)
	}
	ds.rebuildIndex()
	return ds
}

func (ds *Dataset) rebuildIndex() {
	ds.index = make(map[string]int, len(ds.Columns))
	for i, name := range ds.Columns {
		ds.index[name] = i
	}
}

// RowCount returns the number of data rows.
func (ds *Dataset) RowCount() int {
	return len(ds.Rows)
}

// HasColumn reports whether a column with the given name exists.
func (ds *Dataset) HasColumn(name string) bool {
	_, ok := ds.index[name]
	return ok
}

// ColumnIndex returns the position of the named column, or -1.
func (ds *Dataset) ColumnIndex(name string) int {
	if i, ok := ds.index[name]; ok {
		return i
	}
	return -1
}

// Value returns the cell at (row, column name) and whether the cell is
// non-missing. Absent columns and out-of-range rows report missing.
func (ds *Dataset) Value(row int, column string) (string, bool) {
	i, ok := ds.index[column]
	if !ok || row < 0 || row >= len(ds.Rows) {
		return "", false
	}
	v := ds.Rows[row][i]
	if strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// Clone returns a deep copy sharing nothing with the receiver.
func (ds *Dataset) Clone() *Dataset {
	columns := make([]string, len(ds.Columns))
	copy(columns, ds.Columns)

	rows := make([][]string, len(ds.Rows))
	for i, row := range ds.Rows {
		r := make([]string, len(row))
		copy(r, row)
		rows[i] = r
	}
	return New(columns, rows)
}

// Select returns a deep copy holding only the rows whose indices are
// listed, in the given order. Later stages drop and append columns, so the
// result must share no cell storage with the receiver.
func (ds *Dataset) Select(indices []int) *Dataset {
	columns := make([]string, len(ds.Columns))
	copy(columns, ds.Columns)

	rows := make([][]string, 0, len(indices))
	for _, i := range indices {
		row := make([]string, len(ds.Rows[i]))
		copy(row, ds.Rows[i])
		rows = append(rows, row)
	}
	return New(columns, rows)
}

// RenameColumn renames a column in place. It is a no-op when the old name is
// absent or the new name already exists.
func (ds *Dataset) RenameColumn(old, new string) {
	i, ok := ds.index[old]
	if !ok {
		return
	}
	if _, exists := ds.index[new]; exists {
		return
	}
	ds.Columns[i] = new
	ds.rebuildIndex()
}

// DropColumn removes a column and its cells. No-op when absent.
func (ds *Dataset) DropColumn(name string) {
	i, ok := ds.index[name]
	if !ok {
		return
	}
	ds.Columns = append(ds.Columns[:i], ds.Columns[i+1:]...)
	for r, row := range ds.Rows {
		ds.Rows[r] = append(row[:i], row[i+1:]...)
	}
	ds.rebuildIndex()
}

// AppendColumn adds a column at the end with one value per row. Values
// beyond the row count are ignored; rows beyond the value count get an
// empty cell.
func (ds *Dataset) AppendColumn(name string, values []string) {
	ds.Columns = append(ds.Columns, name)
	for r := range ds.Rows {
		v := ""
		if r < len(values) {
			v = values[r]
		}
		ds.Rows[r] = append(ds.Rows[r], v)
	}
	ds.rebuildIndex()
}
