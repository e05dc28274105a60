package dataset

import "strings"

// Project removes and derives presentation columns on the working copy,
// after filtering:
//
//   - industries_clean is dropped when present
//   - PC Link is derived from PC URL (the cell value when it starts with
//     "http", else the empty string) and appended; PC URL is then dropped
//
// The dataset is modified in place, so callers must pass a working copy.
func Project(ds *Dataset) {
	ds.DropColumn(ColIndustriesClean)

	if !ds.HasColumn(ColPCURL) {
		return
	}

	links := make([]string, ds.RowCount())
	for row := range ds.Rows {
		value, ok := ds.Value(row, ColPCURL)
		if ok && strings.HasPrefix(value, "http") {
			links[row] = value
		}
	}
	ds.DropColumn(ColPCURL)
	ds.AppendColumn(ColPCLink, links)
}
