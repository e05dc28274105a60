package dataset

import (
	"sort"
	"strconv"
	"strings"

	"icpcli/pkg/contracts/domain"
)

// DefaultSortColumn returns the column the presentation layer should
// propose as the initial sort choice: pool_size when present, otherwise the
// first column. Empty string when the dataset has no columns.
func DefaultSortColumn(ds *Dataset) string {
	if ds.HasColumn(ColPoolSize) {
		return ColPoolSize
	}
	if len(ds.Columns) > 0 {
		return ds.Columns[0]
	}
	return ""
}

// Sort orders the rows by the spec's column, in place, using a stable sort
// so ties retain their post-filter relative order. A column whose
// non-missing values all parse as numbers is compared numerically,
// otherwise lexicographically. Missing values order after present ones for
// both directions. An unknown or empty column is a no-op.
func Sort(ds *Dataset, spec domain.SortSpec) {
	col := ds.ColumnIndex(spec.Column)
	if col < 0 {
		return
	}

	numeric := columnIsNumeric(ds, col)

	sort.SliceStable(ds.Rows, func(i, j int) bool {
		a, aok := cell(ds.Rows[i], col)
		b, bok := cell(ds.Rows[j], col)

		// Missing cells sort last regardless of direction.
		if !aok || !bok {
			return aok && !bok
		}

		var less bool
		if numeric {
			af, _ := strconv.ParseFloat(a, 64)
			bf, _ := strconv.ParseFloat(b, 64)
			if af == bf {
				return false
			}
			less = af < bf
		} else {
			cmp := strings.Compare(a, b)
			if cmp == 0 {
				return false
			}
			less = cmp < 0
		}
		if spec.Descending {
			return !less
		}
		return less
	})
}

func cell(row []string, col int) (string, bool) {
	if col >= len(row) {
		return "", false
	}
	v := strings.TrimSpace(row[col])
	return v, v != ""
}

// columnIsNumeric reports whether every non-missing value in the column
// parses as a float. Columns with no values at all are not numeric.
func columnIsNumeric(ds *Dataset, col int) bool {
	seen := false
	for _, row := range ds.Rows {
		v, ok := cell(row, col)
		if !ok {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return false
		}
		seen = true
	}
	return seen
}
