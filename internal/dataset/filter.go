package dataset

import (
	"strings"

	"icpcli/pkg/contracts/domain"
)

// Filter applies the selection to the record set and returns the matching
// subset as a new dataset, preserving the original row order. Dimensions
// combine with logical AND; a dimension with no selected values, or whose
// column is absent, imposes no constraint. The receiver is never modified.
func Filter(ds *Dataset, sel domain.Selection) *Dataset {
	predicates := buildPredicates(ds, sel)

	indices := make([]int, 0, ds.RowCount())
	for row := range ds.Rows {
		keep := true
		for _, p := range predicates {
			if !p(row) {
				keep = false
				break
			}
		}
		if keep {
			indices = append(indices, row)
		}
	}
	return ds.Select(indices)
}

type rowPredicate func(row int) bool

func buildPredicates(ds *Dataset, sel domain.Selection) []rowPredicate {
	var predicates []rowPredicate

	// Role matching is substring containment against the raw cell, not an
	// exact comma-token match: selecting "Manager" keeps a row whose
	// cleaned_roles reads "Senior Manager, Ops".
	if len(sel.Roles) > 0 && ds.HasColumn(ColCleanedRoles) {
		roles := sel.Roles
		predicates = append(predicates, func(row int) bool {
			value, ok := ds.Value(row, ColCleanedRoles)
			if !ok {
				return false
			}
			for _, role := range roles {
				if strings.Contains(value, role) {
					return true
				}
			}
			return false
		})
	}

	for _, dim := range []struct {
		column string
		values []string
	}{
		{ColGPTIndustry, sel.Industries},
		{ColLocation, sel.Locations},
		{ColState, sel.States},
		{ColCity, sel.Cities},
	} {
		if len(dim.values) == 0 || !ds.HasColumn(dim.column) {
			continue
		}
		predicates = append(predicates, exactMatch(ds, dim.column, dim.values))
	}

	return predicates
}

// exactMatch keeps a row when the raw cell value is a member of the
// selected set.
func exactMatch(ds *Dataset, column string, values []string) rowPredicate {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return func(row int) bool {
		value, ok := ds.Value(row, column)
		if !ok {
			return false
		}
		_, member := set[value]
		return member
	}
}
