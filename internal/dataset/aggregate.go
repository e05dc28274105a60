package dataset

import (
	"context"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"icpcli/pkg/contracts/domain"
)

const (
	topRolesLimit  = 20
	topValuesLimit = 10
)

// Aggregate computes the summary blocks over the filtered record set. Each
// block is guarded by the presence of its source column(s) and degrades to
// nil when the schema cannot support it. The blocks are independent
// read-only passes, so they run concurrently within the one synchronous
// recomputation.
func Aggregate(ctx context.Context, ds *Dataset) (domain.Summaries, error) {
	var summaries domain.Summaries

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		summaries.PoolSize = PoolSizeStats(ds)
		return nil
	})
	g.Go(func() error {
		summaries.Industries = IndustryBreakdown(ds)
		return nil
	})
	g.Go(func() error {
		summaries.TopRoles = TopRolesByLocation(ds)
		return nil
	})
	g.Go(func() error {
		summaries.Cities = TopColumnValues(ds, ColCity)
		summaries.States = TopColumnValues(ds, ColState)
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.Summaries{}, err
	}
	return summaries, nil
}

// PoolSizeStats computes mean, median, mode and a frequency distribution of
// the pool_size column. Nil when the column is absent or holds no numeric
// value. Mean and median are truncated to integers. When several values tie
// for the highest frequency the smallest wins; that tie-break is
// implementation-defined, not a contract.
func PoolSizeStats(ds *Dataset) *domain.PoolSizeStats {
	if !ds.HasColumn(ColPoolSize) {
		return nil
	}

	var values []float64
	counts := make(map[float64]int)
	for row := range ds.Rows {
		raw, ok := ds.Value(row, ColPoolSize)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		values = append(values, v)
		counts[v]++
	}
	if len(values) == 0 {
		return nil
	}

	stats := &domain.PoolSizeStats{
		Mean:   int64(mean(values)),
		Median: int64(median(values)),
	}

	// Mode: most frequent value, smallest first among ties.
	distinct := make([]float64, 0, len(counts))
	for v := range counts {
		distinct = append(distinct, v)
	}
	sort.Float64s(distinct)

	best := distinct[0]
	for _, v := range distinct[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	mode := int64(best)
	stats.Mode = &mode

	// Distribution ordered by value ascending, for bar-chart rendering.
	stats.Distribution = make([]domain.ValueCount, 0, len(distinct))
	for _, v := range distinct {
		stats.Distribution = append(stats.Distribution, domain.ValueCount{
			Value: strconv.FormatFloat(v, 'f', -1, 64),
			Count: counts[v],
		})
	}
	return stats
}

// IndustryBreakdown counts rows per distinct gpt_industry value, most
// frequent first (ties by value ascending). Nil when the column is absent.
func IndustryBreakdown(ds *Dataset) []domain.ValueCount {
	if !ds.HasColumn(ColGPTIndustry) {
		return nil
	}
	return countValues(ds, ColGPTIndustry, 0)
}

// TopRolesByLocation groups the filtered rows by (location_clean,
// primary_role), counts occurrences and keeps the 20 highest counts,
// descending. Rows missing either key are skipped. Nil when either column
// is absent.
func TopRolesByLocation(ds *Dataset) []domain.LocationRoleCount {
	if !ds.HasColumn(ColPrimaryRole) || !ds.HasColumn(ColLocation) {
		return nil
	}

	type pair struct {
		location, role string
	}
	counts := make(map[pair]int)
	for row := range ds.Rows {
		location, ok := ds.Value(row, ColLocation)
		if !ok {
			continue
		}
		role, ok := ds.Value(row, ColPrimaryRole)
		if !ok {
			continue
		}
		counts[pair{location, role}]++
	}

	groups := make([]domain.LocationRoleCount, 0, len(counts))
	for p, n := range counts {
		groups = append(groups, domain.LocationRoleCount{
			Location: p.location,
			Role:     p.role,
			Count:    n,
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		if groups[i].Location != groups[j].Location {
			return groups[i].Location < groups[j].Location
		}
		return groups[i].Role < groups[j].Role
	})

	if len(groups) > topRolesLimit {
		groups = groups[:topRolesLimit]
	}
	return groups
}

// TopColumnValues builds a top-10 frequency table over a single column.
// Nil when the column is absent; NoData set when it exists but holds no
// non-missing value after filtering.
func TopColumnValues(ds *Dataset, column string) *domain.TopValues {
	if !ds.HasColumn(column) {
		return nil
	}
	values := countValues(ds, column, topValuesLimit)
	return &domain.TopValues{
		Values: values,
		NoData: len(values) == 0,
	}
}

// countValues tallies non-missing values of a column, ordered by count
// descending then value ascending, truncated to limit when limit > 0.
func countValues(ds *Dataset, column string, limit int) []domain.ValueCount {
	counts := make(map[string]int)
	for row := range ds.Rows {
		value, ok := ds.Value(row, column)
		if !ok {
			continue
		}
		counts[value]++
	}

	result := make([]domain.ValueCount, 0, len(counts))
	for v, n := range counts {
		result = append(result, domain.ValueCount{Value: v, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Value < result[j].Value
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
