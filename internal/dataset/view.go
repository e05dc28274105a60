package dataset

import (
	"context"

	"icpcli/pkg/contracts/domain"
)

// ComputeView is the single entry point for one recomputation pass: the
// host calls it synchronously on every selection change with the cached raw
// dataset and the user's current selections. The raw dataset is never
// modified; the pipeline runs filter, projection, stable sort and
// aggregation over a working copy and returns the finished view model.
func ComputeView(ctx context.Context, raw *Dataset, sel domain.Selection, sortSpec domain.SortSpec) (*domain.ViewModel, *Dataset, error) {
	working := Filter(raw, sel)
	Project(working)

	if sortSpec.Column == "" {
		sortSpec.Column = DefaultSortColumn(working)
	}
	Sort(working, sortSpec)

	summaries, err := Aggregate(ctx, working)
	if err != nil {
		return nil, nil, err
	}

	view := &domain.ViewModel{
		Columns:    working.Columns,
		Rows:       working.Rows,
		TotalRows:  working.RowCount(),
		SortColumn: sortSpec.Column,
		Descending: sortSpec.Descending,
		Summaries:  summaries,
	}
	return view, working, nil
}
