package http

import (
	"context"
	"io"

	"icpcli/internal/exporter"
	"icpcli/internal/services"
	"icpcli/pkg/contracts/domain"
)

// ExplorerServiceInterface defines the service operations the segments
// handler depends on. Satisfied by services.ExplorerService; mocked in tests.
type ExplorerServiceInterface interface {
	Vocabulary(ctx context.Context) (domain.Vocabularies, error)
	View(ctx context.Context, sel domain.Selection, sortSpec domain.SortSpec) (*domain.ViewModel, error)
	Export(ctx context.Context, out io.Writer, sel domain.Selection, sortSpec domain.SortSpec, format exporter.Format) (string, error)
	Upload(ctx context.Context, filename string, r io.Reader, size int64) (int, error)
	ClearUpload(ctx context.Context)
	Info(ctx context.Context) services.DatasetInfo
}
