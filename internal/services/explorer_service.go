package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"icpcli/internal/config"
	"icpcli/internal/dataset"
	apierrors "icpcli/internal/errors"
	"icpcli/internal/exporter"
	"icpcli/internal/infrastructure"
	"icpcli/internal/validation"
	"icpcli/pkg/contracts/domain"
)

// ExplorerService owns the session's active dataset and runs the
// filter/sort/aggregate pipeline over it. The dataset comes from the
// configured default path until an upload replaces it; the raw records are
// never mutated, every view is computed on a working copy.
type ExplorerService struct {
	cfg       *config.Config
	loader    *dataset.Loader
	writer    *exporter.Writer
	validator *validation.DatasetFileValidator
	logger    *slog.Logger
	metrics   *infrastructure.BusinessMetrics

	mu           sync.RWMutex
	uploaded     *dataset.Dataset
	uploadedName string
	uploadedAt   time.Time
}

// DatasetInfo describes the currently active dataset source.
type DatasetInfo struct {
	Source   string    `json:"source"`
	Uploaded bool      `json:"uploaded"`
	Records  int       `json:"records"`
	Columns  []string  `json:"columns"`
	LoadedAt time.Time `json:"loaded_at,omitempty"`
}

// NewExplorerService creates an explorer service backed by the configured
// default dataset path.
func NewExplorerService(cfg *config.Config, logger *slog.Logger) *ExplorerService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "explorer_service"))

	return &ExplorerService{
		cfg:       cfg,
		loader:    dataset.NewLoader(logger),
		writer:    exporter.NewWriter(logger),
		validator: validation.NewDatasetFileValidator(logger),
		logger:    logger,
	}
}

// SetMetrics attaches business metrics instruments. Optional; the service
// works without them.
func (s *ExplorerService) SetMetrics(metrics *infrastructure.BusinessMetrics) {
	s.metrics = metrics
}

// Dataset returns the active raw dataset and a label for its source. The
// uploaded dataset takes precedence over the configured path.
func (s *ExplorerService) Dataset(ctx context.Context) (*dataset.Dataset, string, error) {
	s.mu.RLock()
	uploaded, name := s.uploaded, s.uploadedName
	s.mu.RUnlock()

	if uploaded != nil {
		return uploaded, name, nil
	}

	path := s.cfg.ResolvedDatasetPath()
	if err := s.validator.ValidateDatasetFile(path); err != nil {
		return dataset.New(nil, nil), path, fmt.Errorf("%w: %v", apierrors.ErrDatasetNotLoaded, err)
	}

	start := time.Now()
	ds, err := s.loader.LoadPath(ctx, path)
	infrastructure.RecordLoadMetrics(ctx, s.metrics, "path", time.Since(start), ds.RowCount(), err == nil)
	if err != nil {
		return ds, path, fmt.Errorf("%w: %v", apierrors.ErrDatasetNotLoaded, err)
	}
	if ds.RowCount() == 0 {
		// A header-only file halts the pipeline before any filtering runs.
		return ds, path, fmt.Errorf("%w: %s", apierrors.ErrEmptyDataset, path)
	}
	return ds, path, nil
}

// Vocabulary derives the distinct filter values of the active dataset.
func (s *ExplorerService) Vocabulary(ctx context.Context) (domain.Vocabularies, error) {
	ds, _, err := s.Dataset(ctx)
	if err != nil {
		return domain.Vocabularies{}, err
	}
	return dataset.Vocabularies(ds), nil
}

// View applies the selection, sorts and aggregates, and returns the finished
// view model. An explicitly requested sort column must exist in the
// projected view.
func (s *ExplorerService) View(ctx context.Context, sel domain.Selection, sortSpec domain.SortSpec) (*domain.ViewModel, error) {
	raw, _, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	view, _, err := dataset.ComputeView(ctx, raw, sel, sortSpec)
	infrastructure.RecordViewMetrics(ctx, s.metrics, time.Since(start), viewRecords(view), err == nil)
	if err != nil {
		return nil, fmt.Errorf("compute view: %w", err)
	}

	if sortSpec.Column != "" && !slices.Contains(view.Columns, sortSpec.Column) {
		return nil, fmt.Errorf("%w: %s", apierrors.ErrUnknownSortColumn, sortSpec.Column)
	}

	s.logger.InfoContext(ctx, "view computed",
		slog.Int("total_rows", view.TotalRows),
		slog.String("sort_column", view.SortColumn),
		slog.Bool("descending", view.Descending))

	return view, nil
}

// Export serializes the filtered, projected and sorted records to out in the
// requested format and returns the suggested download filename.
func (s *ExplorerService) Export(ctx context.Context, out io.Writer, sel domain.Selection, sortSpec domain.SortSpec, format exporter.Format) (string, error) {
	raw, _, err := s.Dataset(ctx)
	if err != nil {
		return "", err
	}

	_, working, err := dataset.ComputeView(ctx, raw, sel, sortSpec)
	if err != nil {
		return "", fmt.Errorf("compute export view: %w", err)
	}

	switch format {
	case exporter.FormatXLSX:
		err = s.writer.WriteXLSX(out, working)
	default:
		err = s.writer.WriteCSV(out, working, exporter.CSVOptions{})
	}
	infrastructure.RecordExportMetrics(ctx, s.metrics, string(format), err == nil)
	if err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}

	s.logger.InfoContext(ctx, "dataset exported",
		slog.String("format", string(format)),
		slog.Int("records", working.RowCount()))

	return format.SuggestedFilename(), nil
}

// Upload replaces the session dataset with the uploaded file's contents.
// Returns the number of records parsed.
func (s *ExplorerService) Upload(ctx context.Context, filename string, r io.Reader, size int64) (int, error) {
	if max := s.cfg.Dataset.MaxUploadBytes; size > max {
		infrastructure.RecordUploadMetrics(ctx, s.metrics, false)
		return 0, fmt.Errorf("%w: %d bytes (limit %d)", apierrors.ErrUploadTooLarge, size, max)
	}
	if err := s.validator.ValidateUploadFilename(filepath.Base(filename)); err != nil {
		infrastructure.RecordUploadMetrics(ctx, s.metrics, false)
		return 0, err
	}

	var (
		ds  *dataset.Dataset
		err error
	)
	start := time.Now()
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		ds, err = s.loader.LoadCSV(r)
	case ".xlsx":
		ds, err = s.loader.LoadXLSX(r)
	default:
		infrastructure.RecordUploadMetrics(ctx, s.metrics, false)
		return 0, fmt.Errorf("%w: %s", apierrors.ErrUnsupportedFormat, filepath.Ext(filename))
	}
	if err != nil {
		infrastructure.RecordUploadMetrics(ctx, s.metrics, false)
		return 0, fmt.Errorf("%w: %v", apierrors.ErrUnsupportedFormat, err)
	}
	if len(ds.Columns) == 0 || ds.RowCount() == 0 {
		infrastructure.RecordUploadMetrics(ctx, s.metrics, false)
		return 0, apierrors.ErrEmptyDataset
	}

	s.mu.Lock()
	s.uploaded = ds
	s.uploadedName = filepath.Base(filename)
	s.uploadedAt = time.Now()
	s.mu.Unlock()

	infrastructure.RecordUploadMetrics(ctx, s.metrics, true)
	infrastructure.RecordLoadMetrics(ctx, s.metrics, "upload", time.Since(start), ds.RowCount(), true)

	s.logger.InfoContext(ctx, "dataset uploaded",
		slog.String("filename", filepath.Base(filename)),
		slog.Int("records", ds.RowCount()),
		slog.Int("columns", len(ds.Columns)))

	return ds.RowCount(), nil
}

// ClearUpload discards the uploaded dataset and reverts to the configured
// path. The path cache entry is invalidated so the next read hits the disk.
func (s *ExplorerService) ClearUpload(ctx context.Context) {
	s.mu.Lock()
	s.uploaded = nil
	s.uploadedName = ""
	s.uploadedAt = time.Time{}
	s.mu.Unlock()

	s.loader.Invalidate(s.cfg.ResolvedDatasetPath())
	s.logger.InfoContext(ctx, "uploaded dataset cleared")
}

// Info reports the active dataset source without failing hard: a missing
// default file yields an info with zero records.
func (s *ExplorerService) Info(ctx context.Context) DatasetInfo {
	s.mu.RLock()
	uploaded, name, at := s.uploaded, s.uploadedName, s.uploadedAt
	s.mu.RUnlock()

	if uploaded != nil {
		return DatasetInfo{
			Source:   name,
			Uploaded: true,
			Records:  uploaded.RowCount(),
			Columns:  uploaded.Columns,
			LoadedAt: at,
		}
	}

	path := s.cfg.ResolvedDatasetPath()
	ds, _, err := s.Dataset(ctx)
	info := DatasetInfo{Source: path}
	if err == nil {
		info.Records = ds.RowCount()
		info.Columns = ds.Columns
	}
	return info
}

func viewRecords(view *domain.ViewModel) int {
	if view == nil {
		return 0
	}
	return view.TotalRows
}
