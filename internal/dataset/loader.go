package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gocache "github.com/patrickmn/go-cache"
	"github.com/xuri/excelize/v2"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Loader reads tabular source files into datasets. Loads from a filesystem
// path are cached keyed by the absolute path, so repeated loads within a
// session avoid re-reading the file; a different path is simply a different
// cache entry. The cache lives for the process lifetime.
type Loader struct {
	logger *slog.Logger
	cache  *gocache.Cache
}

// NewLoader creates a loader with a process-wide load cache.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger: logger.With(slog.String("component", "dataset_loader")),
		cache:  gocache.New(gocache.NoExpiration, 0),
	}
}

// LoadPath reads a CSV or XLSX file from disk, normalizes its schema and
// caches the result. On any failure it returns an empty dataset together
// with the error, so callers always have a usable (if halted) record set.
func (l *Loader) LoadPath(ctx context.Context, path string) (*Dataset, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	if cached, ok := l.cache.Get(abs); ok {
		ds := cached.(*Dataset)
		l.logger.DebugContext(ctx, "dataset served from cache",
			slog.String("path", abs),
			slog.Int("rows", ds.RowCount()))
		return ds, nil
	}

	file, err := os.Open(abs)
	if err != nil {
		l.logger.ErrorContext(ctx, "failed to open dataset file",
			slog.String("path", abs),
			slog.String("error", err.Error()))
		return New(nil, nil), fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer file.Close()

	var ds *Dataset
	if strings.EqualFold(filepath.Ext(abs), ".xlsx") {
		ds, err = l.LoadXLSX(file)
	} else {
		ds, err = l.LoadCSV(file)
	}
	if err != nil {
		l.logger.ErrorContext(ctx, "failed to parse dataset file",
			slog.String("path", abs),
			slog.String("error", err.Error()))
		return New(nil, nil), fmt.Errorf("parse dataset %s: %w", path, err)
	}

	l.cache.Set(abs, ds, gocache.NoExpiration)
	l.logger.InfoContext(ctx, "dataset loaded",
		slog.String("path", abs),
		slog.Int("rows", ds.RowCount()),
		slog.Int("columns", len(ds.Columns)))

	return ds, nil
}

// Invalidate drops the cache entry for a path, forcing the next LoadPath to
// re-read the file.
func (l *Loader) Invalidate(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	l.cache.Delete(path)
}

// LoadCSV parses comma-separated text with a header row. Ragged rows are
// tolerated: short rows are padded with empty cells, long rows truncated to
// the header width. A leading UTF-8 BOM is stripped.
func (l *Loader) LoadCSV(r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return New(nil, nil), fmt.Errorf("read csv data: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return New(nil, nil), fmt.Errorf("parse csv data: %w", err)
	}
	if len(records) == 0 {
		return New(nil, nil), nil
	}

	ds := New(records[0], records[1:])
	Normalize(ds)
	return ds, nil
}

// LoadXLSX parses the first sheet of an Excel workbook, first row as header.
func (l *Loader) LoadXLSX(r io.Reader) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return New(nil, nil), fmt.Errorf("open xlsx data: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return New(nil, nil), fmt.Errorf("xlsx workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return New(nil, nil), fmt.Errorf("read xlsx sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return New(nil, nil), nil
	}

	ds := New(rows[0], rows[1:])
	Normalize(ds)
	return ds, nil
}
