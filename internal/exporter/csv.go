package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"icpcli/internal/dataset"
)

// FilteredDataFilename is the suggested download name for an exported
// filtered record set.
const FilteredDataFilename = "filtered_icp_data.csv"

// Writer serializes record sets for download or offline output.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates an exporter writer.
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger.With(slog.String("component", "exporter"))}
}

// CSVOptions configures CSV serialization.
type CSVOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV serializes the dataset as comma-separated text with a header row
// and no row-index column, the same format the loader consumes.
func (w *Writer) WriteCSV(out io.Writer, ds *dataset.Dataset, options CSVOptions) error {
	if options.BOMPrefix {
		if _, err := out.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)

	if err := writer.Write(ds.Columns); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	for i, row := range ds.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteCSVFile writes the dataset to a file on disk, creating parent
// directories as needed.
func (w *Writer) WriteCSVFile(path string, ds *dataset.Dataset, options CSVOptions) error {
	w.logger.Info("writing CSV file",
		slog.String("path", path),
		slog.Int("record_count", ds.RowCount()))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	return w.WriteCSV(file, ds, options)
}
