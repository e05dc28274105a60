package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"icpcli/internal/dataset"
)

const xlsxSheetName = "Segments"

// WriteXLSX serializes the dataset as a single-sheet Excel workbook, header
// row first, mirroring the CSV layout.
func (w *Writer) WriteXLSX(out io.Writer, ds *dataset.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(xlsxSheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("remove default sheet: %w", err)
	}

	header := make([]interface{}, len(ds.Columns))
	for i, c := range ds.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(xlsxSheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	for i, row := range ds.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("compute cell name for record %d: %w", i, err)
		}
		if err := f.SetSheetRow(xlsxSheetName, axis, &cells); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}

	w.logger.Debug("wrote xlsx workbook",
		slog.Int("record_count", ds.RowCount()),
		slog.Int("column_count", len(ds.Columns)))

	return f.Write(out)
}
