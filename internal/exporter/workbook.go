package exporter

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"ratecli/internal/dataprocessing"
	"ratecli/internal/fields"
	"ratecli/internal/infrastructure"
)

// DefaultSheetName is the sheet WorkbookWriter writes into.
const DefaultSheetName = "Data"

// WorkbookWriter writes datasets as XLSX workbooks.
type WorkbookWriter struct {
	logger    *slog.Logger
	sheetName string
}

// NewWorkbookWriter creates a writer targeting DefaultSheetName.
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{
		logger:    infrastructure.WithComponent(logger, "workbook_writer"),
		sheetName: DefaultSheetName,
	}
}

// WriteDataset writes ds to a single sheet. Keys are text cells in the
// source layout and numeric fields are numeric cells.
func (w *WorkbookWriter) WriteDataset(path string, ds *dataprocessing.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", w.sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	line := 1
	if len(ds.Header) > 0 {
		if err := w.setRow(f, line, stringsToCells(ds.Header)); err != nil {
			return err
		}
		line++
	}

	for _, row := range ds.Rows() {
		cells := make([]interface{}, len(row.Fields))
		for col, field := range row.Fields {
			if col != row.KeyIndex && field.Kind == fields.KindNumber {
				cells[col] = field.Number.InexactFloat64()
				continue
			}
			cells[col] = formatField(ds, row, col)
		}
		if err := w.setRow(f, line, cells); err != nil {
			return err
		}
		line++
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("workbook written",
		slog.String("file_path", path),
		slog.String("source", ds.Source),
		slog.Int("rows", line-1))
	return nil
}

func (w *WorkbookWriter) setRow(f *excelize.File, line int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(w.sheetName, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", line, err)
	}
	return nil
}

func stringsToCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
