package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"ratecli/internal/dataprocessing"
	"ratecli/internal/infrastructure"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes delimited output to files or streams.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: infrastructure.WithComponent(logger, "csv_writer")}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers []string
	Records [][]string
	// Separator defaults to ','.
	Separator rune
	Append    bool
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Info("writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(filePath, flags, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return w.Write(file, options)
}

// Write encodes options to out. Headers and the BOM are skipped when appending.
func (w *CSVWriter) Write(out io.Writer, options WriteOptions) error {
	if options.BOMPrefix && !options.Append {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)
	if options.Separator != 0 {
		writer.Comma = options.Separator
	}

	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteDataset writes ds to filePath in key order using the separator it was
// read with. Headers and Records in options are ignored.
func (w *CSVWriter) WriteDataset(filePath string, ds *dataprocessing.Dataset, options WriteOptions) error {
	return w.WriteCSV(filePath, datasetOptions(ds, options))
}

// EncodeDataset is WriteDataset to a stream.
func (w *CSVWriter) EncodeDataset(out io.Writer, ds *dataprocessing.Dataset, options WriteOptions) error {
	return w.Write(out, datasetOptions(ds, options))
}

func datasetOptions(ds *dataprocessing.Dataset, options WriteOptions) WriteOptions {
	options.Headers, options.Records = DatasetRecords(ds)
	if options.Separator == 0 {
		options.Separator = ds.Dialect.Separator
	}
	return options
}
