package exporter

import (
	"ratecli/internal/dataprocessing"
	"ratecli/internal/fields"
	"ratecli/internal/series"
)

// formatField renders one cell. The key column is rendered with the layout the
// source was written in.
func formatField(ds *dataprocessing.Dataset, row series.Row, col int) string {
	if col == row.KeyIndex {
		return ds.Format.Format(row.Key)
	}
	f := row.Fields[col]
	if f.Kind == fields.KindDate {
		return ds.Format.Format(f.Time)
	}
	return f.String()
}

// formatRow renders every field of row in column order.
func formatRow(ds *dataprocessing.Dataset, row series.Row) []string {
	record := make([]string, len(row.Fields))
	for col := range row.Fields {
		record[col] = formatField(ds, row, col)
	}
	return record
}

// DatasetRecords returns the header (nil when the source had none) and every
// row in key order.
func DatasetRecords(ds *dataprocessing.Dataset) ([]string, [][]string) {
	rows := ds.Rows()
	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = formatRow(ds, row)
	}
	return ds.Header, records
}
