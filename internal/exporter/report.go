package exporter

import (
	"strconv"

	"ratecli/internal/dataprocessing"
)

// AverageRecords renders an average report as one row per numeric column.
func AverageRecords(ds *dataprocessing.Dataset, report *dataprocessing.AverageReport) ([]string, [][]string) {
	headers := []string{"column", "name", "first", "last", "count", "sum", "mean"}
	first := ds.Format.Format(report.First)
	last := ds.Format.Format(report.Last)
	count := strconv.Itoa(report.Count)

	records := make([][]string, 0, len(report.Columns))
	for _, col := range report.Columns {
		records = append(records, []string{
			strconv.Itoa(col.Index),
			col.Name,
			first,
			last,
			count,
			col.Sum.String(),
			col.Mean.String(),
		})
	}
	return headers, records
}

// TransactionRecords renders kept transactions followed by the totals.
func TransactionRecords(ds *dataprocessing.Dataset, report *dataprocessing.TransactionReport) ([]string, [][]string) {
	headers := []string{"key", "value"}
	records := make([][]string, 0, len(report.Transactions)+3)
	for _, tx := range report.Transactions {
		records = append(records, []string{ds.Format.Format(tx.Row.Key), tx.Value.String()})
	}
	records = append(records,
		[]string{"added", report.Added.String()},
		[]string{"subtracted", report.Subtracted.String()},
		[]string{"net", report.Net.String()},
	)
	return headers, records
}

// ChainRecords renders every source row followed by the source value and
// the value after each step.
func ChainRecords(result *dataprocessing.ChainResult) ([]string, [][]string) {
	ds := result.Dataset

	var headers []string
	if ds.Header != nil && len(result.Rows) > 0 {
		steps := len(result.Rows[0].Values)
		headers = append(append(headers, ds.Header...), "value")
		for i := 1; i < steps; i++ {
			headers = append(headers, "step_"+strconv.Itoa(i))
		}
	}

	records := make([][]string, 0, len(result.Rows))
	for _, cr := range result.Rows {
		record := formatRow(ds, cr.Row)
		for _, v := range cr.Values {
			record = append(record, v.String())
		}
		records = append(records, record)
	}
	return headers, records
}
