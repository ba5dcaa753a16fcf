// Package exporter renders parsed datasets and reports back out.
//
// CSVWriter writes delimited text, by default with the separator the source
// was read with and keys in the source's own date layout. WorkbookWriter
// writes the same rows into an XLSX sheet with numeric cells for numeric
// columns. AverageRecords, TransactionRecords and ChainRecords turn the
// dataprocessing reports into header and record slices for either writer.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(logger)
//	err := w.EncodeDataset(os.Stdout, ds, exporter.WriteOptions{})
package exporter
