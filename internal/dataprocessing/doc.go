// Package dataprocessing runs the inference pipeline over whole sources and
// builds the collaborators that consume its output.
//
// # Pipeline
//
// Parser.ParseFile and Parser.ParseLines take raw lines through:
//
//	separator guess → tokenizing → header sniffing → key format inference →
//	column kinds → sorted Series
//
// and return a Dataset. Inference failures abort the load; non-fatal findings
// (a separator tie, mixed time precision) are returned in Dataset.Warnings,
// logged and counted in metrics.
//
// # Consumers
//
//   - RateLoader turns a rate file into a series.RateTable using the midpoint
//     of a low and a high column.
//   - ChainProcessor multiplies a value column through several rate tables,
//     matching each row to the nearest earlier rate.
//   - Summarizer computes column averages and transaction totals.
//
// # Usage
//
//	parser := dataprocessing.NewParser(logger, cfg.Inference, telemetry)
//	ds, err := parser.ParseFile(ctx, "rates.csv", dataprocessing.ParseOptions{})
//	if err != nil {
//	    return err
//	}
//	for _, row := range ds.Rows() {
//	    fmt.Println(ds.Format.Format(row.Key))
//	}
package dataprocessing
