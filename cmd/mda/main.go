// Command mda reports the first and last date, the row count and the mean of
// every numeric column of a dated file, optionally within a date range.
package main

import (
	"flag"
	"io"
	"os"
	"time"

	"ratecli/internal/cli"
	"ratecli/internal/dataprocessing"
	"ratecli/internal/exporter"
	"ratecli/internal/series"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("mda", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "input file (required)")
	key := fs.Int("key", 0, "key column index; negative counts from the end")
	start := fs.String("start", "", "first date to include")
	end := fs.String("end", "", "last date to include")
	common := cli.RegisterCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return cli.ExitError
	}
	if *file == "" {
		return cli.Usage(fs, stderr, "-file is required")
	}

	env, err := cli.NewEnv("mda", common, stderr)
	if err != nil {
		return cli.Usage(fs, stderr, err.Error())
	}
	ctx := cli.Start()

	from, to, err := parseBounds(*start, *end)
	if err != nil {
		return env.Finish(ctx, env.Fail(ctx, err))
	}

	if err := env.Files.ValidateInputFile(*file); err != nil {
		return env.Finish(ctx, env.Fail(ctx, err))
	}

	ds, err := env.Parser().ParseFile(ctx, *file, dataprocessing.ParseOptions{KeyIndex: *key, KeyMode: series.KeyByDate})
	if err != nil {
		return env.Finish(ctx, env.Fail(ctx, err))
	}

	report, err := dataprocessing.NewSummarizer(env.Logger, env.Telemetry).Averages(ctx, ds, from, to)
	if err != nil {
		return env.Finish(ctx, env.Fail(ctx, err))
	}

	headers, records := exporter.AverageRecords(ds, report)
	err = exporter.NewCSVWriter(env.Logger).Write(stdout, exporter.WriteOptions{
		Headers:   headers,
		Records:   records,
		Separator: ds.Dialect.Separator,
	})
	if err != nil {
		return env.Finish(ctx, env.Fail(ctx, err))
	}
	return env.Finish(ctx, cli.ExitOK)
}

// parseBounds infers one layout for both bounds. A single bound is inferred
// from itself.
func parseBounds(start, end string) (*time.Time, *time.Time, error) {
	switch {
	case start == "" && end == "":
		return nil, nil, nil
	case start == "":
		_, to, err := series.ParseRange(end, end)
		return nil, &to, err
	case end == "":
		from, _, err := series.ParseRange(start, start)
		return &from, nil, err
	}
	from, to, err := series.ParseRange(start, end)
	if err != nil {
		return nil, nil, err
	}
	return &from, &to, nil
}
