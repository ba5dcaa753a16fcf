// Command summarize totals the added and subtracted amounts of a
// transaction file.
package main

import (
	"flag"
	"io"
	"os"

	"ratecli/internal/cli"
	"ratecli/internal/dataprocessing"
	"ratecli/internal/exporter"
	"ratecli/internal/series"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("summarize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "transaction file (required)")
	key := fs.Int("key", 0, "key column index; negative counts from the end")
	field := fs.Int("field", 1, "value column index; negative counts from the end")
	onlyAdd := fs.Bool("only-add", false, "keep positive amounts only")
	onlySubtract := fs.Bool("only-subtract", false, "keep negative amounts only")
	common := cli.RegisterCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return cli.ExitError
	}
	if *file == "" {
		return cli.Usage(fs, stderr, "-file is required")
	}
	if *onlyAdd && *onlySubtract {
		return cli.Usage(fs, stderr, "-only-add and -only-subtract are exclusive")
	}

	env, err := cli.NewEnv("summarize", common, stderr)
	if err != nil {
		return cli.Usage(fs, stderr, err.Error())
	}
	ctx := cli.Start()

	if err := env.Files.ValidateInputFile(*file); err != nil {
		return env.Finish(ctx, env.Fail(ctx, err))
	}

	ds, err := env.Parser().ParseFile(ctx, *file, dataprocessing.ParseOptions{KeyIndex: *key, KeyMode: series.KeyByDatetime})
	if err != nil {
		return env.Finish(ctx, env.Fail(ctx, err))
	}

	ops := dataprocessing.Operators{Add: !*onlySubtract, Subtract: !*onlyAdd}
	report, err := dataprocessing.NewSummarizer(env.Logger, env.Telemetry).Transactions(ctx, ds, *field, ops)
	if err != nil {
		return env.Finish(ctx, env.Fail(ctx, err))
	}

	headers, records := exporter.TransactionRecords(ds, report)
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
