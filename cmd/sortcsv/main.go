// Command sortcsv prints a delimited file sorted by its date column, in its
// own separator and date layout.
package main

import (
	"flag"
	"io"
	"log/slog"
	"os"

	"ratecli/internal/cli"
	"ratecli/internal/dataprocessing"
	"ratecli/internal/exporter"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sortcsv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "input file (required)")
	key := fs.Int("key", 0, "key column index; negative counts from the end")
	out := fs.String("out", "", "write CSV here instead of stdout")
	bom := fs.Bool("bom", false, "prefix -out with a UTF-8 byte order mark")
	xlsx := fs.String("xlsx", "", "also write the sorted rows to this workbook")
	common := cli.RegisterCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return cli.ExitError
	}
	if *file == "" {
		return cli.Usage(fs, stderr, "-file is required")
	}

	env, err := cli.NewEnv("sortcsv", common, stderr)
	if err != nil {
		return cli.Usage(fs, stderr, err.Error())
	}
	ctx := cli.Start()

	if err := env.Files.ValidateInputFile(*file); err != nil {
		return env.Finish(ctx, env.Fail(ctx, err))
	}
	if *out != "" {
		if err := env.Files.ValidateOutputFile(*out); err != nil {
			return env.Finish(ctx, env.Fail(ctx, err))
		}
	}
	if *xlsx != "" {
		if err := env.Files.ValidateOutputFile(*xlsx, ".xlsx"); err != nil {
			return env.Finish(ctx, env.Fail(ctx, err))
		}
	}

	ds, err := env.Parser().ParseFile(ctx, *file, dataprocessing.ParseOptions{KeyIndex: *key, KeyMode: env.KeyMode})
	if err != nil {
		return env.Finish(ctx, env.Fail(ctx, err))
	}

	writer := exporter.NewCSVWriter(env.Logger)
	if *out != "" {
		err = writer.WriteDataset(*out, ds, exporter.WriteOptions{BOMPrefix: *bom})
	} else {
		err = writer.EncodeDataset(stdout, ds, exporter.WriteOptions{})
	}
	if err != nil {
		return env.Finish(ctx, env.Fail(ctx, err))
	}

	if *xlsx != "" {
		if err := exporter.NewWorkbookWriter(env.Logger).WriteDataset(*xlsx, ds); err != nil {
			return env.Finish(ctx, env.Fail(ctx, err))
		}
	}

	env.Logger.InfoContext(ctx, "sorted",
		slog.String("source", ds.Source),
		slog.Int("rows", len(ds.Rows())),
		slog.String("layout", ds.Layout()))
	return env.Finish(ctx, cli.ExitOK)
}
