// Command ratechain multiplies a value column through one or more rate
// files, matching every row's date to the nearest earlier rate.
//
//	ratechain [flags] SOURCE K,V :: RATES L,H [K] :: RATES L [K] ...
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
	fs := flag.NewFlagSet("ratechain", flag.ContinueOnError)
	fs.SetOutput(stderr)
	maxOffset := fs.Int("max-offset", -1, "days to search back for a rate (default from config)")
	common := cli.RegisterCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return cli.ExitError
	}

	spec, err := dataprocessing.ParseChainArgs(fs.Args())
	if err != nil {
		return cli.Usage(fs, stderr, err.Error())
	}

	env, err := cli.NewEnv("ratechain", common, stderr)
	if err != nil {
		return cli.Usage(fs, stderr, err.Error())
	}
	ctx := cli.Start()

	paths := []string{spec.Source}
	for _, step := range spec.Steps {
		paths = append(paths, step.Path)
	}
	if err := env.Files.ValidateInputFiles(paths...); err != nil {
		return env.Finish(ctx, env.Fail(ctx, err))
	}

	bound := env.Config.Inference.MaxBackwardOffset
	if *maxOffset >= 0 {
		bound = *maxOffset
	}
	parser := env.Parser()
	processor := dataprocessing.NewChainProcessor(parser,
		dataprocessing.NewRateLoader(parser, env.Logger), env.Logger, bound, env.Telemetry)

	result, err := processor.Run(ctx, spec)
	if err != nil {
		return env.Finish(ctx, env.Fail(ctx, err))
	}

	headers, records := exporter.ChainRecords(result)
	err = exporter.NewCSVWriter(env.Logger).Write(stdout, exporter.WriteOptions{
		Headers:   headers,
		Records:   records,
		Separator: result.Dataset.Dialect.Separator,
	})
	if err != nil {
		return env.Finish(ctx, env.Fail(ctx, err))
	}

	env.Logger.InfoContext(ctx, "chain converted",
		slog.Int("rows", len(result.Rows)),
		slog.Int("steps", len(spec.Steps)))
	return env.Finish(ctx, cli.ExitOK)
}
