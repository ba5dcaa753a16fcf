// Command rateserver serves nearest-prior-date lookups over one rate file.
package main

import (
	"flag"
	"io"
	"os"

	"ratecli/internal/app"
	"ratecli/internal/cli"
	"ratecli/internal/dataprocessing"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("rateserver", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "rate file (required)")
	low := fs.Int("low", 1, "low rate column")
	high := fs.Int("high", 2, "high rate column")
	key := fs.Int("key", 0, "key column index; negative counts from the end")
	port := fs.Int("port", 0, "listen port (default from config)")
	common := cli.RegisterCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return cli.ExitError
	}
	if *file == "" {
		return cli.Usage(fs, stderr, "-file is required")
	}

	env, err := cli.NewEnv("rateserver", common, stderr)
	if err != nil {
		return cli.Usage(fs, stderr, err.Error())
	}
	ctx := cli.Start()
	if *port > 0 {
		env.Config.Server.Port = *port
	}

	if err := env.Files.ValidateInputFile(*file); err != nil {
		return env.Finish(ctx, env.Fail(ctx, err))
	}

	application, err := app.NewApplication(ctx, env.Config, env.Logger, app.Options{
		RatesFile: *file,
		Rates:     dataprocessing.RateSpec{Low: *low, High: *high, KeyIndex: *key},
		Telemetry: env.Telemetry,
	})
	if err != nil {
		return env.Finish(ctx, env.Fail(ctx, err))
	}

	if err := application.Run(ctx); err != nil {
		return env.Finish(ctx, env.Fail(ctx, err))
	}
	return env.Finish(ctx, cli.ExitOK)
}
