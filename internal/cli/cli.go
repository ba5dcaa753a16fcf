// Package cli holds the setup shared by the ratecli commands: flag
// registration, config and logger bootstrap, telemetry and the exit path.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"ratecli/internal/config"
	"ratecli/internal/dataprocessing"
	apperrors "ratecli/internal/errors"
	"ratecli/internal/infrastructure"
	"ratecli/internal/series"
	"ratecli/internal/validation"
)

// Exit codes
const (
	ExitOK    = 0
	ExitError = 1
)

// CommonFlags are accepted by every command.
type CommonFlags struct {
	MetricsFile string
	ConfigFile  string
}

// RegisterCommonFlags adds -metrics-file and -config to fs.
func RegisterCommonFlags(fs *flag.FlagSet) *CommonFlags {
	f := &CommonFlags{}
	fs.StringVar(&f.MetricsFile, "metrics-file", "", "write Prometheus text metrics to this file on exit")
	fs.StringVar(&f.ConfigFile, "config", "", "YAML config file (default: "+config.ConfigFileEnv+" or ratecli.yaml)")
	return f
}

// Env is the per-invocation runtime of a command.
type Env struct {
	Name      string
	Config    *config.Config
	Logger    *slog.Logger
	Telemetry *infrastructure.OTelProviders
	KeyMode   series.KeyMode
	Files     *validation.FileValidator

	metricsFile string
}

// NewEnv loads config and builds the logger and telemetry. Console logs go to
// stderr as JSON; file outputs follow the logging config.
func NewEnv(name string, flags *CommonFlags, stderr io.Writer) (*Env, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.ConfigFile != "" {
		cfg, err = config.LoadFile(flags.ConfigFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Logging, stderr)
	if err != nil {
		return nil, err
	}
	logger = logger.With(slog.String("command", name))

	otelCfg := infrastructure.OTelConfigFrom(cfg.Telemetry)
	otelCfg.EnableMetrics = otelCfg.EnableMetrics || flags.MetricsFile != ""
	otelCfg.TraceWriter = stderr
	telemetry, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return nil, err
	}

	mode, err := series.ParseKeyMode(cfg.Inference.KeyMode)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid key mode", err)
	}

	return &Env{
		Name:        name,
		Config:      cfg,
		Logger:      logger,
		Telemetry:   telemetry,
		KeyMode:     mode,
		Files:       validation.NewFileValidator(logger),
		metricsFile: flags.MetricsFile,
	}, nil
}

func newLogger(cfg config.LoggingConfig, stderr io.Writer) (*slog.Logger, error) {
	switch strings.ToLower(cfg.Output) {
	case "file", "both":
		return infrastructure.InitializeLogger(cfg)
	case "stdout":
		return nil, apperrors.NewConfigError("logging.output stdout would mix logs into command output; use stderr", nil)
	default:
		return infrastructure.NewLogger(stderr, cfg.Level), nil
	}
}

// Parser returns a parser configured from the inference section.
func (e *Env) Parser() *dataprocessing.Parser {
	return dataprocessing.NewParser(e.Logger, e.Config.Inference, e.Telemetry)
}

// Close writes the metrics file, if one was requested, and flushes telemetry.
func (e *Env) Close(ctx context.Context) error {
	var errs []error
	if e.metricsFile != "" {
		if err := e.Telemetry.WriteMetricsFile(e.metricsFile); err != nil {
			errs = append(errs, apperrors.NewStorageError(fmt.Sprintf("failed to write metrics to %s", e.metricsFile), err))
		} else {
			e.Logger.DebugContext(ctx, "metrics written", slog.String("path", e.metricsFile))
		}
	}
	if err := e.Telemetry.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Fail logs err and returns ExitError.
func (e *Env) Fail(ctx context.Context, err error) int {
	e.Logger.ErrorContext(ctx, "command failed",
		slog.String("error", err.Error()),
		slog.String("error_type", string(apperrors.TypeOf(err))))
	return ExitError
}

// Finish closes env and folds a close failure into code.
func (e *Env) Finish(ctx context.Context, code int) int {
	if err := e.Close(ctx); err != nil {
		e.Logger.ErrorContext(ctx, "shutdown failed", slog.String("error", err.Error()))
		return ExitError
	}
	return code
}

// Usage prints msg and the flag defaults to stderr and returns ExitError.
func Usage(fs *flag.FlagSet, stderr io.Writer, msg string) int {
	fmt.Fprintf(stderr, "%s: %s\n", fs.Name(), msg)
	fs.SetOutput(stderr)
	fs.PrintDefaults()
	return ExitError
}

// Start opens the command's root context, tagged with a fresh trace id.
func Start() context.Context {
	return infrastructure.EnsureTraceID(context.Background())
}
