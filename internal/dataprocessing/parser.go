package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ratecli/internal/config"
	"ratecli/internal/dialect"
	"ratecli/internal/dtformat"
	apperrors "ratecli/internal/errors"
	"ratecli/internal/fields"
	"ratecli/internal/infrastructure"
	"ratecli/internal/series"
)

// ParseOptions selects the key column and how keys are compared.
type ParseOptions struct {
	// KeyIndex may be negative to count from the last column.
	KeyIndex int
	KeyMode  series.KeyMode
}

// Parser runs dialect detection, format inference and typed parsing over a
// whole source.
type Parser struct {
	logger  *slog.Logger
	cfg     config.InferenceConfig
	tracer  trace.Tracer
	metrics *infrastructure.Metrics
}

// NewParser creates a parser. telemetry may be nil.
func NewParser(logger *slog.Logger, cfg config.InferenceConfig, telemetry *infrastructure.OTelProviders) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	tracer, metrics := instruments(telemetry)
	return &Parser{
		logger:  infrastructure.WithComponent(logger, "parser"),
		cfg:     cfg,
		tracer:  tracer,
		metrics: metrics,
	}
}

// ParseFile reads path and parses its lines.
func (p *Parser) ParseFile(ctx context.Context, path string, opts ParseOptions) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		err = apperrors.NewStorageError(fmt.Sprintf("failed to read %s", path), err)
		p.metrics.RecordFailure(ctx, err)
		return nil, err
	}
	return p.parse(ctx, filepath.Base(path), strings.Split(string(data), "\n"), opts)
}

// ParseLines parses already split lines. Blank lines are skipped.
func (p *Parser) ParseLines(ctx context.Context, lines []string, opts ParseOptions) (*Dataset, error) {
	return p.parse(ctx, "lines", lines, opts)
}

func (p *Parser) parse(ctx context.Context, source string, lines []string, opts ParseOptions) (*Dataset, error) {
	ctx, span := p.tracer.Start(ctx, "dataprocessing.parse",
		trace.WithAttributes(attribute.String("source", source)))
	defer span.End()
	start := time.Now()

	ds, err := p.run(ctx, source, cleanLines(lines), opts)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		p.metrics.RecordFailure(ctx, err)
		p.logger.ErrorContext(ctx, "parse failed",
			slog.String("source", source),
			slog.String("error", err.Error()))
		return nil, err
	}

	for _, w := range ds.Warnings {
		p.metrics.RecordWarning(ctx, w)
		p.logger.WarnContext(ctx, w.Message,
			slog.String("source", source),
			slog.String("kind", string(w.Type)))
	}
	rows := len(ds.Rows())
	p.metrics.RecordParse(ctx, source, rows, time.Since(start))
	span.SetAttributes(
		attribute.Int("rows", rows),
		attribute.String("separator", string(ds.Dialect.Separator)),
		attribute.String("layout", ds.Layout()),
	)
	p.logger.DebugContext(ctx, "parsed source",
		slog.String("source", source),
		slog.Int("rows", rows),
		slog.Int("keys", ds.Series.Len()),
		slog.Bool("header", ds.Dialect.HasHeader),
		slog.String("layout", ds.Layout()))
	return ds, nil
}

func (p *Parser) run(ctx context.Context, source string, lines []string, opts ParseOptions) (*Dataset, error) {
	if len(lines) == 0 {
		return nil, apperrors.NewParsingError(source+" has no data lines", nil)
	}

	ds := &Dataset{Source: source}

	sep, tie := dialect.GuessSeparator(lines)
	ds.Dialect.Separator = sep
	if tie {
		ds.Warnings = append(ds.Warnings, apperrors.Newf(apperrors.ErrTypeAmbiguousSeparatorTie,
			"as many ',' as ';' in %s, using ';'", source))
	}
	infrastructure.AddSpanEvent(ctx, "separator", attribute.String("separator", string(sep)), attribute.Bool("tie", tie))

	records := dialect.TokenizeAll(lines, sep)
	if dialect.DetectHeaderSample(records, p.cfg.HeaderSampleRows) {
		ds.Dialect.HasHeader = true
		ds.Header = records[0]
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, apperrors.NewParsingError(source+" has a header but no rows", nil)
	}

	keyCol, err := fields.ResolveIndex(opts.KeyIndex, len(records[0]))
	if err != nil {
		return nil, err
	}
	ds.KeyIndex = keyCol

	samples := make([]string, 0, len(records))
	for i, record := range records {
		if keyCol >= len(record) {
			return nil, fmt.Errorf("row %d: %w", i+1, apperrors.NewIndexOutOfRangeError(keyCol, len(record)))
		}
		samples = append(samples, record[keyCol])
	}

	format, warnings, err := dtformat.InferDatetimeFormat(samples)
	if err != nil {
		return nil, err
	}
	ds.Format = format
	ds.Warnings = append(ds.Warnings, warnings...)

	ds.Kinds = fields.InferKinds(records, keyCol)
	ds.Series, err = series.Build(records, keyCol, format, ds.Kinds, opts.KeyMode)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// cleanLines drops trailing carriage returns and blank lines.
func cleanLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

func instruments(telemetry *infrastructure.OTelProviders) (trace.Tracer, *infrastructure.Metrics) {
	if telemetry == nil {
		return infrastructure.NoopTracer(), nil
	}
	return telemetry.Tracer, telemetry.Metrics
}
