package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"ratecli/internal/infrastructure"
	"ratecli/internal/series"
)

// RateSpec names the columns of a rate file. Indices may be negative.
type RateSpec struct {
	Low      int
	High     int
	KeyIndex int
}

// RateSource is a loaded rate file together with the table derived from it.
type RateSource struct {
	Dataset *Dataset
	Table   *series.RateTable
}

// RateLoader turns rate files into RateTables.
type RateLoader struct {
	parser *Parser
	logger *slog.Logger
}

// NewRateLoader creates a loader that parses through parser.
func NewRateLoader(parser *Parser, logger *slog.Logger) *RateLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateLoader{
		parser: parser,
		logger: infrastructure.WithComponent(logger, "rate_loader"),
	}
}

// LoadRates parses path keyed by calendar day and takes the midpoint of the
// low and high columns as each day's rate.
func (l *RateLoader) LoadRates(ctx context.Context, path string, spec RateSpec) (*RateSource, error) {
	ds, err := l.parser.ParseFile(ctx, path, ParseOptions{KeyIndex: spec.KeyIndex, KeyMode: series.KeyByDate})
	if err != nil {
		return nil, err
	}

	table, err := series.NewRateTable(ds.Series, spec.Low, spec.High)
	if err != nil {
		return nil, fmt.Errorf("rates from %s: %w", path, err)
	}

	l.logger.InfoContext(ctx, "rate table loaded",
		slog.String("source", ds.Source),
		slog.Int("days", table.Len()),
		slog.Int("low", spec.Low),
		slog.Int("high", spec.High))
	return &RateSource{Dataset: ds, Table: table}, nil
}
