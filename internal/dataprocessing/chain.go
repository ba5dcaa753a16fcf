package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "ratecli/internal/errors"
	"ratecli/internal/fields"
	"ratecli/internal/infrastructure"
	"ratecli/internal/series"
)

// ChainSeparator splits the argument groups of a chain invocation.
const ChainSeparator = "::"

// ChainStep is one rate file applied in a chain.
type ChainStep struct {
	Path string
	Spec RateSpec
}

// ChainSpec describes a full chained conversion.
type ChainSpec struct {
	Source     string
	KeyIndex   int
	ValueIndex int
	Steps      []ChainStep
}

// ChainRow is one source row with its value after every step. Values[0] is
// the source value and Values[i] the value after step i.
type ChainRow struct {
	Row    series.Row
	Values []decimal.Decimal
}

// ChainResult is the outcome of Run.
type ChainResult struct {
	Dataset *Dataset
	Rows    []ChainRow
}

// ChainProcessor multiplies a value column through a sequence of rate tables,
// matching each row's date to the nearest earlier rate.
type ChainProcessor struct {
	parser            *Parser
	loader            *RateLoader
	logger            *slog.Logger
	tracer            trace.Tracer
	metrics           *infrastructure.Metrics
	maxBackwardOffset int
}

// NewChainProcessor creates a processor. telemetry may be nil.
func NewChainProcessor(parser *Parser, loader *RateLoader, logger *slog.Logger, maxBackwardOffset int, telemetry *infrastructure.OTelProviders) *ChainProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	tracer, metrics := instruments(telemetry)
	return &ChainProcessor{
		parser:            parser,
		loader:            loader,
		logger:            infrastructure.WithComponent(logger, "chain"),
		tracer:            tracer,
		metrics:           metrics,
		maxBackwardOffset: maxBackwardOffset,
	}
}

// Run loads the source and every rate file, then converts.
func (c *ChainProcessor) Run(ctx context.Context, spec ChainSpec) (*ChainResult, error) {
	ds, err := c.parser.ParseFile(ctx, spec.Source, ParseOptions{KeyIndex: spec.KeyIndex, KeyMode: series.KeyByDatetime})
	if err != nil {
		return nil, err
	}

	tables := make([]*series.RateTable, 0, len(spec.Steps))
	for _, step := range spec.Steps {
		src, err := c.loader.LoadRates(ctx, step.Path, step.Spec)
		if err != nil {
			return nil, err
		}
		tables = append(tables, src.Table)
	}

	rows, err := c.Convert(ctx, ds, spec.ValueIndex, tables)
	if err != nil {
		return nil, err
	}
	return &ChainResult{Dataset: ds, Rows: rows}, nil
}

// Convert computes the chained values for every row of initial in key order.
func (c *ChainProcessor) Convert(ctx context.Context, initial *Dataset, valueIndex int, tables []*series.RateTable) ([]ChainRow, error) {
	ctx, span := c.tracer.Start(ctx, "dataprocessing.chain",
		trace.WithAttributes(attribute.Int("steps", len(tables))))
	defer span.End()

	rows := initial.Rows()
	out := make([]ChainRow, 0, len(rows))
	fallbacks := 0
	for i, row := range rows {
		value, err := valueAt(row, valueIndex)
		if err != nil {
			infrastructure.RecordError(ctx, err)
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		values := make([]decimal.Decimal, 0, len(tables)+1)
		values = append(values, value)
		for step, table := range tables {
			m, err := table.FindBestMatchDetail(row.Key, c.maxBackwardOffset)
			c.metrics.RecordLookup(ctx, m.Offset, err)
			if err != nil {
				infrastructure.RecordError(ctx, err)
				return nil, fmt.Errorf("step %d, row dated %s: %w", step+1, row.Key.Format(time.DateOnly), err)
			}
			if m.Offset > 0 {
				fallbacks++
			}
			value = value.Mul(m.Rate)
			values = append(values, value)
		}
		out = append(out, ChainRow{Row: row, Values: values})
	}

	span.SetAttributes(attribute.Int("rows", len(out)), attribute.Int("fallbacks", fallbacks))
	c.logger.DebugContext(ctx, "chain converted",
		slog.Int("rows", len(out)),
		slog.Int("steps", len(tables)),
		slog.Int("fallbacks", fallbacks))
	return out, nil
}

func valueAt(row series.Row, index int) (decimal.Decimal, error) {
	col, err := fields.ResolveIndex(index, len(row.Fields))
	if err != nil {
		return decimal.Decimal{}, err
	}
	f := row.Fields[col]
	if f.Kind == fields.KindNumber {
		return f.Number, nil
	}
	return fields.ParseNumeric(f.String())
}

// ParseChainArgs parses "SOURCE K,V :: RATES L[,H] [K] :: ..." where K is a
// key column, V the value column and L,H the low and high rate columns. A
// single rate column is used as both low and high.
func ParseChainArgs(args []string) (ChainSpec, error) {
	groups := [][]string{{}}
	for _, arg := range args {
		if arg == ChainSeparator {
			groups = append(groups, []string{})
			continue
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], arg)
	}

	head := groups[0]
	if len(head) != 2 {
		return ChainSpec{}, apperrors.NewAppValidationError("expected SOURCE KEY,VALUE before the first ::")
	}
	key, value, err := intPair(head[1], false)
	if err != nil {
		return ChainSpec{}, err
	}
	spec := ChainSpec{Source: head[0], KeyIndex: key, ValueIndex: value}

	if len(groups) < 2 {
		return ChainSpec{}, apperrors.NewAppValidationError("at least one rate file is required")
	}
	for i, group := range groups[1:] {
		if len(group) < 2 || len(group) > 3 {
			return ChainSpec{}, apperrors.NewAppValidationError(
				fmt.Sprintf("rate group %d: expected FILE LOW[,HIGH] [KEY]", i+1))
		}
		low, high, err := intPair(group[1], true)
		if err != nil {
			return ChainSpec{}, fmt.Errorf("rate group %d: %w", i+1, err)
		}
		step := ChainStep{Path: group[0], Spec: RateSpec{Low: low, High: high}}
		if len(group) == 3 {
			step.Spec.KeyIndex, err = strconv.Atoi(group[2])
			if err != nil {
				return ChainSpec{}, apperrors.NewAppValidationError(
					fmt.Sprintf("rate group %d: key index %q is not an integer", i+1, group[2]))
			}
		}
		spec.Steps = append(spec.Steps, step)
	}
	return spec, nil
}

func intPair(s string, allowSingle bool) (int, int, error) {
	first, second, found := strings.Cut(s, ",")
	if !found {
		if !allowSingle {
			return 0, 0, apperrors.NewAppValidationError(fmt.Sprintf("%q: expected two comma separated indices", s))
		}
		second = first
	}
	a, errA := strconv.Atoi(strings.TrimSpace(first))
	b, errB := strconv.Atoi(strings.TrimSpace(second))
	if errA != nil || errB != nil {
		return 0, 0, apperrors.NewAppValidationError(fmt.Sprintf("%q: indices must be integers", s))
	}
	return a, b, nil
}
