package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "ratecli/internal/errors"
	"ratecli/internal/fields"
	"ratecli/internal/infrastructure"
	"ratecli/internal/series"
)

// ColumnAverage is the mean of one numeric column.
type ColumnAverage struct {
	Index int             `json:"index"`
	Name  string          `json:"name"`
	Sum   decimal.Decimal `json:"sum"`
	Mean  decimal.Decimal `json:"mean"`
}

// AverageReport summarises the numeric columns of a dataset.
type AverageReport struct {
	First   time.Time       `json:"first"`
	Last    time.Time       `json:"last"`
	Count   int             `json:"count"`
	Columns []ColumnAverage `json:"columns"`
}

// Operators selects which transaction signs are kept. Zero values are
// always kept.
type Operators struct {
	Add      bool
	Subtract bool
}

// AllOperators keeps every transaction.
var AllOperators = Operators{Add: true, Subtract: true}

// Transaction is one kept transaction.
type Transaction struct {
	Key   time.Time       `json:"key"`
	Value decimal.Decimal `json:"value"`
	Row   series.Row      `json:"-"`
}

// TransactionReport lists kept transactions in key order with totals.
type TransactionReport struct {
	Transactions []Transaction   `json:"transactions"`
	Added        decimal.Decimal `json:"added"`
	Subtracted   decimal.Decimal `json:"subtracted"`
	Net          decimal.Decimal `json:"net"`
}

// Summarizer computes column averages and transaction summaries.
type Summarizer struct {
	logger *slog.Logger
	tracer trace.Tracer
}

// NewSummarizer creates a summarizer. telemetry may be nil.
func NewSummarizer(logger *slog.Logger, telemetry *infrastructure.OTelProviders) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	tracer, _ := instruments(telemetry)
	return &Summarizer{
		logger: infrastructure.WithComponent(logger, "summarizer"),
		tracer: tracer,
	}
}

// Averages computes the mean of every numeric column over one row per key.
// start and end, when set, bound the keys inclusively by date.
func (s *Summarizer) Averages(ctx context.Context, ds *Dataset, start, end *time.Time) (*AverageReport, error) {
	ctx, span := s.tracer.Start(ctx, "dataprocessing.averages")
	defer span.End()

	ser := ds.Series
	if start != nil || end != nil {
		first, _ := ser.First()
		last, _ := ser.Last()
		from, to := first.Key, last.Key
		if start != nil {
			from = *start
		}
		if end != nil {
			to = *end
		}
		ser = ser.FilterRange(from, to)
	}

	entries := ser.Entries()
	if len(entries) == 0 {
		err := apperrors.NewNotFoundError("rows in the requested range")
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	cols := ds.NumericColumns()
	report := &AverageReport{
		First:   entries[0].Key,
		Last:    entries[len(entries)-1].Key,
		Count:   len(entries),
		Columns: make([]ColumnAverage, len(cols)),
	}
	for i, col := range cols {
		report.Columns[i] = ColumnAverage{Index: col, Name: ds.ColumnName(col), Sum: decimal.Zero}
	}

	for _, e := range entries {
		for i, col := range cols {
			if col < len(e.Row.Fields) && e.Row.Fields[col].Kind == fields.KindNumber {
				report.Columns[i].Sum = report.Columns[i].Sum.Add(e.Row.Fields[col].Number)
			}
		}
	}
	count := decimal.NewFromInt(int64(report.Count))
	for i := range report.Columns {
		report.Columns[i].Mean = report.Columns[i].Sum.Div(count)
	}

	span.SetAttributes(attribute.Int("count", report.Count), attribute.Int("columns", len(cols)))
	s.logger.DebugContext(ctx, "averages computed",
		slog.String("source", ds.Source),
		slog.Int("count", report.Count),
		slog.Int("columns", len(cols)))
	return report, nil
}

// Transactions keeps negative values only with ops.Subtract and positive ones
// only with ops.Add. Of several kept rows sharing a key the last wins.
func (s *Summarizer) Transactions(ctx context.Context, ds *Dataset, valueIndex int, ops Operators) (*TransactionReport, error) {
	ctx, span := s.tracer.Start(ctx, "dataprocessing.transactions")
	defer span.End()

	report := &TransactionReport{Added: decimal.Zero, Subtracted: decimal.Zero}
	for i, row := range ds.Rows() {
		value, err := valueAt(row, valueIndex)
		if err != nil {
			infrastructure.RecordError(ctx, err)
			return nil, fmt.Errorf("transaction row %d: %w", i+1, err)
		}
		if (value.IsNegative() && !ops.Subtract) || (value.IsPositive() && !ops.Add) {
			continue
		}

		key := ds.Series.KeyOf(row.Key)
		tx := Transaction{Key: key, Value: value, Row: row}
		if n := len(report.Transactions); n > 0 && report.Transactions[n-1].Key.Equal(key) {
			report.Transactions[n-1] = tx
			continue
		}
		report.Transactions = append(report.Transactions, tx)
	}

	for _, tx := range report.Transactions {
		if tx.Value.IsNegative() {
			report.Subtracted = report.Subtracted.Add(tx.Value)
		} else {
			report.Added = report.Added.Add(tx.Value)
		}
	}
	report.Net = report.Added.Add(report.Subtracted)

	span.SetAttributes(attribute.Int("transactions", len(report.Transactions)))
	s.logger.DebugContext(ctx, "transactions summarised",
		slog.String("source", ds.Source),
		slog.Int("kept", len(report.Transactions)),
		slog.String("net", report.Net.String()))
	return report, nil
}
