package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ratecli/internal/dataprocessing"
	apperrors "ratecli/internal/errors"
	"ratecli/internal/infrastructure"
)

// MatchResult is the answer to a single-date rate query.
type MatchResult struct {
	Date        string          `json:"date"`
	MatchedDate string          `json:"matched_date"`
	Offset      int             `json:"offset"`
	Rate        decimal.Decimal `json:"rate"`
}

// RateEntry is one day of a rate table.
type RateEntry struct {
	Date string          `json:"date"`
	Rate decimal.Decimal `json:"rate"`
}

// RangeResult lists the rates between two dates, both inclusive.
type RangeResult struct {
	Start string      `json:"start"`
	End   string      `json:"end"`
	Count int         `json:"count"`
	Rates []RateEntry `json:"rates"`
}

// FormatInfo describes how the served rate file was read.
type FormatInfo struct {
	Source    string   `json:"source"`
	Separator string   `json:"separator"`
	HasHeader bool     `json:"has_header"`
	Header    []string `json:"header,omitempty"`
	Layout    string   `json:"layout"`
	KeyColumn int      `json:"key_column"`
	Kinds     []string `json:"kinds"`
	Rows      int      `json:"rows"`
	Days      int      `json:"days"`
	Warnings  []string `json:"warnings,omitempty"`
}

// RateService answers queries against one loaded rate table. The table is
// immutable, so the service is safe for concurrent use.
type RateService struct {
	source            *dataprocessing.RateSource
	maxBackwardOffset int
	logger            *slog.Logger
	tracer            trace.Tracer
	metrics           *infrastructure.Metrics
}

// NewRateService creates a service over source. telemetry may be nil.
func NewRateService(source *dataprocessing.RateSource, maxBackwardOffset int, logger *slog.Logger, telemetry *infrastructure.OTelProviders) *RateService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &RateService{
		source:            source,
		maxBackwardOffset: maxBackwardOffset,
		logger:            infrastructure.WithComponent(logger, "rate_service"),
		tracer:            infrastructure.NoopTracer(),
	}
	if telemetry != nil {
		s.tracer = telemetry.Tracer
		s.metrics = telemetry.Metrics
	}
	return s
}

// DefaultMaxOffset is the bound used when a query does not set one.
func (s *RateService) DefaultMaxOffset() int {
	return s.maxBackwardOffset
}

// Ready reports whether a non-empty table is loaded.
func (s *RateService) Ready() bool {
	return s != nil && s.source != nil && s.source.Table.Len() > 0
}

// Match finds the rate for date, walking back at most maxOffset days. A
// negative maxOffset uses the configured default.
func (s *RateService) Match(ctx context.Context, date time.Time, maxOffset int) (*MatchResult, error) {
	if maxOffset < 0 {
		maxOffset = s.maxBackwardOffset
	}
	ctx, span := s.tracer.Start(ctx, "services.rate_match",
		trace.WithAttributes(
			attribute.String("date", date.Format(time.DateOnly)),
			attribute.Int("max_offset", maxOffset),
		))
	defer span.End()

	m, err := s.source.Table.FindBestMatchDetail(date, maxOffset)
	s.metrics.RecordLookup(ctx, m.Offset, err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.InfoContext(ctx, "no rate in window",
			slog.String("date", date.Format(time.DateOnly)),
			slog.Int("max_offset", maxOffset))
		return nil, err
	}

	span.SetAttributes(attribute.Int("offset", m.Offset))
	return &MatchResult{
		Date:        m.Requested.Format(time.DateOnly),
		MatchedDate: m.Matched.Format(time.DateOnly),
		Offset:      m.Offset,
		Rate:        m.Rate,
	}, nil
}

// Range returns the rates between start and end. A nil bound is open.
func (s *RateService) Range(ctx context.Context, start, end *time.Time) (*RangeResult, error) {
	rates := s.source.Table.Rates()
	if len(rates) == 0 {
		return nil, apperrors.NewNotFoundError("rates")
	}

	from, to := rates[0].Date, rates[len(rates)-1].Date
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}
	if to.Before(from) {
		return nil, apperrors.NewAppValidationError("end must not be before start")
	}

	inRange := s.source.Table.Range(from, to)
	result := &RangeResult{
		Start: from.Format(time.DateOnly),
		End:   to.Format(time.DateOnly),
		Count: len(inRange),
		Rates: make([]RateEntry, len(inRange)),
	}
	for i, r := range inRange {
		result.Rates[i] = RateEntry{Date: r.Date.Format(time.DateOnly), Rate: r.Value}
	}

	s.logger.DebugContext(ctx, "rate range served",
		slog.String("start", result.Start),
		slog.String("end", result.End),
		slog.Int("count", result.Count))
	return result, nil
}

// Format reports the inferred dialect and layout of the loaded file.
func (s *RateService) Format(ctx context.Context) FormatInfo {
	ds := s.source.Dataset
	info := FormatInfo{
		Source:    ds.Source,
		Separator: string(ds.Dialect.Separator),
		HasHeader: ds.Dialect.HasHeader,
		Header:    ds.Header,
		Layout:    ds.Layout(),
		KeyColumn: ds.KeyIndex,
		Kinds:     make([]string, len(ds.Kinds)),
		Rows:      len(ds.Rows()),
		Days:      s.source.Table.Len(),
	}
	for i, k := range ds.Kinds {
		info.Kinds[i] = k.String()
	}
	for _, w := range ds.Warnings {
		info.Warnings = append(info.Warnings, w.Message)
	}
	return info
}
