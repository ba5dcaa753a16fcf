package infrastructure

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "ratecli/internal/errors"
)

// Metrics holds the application instruments
type Metrics struct {
	// Parsing
	RowsParsed        metric.Int64Counter
	ParseDuration     metric.Float64Histogram
	InferenceWarnings metric.Int64Counter
	InferenceFailures metric.Int64Counter

	// Rate lookups
	RateLookups  metric.Int64Counter
	LookupOffset metric.Int64Histogram

	// HTTP
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter
}

// NewMetrics creates the application instruments on meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	rowsParsed, err := meter.Int64Counter(
		"ratecli_rows_parsed_total",
		metric.WithDescription("Total number of CSV data rows parsed"),
	)
	if err != nil {
		return nil, err
	}

	parseDuration, err := meter.Float64Histogram(
		"ratecli_parse_duration_seconds",
		metric.WithDescription("Time spent parsing one CSV source"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	inferenceWarnings, err := meter.Int64Counter(
		"ratecli_inference_warnings_total",
		metric.WithDescription("Non-fatal dialect and format inference warnings"),
	)
	if err != nil {
		return nil, err
	}

	inferenceFailures, err := meter.Int64Counter(
		"ratecli_inference_failures_total",
		metric.WithDescription("Fatal parse and inference failures by kind"),
	)
	if err != nil {
		return nil, err
	}

	rateLookups, err := meter.Int64Counter(
		"ratecli_rate_lookups_total",
		metric.WithDescription("Rate lookups by outcome"),
	)
	if err != nil {
		return nil, err
	}

	lookupOffset, err := meter.Int64Histogram(
		"ratecli_rate_lookup_offset_days",
		metric.WithDescription("Days walked back to find a rate"),
		metric.WithUnit("d"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 3, 5, 7, 10),
	)
	if err != nil {
		return nil, err
	}

	httpRequestsTotal, err := meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	httpRequestDuration, err := meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	httpActiveRequests, err := meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RowsParsed:          rowsParsed,
		ParseDuration:       parseDuration,
		InferenceWarnings:   inferenceWarnings,
		InferenceFailures:   inferenceFailures,
		RateLookups:         rateLookups,
		LookupOffset:        lookupOffset,
		HTTPRequestsTotal:   httpRequestsTotal,
		HTTPRequestDuration: httpRequestDuration,
		HTTPActiveRequests:  httpActiveRequests,
	}, nil
}

// RecordParse records one parsed source. A nil receiver is a no-op.
func (m *Metrics) RecordParse(ctx context.Context, source string, rows int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("source", source))
	m.RowsParsed.Add(ctx, int64(rows), attrs)
	m.ParseDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordWarning counts a non-fatal inference warning by kind.
func (m *Metrics) RecordWarning(ctx context.Context, warning *apperrors.AppError) {
	if m == nil || warning == nil {
		return
	}
	m.InferenceWarnings.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(warning.Type))))
}

// RecordFailure counts a fatal error by its AppError kind.
func (m *Metrics) RecordFailure(ctx context.Context, err error) {
	if m == nil || err == nil {
		return
	}
	kind := string(apperrors.TypeOf(err))
	if kind == "" {
		kind = "UNKNOWN"
	}
	m.InferenceFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordLookup records a best-match lookup. Offset is ignored when err is set.
func (m *Metrics) RecordLookup(ctx context.Context, offset int, err error) {
	if m == nil {
		return
	}
	outcome := "exact"
	switch {
	case err != nil:
		outcome = "exhausted"
	case offset > 0:
		outcome = "fallback"
	}
	m.RateLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	if err == nil {
		m.LookupOffset.Record(ctx, int64(offset))
	}
}

// RecordHTTPRequest records a finished HTTP request.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.String("http.status_code", strconv.Itoa(status)),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// TrackActive adjusts the in-flight request gauge.
func (m *Metrics) TrackActive(ctx context.Context, delta int64) {
	if m == nil {
		return
	}
	m.HTTPActiveRequests.Add(ctx, delta)
}
