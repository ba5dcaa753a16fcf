package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ratecli/internal/config"
	"ratecli/internal/dataprocessing"
	apperrors "ratecli/internal/errors"
	"ratecli/internal/shared/testutil"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// newTestRateService serves the fixture rate file with midpoints
// 2024-01-02 1.1, 01-03 1.12, 01-04 1.14, 01-05 1.16, 01-08 1.2, 01-09 1.22
// and 01-15 1.3.
func newTestRateService(t *testing.T) *RateService {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	parser := dataprocessing.NewParser(logger, config.Default().Inference, nil)
	path := testutil.WriteLines(t, t.TempDir(), "eur.csv", testutil.RateFileLines()...)

	source, err := dataprocessing.NewRateLoader(parser, logger).
		LoadRates(context.Background(), path, dataprocessing.RateSpec{Low: 1, High: 2})
	require.NoError(t, err)
	return NewRateService(source, config.DefaultMaxBackwardOffset, logger, nil)
}

func TestRateService_Match(t *testing.T) {
	tests := []struct {
		name        string
		date        time.Time
		maxOffset   int
		wantMatched string
		wantOffset  int
		wantRate    string
		wantErr     apperrors.ErrorType
	}{
		{name: "exact", date: day(2024, 1, 3), maxOffset: -1, wantMatched: "2024-01-03", wantRate: "1.12"},
		{name: "weekend falls back", date: day(2024, 1, 7), maxOffset: -1, wantMatched: "2024-01-05", wantOffset: 2, wantRate: "1.16"},
		{name: "explicit bound too small", date: day(2024, 1, 14), maxOffset: 3, wantErr: apperrors.ErrTypeLookupExhausted},
		{name: "before the table", date: day(2024, 1, 1), maxOffset: -1, wantErr: apperrors.ErrTypeLookupExhausted},
	}

	svc := newTestRateService(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Match(context.Background(), tt.date, tt.maxOffset)
			if tt.wantErr != "" {
				assert.True(t, apperrors.IsType(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.date.Format(time.DateOnly), got.Date)
			assert.Equal(t, tt.wantMatched, got.MatchedDate)
			assert.Equal(t, tt.wantOffset, got.Offset)
			assert.True(t, got.Rate.Equal(decimal.RequireFromString(tt.wantRate)), "got %s", got.Rate)
		})
	}
}

func TestRateService_Range(t *testing.T) {
	svc := newTestRateService(t)
	ctx := context.Background()

	all, err := svc.Range(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 7, all.Count)
	assert.Equal(t, "2024-01-02", all.Start)
	assert.Equal(t, "2024-01-15", all.End)

	start, end := day(2024, 1, 3), day(2024, 1, 8)
	some, err := svc.Range(ctx, &start, &end)
	require.NoError(t, err)
	require.Equal(t, 4, some.Count)
	assert.Equal(t, "2024-01-08", some.Rates[3].Date)
	assert.True(t, some.Rates[3].Rate.Equal(decimal.RequireFromString("1.2")))

	_, err = svc.Range(ctx, &end, &start)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestRateService_Format(t *testing.T) {
	svc := newTestRateService(t)

	info := svc.Format(context.Background())

	assert.Equal(t, "eur.csv", info.Source)
	assert.Equal(t, ";", info.Separator)
	assert.True(t, info.HasHeader)
	assert.Equal(t, []string{"date", "low", "high"}, info.Header)
	assert.Equal(t, "2006-01-02", info.Layout)
	assert.Equal(t, []string{"date", "number", "number"}, info.Kinds)
	assert.Equal(t, 7, info.Rows)
	assert.Equal(t, 7, info.Days)
	assert.Empty(t, info.Warnings)
}

func TestRateService_Ready(t *testing.T) {
	var nilService *RateService
	assert.False(t, nilService.Ready())
	assert.True(t, newTestRateService(t).Ready())
	assert.Equal(t, config.DefaultMaxBackwardOffset, newTestRateService(t).DefaultMaxOffset())
}
