package dataprocessing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ratecli/internal/config"
	apperrors "ratecli/internal/errors"
	"ratecli/internal/series"
	"ratecli/internal/shared/testutil"
)

func TestParseChainArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    ChainSpec
		wantErr string
	}{
		{
			name: "single step with low and high",
			args: []string{"tx.csv", "0,2", "::", "eur.csv", "1,2"},
			want: ChainSpec{
				Source: "tx.csv", KeyIndex: 0, ValueIndex: 2,
				Steps: []ChainStep{{Path: "eur.csv", Spec: RateSpec{Low: 1, High: 2}}},
			},
		},
		{
			name: "single rate column and key index",
			args: []string{"tx.csv", "0,-1", "::", "eur.csv", "1,2", "::", "gbp.csv", "-1", "1"},
			want: ChainSpec{
				Source: "tx.csv", KeyIndex: 0, ValueIndex: -1,
				Steps: []ChainStep{
					{Path: "eur.csv", Spec: RateSpec{Low: 1, High: 2}},
					{Path: "gbp.csv", Spec: RateSpec{Low: -1, High: -1, KeyIndex: 1}},
				},
			},
		},
		{
			name:    "missing value index",
			args:    []string{"tx.csv", "0", "::", "eur.csv", "1"},
			wantErr: "two comma separated indices",
		},
		{
			name:    "no rate files",
			args:    []string{"tx.csv", "0,2"},
			wantErr: "at least one rate file",
		},
		{
			name:    "missing source",
			args:    []string{"::", "eur.csv", "1"},
			wantErr: "before the first ::",
		},
		{
			name:    "rate group too long",
			args:    []string{"tx.csv", "0,2", "::", "eur.csv", "1", "0", "extra"},
			wantErr: "rate group 1",
		},
		{
			name:    "non integer column",
			args:    []string{"tx.csv", "0,2", "::", "eur.csv", "low"},
			wantErr: "indices must be integers",
		},
		{
			name:    "non integer key",
			args:    []string{"tx.csv", "0,2", "::", "eur.csv", "1", "first"},
			wantErr: "is not an integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChainArgs(tt.args)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type chainFixture struct {
	processor *ChainProcessor
	source    string
	rates     string
}

func newChainFixture(t *testing.T, maxOffset int) chainFixture {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	parser := NewParser(logger, config.Default().Inference, nil)
	loader := NewRateLoader(parser, logger)
	dir := t.TempDir()
	return chainFixture{
		processor: NewChainProcessor(parser, loader, logger, maxOffset, nil),
		source:    testutil.WriteLines(t, dir, "tx.csv", testutil.TransactionFileLines()...),
		rates:     testutil.WriteLines(t, dir, "eur.csv", testutil.RateFileLines()...),
	}
}

func decimals(ss ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(ss))
	for i, s := range ss {
		out[i] = decimal.RequireFromString(s)
	}
	return out
}

func assertDecimals(t *testing.T, want []decimal.Decimal, got []decimal.Decimal) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "value %d: want %s, got %s", i, want[i], got[i])
	}
}

func TestChainProcessor_Run(t *testing.T) {
	f := newChainFixture(t, config.DefaultMaxBackwardOffset)
	spec, err := ParseChainArgs([]string{f.source, "0,-1", "::", f.rates, "1,2", "::", f.rates, "1"})
	require.NoError(t, err)

	result, err := f.processor.Run(context.Background(), spec)
	require.NoError(t, err)
	require.Len(t, result.Rows, 4)

	// 2024-01-02 midpoint 1.10, low only 1.00
	assertDecimals(t, decimals("2500.00", "2750", "2750"), result.Rows[0].Values)
	// 2024-01-03 midpoint 1.12, low only 1.02
	assertDecimals(t, decimals("-3.50", "-3.92", "-3.9984"), result.Rows[1].Values)
	// 2024-01-13 falls back four days to 2024-01-09
	assertDecimals(t, decimals("15.00", "18.3", "20.496"), result.Rows[3].Values)
	assert.Equal(t, "13.01.2024 12:00", result.Dataset.Format.Format(result.Rows[3].Row.Key))
}

func TestChainProcessor_ConvertExhausted(t *testing.T) {
	f := newChainFixture(t, 2)
	ctx := context.Background()

	ds, err := f.processor.parser.ParseFile(ctx, f.source, ParseOptions{KeyMode: series.KeyByDatetime})
	require.NoError(t, err)
	src, err := f.processor.loader.LoadRates(ctx, f.rates, RateSpec{Low: 1, High: 2})
	require.NoError(t, err)

	_, err = f.processor.Convert(ctx, ds, -1, []*series.RateTable{src.Table})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrLookupExhausted)
	assert.Contains(t, err.Error(), "step 1, row dated 2024-01-13")
}

func TestChainProcessor_ConvertNonNumericValue(t *testing.T) {
	f := newChainFixture(t, config.DefaultMaxBackwardOffset)
	ctx := context.Background()

	ds, err := f.processor.parser.ParseFile(ctx, f.source, ParseOptions{})
	require.NoError(t, err)

	_, err = f.processor.Convert(ctx, ds, 1, nil)

	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNumericParse), "got %v", err)
}

func TestChainProcessor_RunMissingRates(t *testing.T) {
	f := newChainFixture(t, config.DefaultMaxBackwardOffset)

	_, err := f.processor.Run(context.Background(), ChainSpec{
		Source:     f.source,
		ValueIndex: -1,
		Steps:      []ChainStep{{Path: f.rates + ".missing", Spec: RateSpec{Low: 1, High: 2}}},
	})

	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}

func TestRateLoader_BadColumns(t *testing.T) {
	f := newChainFixture(t, config.DefaultMaxBackwardOffset)

	_, err := f.processor.loader.LoadRates(context.Background(), f.rates, RateSpec{Low: 1, High: 7})

	assert.ErrorIs(t, err, apperrors.ErrIndexOutOfRange)
}
