package http

import (
	"context"
	"time"

	"ratecli/internal/services"
)

// RateService is the part of services.RateService the rate handlers use.
type RateService interface {
	Match(ctx context.Context, date time.Time, maxOffset int) (*services.MatchResult, error)
	Range(ctx context.Context, start, end *time.Time) (*services.RangeResult, error)
	Format(ctx context.Context) services.FormatInfo
	DefaultMaxOffset() int
}

var _ RateService = (*services.RateService)(nil)
