package series

import (
	"time"

	"github.com/shopspring/decimal"

	"ratecli/internal/errors"
)

// Match is the result of a best-match lookup.
type Match struct {
	Requested time.Time
	Matched   time.Time
	Offset    int
	Rate      decimal.Decimal
}

// FindBestMatch returns the rate for date or, failing that, for the closest
// earlier day at most maxBackwardOffset days back. Later dates are never used.
func (t *RateTable) FindBestMatch(date time.Time, maxBackwardOffset int) (decimal.Decimal, error) {
	m, err := t.FindBestMatchDetail(date, maxBackwardOffset)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return m.Rate, nil
}

// FindBestMatchDetail is FindBestMatch reporting which day matched.
func (t *RateTable) FindBestMatchDetail(date time.Time, maxBackwardOffset int) (Match, error) {
	day := dateOf(date)
	for offset := 0; offset <= maxBackwardOffset; offset++ {
		probe := day.AddDate(0, 0, -offset)
		if rate, ok := t.Lookup(probe); ok {
			return Match{Requested: day, Matched: probe, Offset: offset, Rate: rate}, nil
		}
	}

	return Match{}, errors.Newf(errors.ErrTypeLookupExhausted,
		"no rate on %s or within %d days before it", day.Format(time.DateOnly), maxBackwardOffset).
		WithContext("date", day.Format(time.DateOnly)).
		WithContext("max_backward_offset", maxBackwardOffset)
}
