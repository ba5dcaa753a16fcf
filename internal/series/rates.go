package series

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"ratecli/internal/errors"
	"ratecli/internal/fields"
)

// DefaultMaxBackwardOffset is how many days FindBestMatch walks back by
// default.
const DefaultMaxBackwardOffset = 10

var two = decimal.NewFromInt(2)

// Rate is one dated rate.
type Rate struct {
	Date  time.Time
	Value decimal.Decimal
}

// RateTable maps calendar days to a single rate.
type RateTable struct {
	rates []Rate
	index map[time.Time]int
}

// NewRateTable derives a table from s, using the midpoint of the low and high
// columns of every entry. Negative column indices count from the end.
func NewRateTable(s *Series, low, high int) (*RateTable, error) {
	rates := make([]Rate, 0, s.Len())
	for _, entry := range s.entries {
		width := len(entry.Row.Fields)
		lowValue, err := numericAt(entry.Row, low, width)
		if err != nil {
			return nil, fmt.Errorf("rate for %s: %w", entry.Key.Format(time.DateOnly), err)
		}
		highValue, err := numericAt(entry.Row, high, width)
		if err != nil {
			return nil, fmt.Errorf("rate for %s: %w", entry.Key.Format(time.DateOnly), err)
		}
		rates = append(rates, Rate{
			Date:  dateOf(entry.Key),
			Value: lowValue.Add(highValue).Div(two),
		})
	}
	return NewRateTableFromRates(rates), nil
}

// NewRateTableFromRates builds a table from explicit rates. Later rates for
// the same day replace earlier ones.
func NewRateTableFromRates(rates []Rate) *RateTable {
	sorted := make([]Rate, len(rates))
	copy(sorted, rates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	t := &RateTable{
		rates: make([]Rate, 0, len(sorted)),
		index: make(map[time.Time]int, len(sorted)),
	}
	for _, r := range sorted {
		r.Date = dateOf(r.Date)
		if pos, ok := t.index[r.Date]; ok {
			t.rates[pos] = r
			continue
		}
		t.index[r.Date] = len(t.rates)
		t.rates = append(t.rates, r)
	}
	return t
}

func numericAt(row Row, index, width int) (decimal.Decimal, error) {
	col, err := fields.ResolveIndex(index, width)
	if err != nil {
		return decimal.Decimal{}, err
	}
	f := row.Fields[col]
	if f.Kind != fields.KindNumber {
		return decimal.Decimal{}, errors.Newf(errors.ErrTypeNumericParse,
			"column %d holds %s, want a number", col, f.Kind).
			WithContext("column", col)
	}
	return f.Number, nil
}

// Len returns the number of dated rates.
func (t *RateTable) Len() int { return len(t.rates) }

// Rates returns the rates in ascending date order.
func (t *RateTable) Rates() []Rate {
	out := make([]Rate, len(t.rates))
	copy(out, t.rates)
	return out
}

// Lookup returns the rate recorded for date's calendar day.
func (t *RateTable) Lookup(date time.Time) (decimal.Decimal, bool) {
	pos, ok := t.index[dateOf(date)]
	if !ok {
		return decimal.Decimal{}, false
	}
	return t.rates[pos].Value, true
}

// Range returns the rates dated within [start, end].
func (t *RateTable) Range(start, end time.Time) []Rate {
	from, to := dateOf(start), dateOf(end)
	lo := sort.Search(len(t.rates), func(i int) bool { return !t.rates[i].Date.Before(from) })

	var out []Rate
	for _, r := range t.rates[lo:] {
		if r.Date.After(to) {
			break
		}
		out = append(out, r)
	}
	return out
}
