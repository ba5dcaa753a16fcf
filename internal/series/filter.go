package series

import (
	"fmt"
	"time"

	"ratecli/internal/dtformat"
)

// FilterRange returns a new series holding the rows whose key date lies in
// [start, end]. Only the date portions are compared.
func (s *Series) FilterRange(start, end time.Time) *Series {
	from, to := dateOf(start), dateOf(end)

	rows := make([]Row, 0, len(s.rows))
	for _, row := range s.rows {
		d := dateOf(row.Key)
		if d.Before(from) || d.After(to) {
			continue
		}
		rows = append(rows, row)
	}
	return fromSortedRows(rows, s.mode)
}

// FilterRangeStrings parses start and end with a format inferred from the
// pair itself and filters by the resulting dates.
func (s *Series) FilterRangeStrings(start, end string) (*Series, error) {
	from, to, err := ParseRange(start, end)
	if err != nil {
		return nil, err
	}
	return s.FilterRange(from, to), nil
}

// ParseRange infers a datetime format from the two bounds and parses both.
func ParseRange(start, end string) (time.Time, time.Time, error) {
	format, _, err := dtformat.InferDatetimeFormat([]string{start, end})
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("infer range format: %w", err)
	}

	from, err := dtformat.ParseDatetime(start, format)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := dtformat.ParseDatetime(end, format)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}
