package dtformat

import (
	"strconv"
	"strings"
	"time"

	"ratecli/internal/errors"
)

// ParseDate parses the date part of raw with f. Anything after the first
// whitespace is ignored. Results are midnight UTC.
func ParseDate(raw string, f DateFormat) (time.Time, error) {
	s := truncateAtSpace(strings.TrimSpace(stripQuotes(raw)))

	parts := strings.Split(s, string(f.Separator))
	if len(parts) != 3 {
		return time.Time{}, malformed(raw, "expected 3 components separated by "+strconv.QuoteRune(rune(f.Separator)), nil)
	}

	var comps [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, malformed(raw, "component "+strconv.Quote(p)+" is not a number", err)
		}
		comps[i] = n
	}

	year, month, day := comps[f.YearIndex], comps[f.MonthIndex], comps[f.DayIndex]
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, malformed(raw, "no such calendar date", nil)
	}
	return t, nil
}

// ParseDatetime parses raw with f. Date-only formats ignore any time suffix.
func ParseDatetime(raw string, f DatetimeFormat) (time.Time, error) {
	s := strings.TrimSpace(stripQuotes(raw))

	if f.Time == nil {
		if sep := findDatetimeSeparator(s); sep != "" {
			s, _, _ = strings.Cut(s, sep)
		}
		return ParseDate(s, f.Date)
	}

	datePart, timePart, ok := strings.Cut(s, f.Separator)
	if !ok {
		return time.Time{}, malformed(raw, "missing date/time separator "+strconv.Quote(f.Separator), nil)
	}

	day, err := ParseDate(datePart, f.Date)
	if err != nil {
		return time.Time{}, err
	}

	clock, err := parseClock(strings.TrimSpace(timePart), f.Time)
	if err != nil {
		return time.Time{}, malformed(raw, "invalid time", err)
	}
	return day.Add(clock), nil
}

func parseClock(s string, f *TimeFormat) (time.Duration, error) {
	parts := strings.Split(s, ":")
	want := len(f.Components)
	if f.HasFraction() {
		want = 3
	}
	if len(parts) != want {
		return 0, errors.Newf(errors.ErrTypeMalformedDate, "time %q has %d components, want %d", s, len(parts), want)
	}

	var frac string
	if f.HasFraction() {
		parts[2], frac, _ = strings.Cut(parts[2], ".")
	}

	limits := []int{23, 59, 59}
	units := []time.Duration{time.Hour, time.Minute, time.Second}

	var d time.Duration
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return 0, errors.Newf(errors.ErrTypeMalformedDate, "time component %q out of range", p)
		}
		d += time.Duration(n) * units[i]
	}

	if frac != "" {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		n, err := strconv.Atoi(frac + strings.Repeat("0", 9-len(frac)))
		if err != nil {
			return 0, errors.Newf(errors.ErrTypeMalformedDate, "fraction %q is not a number", frac)
		}
		d += time.Duration(n)
	}
	return d, nil
}

func malformed(raw, reason string, cause error) *errors.AppError {
	return errors.NewAppError(errors.ErrTypeMalformedDate, "cannot parse "+strconv.Quote(raw)+": "+reason, cause).
		WithContext("value", raw)
}
