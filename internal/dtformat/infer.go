package dtformat

import (
	"strconv"
	"strings"
	"unicode"

	"ratecli/internal/errors"
)

var dateSeparators = []byte{'-', '.', '/'}

// yearThreshold separates a four digit year from a day or month.
const yearThreshold = 1000

// maxMonth is the largest value a month component can take; any component
// above it must be a day (or the year).
const maxMonth = 12

// InferDateFormat decides component order and separator from date samples.
// The year position comes from the first sample; day and month are told
// apart by the first sample holding a component above 12.
func InferDateFormat(samples []string) (DateFormat, error) {
	if len(samples) == 0 {
		return DateFormat{}, errors.Newf(errors.ErrTypeAmbiguousDateFormat, "no date samples")
	}

	split := make([][3]int, 0, len(samples))
	var format DateFormat
	for i, sample := range samples {
		comps, sep, err := splitDate(sample)
		if err != nil {
			return DateFormat{}, err
		}
		if i == 0 {
			format.Separator = sep
		}
		split = append(split, comps)
	}

	if split[0][0] > yearThreshold {
		format.YearIndex = 0
	} else {
		format.YearIndex = 2
	}

	for _, comps := range split {
		if format.YearIndex == 0 {
			switch {
			case comps[1] > maxMonth:
				format.DayIndex, format.MonthIndex = 1, 2
				return format, nil
			case comps[2] > maxMonth:
				format.DayIndex, format.MonthIndex = 2, 1
				return format, nil
			}
			continue
		}

		switch {
		case comps[1] > maxMonth:
			format.DayIndex, format.MonthIndex = 1, 0
			return format, nil
		case comps[0] > maxMonth:
			format.DayIndex, format.MonthIndex = 0, 1
			return format, nil
		}
	}

	return DateFormat{}, errors.Newf(errors.ErrTypeAmbiguousDateFormat,
		"no sample tells day from month among %d samples", len(samples)).
		WithContext("first_sample", samples[0])
}

// splitDate cleans one sample and splits it into three integers.
func splitDate(sample string) ([3]int, byte, error) {
	var comps [3]int

	s := truncateAtSpace(stripQuotes(sample))
	sep, ok := findDateSeparator(s)
	if !ok {
		return comps, 0, errors.Newf(errors.ErrTypeUnsupportedDateSeparator,
			"no '-', '.' or '/' in date %q", sample).WithContext("sample", sample)
	}

	parts := strings.Split(s, string(sep))
	if len(parts) != 3 {
		return comps, 0, errors.Newf(errors.ErrTypeMalformedDate,
			"date %q has %d components, want 3", sample, len(parts))
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return comps, 0, errors.NewAppError(errors.ErrTypeMalformedDate,
				"date component "+strconv.Quote(p)+" is not a number", err)
		}
		comps[i] = n
	}
	return comps, sep, nil
}

func findDateSeparator(s string) (byte, bool) {
	for _, sep := range dateSeparators {
		if strings.IndexByte(s, sep) >= 0 {
			return sep, true
		}
	}
	return 0, false
}

// InferTimeFormat decides the time components from the first non-empty
// sample. Samples whose length differs from the first are reported as
// warnings. A nil format means no times were given.
func InferTimeFormat(samples []string) (*TimeFormat, []*errors.AppError, error) {
	times := make([]string, 0, len(samples))
	for _, s := range samples {
		if s = strings.TrimSpace(stripQuotes(s)); s != "" {
			times = append(times, s)
		}
	}
	if len(times) == 0 {
		return nil, nil, nil
	}

	first := times[0]
	parts := strings.Split(first, ":")

	format := &TimeFormat{}
	switch len(parts) {
	case 2:
		format.Components = []TimeComponent{Hour, Minute}
	case 3:
		seconds := parts[2]
		if len(seconds) <= 2 {
			format.Components = []TimeComponent{Hour, Minute, Second}
			break
		}
		_, frac, ok := strings.Cut(seconds, ".")
		if !ok || frac == "" || len(frac) > 9 {
			return nil, nil, errors.Newf(errors.ErrTypeUnknownTimeFormat,
				"seconds %q in time %q carry no usable fraction", seconds, first)
		}
		format.Components = []TimeComponent{Hour, Minute, Second, Fraction}
		format.FractionDigits = len(frac)
	default:
		return nil, nil, errors.Newf(errors.ErrTypeUnknownTimeFormat,
			"time %q has %d ':' separated components", first, len(parts)).
			WithContext("sample", first)
	}

	var warnings []*errors.AppError
	for _, s := range times[1:] {
		if len(s) != len(first) {
			warnings = append(warnings, errors.Newf(errors.ErrTypeInconsistentTimeFormat,
				"time %q differs in length from %q", s, first).
				WithContext("sample", s))
		}
	}
	return format, warnings, nil
}

// InferDatetimeFormat infers the date/time separator, then the date and time
// formats of the parts.
func InferDatetimeFormat(samples []string) (DatetimeFormat, []*errors.AppError, error) {
	cleaned := make([]string, len(samples))
	seps := make([]string, len(samples))

	var (
		chosen   string
		dateOnly bool
		longBare string
	)
	for i, raw := range samples {
		s := strings.TrimSpace(stripQuotes(raw))
		cleaned[i] = s

		sep := findDatetimeSeparator(s)
		seps[i] = sep
		switch {
		case sep != "":
			if chosen != "" && chosen != sep {
				return DatetimeFormat{}, nil, errors.Newf(errors.ErrTypeMixedSeparators,
					"samples use both %q and %q between date and time", chosen, sep)
			}
			chosen = sep
		case len(s) <= 10:
			dateOnly = true
		case longBare == "":
			longBare = s
		}
	}

	if longBare != "" {
		if chosen != "" {
			return DatetimeFormat{}, nil, errors.Newf(errors.ErrTypeMixedSeparators,
				"%q has no date/time separator while other samples use %q", longBare, chosen)
		}
		return DatetimeFormat{}, nil, errors.Newf(errors.ErrTypeUnsupportedDatetimeSeparator,
			"cannot find a date/time separator in %q", longBare).
			WithContext("sample", longBare)
	}

	dates := make([]string, len(cleaned))
	times := make([]string, 0, len(cleaned))
	for i, s := range cleaned {
		if seps[i] == "" {
			dates[i] = s
			continue
		}
		date, clock, _ := strings.Cut(s, seps[i])
		dates[i] = date
		times = append(times, clock)
	}

	dateFormat, err := InferDateFormat(dates)
	if err != nil {
		return DatetimeFormat{}, nil, err
	}
	if dateOnly || chosen == "" {
		return DatetimeFormat{Date: dateFormat}, nil, nil
	}

	timeFormat, warnings, err := InferTimeFormat(times)
	if err != nil {
		return DatetimeFormat{}, nil, err
	}
	if timeFormat == nil {
		return DatetimeFormat{Date: dateFormat}, warnings, nil
	}
	return DatetimeFormat{Date: dateFormat, Time: timeFormat, Separator: chosen}, warnings, nil
}

func findDatetimeSeparator(s string) string {
	for _, sep := range datetimeSeparators {
		if strings.Contains(s, sep) {
			return sep
		}
	}
	return ""
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func truncateAtSpace(s string) string {
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		return s[:i]
	}
	return s
}
