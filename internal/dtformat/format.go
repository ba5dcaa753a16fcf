// Package dtformat infers date and datetime layouts from sample strings and
// parses values with the inferred layout.
package dtformat

import (
	"strings"
	"time"
)

// DateFormat records where year, month and day sit in a date and the single
// character separating them.
type DateFormat struct {
	YearIndex  int
	MonthIndex int
	DayIndex   int
	Separator  byte
}

// TimeComponent is one ':' separated part of a time.
type TimeComponent int

const (
	Hour TimeComponent = iota
	Minute
	Second
	Fraction
)

// TimeFormat lists the components present, in order. Fraction is only ever
// the fourth component and is separated from seconds by '.'.
type TimeFormat struct {
	Components     []TimeComponent
	FractionDigits int
}

// HasSeconds reports whether the format carries a seconds component.
func (f *TimeFormat) HasSeconds() bool {
	return f != nil && len(f.Components) >= 3
}

// HasFraction reports whether the format carries fractional seconds.
func (f *TimeFormat) HasFraction() bool {
	return f != nil && len(f.Components) == 4
}

// Date/time separators, in detection priority.
const (
	SeparatorCommaSpace = ", "
	SeparatorSpace      = " "
	SeparatorT          = "T"
)

var datetimeSeparators = []string{SeparatorCommaSpace, SeparatorSpace, SeparatorT}

// DatetimeFormat is a DateFormat with an optional time part. Separator is
// empty exactly when Time is nil.
type DatetimeFormat struct {
	Date      DateFormat
	Time      *TimeFormat
	Separator string
}

// DateOnly reports whether the format has no time part.
func (f DatetimeFormat) DateOnly() bool {
	return f.Time == nil
}

// Layout composes the Go reference layout for the format, e.g.
// "02.01.2006 15:04" or "2006-01-02T15:04:05.000".
func (f DatetimeFormat) Layout() string {
	var parts [3]string
	parts[f.Date.YearIndex] = "2006"
	parts[f.Date.MonthIndex] = "01"
	parts[f.Date.DayIndex] = "02"

	var b strings.Builder
	b.WriteString(strings.Join(parts[:], string(f.Date.Separator)))
	if f.Time == nil {
		return b.String()
	}

	b.WriteString(f.Separator)
	b.WriteString("15:04")
	if f.Time.HasSeconds() {
		b.WriteString(":05")
	}
	if f.Time.HasFraction() {
		b.WriteString(".")
		b.WriteString(strings.Repeat("0", f.Time.FractionDigits))
	}
	return b.String()
}

// Format renders t with the composed layout.
func (f DatetimeFormat) Format(t time.Time) string {
	return t.Format(f.Layout())
}

// Layout composes the date-only layout.
func (f DateFormat) Layout() string {
	return DatetimeFormat{Date: f}.Layout()
}
