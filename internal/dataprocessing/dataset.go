package dataprocessing

import (
	"strconv"

	"ratecli/internal/dialect"
	"ratecli/internal/dtformat"
	apperrors "ratecli/internal/errors"
	"ratecli/internal/fields"
	"ratecli/internal/series"
)

// Dataset is the result of parsing one delimited source.
type Dataset struct {
	Source   string
	Dialect  dialect.Dialect
	Format   dtformat.DatetimeFormat
	Header   []string
	Kinds    []fields.Kind
	KeyIndex int
	Series   *series.Series
	// Warnings are non-fatal inference findings such as a separator tie.
	Warnings []*apperrors.AppError
}

// Rows returns every parsed row in key order.
func (d *Dataset) Rows() []series.Row {
	return d.Series.Rows()
}

// Layout returns the Go time layout the key column was written in.
func (d *Dataset) Layout() string {
	return d.Format.Layout()
}

// NumericColumns returns the indices of the columns parsed as numbers.
func (d *Dataset) NumericColumns() []int {
	var cols []int
	for col, kind := range d.Kinds {
		if kind == fields.KindNumber {
			cols = append(cols, col)
		}
	}
	return cols
}

// ColumnName returns the header of col, or a positional name without one.
func (d *Dataset) ColumnName(col int) string {
	if col >= 0 && col < len(d.Header) && d.Header[col] != "" {
		return d.Header[col]
	}
	return "column_" + strconv.Itoa(col)
}
