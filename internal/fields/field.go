package fields

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ratecli/internal/errors"
)

// Kind is the type decided once per column.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "text"
	}
}

// MarshalText lets kinds appear by name in JSON and logs.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Field is a parsed cell. Only the member matching Kind is meaningful.
type Field struct {
	Kind   Kind
	Text   string
	Number decimal.Decimal
	Time   time.Time
}

// Text wraps raw as a text field.
func Text(raw string) Field {
	return Field{Kind: KindText, Text: raw}
}

// Number wraps d as a numeric field.
func Number(d decimal.Decimal) Field {
	return Field{Kind: KindNumber, Number: d}
}

// Date wraps t as a date field.
func Date(t time.Time) Field {
	return Field{Kind: KindDate, Time: t}
}

// String returns the natural representation. Dates need the inferred layout
// to render faithfully, so they fall back to RFC 3339 here.
func (f Field) String() string {
	switch f.Kind {
	case KindNumber:
		return f.Number.String()
	case KindDate:
		return f.Time.Format(time.RFC3339)
	default:
		return f.Text
	}
}

// Convert builds a field of the given kind from raw. Date columns are parsed
// by the series builder, which owns the inferred format.
func Convert(raw string, kind Kind) (Field, error) {
	switch kind {
	case KindNumber:
		d, err := ParseNumeric(raw)
		if err != nil {
			return Field{}, err
		}
		return Number(d), nil
	case KindText:
		return Text(raw), nil
	default:
		return Field{}, fmt.Errorf("convert %q: unsupported kind %s", raw, kind)
	}
}

// InferKinds decides a kind per column. The key column is a date; any other
// column is numeric when every row has a numeric value there.
func InferKinds(rows [][]string, keyIndex int) []Kind {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	kinds := make([]Kind, width)
	for col := 0; col < width; col++ {
		if col == keyIndex {
			kinds[col] = KindDate
			continue
		}
		kinds[col] = columnKind(rows, col)
	}
	return kinds
}

func columnKind(rows [][]string, col int) Kind {
	if len(rows) == 0 {
		return KindText
	}
	for _, row := range rows {
		if col >= len(row) || !IsNumeric(row[col]) {
			return KindText
		}
	}
	return KindNumber
}

// ResolveIndex normalises a possibly negative column index against width.
func ResolveIndex(index, width int) (int, error) {
	resolved := index
	if resolved < 0 {
		resolved += width
	}
	if resolved < 0 || resolved >= width {
		return 0, errors.NewIndexOutOfRangeError(index, width)
	}
	return resolved, nil
}
