// Package fields turns raw tokens into typed values. Numbers are exact
// decimals; binary floating point is never used for parsed data.
package fields

import (
	"strings"

	"github.com/shopspring/decimal"

	"ratecli/internal/errors"
)

// ParseNumeric parses raw as a decimal. A value using a decimal comma is
// retried with ',' replaced by '.'.
func ParseNumeric(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)

	d, err := decimal.NewFromString(s)
	if err == nil {
		return d, nil
	}

	if strings.Contains(s, ",") {
		if d, retryErr := decimal.NewFromString(strings.ReplaceAll(s, ",", ".")); retryErr == nil {
			return d, nil
		}
	}

	return decimal.Decimal{}, errors.NewNumericParseError(raw, err)
}

// IsNumeric reports whether ParseNumeric would succeed.
func IsNumeric(raw string) bool {
	_, err := ParseNumeric(raw)
	return err == nil
}
