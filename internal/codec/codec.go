// Package codec converts raw statement field text into typed values.
package codec

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date layouts used by the supported exports.
const (
	DateDotted  = "02.01.2006"
	DateISO     = "2006-01-02"
	DateCompact = "2006.01.02"
	DateSlashed = "02/01/2006"
)

var (
	ErrEmpty     = errors.New("empty value")
	ErrAmbiguous = errors.New("ambiguous decimal separator")
)

var amountCleaner = strings.NewReplacer(
	" ", "",
	"\u00a0", "",
	"\u202f", "",
	"\t", "",
	"€", "",
)

// ParseDecimal parses an amount where a comma, if present, is the decimal point.
// Thousands separators are not recognized, so "1.234,56" is rejected.
func ParseDecimal(s string) (decimal.Decimal, error) {
	clean := amountCleaner.Replace(strings.TrimSpace(s))
	if clean == "" || clean == "-" || clean == "+" {
		return decimal.Zero, ErrEmpty
	}
	if strings.Contains(clean, ",") {
		if strings.Contains(clean, ".") || strings.Count(clean, ",") > 1 {
			return decimal.Zero, fmt.Errorf("%q: %w", s, ErrAmbiguous)
		}
		clean = strings.Replace(clean, ",", ".", 1)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// ParseDate parses s with a fixed layout. The result is in UTC.
func ParseDate(s, layout string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmpty
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ParseOptionalDate is ParseDate that treats blank input as absent.
func ParseOptionalDate(s, layout string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(s, layout)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
