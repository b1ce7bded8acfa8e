// Package currency rewrites amounts in the retired Latvian lats into euro.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Legacy  = "LVL"
	Current = "EUR"
)

// PegRate is the irrevocable LVL per EUR conversion rate.
var PegRate = decimal.RequireFromString("0.702804")

// Normalize converts an LVL amount to EUR at PegRate, rounded half away from
// zero to cents. Any other currency is returned unchanged.
func Normalize(amount decimal.Decimal, code string) (decimal.Decimal, string) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code != Legacy {
		return amount, code
	}
	return amount.DivRound(PegRate, 8).Round(2), Current
}

// IsLegacy reports whether code is the legacy currency.
func IsLegacy(code string) bool {
	return strings.EqualFold(strings.TrimSpace(code), Legacy)
}
