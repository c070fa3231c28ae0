// Package money formats integer euro cents for slips and summaries.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Euro renders cents as "12,50 €"
func Euro(cents int64) string {
	amount := Decimal(cents).StringFixed(2)
	return strings.Replace(amount, ".", ",", 1) + " €"
}

// Decimal returns cents as a decimal euro amount, e.g. 1250 -> 12.50
func Decimal(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Shift(-2)
}
