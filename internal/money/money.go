// Package money holds the fixed-point helpers used for every amount in the ledger.
package money

import "github.com/shopspring/decimal"

// Scale is the number of decimal places amounts are stored with.
const Scale = 2

var hundred = decimal.NewFromInt(100)

// Round rounds half away from zero, which is half-up for the non-negative
// amounts the ledger deals with.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Percent returns round(amount * percent / 100).
func Percent(amount, percent decimal.Decimal) decimal.Decimal {
	return Round(amount.Mul(percent).Shift(-2))
}

// IsValidAmount reports whether d is strictly positive and has no more than two decimals.
func IsValidAmount(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(d.Truncate(Scale))
}

// IsValidPercent reports whether p lies in [0, 100] with at most two decimals.
func IsValidPercent(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(hundred) && p.Equal(p.Truncate(Scale))
}

// Parse reads a decimal string such as "1000" or "12.50".
func Parse(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
