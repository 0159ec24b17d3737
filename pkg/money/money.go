// Package money centralizes parse-safe decimal arithmetic for bill amounts.
// Cashier-entered price and quantity values are free-form strings; everything
// that turns them into numbers goes through here so malformed input degrades
// to zero in exactly one place.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Epsilon is the tolerance used when comparing collected amounts against a
// bill total. Two amounts within Epsilon of each other are considered settled.
const Epsilon = 0.01

// Parse converts a free-form amount string to a decimal. Empty, partial, or
// non-numeric input yields zero; Parse never fails.
func Parse(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseFloat is Parse with a float64 result, for callers that store amounts
// as numbers rather than strings.
func ParseFloat(s string) float64 {
	f, _ := Parse(s).Float64()
	return f
}

// RowAmount computes price * qty for one bill row, parse-safe on both sides.
func RowAmount(price, qty string) float64 {
	f, _ := Parse(price).Mul(Parse(qty)).Float64()
	return f
}

// Sum adds a list of float amounts through decimals so repeated addition of
// paise values does not accumulate binary float drift.
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	f, _ := total.Float64()
	return f
}

// Sub returns a - b computed through decimals.
func Sub(a, b float64) float64 {
	f, _ := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Float64()
	return f
}

// Settled reports whether an outstanding balance is zero within Epsilon.
func Settled(balance float64) bool {
	return balance <= Epsilon
}

// FormatINR renders an amount the way receipts show it: rupee sign, two
// decimal places.
func FormatINR(amount float64) string {
	return "₹" + decimal.NewFromFloat(amount).StringFixed(2)
}
