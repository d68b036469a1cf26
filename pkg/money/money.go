package money

import (
	"github.com/shopspring/decimal"
)

// Epsilon is the tolerance used when comparing derived balances to zero.
// Balances are sums of user-entered decimals, so tiny residues can appear
// after long add/delete sequences.
var Epsilon = decimal.New(1, -8) // 1e-8

// IsZero reports whether d is zero within Epsilon.
func IsZero(d decimal.Decimal) bool {
	return d.Abs().Cmp(Epsilon) <= 0
}

// GTE reports whether a >= b within Epsilon.
func GTE(a, b decimal.Decimal) bool {
	return a.Sub(b).Cmp(Epsilon.Neg()) >= 0
}

// LTE reports whether a <= b within Epsilon.
func LTE(a, b decimal.Decimal) bool {
	return a.Sub(b).Cmp(Epsilon) <= 0
}

// IsPositive reports whether d is strictly greater than zero.
func IsPositive(d decimal.Decimal) bool {
	return d.Sign() > 0
}

// IsNegative reports whether d is strictly less than zero.
func IsNegative(d decimal.Decimal) bool {
	return d.Sign() < 0
}
