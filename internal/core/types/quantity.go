// Package types provides common type aliases and utilities.
package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Quantity is an exact stock amount in some measurement unit.
// Uses decimal.Decimal so opening + in - out sums never drift.
type Quantity = decimal.Decimal

// Rate is a unit conversion multiplier ("1 unit = rate base units").
type Rate = decimal.Decimal

// ratePrecision is the number of fractional digits kept when a rate is
// inverted or a quantity is divided by a rate.
const ratePrecision int32 = 16

// quantityPrecision is the number of fractional digits kept when a quantity
// is scaled by an inverted rate.
const quantityPrecision int32 = 12

// NewQuantity creates a Quantity from a float.
// WARNING: Use ParseQuantity for values coming from text.
func NewQuantity(f float64) Quantity {
	return decimal.NewFromFloat(f)
}

// NewQuantityFromInt creates a Quantity from an integer.
func NewQuantityFromInt(v int64) Quantity {
	return decimal.NewFromInt(v)
}

// ParseQuantity parses a decimal string ("12.5", "-3").
func ParseQuantity(s string) (Quantity, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}

// MustQuantity parses s and panics on error. Use only for constants and tests.
func MustQuantity(s string) Quantity {
	return decimal.RequireFromString(s)
}

// Zero returns zero Quantity value.
func Zero() Quantity {
	return decimal.Zero
}

// One returns the identity rate.
func One() Rate {
	return decimal.NewFromInt(1)
}

// Divide divides q by r keeping ratePrecision fractional digits.
// r must be non-zero.
func Divide(q Quantity, r Rate) Quantity {
	return q.DivRound(r, ratePrecision)
}

// Multiply scales q by r, rounded to quantityPrecision fractional digits so
// that 30 * (1/3) comes back as 10.
func Multiply(q Quantity, r Rate) Quantity {
	return q.Mul(r).Round(quantityPrecision)
}

// Invert returns 1/r. r must be non-zero.
func Invert(r Rate) Rate {
	return Divide(One(), r)
}

// ApproxEqual reports whether a and b differ by at most tolerance.
func ApproxEqual(a, b, tolerance Quantity) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

// Float64 renders q for JSON responses.
func Float64(q Quantity) float64 {
	return q.InexactFloat64()
}
