// Package core provides the domain types and amount arithmetic.
//
// Amounts are integer millicents: 1000 millicents are one unit of currency.
// Rates are decimal percentages and never pass through float64 arithmetic.
package core

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// DefaultRoundingUnit rounds targets to whole currency units.
const DefaultRoundingUnit int64 = 1000

const millicentsPerUnit = 1000

var hundred = decimal.NewFromInt(100)

// NewTarget applies percent to current and rounds the result half away from
// zero to a multiple of unit.
//
// Examples:
//
//	NewTarget(1000000, 0.3, 1000)  -> 1003000
//	NewTarget(1000000, -0.3, 1000) -> 997000
//	NewTarget(1004000, 0.2, 1000)  -> 1006000
func NewTarget(current int64, percent decimal.Decimal, unit int64) (int64, error) {
	if current < 0 {
		return 0, fmt.Errorf("%w: current target %d is negative", ErrInvalidAmount, current)
	}
	if unit <= 0 {
		return 0, fmt.Errorf("%w: rounding unit %d must be positive", ErrInvalidAmount, unit)
	}

	factor := decimal.NewFromInt(1).Add(percent.Div(hundred))
	raw := decimal.NewFromInt(current).Mul(factor)

	// Round rounds half away from zero.
	units := raw.Div(decimal.NewFromInt(unit)).Round(0)
	result := units.Mul(decimal.NewFromInt(unit))
	if result.IsNegative() {
		return 0, nil
	}
	if !result.IsInteger() || result.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, fmt.Errorf("%w: target overflow", ErrInvalidAmount)
	}
	return result.IntPart(), nil
}

// PercentFromFloat converts a float rate, rejecting values decimal cannot hold.
func PercentFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("%w: rate %v is not finite", ErrInvalidAmount, f)
	}
	return decimal.NewFromFloat(f), nil
}

// FormatMillicents renders an amount with two decimal places, e.g. 1003000 -> "1003.00".
func FormatMillicents(m int64) string {
	return decimal.New(m, 0).Div(decimal.NewFromInt(millicentsPerUnit)).StringFixed(2)
}

// FormatEuros is FormatMillicents with the currency sign appended.
func FormatEuros(m int64) string {
	return FormatMillicents(m) + "€"
}
