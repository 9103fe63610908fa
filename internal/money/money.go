// Package money provides decimal helpers for currency amounts.
//
// All arithmetic is done on decimal.Decimal at full precision. Rounding to the
// minor unit happens only when an amount is rendered (Round, Format).
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// MinorUnitPlaces is the number of decimal places of the minor currency unit.
const MinorUnitPlaces = 2

var (
	// Epsilon is the default threshold below which a balance is considered settled
	// (half a minor unit).
	Epsilon = decimal.New(5, -3)

	// Cent is one minor currency unit.
	Cent = decimal.New(1, -MinorUnitPlaces)

	ErrInvalidAmount = errors.New("amount must be a positive decimal")
)

// IsSettled reports whether |d| is below eps.
func IsSettled(d, eps decimal.Decimal) bool {
	return d.Abs().LessThan(eps)
}

// Round rounds to the minor unit (half away from zero).
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(MinorUnitPlaces)
}

// Format renders d with exactly two decimal places.
func Format(d decimal.Decimal) string {
	return d.StringFixed(MinorUnitPlaces)
}

// Sum adds all amounts. The sum of an empty slice is zero.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Parse converts user input to a positive decimal amount.
// Both "12.34" and "12,34" are accepted. Amounts with more precision than the
// minor unit are rejected rather than silently rounded.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.Equal(d.Truncate(MinorUnitPlaces)) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
