// Package decimal holds the rounding and ratio helpers used by the NOK calculations.
package decimal

import (
	"github.com/shopspring/decimal"
)

var (
	ten      = decimal.NewFromInt(10)
	thousand = decimal.NewFromInt(1000)
	hundred  = decimal.NewFromInt(100)
)

// RoundToStep rounds d to the nearest multiple of step, half away from zero.
func RoundToStep(d, step decimal.Decimal) decimal.Decimal {
	return d.Div(step).Round(0).Mul(step)
}

// Round10 rounds to the nearest 10 (half away from zero on d/10).
func Round10(d decimal.Decimal) decimal.Decimal {
	return RoundToStep(d, ten)
}

// CeilToStep rounds d up to the next multiple of step.
func CeilToStep(d, step decimal.Decimal) decimal.Decimal {
	return d.Div(step).Ceil().Mul(step)
}

// CeilToThousand rounds d up to the next multiple of 1000.
func CeilToThousand(d decimal.Decimal) decimal.Decimal {
	return CeilToStep(d, thousand)
}

// Clamp limits d to [lo, hi]. hi wins when the bounds cross.
func Clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	return decimal.Min(decimal.Max(d, lo), hi)
}

// NonNegative returns d, or zero when d is negative
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Percent returns part/whole*100. ok is false when whole is zero.
func Percent(part, whole decimal.Decimal) (pct decimal.Decimal, ok bool) {
	if whole.IsZero() {
		return decimal.Zero, false
	}
	return part.Div(whole).Mul(hundred), true
}

// PercentPtr is Percent returning nil for an undefined ratio.
func PercentPtr(part, whole decimal.Decimal) *decimal.Decimal {
	pct, ok := Percent(part, whole)
	if !ok {
		return nil
	}
	return &pct
}
