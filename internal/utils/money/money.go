// Package money provides the shared decimal helpers for monetary math.
// All accumulation happens on decimal.Decimal; float64 never enters a sum.
package money

import (
	"fmt"

	"github.com/fakturly/fakturly_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RoundCents rounds to 2 decimal places, half away from zero.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MulQuantity computes quantity x unit price rounded to cents. This is the
// per-line rounding point; sums over line totals must not round again.
func MulQuantity(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return RoundCents(quantity.Mul(unitPrice))
}

// ApplyPercent computes value x (percent/100) rounded to cents.
func ApplyPercent(value, percent decimal.Decimal) decimal.Decimal {
	return RoundCents(value.Mul(percent).Div(hundred))
}

// Ratio computes (part/whole) x 100 without rounding. The caller decides the
// display precision; KPI ratios are not money.
func Ratio(part, whole decimal.Decimal) decimal.Decimal {
	return part.Div(whole).Mul(hundred)
}

// RequireNonNegative returns ErrInvalidAmount when d is negative.
func RequireNonNegative(name string, d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%w: %s must not be negative, got %s", apperrors.ErrInvalidAmount, name, d.String())
	}
	return nil
}
