// Package billing implements the line-item engine: the deterministic totals
// computation shared by previews, issued documents, PDF rendering and the
// e-invoice serializer. Rounding happens at exactly two points per pass
// (line totals and the tax amount, plus the discount amount itself) so the
// result is bit-reproducible and gross == net_after_discount + tax holds to
// the cent.
package billing

import (
	"fmt"

	"github.com/fakturly/fakturly_backend/internal/apperrors"
	"github.com/fakturly/fakturly_backend/internal/core/domain"
	"github.com/fakturly/fakturly_backend/internal/utils/money"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CalculateTotals computes the totals for an ordered position list.
// Only ITEM positions contribute; negative quantities and unit prices are
// permitted (credit lines) and not clamped here.
func CalculateTotals(positions []domain.Position, taxRate decimal.Decimal, discount domain.Discount) (domain.DocumentTotals, error) {
	if err := validateDiscount(discount); err != nil {
		return domain.DocumentTotals{}, err
	}
	if taxRate.IsNegative() {
		return domain.DocumentTotals{}, fmt.Errorf("%w: tax rate must not be negative, got %s", apperrors.ErrValidation, taxRate.String())
	}

	netSubtotal := decimal.Zero
	hasItems := false
	for _, pos := range positions {
		if pos.Kind != domain.ItemPosition {
			continue
		}
		hasItems = true
		netSubtotal = netSubtotal.Add(money.MulQuantity(pos.Quantity, pos.UnitPrice))
	}

	discountAmount := decimal.Zero
	if discount.Enabled && hasItems {
		discountAmount = discountFor(discount, netSubtotal, taxRate)
	}

	netAfterDiscount := netSubtotal.Sub(discountAmount)
	if netAfterDiscount.IsNegative() {
		netAfterDiscount = decimal.Zero
	}

	taxAmount := money.ApplyPercent(netAfterDiscount, taxRate)
	grossTotal := netAfterDiscount.Add(taxAmount)

	return domain.DocumentTotals{
		NetSubtotal:      netSubtotal,
		DiscountAmount:   discountAmount,
		NetAfterDiscount: netAfterDiscount,
		TaxAmount:        taxAmount,
		GrossTotal:       grossTotal,
	}, nil
}

// SubtotalThrough computes the running net subtotal of ITEM positions up to
// and including index. SUBTOTAL positions render this value.
func SubtotalThrough(positions []domain.Position, index int) decimal.Decimal {
	sum := decimal.Zero
	for i, pos := range positions {
		if i > index {
			break
		}
		if pos.Kind == domain.ItemPosition {
			sum = sum.Add(money.MulQuantity(pos.Quantity, pos.UnitPrice))
		}
	}
	return sum
}

// discountFor resolves the discount amount against the configured base.
// base=GROSS requires a second pass: the undiscounted gross is computed
// first and the discount taken from that.
func discountFor(d domain.Discount, netSubtotal, taxRate decimal.Decimal) decimal.Decimal {
	baseValue := netSubtotal
	if d.Base == domain.BaseGross {
		baseValue = netSubtotal.Add(money.ApplyPercent(netSubtotal, taxRate))
	}

	switch d.Type {
	case domain.DiscountAmount:
		// An absolute discount never pushes the net below zero.
		if d.Value.GreaterThan(baseValue) {
			return baseValue
		}
		return money.RoundCents(d.Value)
	default: // PERCENT
		return money.ApplyPercent(baseValue, d.Value)
	}
}

func validateDiscount(d domain.Discount) error {
	if !d.Enabled {
		return nil
	}
	if d.Value.IsNegative() {
		return fmt.Errorf("%w: discount value must not be negative, got %s", apperrors.ErrValidation, d.Value.String())
	}
	if d.Type == domain.DiscountPercent && d.Value.GreaterThan(hundred) {
		return fmt.Errorf("%w: percent discount must be within 0-100, got %s", apperrors.ErrValidation, d.Value.String())
	}
	return nil
}
