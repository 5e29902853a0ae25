package billing_test

import (
	"testing"

	"github.com/fakturly/fakturly_backend/internal/apperrors"
	"github.com/fakturly/fakturly_backend/internal/core/domain"
	"github.com/fakturly/fakturly_backend/internal/utils/billing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(qty, price string) domain.Position {
	return domain.Position{
		Kind:      domain.ItemPosition,
		Quantity:  decimal.RequireFromString(qty),
		UnitPrice: decimal.RequireFromString(price),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateTotals_PercentDiscountOnNet(t *testing.T) {
	positions := []domain.Position{
		item("2", "100.00"),
		item("1", "50.00"),
	}
	discount := domain.Discount{
		Enabled: true,
		Type:    domain.DiscountPercent,
		Base:    domain.BaseNet,
		Value:   dec("10"),
	}

	totals, err := billing.CalculateTotals(positions, dec("19"), discount)
	require.NoError(t, err)

	assert.True(t, totals.NetSubtotal.Equal(dec("250.00")), "net subtotal: %s", totals.NetSubtotal)
	assert.True(t, totals.DiscountAmount.Equal(dec("25.00")), "discount: %s", totals.DiscountAmount)
	assert.True(t, totals.NetAfterDiscount.Equal(dec("225.00")), "net after discount: %s", totals.NetAfterDiscount)
	assert.True(t, totals.TaxAmount.Equal(dec("42.75")), "tax: %s", totals.TaxAmount)
	assert.True(t, totals.GrossTotal.Equal(dec("267.75")), "gross: %s", totals.GrossTotal)
}

func TestCalculateTotals_GrossEqualsNetMinusDiscountPlusTax(t *testing.T) {
	cases := []struct {
		name     string
		positions []domain.Position
		taxRate  string
		discount domain.Discount
	}{
		{
			name:      "no discount",
			positions: []domain.Position{item("3", "19.99"), item("0.5", "120.10")},
			taxRate:   "19",
		},
		{
			name:      "amount discount on net",
			positions: []domain.Position{item("7", "13.37")},
			taxRate:   "7",
			discount:  domain.Discount{Enabled: true, Type: domain.DiscountAmount, Base: domain.BaseNet, Value: dec("20.00")},
		},
		{
			name:      "percent discount on gross",
			positions: []domain.Position{item("4", "250.00"), item("1", "99.95")},
			taxRate:   "19",
			discount:  domain.Discount{Enabled: true, Type: domain.DiscountPercent, Base: domain.BaseGross, Value: dec("5")},
		},
		{
			name:      "credit line",
			positions: []domain.Position{item("1", "500.00"), item("1", "-100.00")},
			taxRate:   "19",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			totals, err := billing.CalculateTotals(tc.positions, dec(tc.taxRate), tc.discount)
			require.NoError(t, err)

			recombined := totals.NetSubtotal.Sub(totals.DiscountAmount).Add(totals.TaxAmount)
			assert.True(t, totals.GrossTotal.Equal(recombined),
				"gross %s != net %s - discount %s + tax %s",
				totals.GrossTotal, totals.NetSubtotal, totals.DiscountAmount, totals.TaxAmount)
		})
	}
}

func TestCalculateTotals_PerLineRounding(t *testing.T) {
	// Each line rounds to cents before summing: 3 x 0.333 = 1.00 (not 0.999).
	positions := []domain.Position{
		item("3", "0.333"),
	}

	totals, err := billing.CalculateTotals(positions, dec("0"), domain.Discount{})
	require.NoError(t, err)
	assert.True(t, totals.NetSubtotal.Equal(dec("1.00")), "net subtotal: %s", totals.NetSubtotal)
}

func TestCalculateTotals_OnlyItemsContribute(t *testing.T) {
	positions := []domain.Position{
		{Kind: domain.HeadingPosition, Text: "Phase 1"},
		item("2", "100.00"),
		{Kind: domain.DescriptionPosition, Text: "as discussed"},
		{Kind: domain.SubtotalPosition},
		{Kind: domain.SeparatorPosition},
		item("1", "50.00"),
	}

	totals, err := billing.CalculateTotals(positions, dec("19"), domain.Discount{})
	require.NoError(t, err)
	assert.True(t, totals.NetSubtotal.Equal(dec("250.00")), "net subtotal: %s", totals.NetSubtotal)
}

func TestCalculateTotals_EmptyPositions(t *testing.T) {
	discount := domain.Discount{Enabled: true, Type: domain.DiscountPercent, Base: domain.BaseNet, Value: dec("10")}

	totals, err := billing.CalculateTotals(nil, dec("19"), discount)
	require.NoError(t, err)

	assert.True(t, totals.NetSubtotal.IsZero())
	assert.True(t, totals.DiscountAmount.IsZero(), "discount is inapplicable without items")
	assert.True(t, totals.TaxAmount.IsZero())
	assert.True(t, totals.GrossTotal.IsZero())
}

func TestCalculateTotals_AmountDiscountClampedToBase(t *testing.T) {
	positions := []domain.Position{item("1", "30.00")}
	discount := domain.Discount{Enabled: true, Type: domain.DiscountAmount, Base: domain.BaseNet, Value: dec("100.00")}

	totals, err := billing.CalculateTotals(positions, dec("19"), discount)
	require.NoError(t, err)

	assert.True(t, totals.DiscountAmount.Equal(dec("30.00")), "discount clamps to base: %s", totals.DiscountAmount)
	assert.True(t, totals.NetAfterDiscount.IsZero())
	assert.True(t, totals.GrossTotal.IsZero())
}

func TestCalculateTotals_GrossBaseUsesTwoPass(t *testing.T) {
	// 10% off a gross base: undiscounted gross = 100 + 19 = 119,
	// discount = 11.90, net after discount = 88.10.
	positions := []domain.Position{item("1", "100.00")}
	discount := domain.Discount{Enabled: true, Type: domain.DiscountPercent, Base: domain.BaseGross, Value: dec("10")}

	totals, err := billing.CalculateTotals(positions, dec("19"), discount)
	require.NoError(t, err)

	assert.True(t, totals.DiscountAmount.Equal(dec("11.90")), "discount: %s", totals.DiscountAmount)
	assert.True(t, totals.NetAfterDiscount.Equal(dec("88.10")), "net after discount: %s", totals.NetAfterDiscount)
}

func TestCalculateTotals_InvalidDiscounts(t *testing.T) {
	positions := []domain.Position{item("1", "10.00")}

	_, err := billing.CalculateTotals(positions, dec("19"), domain.Discount{
		Enabled: true, Type: domain.DiscountPercent, Base: domain.BaseNet, Value: dec("-1"),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = billing.CalculateTotals(positions, dec("19"), domain.Discount{
		Enabled: true, Type: domain.DiscountPercent, Base: domain.BaseNet, Value: dec("101"),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = billing.CalculateTotals(positions, dec("-19"), domain.Discount{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCalculateTotals_Deterministic(t *testing.T) {
	positions := []domain.Position{item("2.5", "99.99"), item("1", "0.01")}
	discount := domain.Discount{Enabled: true, Type: domain.DiscountPercent, Base: domain.BaseGross, Value: dec("3")}

	first, err := billing.CalculateTotals(positions, dec("19"), discount)
	require.NoError(t, err)
	second, err := billing.CalculateTotals(positions, dec("19"), discount)
	require.NoError(t, err)

	assert.True(t, first.GrossTotal.Equal(second.GrossTotal))
	assert.True(t, first.TaxAmount.Equal(second.TaxAmount))
}

func TestSubtotalThrough(t *testing.T) {
	positions := []domain.Position{
		item("2", "100.00"),
		{Kind: domain.HeadingPosition},
		item("1", "50.00"),
		{Kind: domain.SubtotalPosition},
		item("1", "25.00"),
	}

	assert.True(t, billing.SubtotalThrough(positions, 3).Equal(dec("250.00")))
	assert.True(t, billing.SubtotalThrough(positions, 4).Equal(dec("275.00")))
}
