package money_test

import (
	"testing"

	"github.com/fakturly/fakturly_backend/internal/apperrors"
	"github.com/fakturly/fakturly_backend/internal/utils/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRoundCents(t *testing.T) {
	assert.True(t, money.RoundCents(dec("1.005")).Equal(dec("1.01")), "half rounds away from zero")
	assert.True(t, money.RoundCents(dec("1.004")).Equal(dec("1.00")))
	assert.True(t, money.RoundCents(dec("-1.005")).Equal(dec("-1.01")))
}

func TestMulQuantity(t *testing.T) {
	assert.True(t, money.MulQuantity(dec("3"), dec("0.333")).Equal(dec("1.00")))
	assert.True(t, money.MulQuantity(dec("2"), dec("100.00")).Equal(dec("200.00")))
	assert.True(t, money.MulQuantity(dec("1"), dec("-100")).Equal(dec("-100")))
}

func TestApplyPercent(t *testing.T) {
	assert.True(t, money.ApplyPercent(dec("225.00"), dec("19")).Equal(dec("42.75")))
	assert.True(t, money.ApplyPercent(dec("250.00"), dec("10")).Equal(dec("25.00")))
	assert.True(t, money.ApplyPercent(dec("100"), dec("0")).IsZero())
}

func TestRatio(t *testing.T) {
	assert.True(t, money.Ratio(dec("3000"), dec("10000")).Equal(dec("30")))
	assert.True(t, money.Ratio(dec("7000"), dec("10000")).Equal(dec("70")))
}

func TestRequireNonNegative(t *testing.T) {
	assert.NoError(t, money.RequireNonNegative("total", dec("0")))
	assert.NoError(t, money.RequireNonNegative("total", dec("10.50")))
	assert.ErrorIs(t, money.RequireNonNegative("total", dec("-0.01")), apperrors.ErrInvalidAmount)
}
