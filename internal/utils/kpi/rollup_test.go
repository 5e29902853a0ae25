package kpi_test

import (
	"testing"
	"time"

	"github.com/fakturly/fakturly_backend/internal/core/domain"
	"github.com/fakturly/fakturly_backend/internal/utils/kpi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func entry(userID, hours string) domain.TimeEntry {
	return domain.TimeEntry{
		UserID:    userID,
		EntryDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Hours:     decimal.RequireFromString(hours),
	}
}

func TestAggregateTimeEntries(t *testing.T) {
	entries := []domain.TimeEntry{
		entry("u1", "3.5"),
		entry("u2", "8"),
		entry("u1", "4.5"),
	}
	names := map[string]string{"u1": "Alex", "u2": "Kim"}
	rates := map[string]decimal.Decimal{"u1": dec("90"), "u2": dec("75")}

	aggs := kpi.AggregateTimeEntries(entries, names, rates)
	require.Len(t, aggs, 2)

	assert.Equal(t, "Alex", aggs[0].Name)
	assert.True(t, aggs[0].Hours.Equal(dec("8")))
	assert.True(t, aggs[0].Cost.Equal(dec("720")), "cost = hours x rate: %s", aggs[0].Cost)

	assert.Equal(t, "Kim", aggs[1].Name)
	assert.True(t, aggs[1].Cost.Equal(dec("600")))
}

func TestAggregateTimeEntries_MissingRateMeansZeroCost(t *testing.T) {
	aggs := kpi.AggregateTimeEntries(
		[]domain.TimeEntry{entry("u3", "10")},
		map[string]string{"u3": "Sam"},
		map[string]decimal.Decimal{},
	)
	require.Len(t, aggs, 1)
	assert.True(t, aggs[0].Hours.Equal(dec("10")))
	assert.True(t, aggs[0].Cost.IsZero())
}

func TestCalculateFinanceStats_WithBudget(t *testing.T) {
	aggs := []domain.TimeEntryAggregate{
		{UserID: "u1", Hours: dec("40"), HourlyRate: dec("100"), Cost: dec("4000")},
		{UserID: "u2", Hours: dec("20"), HourlyRate: dec("100"), Cost: dec("2000")},
	}
	settings := domain.ProjectKpiSettings{
		Budget:     decPtr("10000"),
		ExtraCosts: dec("1000"),
	}

	stats := kpi.CalculateFinanceStats(aggs, settings)

	assert.True(t, stats.TotalLaborCost.Equal(dec("6000")))
	assert.True(t, stats.TotalCost.Equal(dec("7000")))

	require.NotNil(t, stats.Profit)
	assert.True(t, stats.Profit.Equal(dec("3000")))

	require.NotNil(t, stats.MarginPercent)
	assert.True(t, stats.MarginPercent.Equal(dec("30")), "margin: %s", stats.MarginPercent)

	require.NotNil(t, stats.BudgetUsagePercent)
	assert.True(t, stats.BudgetUsagePercent.Equal(dec("70")))

	require.NotNil(t, stats.EffectiveHourlyRateBudgetBased)
	assert.True(t, stats.EffectiveHourlyRateBudgetBased.Round(4).Equal(dec("166.6667")))

	require.NotNil(t, stats.EffectiveHourlyRateCostBased)
	assert.True(t, stats.EffectiveHourlyRateCostBased.Round(4).Equal(dec("116.6667")))
}

func TestCalculateFinanceStats_NoBudgetMeansUnavailable(t *testing.T) {
	aggs := []domain.TimeEntryAggregate{
		{UserID: "u1", Hours: dec("10"), HourlyRate: dec("80"), Cost: dec("800")},
	}

	stats := kpi.CalculateFinanceStats(aggs, domain.ProjectKpiSettings{})

	assert.Nil(t, stats.Profit)
	assert.Nil(t, stats.MarginPercent, "margin must be unavailable, not zero")
	assert.Nil(t, stats.BudgetUsagePercent)
	assert.Nil(t, stats.EffectiveHourlyRateBudgetBased)
	require.NotNil(t, stats.EffectiveHourlyRateCostBased)
	assert.True(t, stats.EffectiveHourlyRateCostBased.Equal(dec("80")))
}

func TestCalculateFinanceStats_ZeroBudgetMeansUnavailable(t *testing.T) {
	stats := kpi.CalculateFinanceStats(nil, domain.ProjectKpiSettings{Budget: decPtr("0")})

	assert.Nil(t, stats.MarginPercent)
	assert.Nil(t, stats.BudgetUsagePercent)
}

func TestCalculateFinanceStats_NoHoursMeansNoRates(t *testing.T) {
	stats := kpi.CalculateFinanceStats(nil, domain.ProjectKpiSettings{Budget: decPtr("5000")})

	assert.Nil(t, stats.EffectiveHourlyRateBudgetBased)
	assert.Nil(t, stats.EffectiveHourlyRateCostBased)
	require.NotNil(t, stats.Profit)
	assert.True(t, stats.Profit.Equal(dec("5000")))
}

func TestMarginCrossedZero(t *testing.T) {
	assert.True(t, kpi.MarginCrossedZero(decPtr("12.5"), decPtr("-3")), "positive to negative fires")
	assert.True(t, kpi.MarginCrossedZero(decPtr("0.01"), decPtr("0")), "positive to zero fires")
	assert.True(t, kpi.MarginCrossedZero(nil, decPtr("-1")), "first computation underwater fires")

	assert.False(t, kpi.MarginCrossedZero(decPtr("-5"), decPtr("-10")), "staying below zero must not re-fire")
	assert.False(t, kpi.MarginCrossedZero(decPtr("0"), decPtr("-1")), "zero is already at-or-below")
	assert.False(t, kpi.MarginCrossedZero(decPtr("10"), decPtr("5")), "staying positive never fires")
	assert.False(t, kpi.MarginCrossedZero(decPtr("-5"), nil), "margin becoming unavailable never fires")
	assert.False(t, kpi.MarginCrossedZero(decPtr("-5"), decPtr("20")), "recovery never fires")
}
