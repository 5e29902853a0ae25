// Package kpi implements the project finance rollup: time-entry aggregates
// plus KPI settings in, derived finance stats out. The computation is a pure
// projection recomputed on every request; nothing here is cached or persisted.
package kpi

import (
	"sort"

	"github.com/fakturly/fakturly_backend/internal/core/domain"
	"github.com/fakturly/fakturly_backend/internal/utils/money"
	"github.com/shopspring/decimal"
)

// AggregateTimeEntries groups raw time entries by employee and prices them
// with the given hourly rates. Employees without a configured rate contribute
// hours at zero cost. The result is ordered by employee name for stable output.
func AggregateTimeEntries(entries []domain.TimeEntry, names map[string]string, rates map[string]decimal.Decimal) []domain.TimeEntryAggregate {
	byUser := make(map[string]*domain.TimeEntryAggregate)
	for _, entry := range entries {
		agg, ok := byUser[entry.UserID]
		if !ok {
			agg = &domain.TimeEntryAggregate{
				UserID:     entry.UserID,
				Name:       names[entry.UserID],
				HourlyRate: rates[entry.UserID],
			}
			byUser[entry.UserID] = agg
		}
		agg.Hours = agg.Hours.Add(entry.Hours)
	}

	result := make([]domain.TimeEntryAggregate, 0, len(byUser))
	for _, agg := range byUser {
		agg.Cost = agg.Hours.Mul(agg.HourlyRate)
		result = append(result, *agg)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].UserID < result[j].UserID
	})
	return result
}

// CalculateFinanceStats derives the KPI set from per-employee aggregates and
// the project settings. Ratios depending on a positive budget and the
// effective hourly rates depending on nonzero tracked hours come back nil
// when their precondition fails; nil means "no data", never zero.
func CalculateFinanceStats(aggregates []domain.TimeEntryAggregate, settings domain.ProjectKpiSettings) domain.FinanceStats {
	stats := domain.FinanceStats{PerEmployee: aggregates}

	for _, agg := range aggregates {
		stats.TotalHours = stats.TotalHours.Add(agg.Hours)
		stats.TotalLaborCost = stats.TotalLaborCost.Add(agg.Cost)
	}
	stats.TotalCost = stats.TotalLaborCost.Add(settings.ExtraCosts)

	if settings.Budget != nil && settings.Budget.IsPositive() {
		budget := *settings.Budget

		profit := budget.Sub(stats.TotalCost)
		stats.Profit = &profit

		margin := money.Ratio(profit, budget)
		stats.MarginPercent = &margin

		usage := money.Ratio(stats.TotalCost, budget)
		stats.BudgetUsagePercent = &usage

		if stats.TotalHours.IsPositive() {
			rate := budget.Div(stats.TotalHours)
			stats.EffectiveHourlyRateBudgetBased = &rate
		}
	}

	if stats.TotalHours.IsPositive() {
		rate := stats.TotalCost.Div(stats.TotalHours)
		stats.EffectiveHourlyRateCostBased = &rate
	}

	return stats
}

// MarginCrossedZero reports whether a recomputation moved the margin from
// positive to zero-or-below. This is the edge condition for the notification
// hook: it fires at most once per crossing, not on every recompute that stays
// at or below zero.
func MarginCrossedZero(previous, current *decimal.Decimal) bool {
	if current == nil || current.IsPositive() {
		return false
	}
	// No previous value: treat the first computation that lands at <=0 as a
	// crossing so a project that starts underwater still notifies once.
	if previous == nil {
		return true
	}
	return previous.IsPositive()
}
