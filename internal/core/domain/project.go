package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project is a tenant-scoped unit of work whose finances are tracked.
type Project struct {
	ProjectID string `json:"projectID"`
	TenantID  string `json:"tenantID"`
	Name      string `json:"name"`
	CustomerRef string `json:"customerRef"`

	KpiSettings ProjectKpiSettings `json:"kpiSettings"`

	// LastMarginPercent stores the margin from the previous finance
	// recomputation. It drives the edge-triggered zero-margin notification:
	// the hook fires only when the margin crosses from >0 to <=0.
	LastMarginPercent *decimal.Decimal `json:"-"`

	AuditFields
}

// ProjectKpiSettings holds the owner-managed inputs of the finance rollup.
// Budget nil means "no budget set"; ratio KPIs are then unavailable, not zero.
type ProjectKpiSettings struct {
	Budget              *decimal.Decimal `json:"budget,omitempty"`
	TargetMarginPercent *decimal.Decimal `json:"targetMarginPercent,omitempty"`
	PlannedDurationDays *int             `json:"plannedDurationDays,omitempty"`
	ExtraCosts          decimal.Decimal  `json:"extraCosts"`
	NotifyOnZeroMargin  bool             `json:"notifyOnZeroMargin"`
	NotifyEmail         string           `json:"notifyEmail"`
}

// TimeEntry is a raw time-tracking record.
type TimeEntry struct {
	TimeEntryID string          `json:"timeEntryID"`
	ProjectID   string          `json:"projectID"`
	UserID      string          `json:"userID"`
	EntryDate   time.Time       `json:"entryDate"`
	Hours       decimal.Decimal `json:"hours"`
	Note        string          `json:"note"`
	AuditFields
}

// TimeEntryAggregate is the per-employee rollup of time entries.
// Cost = Hours x HourlyRate.
type TimeEntryAggregate struct {
	UserID     string          `json:"userID"`
	Name       string          `json:"name"`
	Hours      decimal.Decimal `json:"hours"`
	HourlyRate decimal.Decimal `json:"hourlyRate"`
	Cost       decimal.Decimal `json:"cost"`
}

// FinanceStats is the derived KPI set for a project. It is recomputed on
// every request and never persisted. Nil pointer fields mean "no data"
// (missing budget or zero tracked hours) and must not be rendered as zero.
type FinanceStats struct {
	TotalHours     decimal.Decimal `json:"totalHours"`
	TotalLaborCost decimal.Decimal `json:"totalLaborCost"`
	TotalCost      decimal.Decimal `json:"totalCost"`

	Profit             *decimal.Decimal `json:"profit,omitempty"`
	MarginPercent      *decimal.Decimal `json:"marginPercent,omitempty"`
	BudgetUsagePercent *decimal.Decimal `json:"budgetUsagePercent,omitempty"`

	EffectiveHourlyRateBudgetBased *decimal.Decimal `json:"effectiveHourlyRateBudgetBased,omitempty"`
	EffectiveHourlyRateCostBased   *decimal.Decimal `json:"effectiveHourlyRateCostBased,omitempty"`

	PerEmployee []TimeEntryAggregate `json:"perEmployee"`
}
