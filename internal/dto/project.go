package dto

import (
	"time"

	"github.com/fakturly/fakturly_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Project DTOs ---

// CreateProjectRequest defines data for creating a new project.
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	CustomerRef string `json:"customerRef"`
}

// UpdateKpiSettingsRequest defines data for replacing a project's KPI inputs.
type UpdateKpiSettingsRequest struct {
	Budget              *decimal.Decimal `json:"budget,omitempty"`
	TargetMarginPercent *decimal.Decimal `json:"targetMarginPercent,omitempty"`
	PlannedDurationDays *int             `json:"plannedDurationDays,omitempty" binding:"omitempty,min=1"`
	ExtraCosts          decimal.Decimal  `json:"extraCosts"`
	NotifyOnZeroMargin  bool             `json:"notifyOnZeroMargin"`
	NotifyEmail         string           `json:"notifyEmail" binding:"omitempty,email"`
}

// ProjectResponse defines data returned for a project.
type ProjectResponse struct {
	ProjectID   string                    `json:"projectID"`
	TenantID    string                    `json:"tenantID"`
	Name        string                    `json:"name"`
	CustomerRef string                    `json:"customerRef"`
	KpiSettings domain.ProjectKpiSettings `json:"kpiSettings"`
	CreatedAt   time.Time                 `json:"createdAt"`
}

// ToProjectResponse converts domain.Project to DTO.
func ToProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ProjectID:   p.ProjectID,
		TenantID:    p.TenantID,
		Name:        p.Name,
		CustomerRef: p.CustomerRef,
		KpiSettings: p.KpiSettings,
		CreatedAt:   p.CreatedAt,
	}
}

// ListProjectsResponse wraps a list of projects.
type ListProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

// ToListProjectsResponse converts a slice of domain.Project to DTO.
func ToListProjectsResponse(ps []domain.Project) ListProjectsResponse {
	list := make([]ProjectResponse, len(ps))
	for i, p := range ps {
		list[i] = ToProjectResponse(&p)
	}
	return ListProjectsResponse{Projects: list}
}

// --- Time Tracking DTOs ---

// TrackTimeRequest defines data for recording tracked time on a project.
type TrackTimeRequest struct {
	EntryDate time.Time       `json:"entryDate" binding:"required"`
	Hours     decimal.Decimal `json:"hours" binding:"required"`
	Note      string          `json:"note"`
}

// TimeEntryResponse defines data returned for a time entry.
type TimeEntryResponse struct {
	TimeEntryID string          `json:"timeEntryID"`
	ProjectID   string          `json:"projectID"`
	UserID      string          `json:"userID"`
	EntryDate   time.Time       `json:"entryDate"`
	Hours       decimal.Decimal `json:"hours"`
	Note        string          `json:"note"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ToTimeEntryResponse converts domain.TimeEntry to DTO.
func ToTimeEntryResponse(e *domain.TimeEntry) TimeEntryResponse {
	return TimeEntryResponse{
		TimeEntryID: e.TimeEntryID,
		ProjectID:   e.ProjectID,
		UserID:      e.UserID,
		EntryDate:   e.EntryDate,
		Hours:       e.Hours,
		Note:        e.Note,
		CreatedAt:   e.CreatedAt,
	}
}

// ToTimeEntryResponses converts a slice of domain.TimeEntry to DTOs.
func ToTimeEntryResponses(entries []domain.TimeEntry) []TimeEntryResponse {
	list := make([]TimeEntryResponse, len(entries))
	for i, e := range entries {
		list[i] = ToTimeEntryResponse(&e)
	}
	return list
}

// --- Finance Stats DTOs ---

// EmployeeAggregateResponse is the per-employee rollup row.
type EmployeeAggregateResponse struct {
	UserID     string          `json:"userID"`
	Name       string          `json:"name"`
	Hours      decimal.Decimal `json:"hours"`
	HourlyRate decimal.Decimal `json:"hourlyRate"`
	Cost       decimal.Decimal `json:"cost"`
}

// FinanceStatsResponse defines the derived KPI set for a project. Pointer
// fields are omitted, not zeroed, when the underlying data is missing.
type FinanceStatsResponse struct {
	TotalHours     decimal.Decimal `json:"totalHours"`
	TotalLaborCost decimal.Decimal `json:"totalLaborCost"`
	TotalCost      decimal.Decimal `json:"totalCost"`

	Profit             *decimal.Decimal `json:"profit,omitempty"`
	MarginPercent      *decimal.Decimal `json:"marginPercent,omitempty"`
	BudgetUsagePercent *decimal.Decimal `json:"budgetUsagePercent,omitempty"`

	EffectiveHourlyRateBudgetBased *decimal.Decimal `json:"effectiveHourlyRateBudgetBased,omitempty"`
	EffectiveHourlyRateCostBased   *decimal.Decimal `json:"effectiveHourlyRateCostBased,omitempty"`

	PerEmployee []EmployeeAggregateResponse `json:"perEmployee"`
}

// ToFinanceStatsResponse converts domain.FinanceStats to DTO.
func ToFinanceStatsResponse(s *domain.FinanceStats) FinanceStatsResponse {
	perEmployee := make([]EmployeeAggregateResponse, len(s.PerEmployee))
	for i, a := range s.PerEmployee {
		perEmployee[i] = EmployeeAggregateResponse{
			UserID:     a.UserID,
			Name:       a.Name,
			Hours:      a.Hours,
			HourlyRate: a.HourlyRate,
			Cost:       a.Cost,
		}
	}
	return FinanceStatsResponse{
		TotalHours:                     s.TotalHours,
		TotalLaborCost:                 s.TotalLaborCost,
		TotalCost:                      s.TotalCost,
		Profit:                         s.Profit,
		MarginPercent:                  s.MarginPercent,
		BudgetUsagePercent:             s.BudgetUsagePercent,
		EffectiveHourlyRateBudgetBased: s.EffectiveHourlyRateBudgetBased,
		EffectiveHourlyRateCostBased:   s.EffectiveHourlyRateCostBased,
		PerEmployee:                    perEmployee,
	}
}
