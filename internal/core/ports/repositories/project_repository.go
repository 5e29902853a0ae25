package repositories

import (
	"context"

	"github.com/fakturly/fakturly_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ProjectRepository defines persistence operations for projects and their
// time-tracking records.
type ProjectRepository interface {
	CreateProject(ctx context.Context, project domain.Project) error
	GetProjectByID(ctx context.Context, tenantID string, projectID string) (*domain.Project, error)
	ListProjects(ctx context.Context, tenantID string) ([]domain.Project, error)
	UpdateProject(ctx context.Context, project domain.Project) error

	// UpdateLastMarginPercent persists the margin observed by the most recent
	// finance recomputation. Nil clears the stored value.
	UpdateLastMarginPercent(ctx context.Context, tenantID string, projectID string, margin *decimal.Decimal) error

	CreateTimeEntry(ctx context.Context, entry domain.TimeEntry) error
	ListTimeEntries(ctx context.Context, tenantID string, projectID string) ([]domain.TimeEntry, error)
}
