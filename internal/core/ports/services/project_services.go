package services

import (
	"context"

	"github.com/fakturly/fakturly_backend/internal/core/domain"
	"github.com/fakturly/fakturly_backend/internal/dto"
)

// ProjectReaderSvc defines read operations for projects.
type ProjectReaderSvc interface {
	GetProject(ctx context.Context, tenantID string, projectID string) (*domain.Project, error)
	ListProjects(ctx context.Context, tenantID string) ([]domain.Project, error)
	ListTimeEntries(ctx context.Context, tenantID string, projectID string) ([]domain.TimeEntry, error)

	// GetFinanceStats recomputes the project's KPI set from its time entries
	// and settings. As a side effect it evaluates the zero-margin trigger and
	// notifies once per downward crossing.
	GetFinanceStats(ctx context.Context, tenantID string, projectID string) (*domain.FinanceStats, error)
}

// ProjectWriterSvc defines write operations for projects.
type ProjectWriterSvc interface {
	CreateProject(ctx context.Context, tenantID string, req dto.CreateProjectRequest, creatorUserID string) (*domain.Project, error)

	// UpdateKpiSettings replaces the project's KPI inputs.
	UpdateKpiSettings(ctx context.Context, tenantID string, projectID string, req dto.UpdateKpiSettingsRequest, requestingUserID string) (*domain.Project, error)

	// TrackTime records tracked hours for the requesting user on the project.
	TrackTime(ctx context.Context, tenantID string, projectID string, req dto.TrackTimeRequest, requestingUserID string) (*domain.TimeEntry, error)
}

// ProjectSvcFacade combines all project-related service interfaces.
type ProjectSvcFacade interface {
	ProjectReaderSvc
	ProjectWriterSvc
}
