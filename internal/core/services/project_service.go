package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fakturly/fakturly_backend/internal/apperrors"
	"github.com/fakturly/fakturly_backend/internal/core/domain"
	portsrepo "github.com/fakturly/fakturly_backend/internal/core/ports/repositories"
	portssvc "github.com/fakturly/fakturly_backend/internal/core/ports/services"
	"github.com/fakturly/fakturly_backend/internal/dto"
	"github.com/fakturly/fakturly_backend/internal/utils/kpi"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// projectService implements the ProjectSvcFacade interface.
type projectService struct {
	BaseService
	projectRepo portsrepo.ProjectRepository
	userRepo    portsrepo.UserRepository
	notifier    portssvc.MarginNotifier
}

// NewProjectService creates a new project service.
func NewProjectService(projectRepo portsrepo.ProjectRepository, userRepo portsrepo.UserRepository, notifier portssvc.MarginNotifier) portssvc.ProjectSvcFacade {
	return &projectService{projectRepo: projectRepo, userRepo: userRepo, notifier: notifier}
}

var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

func (s *projectService) GetProject(ctx context.Context, tenantID string, projectID string) (*domain.Project, error) {
	project, err := s.projectRepo.GetProjectByID(ctx, tenantID, projectID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get project", slog.String("project_id", projectID))
		}
		return nil, err
	}
	return project, nil
}

func (s *projectService) ListProjects(ctx context.Context, tenantID string) ([]domain.Project, error) {
	projects, err := s.projectRepo.ListProjects(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list projects", slog.String("tenant_id", tenantID))
		return nil, err
	}
	if projects == nil {
		return []domain.Project{}, nil
	}
	return projects, nil
}

func (s *projectService) ListTimeEntries(ctx context.Context, tenantID string, projectID string) ([]domain.TimeEntry, error) {
	if _, err := s.projectRepo.GetProjectByID(ctx, tenantID, projectID); err != nil {
		return nil, err
	}
	entries, err := s.projectRepo.ListTimeEntries(ctx, tenantID, projectID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list time entries", slog.String("project_id", projectID))
		return nil, err
	}
	if entries == nil {
		return []domain.TimeEntry{}, nil
	}
	return entries, nil
}

func (s *projectService) CreateProject(ctx context.Context, tenantID string, req dto.CreateProjectRequest, creatorUserID string) (*domain.Project, error) {
	now := time.Now()
	project := domain.Project{
		ProjectID:   uuid.NewString(),
		TenantID:    tenantID,
		Name:        req.Name,
		CustomerRef: req.CustomerRef,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.projectRepo.CreateProject(ctx, project); err != nil {
		s.LogError(ctx, err, "Failed to create project", slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.LogInfo(ctx, "Project created",
		slog.String("project_id", project.ProjectID), slog.String("tenant_id", tenantID))
	return &project, nil
}

// UpdateKpiSettings replaces the project's KPI inputs.
func (s *projectService) UpdateKpiSettings(ctx context.Context, tenantID string, projectID string, req dto.UpdateKpiSettingsRequest, requestingUserID string) (*domain.Project, error) {
	if req.Budget != nil && req.Budget.IsNegative() {
		return nil, fmt.Errorf("budget must not be negative: %w", apperrors.ErrInvalidAmount)
	}
	if req.ExtraCosts.IsNegative() {
		return nil, fmt.Errorf("extra costs must not be negative: %w", apperrors.ErrInvalidAmount)
	}
	if req.NotifyOnZeroMargin && req.NotifyEmail == "" {
		return nil, fmt.Errorf("notifyEmail is required when zero-margin alerts are enabled: %w", apperrors.ErrValidation)
	}

	project, err := s.projectRepo.GetProjectByID(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}

	project.KpiSettings = domain.ProjectKpiSettings{
		Budget:              req.Budget,
		TargetMarginPercent: req.TargetMarginPercent,
		PlannedDurationDays: req.PlannedDurationDays,
		ExtraCosts:          req.ExtraCosts,
		NotifyOnZeroMargin:  req.NotifyOnZeroMargin,
		NotifyEmail:         req.NotifyEmail,
	}
	project.LastUpdatedAt = time.Now()
	project.LastUpdatedBy = requestingUserID

	if err := s.projectRepo.UpdateProject(ctx, *project); err != nil {
		s.LogError(ctx, err, "Failed to update kpi settings", slog.String("project_id", projectID))
		return nil, err
	}
	return project, nil
}

// TrackTime records tracked hours for the requesting user on the project.
func (s *projectService) TrackTime(ctx context.Context, tenantID string, projectID string, req dto.TrackTimeRequest, requestingUserID string) (*domain.TimeEntry, error) {
	if !req.Hours.IsPositive() {
		return nil, fmt.Errorf("tracked hours must be positive: %w", apperrors.ErrValidation)
	}
	if _, err := s.projectRepo.GetProjectByID(ctx, tenantID, projectID); err != nil {
		return nil, err
	}

	now := time.Now()
	entry := domain.TimeEntry{
		TimeEntryID: uuid.NewString(),
		ProjectID:   projectID,
		UserID:      requestingUserID,
		EntryDate:   req.EntryDate,
		Hours:       req.Hours,
		Note:        req.Note,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}
	if err := s.projectRepo.CreateTimeEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to create time entry", slog.String("project_id", projectID))
		return nil, err
	}
	return &entry, nil
}

// GetFinanceStats recomputes the project's KPI set from its time entries and
// settings. The zero-margin trigger is evaluated against the margin stored by
// the previous computation, so the alert fires once per downward crossing and
// re-arms when the margin recovers above zero.
func (s *projectService) GetFinanceStats(ctx context.Context, tenantID string, projectID string) (*domain.FinanceStats, error) {
	project, err := s.projectRepo.GetProjectByID(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}

	entries, err := s.projectRepo.ListTimeEntries(ctx, tenantID, projectID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load time entries for rollup", slog.String("project_id", projectID))
		return nil, err
	}

	names, rates, err := s.employeeData(ctx, entries)
	if err != nil {
		return nil, err
	}

	aggregates := kpi.AggregateTimeEntries(entries, names, rates)
	stats := kpi.CalculateFinanceStats(aggregates, project.KpiSettings)

	s.evaluateMarginTrigger(ctx, project, &stats)

	return &stats, nil
}

// employeeData resolves names and hourly rates for every user appearing in
// the entries.
func (s *projectService) employeeData(ctx context.Context, entries []domain.TimeEntry) (map[string]string, map[string]decimal.Decimal, error) {
	idSet := make(map[string]struct{})
	for _, e := range entries {
		idSet[e.UserID] = struct{}{}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	names := make(map[string]string, len(ids))
	rates := make(map[string]decimal.Decimal, len(ids))
	if len(ids) == 0 {
		return names, rates, nil
	}

	users, err := s.userRepo.GetUsersByIDs(ctx, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to load users for rollup")
		return nil, nil, err
	}
	for id, user := range users {
		names[id] = user.Name
		if user.HourlyRate != nil {
			rates[id] = *user.HourlyRate
		}
	}
	return names, rates, nil
}

// evaluateMarginTrigger fires the zero-margin notification on a downward
// crossing and persists the observed margin as the new trigger baseline.
// Notification and persistence failures are logged, never surfaced: the
// rollup result must not depend on the alerting side effect.
func (s *projectService) evaluateMarginTrigger(ctx context.Context, project *domain.Project, stats *domain.FinanceStats) {
	if project.KpiSettings.NotifyOnZeroMargin && kpi.MarginCrossedZero(project.LastMarginPercent, stats.MarginPercent) {
		notification := portssvc.ZeroMarginNotification{
			TenantID:      project.TenantID,
			ProjectID:     project.ProjectID,
			ProjectName:   project.Name,
			Email:         project.KpiSettings.NotifyEmail,
			MarginPercent: *stats.MarginPercent,
			OccurredAt:    time.Now(),
		}
		if err := s.notifier.NotifyZeroMargin(ctx, notification); err != nil {
			s.LogError(ctx, err, "Failed to deliver zero-margin notification",
				slog.String("project_id", project.ProjectID))
		} else {
			s.LogInfo(ctx, "Zero-margin notification sent",
				slog.String("project_id", project.ProjectID),
				slog.String("margin_percent", stats.MarginPercent.String()))
		}
	}

	if !marginsEqual(project.LastMarginPercent, stats.MarginPercent) {
		if err := s.projectRepo.UpdateLastMarginPercent(ctx, project.TenantID, project.ProjectID, stats.MarginPercent); err != nil {
			s.LogError(ctx, err, "Failed to persist margin baseline",
				slog.String("project_id", project.ProjectID))
		}
	}
}

func marginsEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
