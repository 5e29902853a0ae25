package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fakturly/fakturly_backend/internal/apperrors"
	"github.com/fakturly/fakturly_backend/internal/core/domain"
	portsrepo "github.com/fakturly/fakturly_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxProjectRepository struct {
	BaseRepository
}

func newPgxProjectRepository(db *pgxpool.Pool) portsrepo.ProjectRepository {
	return &PgxProjectRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.ProjectRepository = (*PgxProjectRepository)(nil)

const projectColumns = `project_id, tenant_id, name, customer_ref,
	budget, target_margin_percent, planned_duration_days, extra_costs, notify_on_zero_margin, notify_email,
	last_margin_percent,
	created_at, created_by, last_updated_at, last_updated_by`

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ProjectID, &p.TenantID, &p.Name, &p.CustomerRef,
		&p.KpiSettings.Budget, &p.KpiSettings.TargetMarginPercent, &p.KpiSettings.PlannedDurationDays,
		&p.KpiSettings.ExtraCosts, &p.KpiSettings.NotifyOnZeroMargin, &p.KpiSettings.NotifyEmail,
		&p.LastMarginPercent,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PgxProjectRepository) CreateProject(ctx context.Context, project domain.Project) error {
	query := `
		INSERT INTO projects (project_id, tenant_id, name, customer_ref,
			budget, target_margin_percent, planned_duration_days, extra_costs, notify_on_zero_margin, notify_email,
			last_margin_percent,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		project.ProjectID, project.TenantID, project.Name, project.CustomerRef,
		project.KpiSettings.Budget, project.KpiSettings.TargetMarginPercent, project.KpiSettings.PlannedDurationDays,
		project.KpiSettings.ExtraCosts, project.KpiSettings.NotifyOnZeroMargin, project.KpiSettings.NotifyEmail,
		project.LastMarginPercent,
		project.CreatedAt, project.CreatedBy, project.LastUpdatedAt, project.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

func (r *PgxProjectRepository) GetProjectByID(ctx context.Context, tenantID string, projectID string) (*domain.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE tenant_id = $1 AND project_id = $2;`, projectColumns)
	project, err := scanProject(r.Pool.QueryRow(ctx, query, tenantID, projectID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find project %s: %w", projectID, err)
	}
	return project, nil
}

func (r *PgxProjectRepository) ListProjects(ctx context.Context, tenantID string) ([]domain.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE tenant_id = $1 ORDER BY name;`, projectColumns)
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate project rows: %w", err)
	}
	return projects, nil
}

func (r *PgxProjectRepository) UpdateProject(ctx context.Context, project domain.Project) error {
	query := `
		UPDATE projects
		SET name = $3, customer_ref = $4,
			budget = $5, target_margin_percent = $6, planned_duration_days = $7,
			extra_costs = $8, notify_on_zero_margin = $9, notify_email = $10,
			last_updated_at = $11, last_updated_by = $12
		WHERE tenant_id = $1 AND project_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		project.TenantID, project.ProjectID,
		project.Name, project.CustomerRef,
		project.KpiSettings.Budget, project.KpiSettings.TargetMarginPercent, project.KpiSettings.PlannedDurationDays,
		project.KpiSettings.ExtraCosts, project.KpiSettings.NotifyOnZeroMargin, project.KpiSettings.NotifyEmail,
		project.LastUpdatedAt, project.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update project %s: %w", project.ProjectID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxProjectRepository) UpdateLastMarginPercent(ctx context.Context, tenantID string, projectID string, margin *decimal.Decimal) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE projects SET last_margin_percent = $3 WHERE tenant_id = $1 AND project_id = $2;
	`, tenantID, projectID, margin)
	if err != nil {
		return fmt.Errorf("failed to update margin baseline for project %s: %w", projectID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxProjectRepository) CreateTimeEntry(ctx context.Context, entry domain.TimeEntry) error {
	query := `
		INSERT INTO time_entries (time_entry_id, project_id, user_id, entry_date, hours, note,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		entry.TimeEntryID, entry.ProjectID, entry.UserID, entry.EntryDate, entry.Hours, entry.Note,
		entry.CreatedAt, entry.CreatedBy, entry.LastUpdatedAt, entry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert time entry: %w", err)
	}
	return nil
}

func (r *PgxProjectRepository) ListTimeEntries(ctx context.Context, tenantID string, projectID string) ([]domain.TimeEntry, error) {
	// The join enforces tenant scoping; time entries have no tenant column.
	query := `
		SELECT te.time_entry_id, te.project_id, te.user_id, te.entry_date, te.hours, te.note,
			te.created_at, te.created_by, te.last_updated_at, te.last_updated_by
		FROM time_entries te
		JOIN projects p ON p.project_id = te.project_id
		WHERE p.tenant_id = $1 AND te.project_id = $2
		ORDER BY te.entry_date, te.created_at;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.TimeEntry
	for rows.Next() {
		var e domain.TimeEntry
		if err := rows.Scan(&e.TimeEntryID, &e.ProjectID, &e.UserID, &e.EntryDate, &e.Hours, &e.Note,
			&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan time entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time entry rows: %w", err)
	}
	return entries, nil
}
