package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fakturly/fakturly_backend/internal/apperrors"
	"github.com/fakturly/fakturly_backend/internal/core/domain"
	portsrepo "github.com/fakturly/fakturly_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTenantRepository struct {
	BaseRepository
}

func newPgxTenantRepository(db *pgxpool.Pool) portsrepo.TenantRepository {
	return &PgxTenantRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.TenantRepository = (*PgxTenantRepository)(nil)

// CreateTenant inserts the tenant and the creator's ADMIN membership in a
// single transaction.
func (r *PgxTenantRepository) CreateTenant(ctx context.Context, tenant domain.Tenant, creatorUserID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO tenants (tenant_id, name, country_code, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`,
		tenant.TenantID,
		tenant.Name,
		tenant.CountryCode,
		tenant.CreatedAt,
		tenant.CreatedBy,
		tenant.LastUpdatedAt,
		tenant.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tenant: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO user_tenants (user_id, tenant_id, role, joined_at)
		VALUES ($1, $2, $3, $4);
	`, creatorUserID, tenant.TenantID, domain.RoleAdmin, tenant.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert creator membership: %w", err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxTenantRepository) GetTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	query := `
		SELECT tenant_id, name, country_code, created_at, created_by, last_updated_at, last_updated_by
		FROM tenants
		WHERE tenant_id = $1;
	`
	var t domain.Tenant
	err := r.Pool.QueryRow(ctx, query, tenantID).Scan(
		&t.TenantID,
		&t.Name,
		&t.CountryCode,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tenant %s: %w", tenantID, err)
	}
	return &t, nil
}

func (r *PgxTenantRepository) ListTenantsForUser(ctx context.Context, userID string) ([]domain.Tenant, error) {
	query := `
		SELECT t.tenant_id, t.name, t.country_code, t.created_at, t.created_by, t.last_updated_at, t.last_updated_by
		FROM tenants t
		JOIN user_tenants ut ON ut.tenant_id = t.tenant_id
		WHERE ut.user_id = $1
		ORDER BY t.name;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants for user %s: %w", userID, err)
	}
	defer rows.Close()

	var tenants []domain.Tenant
	for rows.Next() {
		var t domain.Tenant
		if err := rows.Scan(&t.TenantID, &t.Name, &t.CountryCode, &t.CreatedAt, &t.CreatedBy, &t.LastUpdatedAt, &t.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan tenant row: %w", err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tenant rows: %w", err)
	}
	return tenants, nil
}

func (r *PgxTenantRepository) UpdateTenant(ctx context.Context, tenant domain.Tenant) error {
	query := `
		UPDATE tenants
		SET name = $2, country_code = $3, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		tenant.TenantID,
		tenant.Name,
		tenant.CountryCode,
		tenant.LastUpdatedAt,
		tenant.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update tenant %s: %w", tenant.TenantID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTenantRepository) GetUserTenantRole(ctx context.Context, userID string, tenantID string) (*domain.UserTenant, error) {
	query := `
		SELECT user_id, tenant_id, role, joined_at
		FROM user_tenants
		WHERE user_id = $1 AND tenant_id = $2;
	`
	var m domain.UserTenant
	err := r.Pool.QueryRow(ctx, query, userID, tenantID).Scan(&m.UserID, &m.TenantID, &m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}
	return &m, nil
}

func (r *PgxTenantRepository) AddUserToTenant(ctx context.Context, membership domain.UserTenant) error {
	query := `
		INSERT INTO user_tenants (user_id, tenant_id, role, joined_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err := r.Pool.Exec(ctx, query, membership.UserID, membership.TenantID, membership.Role, membership.JoinedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to add tenant membership: %w", err)
	}
	return nil
}

func (r *PgxTenantRepository) ListTenantMembers(ctx context.Context, tenantID string) ([]domain.UserTenant, error) {
	query := `
		SELECT user_id, tenant_id, role, joined_at
		FROM user_tenants
		WHERE tenant_id = $1
		ORDER BY joined_at;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenant members: %w", err)
	}
	defer rows.Close()

	var members []domain.UserTenant
	for rows.Next() {
		var m domain.UserTenant
		if err := rows.Scan(&m.UserID, &m.TenantID, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate membership rows: %w", err)
	}
	return members, nil
}
