package repositories

import (
	"context"

	"github.com/fakturly/fakturly_backend/internal/core/domain"
)

// TenantRepository defines persistence operations for tenants and memberships.
type TenantRepository interface {
	// CreateTenant inserts the tenant and the creator's ADMIN membership in a
	// single transaction.
	CreateTenant(ctx context.Context, tenant domain.Tenant, creatorUserID string) error
	GetTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
	ListTenantsForUser(ctx context.Context, userID string) ([]domain.Tenant, error)
	UpdateTenant(ctx context.Context, tenant domain.Tenant) error

	// GetUserTenantRole returns the membership row, or ErrNotFound when the
	// user does not belong to the tenant.
	GetUserTenantRole(ctx context.Context, userID string, tenantID string) (*domain.UserTenant, error)
	AddUserToTenant(ctx context.Context, membership domain.UserTenant) error
	ListTenantMembers(ctx context.Context, tenantID string) ([]domain.UserTenant, error)
}
