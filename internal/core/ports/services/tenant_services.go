package services

import (
	"context"

	"github.com/fakturly/fakturly_backend/internal/core/domain"
	"github.com/fakturly/fakturly_backend/internal/dto"
)

// TenantReaderSvc defines read operations for tenant data.
type TenantReaderSvc interface {
	// GetTenantByID retrieves a tenant the user is a member of.
	GetTenantByID(ctx context.Context, tenantID string, requestingUserID string) (*domain.Tenant, error)

	// ListTenantsForUser lists the tenants the user belongs to.
	ListTenantsForUser(ctx context.Context, userID string) ([]domain.Tenant, error)

	// ListMembers lists the memberships of a tenant.
	ListMembers(ctx context.Context, tenantID string, requestingUserID string) ([]domain.UserTenant, error)
}

// TenantWriterSvc defines write operations for tenant data.
type TenantWriterSvc interface {
	// CreateTenant creates a tenant with the creator as ADMIN.
	CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorUserID string) (*domain.Tenant, error)

	// UpdateTenant updates tenant details. Requires ADMIN.
	UpdateTenant(ctx context.Context, tenantID string, req dto.UpdateTenantRequest, requestingUserID string) (*domain.Tenant, error)

	// AddMember adds a user to the tenant with the given role. Requires ADMIN.
	AddMember(ctx context.Context, tenantID string, req dto.AddMemberRequest, requestingUserID string) (*domain.UserTenant, error)
}

// TenantAuthorizerSvc centralizes tenant-scoped permission checks.
type TenantAuthorizerSvc interface {
	// AuthorizeUserAction verifies the user holds at least requiredRole in the
	// tenant. Non-members get ErrNotFound (membership is not disclosed),
	// members with an insufficient role get ErrForbidden. Admins are always
	// authorized.
	AuthorizeUserAction(ctx context.Context, userID string, tenantID string, requiredRole domain.UserTenantRole) (*domain.UserTenant, error)
}

// TenantSvcFacade combines all tenant-related service interfaces.
type TenantSvcFacade interface {
	TenantReaderSvc
	TenantWriterSvc
	TenantAuthorizerSvc
}
