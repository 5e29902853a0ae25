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
	"github.com/google/uuid"
)

// roleRank orders roles for authorization checks. Higher rank implies every
// lower-ranked capability.
var roleRank = map[domain.UserTenantRole]int{
	domain.RoleReadOnly: 1,
	domain.RoleMember:   2,
	domain.RoleAdmin:    3,
}

// tenantService implements the TenantSvcFacade interface.
type tenantService struct {
	BaseService
	tenantRepo portsrepo.TenantRepository
	userRepo   portsrepo.UserRepository
}

// NewTenantService creates a new tenant service.
func NewTenantService(tenantRepo portsrepo.TenantRepository, userRepo portsrepo.UserRepository) portssvc.TenantSvcFacade {
	return &tenantService{tenantRepo: tenantRepo, userRepo: userRepo}
}

var _ portssvc.TenantSvcFacade = (*tenantService)(nil)

// AuthorizeUserAction verifies the user holds at least requiredRole in the
// tenant. Non-members get ErrNotFound so tenant existence is not disclosed;
// members with an insufficient role get ErrForbidden.
func (s *tenantService) AuthorizeUserAction(ctx context.Context, userID string, tenantID string, requiredRole domain.UserTenantRole) (*domain.UserTenant, error) {
	membership, err := s.tenantRepo.GetUserTenantRole(ctx, userID, tenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("tenant %s not found", tenantID))
		}
		s.LogError(ctx, err, "Failed to fetch tenant membership",
			slog.String("user_id", userID), slog.String("tenant_id", tenantID))
		return nil, err
	}

	if membership.Role == domain.RoleAdmin {
		return membership, nil
	}
	if roleRank[membership.Role] < roleRank[requiredRole] {
		return nil, apperrors.ErrForbidden
	}
	return membership, nil
}

func (s *tenantService) GetTenantByID(ctx context.Context, tenantID string, requestingUserID string) (*domain.Tenant, error) {
	if _, err := s.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	tenant, err := s.tenantRepo.GetTenantByID(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get tenant", slog.String("tenant_id", tenantID))
		}
		return nil, err
	}
	return tenant, nil
}

func (s *tenantService) ListTenantsForUser(ctx context.Context, userID string) ([]domain.Tenant, error) {
	tenants, err := s.tenantRepo.ListTenantsForUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tenants for user", slog.String("user_id", userID))
		return nil, err
	}
	if tenants == nil {
		return []domain.Tenant{}, nil
	}
	return tenants, nil
}

func (s *tenantService) ListMembers(ctx context.Context, tenantID string, requestingUserID string) ([]domain.UserTenant, error) {
	if _, err := s.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	members, err := s.tenantRepo.ListTenantMembers(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tenant members", slog.String("tenant_id", tenantID))
		return nil, err
	}
	return members, nil
}

// CreateTenant creates a tenant with the creator as ADMIN.
func (s *tenantService) CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorUserID string) (*domain.Tenant, error) {
	now := time.Now()
	tenant := domain.Tenant{
		TenantID:    uuid.NewString(),
		Name:        req.Name,
		CountryCode: req.CountryCode,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.tenantRepo.CreateTenant(ctx, tenant, creatorUserID); err != nil {
		s.LogError(ctx, err, "Failed to create tenant", slog.String("tenant_id", tenant.TenantID))
		return nil, err
	}

	s.LogInfo(ctx, "Tenant created",
		slog.String("tenant_id", tenant.TenantID), slog.String("creator_id", creatorUserID))
	return &tenant, nil
}

func (s *tenantService) UpdateTenant(ctx context.Context, tenantID string, req dto.UpdateTenantRequest, requestingUserID string) (*domain.Tenant, error) {
	if _, err := s.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	tenant, err := s.tenantRepo.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		tenant.Name = *req.Name
	}
	if req.CountryCode != nil {
		tenant.CountryCode = *req.CountryCode
	}
	tenant.LastUpdatedAt = time.Now()
	tenant.LastUpdatedBy = requestingUserID

	if err := s.tenantRepo.UpdateTenant(ctx, *tenant); err != nil {
		s.LogError(ctx, err, "Failed to update tenant", slog.String("tenant_id", tenantID))
		return nil, err
	}
	return tenant, nil
}

// AddMember adds a user to the tenant with the given role. Requires ADMIN.
func (s *tenantService) AddMember(ctx context.Context, tenantID string, req dto.AddMemberRequest, requestingUserID string) (*domain.UserTenant, error) {
	if _, err := s.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetUserByID(ctx, req.UserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("user %s: %w", req.UserID, apperrors.ErrNotFound)
		}
		return nil, err
	}

	if _, err := s.tenantRepo.GetUserTenantRole(ctx, req.UserID, tenantID); err == nil {
		return nil, fmt.Errorf("user already a member: %w", apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	membership := domain.UserTenant{
		UserID:   req.UserID,
		TenantID: tenantID,
		Role:     req.Role,
		JoinedAt: time.Now(),
	}
	if err := s.tenantRepo.AddUserToTenant(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add tenant member",
			slog.String("tenant_id", tenantID), slog.String("user_id", req.UserID))
		return nil, err
	}

	s.LogInfo(ctx, "Tenant member added",
		slog.String("tenant_id", tenantID),
		slog.String("user_id", req.UserID),
		slog.String("role", string(req.Role)))
	return &membership, nil
}
