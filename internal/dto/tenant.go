package dto

import (
	"time"

	"github.com/fakturly/fakturly_backend/internal/core/domain"
)

// --- Tenant DTOs ---

// CreateTenantRequest defines data for creating a new tenant.
type CreateTenantRequest struct {
	Name        string `json:"name" binding:"required"`
	CountryCode string `json:"countryCode" binding:"required,iso3166_1_alpha2"`
}

// UpdateTenantRequest defines data for updating a tenant. Nil fields are left unchanged.
type UpdateTenantRequest struct {
	Name        *string `json:"name,omitempty"`
	CountryCode *string `json:"countryCode,omitempty" binding:"omitempty,iso3166_1_alpha2"`
}

// TenantResponse defines data returned for a tenant.
type TenantResponse struct {
	TenantID    string    `json:"tenantID"`
	Name        string    `json:"name"`
	CountryCode string    `json:"countryCode"`
	CreatedAt   time.Time `json:"createdAt"`
	CreatedBy   string    `json:"createdBy"` // UserID
}

// ToTenantResponse converts domain.Tenant to DTO.
func ToTenantResponse(t *domain.Tenant) TenantResponse {
	return TenantResponse{
		TenantID:    t.TenantID,
		Name:        t.Name,
		CountryCode: t.CountryCode,
		CreatedAt:   t.CreatedAt,
		CreatedBy:   t.CreatedBy,
	}
}

// ListTenantsResponse wraps a list of tenants.
type ListTenantsResponse struct {
	Tenants []TenantResponse `json:"tenants"`
}

// ToListTenantsResponse converts a slice of domain.Tenant to DTO.
func ToListTenantsResponse(ts []domain.Tenant) ListTenantsResponse {
	list := make([]TenantResponse, len(ts))
	for i, t := range ts {
		list[i] = ToTenantResponse(&t)
	}
	return ListTenantsResponse{Tenants: list}
}

// --- Membership DTOs ---

// AddMemberRequest defines data for adding a user to a tenant.
type AddMemberRequest struct {
	UserID string                `json:"userID" binding:"required"`
	Role   domain.UserTenantRole `json:"role" binding:"required,oneof=ADMIN MEMBER READONLY"`
}

// MemberResponse defines data returned about a user's membership.
type MemberResponse struct {
	UserID   string                `json:"userID"`
	TenantID string                `json:"tenantID"`
	Role     domain.UserTenantRole `json:"role"`
	JoinedAt time.Time             `json:"joinedAt"`
}

// ToMemberResponse converts domain.UserTenant to DTO.
func ToMemberResponse(m *domain.UserTenant) MemberResponse {
	return MemberResponse{
		UserID:   m.UserID,
		TenantID: m.TenantID,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
	}
}
