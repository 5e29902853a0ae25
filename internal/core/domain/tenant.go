package domain

import "time"

// UserTenantRole defines the role of a user within a tenant.
type UserTenantRole string

const (
	RoleAdmin    UserTenantRole = "ADMIN"
	RoleMember   UserTenantRole = "MEMBER"
	RoleReadOnly UserTenantRole = "READONLY"
)

// Tenant represents one customer organization. All billing, numbering and
// project state is scoped to a tenant; tenant identity is always passed
// explicitly through service calls, never read from ambient state.
type Tenant struct {
	TenantID string `json:"tenantID"`
	Name     string `json:"name"`
	// CountryCode is used by the e-invoice serializer for party data.
	CountryCode string `json:"countryCode"`
	AuditFields
}

// UserTenant represents the membership of a user in a tenant.
type UserTenant struct {
	UserID   string         `json:"userID"`
	TenantID string         `json:"tenantID"`
	Role     UserTenantRole `json:"role"`
	JoinedAt time.Time      `json:"joinedAt"`
}
