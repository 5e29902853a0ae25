package repositories

import (
	"context"

	"github.com/fakturly/fakturly_backend/internal/core/domain"
)

// BillingProfileRepository defines persistence operations for billing profiles.
// At most one profile exists per tenant.
type BillingProfileRepository interface {
	// GetBillingProfile returns ErrNotFound when the tenant has never saved a
	// profile. Callers that need read-time defaults build them without
	// persisting anything.
	GetBillingProfile(ctx context.Context, tenantID string) (*domain.BillingProfile, error)
	// SaveBillingProfile inserts or fully replaces the tenant's profile.
	SaveBillingProfile(ctx context.Context, profile domain.BillingProfile) error
}
