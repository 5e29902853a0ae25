package services

import (
	"context"

	"github.com/fakturly/fakturly_backend/internal/core/domain"
	"github.com/fakturly/fakturly_backend/internal/dto"
)

// BillingProfileSvcFacade defines operations on the per-tenant billing
// configuration.
type BillingProfileSvcFacade interface {
	// GetBillingProfile returns the tenant's profile, or an unconfigured
	// default when none was ever saved. The read never persists anything.
	GetBillingProfile(ctx context.Context, tenantID string) (*domain.BillingProfile, error)

	// UpdateBillingProfile validates and replaces the tenant's profile.
	// Each numbering triple must be fully set or fully empty.
	UpdateBillingProfile(ctx context.Context, tenantID string, req dto.UpdateBillingProfileRequest, requestingUserID string) (*domain.BillingProfile, error)
}
