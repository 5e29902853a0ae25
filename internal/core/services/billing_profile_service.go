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
)

// billingProfileService implements the BillingProfileSvcFacade interface.
type billingProfileService struct {
	BaseService
	profileRepo portsrepo.BillingProfileRepository
}

// NewBillingProfileService creates a new billing profile service.
func NewBillingProfileService(profileRepo portsrepo.BillingProfileRepository) portssvc.BillingProfileSvcFacade {
	return &billingProfileService{profileRepo: profileRepo}
}

var _ portssvc.BillingProfileSvcFacade = (*billingProfileService)(nil)

// GetBillingProfile returns the tenant's profile. When the tenant has never
// saved one, an unconfigured default is returned without persisting anything;
// the first write creates the row.
func (s *billingProfileService) GetBillingProfile(ctx context.Context, tenantID string) (*domain.BillingProfile, error) {
	profile, err := s.profileRepo.GetBillingProfile(ctx, tenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.BillingProfile{TenantID: tenantID}, nil
		}
		s.LogError(ctx, err, "Failed to get billing profile", slog.String("tenant_id", tenantID))
		return nil, err
	}
	return profile, nil
}

// validateNumberingTriple rejects partially filled prefix/start/suffix
// triples. A kind is either fully configured or untouched.
func validateNumberingTriple(kind domain.DocumentKind, cfg domain.NumberingConfig) error {
	if cfg.IsEmpty() || cfg.IsSet() {
		if cfg.IsSet() && *cfg.Start < 1 {
			return fmt.Errorf("numbering start for %s must be >= 1: %w", kind, apperrors.ErrValidation)
		}
		return nil
	}
	return fmt.Errorf("numbering for %s must set prefix, start and suffix together: %w", kind, apperrors.ErrValidation)
}

// UpdateBillingProfile validates and replaces the tenant's profile.
func (s *billingProfileService) UpdateBillingProfile(ctx context.Context, tenantID string, req dto.UpdateBillingProfileRequest, requestingUserID string) (*domain.BillingProfile, error) {
	profile := domain.BillingProfile{
		TenantID:           tenantID,
		InvoiceNumbering:   req.InvoiceNumbering.ToNumberingConfig(),
		QuoteNumbering:     req.QuoteNumbering.ToNumberingConfig(),
		OrderConfNumbering: req.OrderConfNumbering.ToNumberingConfig(),
		AccountHolder:      req.AccountHolder,
		IBAN:               req.IBAN,
		BIC:                req.BIC,
		BillingPhone:       req.BillingPhone,
		BillingEmail:       req.BillingEmail,
		Template:           req.Template,
	}

	for _, kind := range domain.DocumentKinds {
		if err := validateNumberingTriple(kind, profile.NumberingFor(kind)); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	existing, err := s.profileRepo.GetBillingProfile(ctx, tenantID)
	switch {
	case err == nil:
		profile.CreatedAt = existing.CreatedAt
		profile.CreatedBy = existing.CreatedBy
	case errors.Is(err, apperrors.ErrNotFound):
		profile.CreatedAt = now
		profile.CreatedBy = requestingUserID
	default:
		s.LogError(ctx, err, "Failed to load billing profile for update", slog.String("tenant_id", tenantID))
		return nil, err
	}
	profile.LastUpdatedAt = now
	profile.LastUpdatedBy = requestingUserID

	if err := s.profileRepo.SaveBillingProfile(ctx, profile); err != nil {
		s.LogError(ctx, err, "Failed to save billing profile", slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.LogInfo(ctx, "Billing profile saved",
		slog.String("tenant_id", tenantID),
		slog.String("completion", string(profile.Completion().Status)))
	return &profile, nil
}
