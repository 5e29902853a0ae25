package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fakturly/fakturly_backend/internal/apperrors"
	"github.com/fakturly/fakturly_backend/internal/core/domain"
	portsrepo "github.com/fakturly/fakturly_backend/internal/core/ports/repositories"
	portssvc "github.com/fakturly/fakturly_backend/internal/core/ports/services"
)

// numberingService implements NumberingSvcFacade on top of the per-tenant,
// per-kind sequence rows. Allocation is a single atomic statement in the
// repository; two concurrent issuers can never receive the same value.
type numberingService struct {
	BaseService
	profileRepo  portsrepo.BillingProfileRepository
	documentRepo portsrepo.DocumentRepository
}

// NewNumberingService creates a new numbering service.
func NewNumberingService(profileRepo portsrepo.BillingProfileRepository, documentRepo portsrepo.DocumentRepository) portssvc.NumberingSvcFacade {
	return &numberingService{profileRepo: profileRepo, documentRepo: documentRepo}
}

var _ portssvc.NumberingSvcFacade = (*numberingService)(nil)

// FormatNumber renders a sequence value as prefix + zero-padded value +
// suffix. Values are padded to four digits; larger values widen naturally.
func FormatNumber(cfg domain.NumberingConfig, sequence int64) string {
	return fmt.Sprintf("%s%04d%s", *cfg.Prefix, sequence, *cfg.Suffix)
}

// numberingFor loads the tenant's triple for the kind, failing with
// ErrConfigurationIncomplete when setup has not been finished.
func (s *numberingService) numberingFor(ctx context.Context, tenantID string, kind domain.DocumentKind) (domain.NumberingConfig, error) {
	profile, err := s.profileRepo.GetBillingProfile(ctx, tenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NumberingConfig{}, fmt.Errorf("no billing profile for tenant %s: %w", tenantID, apperrors.ErrConfigurationIncomplete)
		}
		return domain.NumberingConfig{}, err
	}
	cfg := profile.NumberingFor(kind)
	if !cfg.IsSet() {
		return domain.NumberingConfig{}, fmt.Errorf("numbering for %s not configured: %w", kind, apperrors.ErrConfigurationIncomplete)
	}
	return cfg, nil
}

// AllocateNumber draws the next sequence value and formats it. Each call
// consumes a value; callers that fail afterwards must not retry blindly.
func (s *numberingService) AllocateNumber(ctx context.Context, tenantID string, kind domain.DocumentKind) (string, int64, error) {
	cfg, err := s.numberingFor(ctx, tenantID, kind)
	if err != nil {
		return "", 0, err
	}

	sequence, err := s.documentRepo.NextDocumentSequence(ctx, tenantID, kind, *cfg.Start)
	if err != nil {
		s.LogError(ctx, err, "Failed to advance document sequence",
			slog.String("tenant_id", tenantID), slog.String("kind", string(kind)))
		return "", 0, err
	}

	number := FormatNumber(cfg, sequence)
	s.LogDebug(ctx, "Document number allocated",
		slog.String("tenant_id", tenantID),
		slog.String("kind", string(kind)),
		slog.String("number", number))
	return number, sequence, nil
}

// PreviewNextNumber formats the value the next allocation would produce
// without consuming it. Display-only; concurrent issuing can invalidate it.
func (s *numberingService) PreviewNextNumber(ctx context.Context, tenantID string, kind domain.DocumentKind) (string, error) {
	cfg, err := s.numberingFor(ctx, tenantID, kind)
	if err != nil {
		return "", err
	}

	last, err := s.documentRepo.GetCurrentSequence(ctx, tenantID, kind)
	if err != nil {
		return "", err
	}

	next := last + 1
	if next < *cfg.Start {
		next = *cfg.Start
	}
	return FormatNumber(cfg, next), nil
}
