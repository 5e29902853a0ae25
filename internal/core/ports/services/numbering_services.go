package services

import (
	"context"

	"github.com/fakturly/fakturly_backend/internal/core/domain"
)

// NumberingSvcFacade allocates document numbers from the per-tenant, per-kind
// gapless sequences.
type NumberingSvcFacade interface {
	// AllocateNumber atomically draws the next sequence value for the kind and
	// returns the formatted number. Fails with ErrConfigurationIncomplete when
	// the tenant has not finished billing setup for the kind.
	AllocateNumber(ctx context.Context, tenantID string, kind domain.DocumentKind) (number string, sequence int64, err error)

	// PreviewNextNumber formats the number the next allocation would produce
	// without consuming a sequence value. Concurrent issuing can invalidate
	// the preview; it is display-only.
	PreviewNextNumber(ctx context.Context, tenantID string, kind domain.DocumentKind) (string, error)
}
