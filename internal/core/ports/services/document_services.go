package services

import (
	"context"

	"github.com/fakturly/fakturly_backend/internal/core/domain"
	"github.com/fakturly/fakturly_backend/internal/dto"
)

// DocumentReaderSvc defines read operations for documents.
type DocumentReaderSvc interface {
	// GetDocument retrieves a document with freshly recomputed totals.
	GetDocument(ctx context.Context, tenantID string, documentID string) (*domain.Document, error)

	// ListDocuments returns one page ordered by (date DESC, createdAt DESC)
	// plus the token for the next page, or nil on the last page.
	ListDocuments(ctx context.Context, tenantID string, kind *domain.DocumentKind, status *domain.DocumentStatus, limit int, nextToken *string) ([]domain.Document, *string, error)

	// PreviewTotals computes the totals block for an unsaved position list.
	// Stateless; safe to call at any typing frequency.
	PreviewTotals(ctx context.Context, req dto.PreviewTotalsRequest) (*domain.DocumentTotals, error)
}

// DocumentWriterSvc defines write operations on drafts and issued documents.
type DocumentWriterSvc interface {
	// CreateDraft creates an unnumbered draft document.
	CreateDraft(ctx context.Context, tenantID string, req dto.CreateDocumentRequest, creatorUserID string) (*domain.Document, error)

	// UpdateDraft replaces the editable state of a draft.
	UpdateDraft(ctx context.Context, tenantID string, documentID string, req dto.UpdateDocumentRequest, requestingUserID string) (*domain.Document, error)

	// UpdateIssuedDocument edits an issued document. Totals are recomputed and
	// the archive is re-rendered; the allocated number never changes.
	UpdateIssuedDocument(ctx context.Context, tenantID string, documentID string, req dto.UpdateDocumentRequest, requestingUserID string) (*domain.Document, error)

	// DeleteDraft removes a draft. Issued documents cannot be deleted.
	DeleteDraft(ctx context.Context, tenantID string, documentID string, requestingUserID string) error
}

// DocumentIssuerSvc turns drafts into numbered, archived documents.
type DocumentIssuerSvc interface {
	// IssueDocument allocates a number for the draft, persists the final
	// totals, renders the PDF and e-invoice XML and archives both. On a
	// number collision the allocation is retried exactly once.
	IssueDocument(ctx context.Context, tenantID string, documentID string, requestingUserID string) (*domain.Document, error)
}

// DocumentSvcFacade combines all document-related service interfaces.
type DocumentSvcFacade interface {
	DocumentReaderSvc
	DocumentWriterSvc
	DocumentIssuerSvc
}
