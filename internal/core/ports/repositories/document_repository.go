package repositories

import (
	"context"
	"time"

	"github.com/fakturly/fakturly_backend/internal/core/domain"
)

// ListDocumentsFilter narrows and pages a document listing. Results are
// ordered by (date DESC, created_at DESC); the Before* pair is the cursor
// decoded from the pagination token.
type ListDocumentsFilter struct {
	Kind            *domain.DocumentKind
	Status          *domain.DocumentStatus
	Limit           int
	BeforeDate      *time.Time
	BeforeCreatedAt *time.Time
}

// DocumentRepository defines persistence operations for financial documents
// and their numbering sequences.
type DocumentRepository interface {
	CreateDocument(ctx context.Context, doc domain.Document) error
	GetDocumentByID(ctx context.Context, tenantID string, documentID string) (*domain.Document, error)
	ListDocuments(ctx context.Context, tenantID string, filter ListDocumentsFilter) ([]domain.Document, error)
	UpdateDocument(ctx context.Context, doc domain.Document) error
	DeleteDocument(ctx context.Context, tenantID string, documentID string) error

	// GetCurrentSequence returns the last allocated value for (tenant, kind),
	// or 0 when nothing was ever allocated.
	GetCurrentSequence(ctx context.Context, tenantID string, kind domain.DocumentKind) (int64, error)

	// NextDocumentSequence atomically advances the (tenant, kind) sequence and
	// returns the allocated value: max(start, last+1). Concurrent callers each
	// receive a distinct value.
	NextDocumentSequence(ctx context.Context, tenantID string, kind domain.DocumentKind, start int64) (int64, error)

	// SaveIssuedDocument persists the issued state (number, sequence, status,
	// totals, archive paths) in one statement. Returns ErrSequenceCollision
	// when the formatted number is already taken within (tenant, kind).
	SaveIssuedDocument(ctx context.Context, doc domain.Document) error
}
