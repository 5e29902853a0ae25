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
	"github.com/fakturly/fakturly_backend/internal/utils/billing"
	"github.com/fakturly/fakturly_backend/internal/utils/pagination"
	"github.com/google/uuid"
)

const defaultListLimit = 50

// documentService implements the DocumentSvcFacade interface.
type documentService struct {
	BaseService
	documentRepo portsrepo.DocumentRepository
	profileRepo  portsrepo.BillingProfileRepository
	tenantRepo   portsrepo.TenantRepository
	numbering    portssvc.NumberingSvcFacade
	renderer     portssvc.PDFRenderer
	serializer   portssvc.EInvoiceSerializer
	archive      portssvc.DocumentArchive
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	documentRepo portsrepo.DocumentRepository,
	profileRepo portsrepo.BillingProfileRepository,
	tenantRepo portsrepo.TenantRepository,
	numbering portssvc.NumberingSvcFacade,
	renderer portssvc.PDFRenderer,
	serializer portssvc.EInvoiceSerializer,
	archive portssvc.DocumentArchive,
) portssvc.DocumentSvcFacade {
	return &documentService{
		documentRepo: documentRepo,
		profileRepo:  profileRepo,
		tenantRepo:   tenantRepo,
		numbering:    numbering,
		renderer:     renderer,
		serializer:   serializer,
		archive:      archive,
	}
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// PreviewTotals computes the totals block for an unsaved position list.
// No tenant state is read or written; concurrent previews are independent.
func (s *documentService) PreviewTotals(ctx context.Context, req dto.PreviewTotalsRequest) (*domain.DocumentTotals, error) {
	totals, err := billing.CalculateTotals(dto.ToPositions(req.Positions), req.TaxRate, dto.ToDiscount(req.Discount))
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (s *documentService) GetDocument(ctx context.Context, tenantID string, documentID string) (*domain.Document, error) {
	doc, err := s.documentRepo.GetDocumentByID(ctx, tenantID, documentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get document", slog.String("document_id", documentID))
		}
		return nil, err
	}

	// Draft totals are a projection of the current positions. Issued totals
	// were frozen at issue time and are returned as persisted.
	if doc.Status == domain.StatusDraft {
		totals, err := billing.CalculateTotals(doc.Positions, doc.TaxRate, doc.Discount)
		if err != nil {
			return nil, err
		}
		doc.Totals = totals
	}
	return doc, nil
}

func (s *documentService) ListDocuments(ctx context.Context, tenantID string, kind *domain.DocumentKind, status *domain.DocumentStatus, limit int, nextToken *string) ([]domain.Document, *string, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	filter := portsrepo.ListDocumentsFilter{
		Kind:   kind,
		Status: status,
		Limit:  limit + 1, // one extra row to detect the next page
	}
	if nextToken != nil && *nextToken != "" {
		date, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		filter.BeforeDate = &date
		filter.BeforeCreatedAt = &createdAt
	}

	docs, err := s.documentRepo.ListDocuments(ctx, tenantID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list documents", slog.String("tenant_id", tenantID))
		return nil, nil, err
	}

	var token *string
	if len(docs) > limit {
		docs = docs[:limit]
		last := docs[len(docs)-1]
		t := pagination.EncodeToken(last.Date, last.CreatedAt)
		token = &t
	}
	return docs, token, nil
}

// CreateDraft creates an unnumbered draft document. Totals are validated and
// computed immediately so invalid discounts are rejected at write time.
func (s *documentService) CreateDraft(ctx context.Context, tenantID string, req dto.CreateDocumentRequest, creatorUserID string) (*domain.Document, error) {
	positions := withPositionIDs(dto.ToPositions(req.Positions))
	discount := dto.ToDiscount(req.Discount)

	totals, err := billing.CalculateTotals(positions, req.TaxRate, discount)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	doc := domain.Document{
		DocumentID:  uuid.NewString(),
		TenantID:    tenantID,
		Kind:        req.Kind,
		Status:      domain.StatusDraft,
		Date:        req.Date,
		ValidUntil:  req.ValidUntil,
		Title:       req.Title,
		Intro:       req.Intro,
		CustomerRef: req.CustomerRef,
		Positions:   positions,
		TaxRate:     req.TaxRate,
		Discount:    discount,
		Totals:      totals,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.documentRepo.CreateDocument(ctx, doc); err != nil {
		s.LogError(ctx, err, "Failed to create draft", slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.LogInfo(ctx, "Draft created",
		slog.String("document_id", doc.DocumentID),
		slog.String("kind", string(doc.Kind)))
	return &doc, nil
}

// UpdateDraft replaces the editable state of a draft.
func (s *documentService) UpdateDraft(ctx context.Context, tenantID string, documentID string, req dto.UpdateDocumentRequest, requestingUserID string) (*domain.Document, error) {
	doc, err := s.documentRepo.GetDocumentByID(ctx, tenantID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != domain.StatusDraft {
		return nil, fmt.Errorf("document %s is not a draft: %w", documentID, apperrors.ErrConflict)
	}

	if err := applyDocumentUpdate(doc, req, requestingUserID); err != nil {
		return nil, err
	}
	if err := s.documentRepo.UpdateDocument(ctx, *doc); err != nil {
		s.LogError(ctx, err, "Failed to update draft", slog.String("document_id", documentID))
		return nil, err
	}
	return doc, nil
}

// UpdateIssuedDocument edits an issued document. The allocated number is
// never touched; totals are recomputed and the archived artifacts are
// re-rendered from the new state.
func (s *documentService) UpdateIssuedDocument(ctx context.Context, tenantID string, documentID string, req dto.UpdateDocumentRequest, requestingUserID string) (*domain.Document, error) {
	doc, err := s.documentRepo.GetDocumentByID(ctx, tenantID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != domain.StatusIssued {
		return nil, fmt.Errorf("document %s is not issued: %w", documentID, apperrors.ErrConflict)
	}

	if err := applyDocumentUpdate(doc, req, requestingUserID); err != nil {
		return nil, err
	}
	if err := s.documentRepo.UpdateDocument(ctx, *doc); err != nil {
		s.LogError(ctx, err, "Failed to update issued document", slog.String("document_id", documentID))
		return nil, err
	}

	if err := s.renderAndArchive(ctx, doc); err != nil {
		s.LogError(ctx, err, "Failed to re-render issued document",
			slog.String("document_id", documentID), slog.String("number", doc.Number))
		return nil, err
	}
	if err := s.documentRepo.UpdateDocument(ctx, *doc); err != nil {
		s.LogError(ctx, err, "Failed to store archive paths", slog.String("document_id", documentID))
		return nil, err
	}

	s.LogInfo(ctx, "Issued document updated",
		slog.String("document_id", documentID), slog.String("number", doc.Number))
	return doc, nil
}

// DeleteDraft removes a draft. Issued documents are immutable history and
// cannot be deleted.
func (s *documentService) DeleteDraft(ctx context.Context, tenantID string, documentID string, requestingUserID string) error {
	doc, err := s.documentRepo.GetDocumentByID(ctx, tenantID, documentID)
	if err != nil {
		return err
	}
	if doc.Status != domain.StatusDraft {
		return fmt.Errorf("issued documents cannot be deleted: %w", apperrors.ErrConflict)
	}
	if err := s.documentRepo.DeleteDocument(ctx, tenantID, documentID); err != nil {
		s.LogError(ctx, err, "Failed to delete draft", slog.String("document_id", documentID))
		return err
	}
	s.LogInfo(ctx, "Draft deleted", slog.String("document_id", documentID))
	return nil
}

// IssueDocument turns a draft into a numbered document: totals are frozen, a
// number is allocated from the tenant's sequence and the PDF plus e-invoice
// XML are rendered and archived. On a number collision with a pre-existing
// manually assigned number, allocation is retried exactly once.
func (s *documentService) IssueDocument(ctx context.Context, tenantID string, documentID string, requestingUserID string) (*domain.Document, error) {
	doc, err := s.documentRepo.GetDocumentByID(ctx, tenantID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != domain.StatusDraft {
		return nil, fmt.Errorf("document %s is already issued: %w", documentID, apperrors.ErrConflict)
	}

	totals, err := billing.CalculateTotals(doc.Positions, doc.TaxRate, doc.Discount)
	if err != nil {
		return nil, err
	}
	doc.Totals = totals
	doc.Status = domain.StatusIssued
	doc.LastUpdatedAt = time.Now()
	doc.LastUpdatedBy = requestingUserID

	if err := s.allocateAndSave(ctx, doc); err != nil {
		return nil, err
	}

	// The number is committed at this point. Rendering failures leave an
	// issued document without artifacts; a subsequent edit re-renders it.
	if err := s.renderAndArchive(ctx, doc); err != nil {
		s.LogError(ctx, err, "Failed to render issued document",
			slog.String("document_id", documentID), slog.String("number", doc.Number))
		return nil, err
	}
	if err := s.documentRepo.UpdateDocument(ctx, *doc); err != nil {
		s.LogError(ctx, err, "Failed to store archive paths", slog.String("document_id", documentID))
		return nil, err
	}

	s.LogInfo(ctx, "Document issued",
		slog.String("document_id", doc.DocumentID),
		slog.String("number", doc.Number),
		slog.Int64("sequence", doc.Sequence))
	return doc, nil
}

// allocateAndSave draws a number and persists the issued state, retrying the
// allocation exactly once when the formatted number collides with an existing
// one inside (tenant, kind).
func (s *documentService) allocateAndSave(ctx context.Context, doc *domain.Document) error {
	for attempt := 0; attempt < 2; attempt++ {
		number, sequence, err := s.numbering.AllocateNumber(ctx, doc.TenantID, doc.Kind)
		if err != nil {
			return err
		}
		doc.Number = number
		doc.Sequence = sequence

		err = s.documentRepo.SaveIssuedDocument(ctx, *doc)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperrors.ErrSequenceCollision) {
			s.LogError(ctx, err, "Failed to persist issued document", slog.String("document_id", doc.DocumentID))
			return err
		}
		s.LogWarn(ctx, "Document number collision, retrying allocation",
			slog.String("tenant_id", doc.TenantID),
			slog.String("number", number))
	}
	return fmt.Errorf("number allocation collided twice for tenant %s: %w", doc.TenantID, apperrors.ErrSequenceCollision)
}

// renderAndArchive produces the PDF and e-invoice XML for an issued document
// and stores both, updating the object paths on doc.
func (s *documentService) renderAndArchive(ctx context.Context, doc *domain.Document) error {
	profile, err := s.profileRepo.GetBillingProfile(ctx, doc.TenantID)
	if err != nil {
		return fmt.Errorf("failed to load billing profile for rendering: %w", err)
	}
	tenant, err := s.tenantRepo.GetTenantByID(ctx, doc.TenantID)
	if err != nil {
		return fmt.Errorf("failed to load tenant for rendering: %w", err)
	}

	pdfBytes, err := s.renderer.RenderDocument(ctx, doc, profile, tenant)
	if err != nil {
		return fmt.Errorf("pdf rendering failed: %w", err)
	}
	pdfPath, err := s.archive.StorePDF(ctx, doc.TenantID, doc.DocumentID+".pdf", pdfBytes)
	if err != nil {
		return fmt.Errorf("pdf archiving failed: %w", err)
	}
	doc.PDFObjectPath = pdfPath

	// E-invoice XML is only produced for invoices.
	if doc.Kind == domain.KindInvoice {
		xmlBytes, err := s.serializer.Serialize(doc, profile, tenant)
		if err != nil {
			return fmt.Errorf("e-invoice serialization failed: %w", err)
		}
		xmlPath, err := s.archive.StoreXML(ctx, doc.TenantID, doc.DocumentID+".xml", xmlBytes)
		if err != nil {
			return fmt.Errorf("e-invoice archiving failed: %w", err)
		}
		doc.XMLObjectPath = xmlPath
	}
	return nil
}

// applyDocumentUpdate replaces the editable fields and recomputes totals.
// Number, sequence and status are deliberately untouched.
func applyDocumentUpdate(doc *domain.Document, req dto.UpdateDocumentRequest, requestingUserID string) error {
	positions := withPositionIDs(dto.ToPositions(req.Positions))
	discount := dto.ToDiscount(req.Discount)

	totals, err := billing.CalculateTotals(positions, req.TaxRate, discount)
	if err != nil {
		return err
	}

	doc.Date = req.Date
	doc.ValidUntil = req.ValidUntil
	doc.Title = req.Title
	doc.Intro = req.Intro
	doc.CustomerRef = req.CustomerRef
	doc.Positions = positions
	doc.TaxRate = req.TaxRate
	doc.Discount = discount
	doc.Totals = totals
	doc.LastUpdatedAt = time.Now()
	doc.LastUpdatedBy = requestingUserID
	return nil
}

func withPositionIDs(positions []domain.Position) []domain.Position {
	for i := range positions {
		if positions[i].PositionID == "" {
			positions[i].PositionID = uuid.NewString()
		}
	}
	return positions
}
