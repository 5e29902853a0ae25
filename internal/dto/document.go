package dto

import (
	"time"

	"github.com/fakturly/fakturly_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Document DTOs ---

// PositionRequest defines one line of a document write request.
type PositionRequest struct {
	Kind      domain.PositionKind `json:"kind" binding:"required,oneof=ITEM HEADING DESCRIPTION SUBTOTAL SEPARATOR"`
	Text      string              `json:"text"`
	Quantity  decimal.Decimal     `json:"quantity"`
	Unit      string              `json:"unit"`
	UnitPrice decimal.Decimal     `json:"unitPrice"`
}

// DiscountRequest defines the optional document-level discount.
type DiscountRequest struct {
	Enabled bool                `json:"enabled"`
	Label   string              `json:"label"`
	Type    domain.DiscountType `json:"type" binding:"omitempty,oneof=PERCENT AMOUNT"`
	Base    domain.DiscountBase `json:"base" binding:"omitempty,oneof=NET GROSS"`
	Value   decimal.Decimal     `json:"value"`
}

// PreviewTotalsRequest computes totals for an unsaved position list. Pure
// computation, no tenant state is read or written.
type PreviewTotalsRequest struct {
	Positions []PositionRequest `json:"positions" binding:"required"`
	TaxRate   decimal.Decimal   `json:"taxRate"`
	Discount  *DiscountRequest  `json:"discount,omitempty"`
}

// TotalsResponse defines the computed totals block.
type TotalsResponse struct {
	NetSubtotal      decimal.Decimal `json:"netSubtotal"`
	DiscountAmount   decimal.Decimal `json:"discountAmount"`
	NetAfterDiscount decimal.Decimal `json:"netAfterDiscount"`
	TaxAmount        decimal.Decimal `json:"taxAmount"`
	GrossTotal       decimal.Decimal `json:"grossTotal"`
}

// CreateDocumentRequest defines data for creating a draft document.
type CreateDocumentRequest struct {
	Kind        domain.DocumentKind `json:"kind" binding:"required,oneof=INVOICE QUOTE ORDER_CONFIRMATION"`
	Date        time.Time           `json:"date" binding:"required"`
	ValidUntil  *time.Time          `json:"validUntil,omitempty"`
	Title       string              `json:"title"`
	Intro       string              `json:"intro"`
	CustomerRef string              `json:"customerRef"`
	Positions   []PositionRequest   `json:"positions"`
	TaxRate     decimal.Decimal     `json:"taxRate"`
	Discount    *DiscountRequest    `json:"discount,omitempty"`
}

// UpdateDocumentRequest defines data for updating a document. The full
// editable state is replaced; number and status are never writable.
type UpdateDocumentRequest struct {
	Date        time.Time         `json:"date" binding:"required"`
	ValidUntil  *time.Time        `json:"validUntil,omitempty"`
	Title       string            `json:"title"`
	Intro       string            `json:"intro"`
	CustomerRef string            `json:"customerRef"`
	Positions   []PositionRequest `json:"positions"`
	TaxRate     decimal.Decimal   `json:"taxRate"`
	Discount    *DiscountRequest  `json:"discount,omitempty"`
}

// PositionResponse defines one line of a document response.
type PositionResponse struct {
	PositionID string              `json:"positionID"`
	Kind       domain.PositionKind `json:"kind"`
	Text       string              `json:"text"`
	Quantity   decimal.Decimal     `json:"quantity"`
	Unit       string              `json:"unit"`
	UnitPrice  decimal.Decimal     `json:"unitPrice"`
	SortOrder  int                 `json:"sortOrder"`
}

// DocumentResponse defines data returned for a document.
type DocumentResponse struct {
	DocumentID  string                `json:"documentID"`
	TenantID    string                `json:"tenantID"`
	Kind        domain.DocumentKind   `json:"kind"`
	Status      domain.DocumentStatus `json:"status"`
	Number      string                `json:"number,omitempty"`
	Date        time.Time             `json:"date"`
	ValidUntil  *time.Time            `json:"validUntil,omitempty"`
	Title       string                `json:"title"`
	Intro       string                `json:"intro"`
	CustomerRef string                `json:"customerRef"`
	Positions   []PositionResponse    `json:"positions"`
	TaxRate     decimal.Decimal       `json:"taxRate"`
	Discount    DiscountRequest       `json:"discount"`
	Totals      TotalsResponse        `json:"totals"`
	PDFPath     string                `json:"pdfPath,omitempty"`
	XMLPath     string                `json:"xmlPath,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// ToTotalsResponse converts domain.DocumentTotals to DTO.
func ToTotalsResponse(t domain.DocumentTotals) TotalsResponse {
	return TotalsResponse{
		NetSubtotal:      t.NetSubtotal,
		DiscountAmount:   t.DiscountAmount,
		NetAfterDiscount: t.NetAfterDiscount,
		TaxAmount:        t.TaxAmount,
		GrossTotal:       t.GrossTotal,
	}
}

// ToDocumentResponse converts domain.Document to DTO.
func ToDocumentResponse(d *domain.Document) DocumentResponse {
	positions := make([]PositionResponse, len(d.Positions))
	for i, p := range d.Positions {
		positions[i] = PositionResponse{
			PositionID: p.PositionID,
			Kind:       p.Kind,
			Text:       p.Text,
			Quantity:   p.Quantity,
			Unit:       p.Unit,
			UnitPrice:  p.UnitPrice,
			SortOrder:  p.SortOrder,
		}
	}
	return DocumentResponse{
		DocumentID:  d.DocumentID,
		TenantID:    d.TenantID,
		Kind:        d.Kind,
		Status:      d.Status,
		Number:      d.Number,
		Date:        d.Date,
		ValidUntil:  d.ValidUntil,
		Title:       d.Title,
		Intro:       d.Intro,
		CustomerRef: d.CustomerRef,
		Positions:   positions,
		TaxRate:     d.TaxRate,
		Discount: DiscountRequest{
			Enabled: d.Discount.Enabled,
			Label:   d.Discount.Label,
			Type:    d.Discount.Type,
			Base:    d.Discount.Base,
			Value:   d.Discount.Value,
		},
		Totals:    ToTotalsResponse(d.Totals),
		PDFPath:   d.PDFObjectPath,
		XMLPath:   d.XMLObjectPath,
		CreatedAt: d.CreatedAt,
	}
}

// ListDocumentsResponse wraps a page of documents with the cursor for the
// next page. NextToken is empty on the last page.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
	NextToken string             `json:"nextToken,omitempty"`
}

// ToListDocumentsResponse converts a page of domain.Document to DTO.
func ToListDocumentsResponse(docs []domain.Document, nextToken string) ListDocumentsResponse {
	list := make([]DocumentResponse, len(docs))
	for i, d := range docs {
		list[i] = ToDocumentResponse(&d)
	}
	return ListDocumentsResponse{Documents: list, NextToken: nextToken}
}

// ToPositions converts request positions to domain form, assigning sort order
// from the request ordering.
func ToPositions(reqs []PositionRequest) []domain.Position {
	positions := make([]domain.Position, len(reqs))
	for i, r := range reqs {
		positions[i] = domain.Position{
			Kind:      r.Kind,
			Text:      r.Text,
			Quantity:  r.Quantity,
			Unit:      r.Unit,
			UnitPrice: r.UnitPrice,
			SortOrder: i,
		}
	}
	return positions
}

// ToDiscount converts an optional discount request to domain form. A nil
// request means no discount.
func ToDiscount(req *DiscountRequest) domain.Discount {
	if req == nil {
		return domain.Discount{}
	}
	return domain.Discount{
		Enabled: req.Enabled,
		Label:   req.Label,
		Type:    req.Type,
		Base:    req.Base,
		Value:   req.Value,
	}
}
