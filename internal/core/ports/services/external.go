package services

import (
	"context"
	"time"

	"github.com/fakturly/fakturly_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PDFRenderer renders a document into its final PDF bytes.
type PDFRenderer interface {
	// RenderDocument renders the document using the profile's template and
	// payment details. The returned bytes are a validated PDF.
	RenderDocument(ctx context.Context, doc *domain.Document, profile *domain.BillingProfile, tenant *domain.Tenant) ([]byte, error)
}

// EInvoiceSerializer produces the structured e-invoice representation of an
// issued document.
type EInvoiceSerializer interface {
	// Serialize emits the e-invoice XML. The totals in the output reconcile
	// exactly with doc.Totals.
	Serialize(doc *domain.Document, profile *domain.BillingProfile, tenant *domain.Tenant) ([]byte, error)
}

// DocumentArchive stores rendered artifacts in object storage.
type DocumentArchive interface {
	// StorePDF stores the PDF under the tenant's prefix and returns the object path.
	StorePDF(ctx context.Context, tenantID string, objectName string, data []byte) (string, error)
	// StoreXML stores the e-invoice XML and returns the object path.
	StoreXML(ctx context.Context, tenantID string, objectName string, data []byte) (string, error)
}

// ZeroMarginNotification carries the payload of a zero-margin alert.
type ZeroMarginNotification struct {
	TenantID      string          `json:"tenantID"`
	ProjectID     string          `json:"projectID"`
	ProjectName   string          `json:"projectName"`
	Email         string          `json:"email"`
	MarginPercent decimal.Decimal `json:"marginPercent"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

// MarginNotifier delivers zero-margin alerts. Delivery failures must not fail
// the finance computation that triggered them.
type MarginNotifier interface {
	NotifyZeroMargin(ctx context.Context, notification ZeroMarginNotification) error
}
