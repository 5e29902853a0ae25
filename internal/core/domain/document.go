package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PositionKind tags the variant of a document position. Only ItemPosition
// entries contribute to the monetary totals; the remaining kinds are layout
// elements whose ordering is user-controlled and significant.
type PositionKind string

const (
	ItemPosition        PositionKind = "ITEM"
	HeadingPosition     PositionKind = "HEADING"
	DescriptionPosition PositionKind = "DESCRIPTION"
	SubtotalPosition    PositionKind = "SUBTOTAL"
	SeparatorPosition   PositionKind = "SEPARATOR"
)

// Position is a single line in a financial document.
type Position struct {
	PositionID string       `json:"positionID"`
	Kind       PositionKind `json:"kind"`
	// Text carries the description for ITEM, the label for HEADING and the
	// free text for DESCRIPTION; empty for SUBTOTAL and SEPARATOR.
	Text      string          `json:"text"`
	Quantity  decimal.Decimal `json:"quantity"`  // ITEM only
	Unit      string          `json:"unit"`      // ITEM only
	UnitPrice decimal.Decimal `json:"unitPrice"` // ITEM only; may be negative (credit line)
	SortOrder int             `json:"sortOrder"`
}

// DiscountType selects how the discount value is interpreted.
type DiscountType string

const (
	DiscountPercent DiscountType = "PERCENT"
	DiscountAmount  DiscountType = "AMOUNT"
)

// DiscountBase selects the value the discount is computed against.
type DiscountBase string

const (
	BaseNet   DiscountBase = "NET"
	BaseGross DiscountBase = "GROSS"
)

// Discount describes an optional document-level discount.
type Discount struct {
	Enabled bool            `json:"enabled"`
	Label   string          `json:"label"`
	Type    DiscountType    `json:"type"`
	Base    DiscountBase    `json:"base"`
	Value   decimal.Decimal `json:"value"` // non-negative; 0..100 for PERCENT
}

// DocumentTotals is the deterministic computation result for a position list.
// Gross == NetAfterDiscount + TaxAmount holds exactly, to the cent.
type DocumentTotals struct {
	NetSubtotal      decimal.Decimal `json:"netSubtotal"`
	DiscountAmount   decimal.Decimal `json:"discountAmount"`
	NetAfterDiscount decimal.Decimal `json:"netAfterDiscount"`
	TaxAmount        decimal.Decimal `json:"taxAmount"`
	GrossTotal       decimal.Decimal `json:"grossTotal"`
}

// DocumentStatus is the lifecycle state of a financial document.
type DocumentStatus string

const (
	// StatusDraft documents carry no number yet and are freely editable.
	StatusDraft DocumentStatus = "DRAFT"
	// StatusIssued documents have an allocated, immutable number.
	StatusIssued DocumentStatus = "ISSUED"
)

// Document is a financial document (invoice, quote or order confirmation;
// structurally identical, differing only by numbering namespace).
type Document struct {
	DocumentID string         `json:"documentID"`
	TenantID   string         `json:"tenantID"`
	Kind       DocumentKind   `json:"kind"`
	Status     DocumentStatus `json:"status"`

	// Number is empty while the document is a draft. It is assigned exactly
	// once at issue time and never changes afterwards.
	Number   string `json:"number,omitempty"`
	Sequence int64  `json:"sequence,omitempty"`

	Date        time.Time  `json:"date"`
	ValidUntil  *time.Time `json:"validUntil,omitempty"`
	Title       string     `json:"title"`
	Intro       string     `json:"intro"`
	CustomerRef string     `json:"customerRef"`

	Positions []Position      `json:"positions"`
	TaxRate   decimal.Decimal `json:"taxRate"` // percent, e.g. 19
	Discount  Discount        `json:"discount"`

	// Totals are recomputed from positions/discount/tax on every read and
	// persisted at issue time as the single source of truth for PDF and XML.
	Totals DocumentTotals `json:"totals"`

	// Archive object paths, set after issue; the core only passes these through.
	PDFObjectPath string `json:"pdfObjectPath,omitempty"`
	XMLObjectPath string `json:"xmlObjectPath,omitempty"`

	AuditFields
}
