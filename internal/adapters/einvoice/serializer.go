// Package einvoice emits the structured XML representation of issued
// invoices. The schema is a compact profile of the EN 16931 invoice model:
// party data, line items and a totals block that reconciles exactly with the
// persisted document totals.
package einvoice

import (
	"encoding/xml"
	"fmt"

	"github.com/fakturly/fakturly_backend/internal/core/domain"
	portssvc "github.com/fakturly/fakturly_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

const dateFormat = "2006-01-02"

type invoiceXML struct {
	XMLName     xml.Name  `xml:"Invoice"`
	Number      string    `xml:"Number"`
	IssueDate   string    `xml:"IssueDate"`
	BuyerRef    string    `xml:"BuyerReference,omitempty"`
	Seller      partyXML  `xml:"Seller"`
	Payment     payXML    `xml:"PaymentInstructions"`
	Lines       []lineXML `xml:"Lines>Line"`
	TaxRate     string    `xml:"TaxRate"`
	Totals      totalsXML `xml:"Totals"`
}

type partyXML struct {
	Name        string `xml:"Name"`
	CountryCode string `xml:"CountryCode,omitempty"`
	Email       string `xml:"Email,omitempty"`
	Phone       string `xml:"Phone,omitempty"`
}

type payXML struct {
	AccountHolder string `xml:"AccountHolder"`
	IBAN          string `xml:"IBAN"`
	BIC           string `xml:"BIC,omitempty"`
}

type lineXML struct {
	Position  int    `xml:"position,attr"`
	Text      string `xml:"Text"`
	Quantity  string `xml:"Quantity"`
	Unit      string `xml:"Unit,omitempty"`
	UnitPrice string `xml:"UnitPrice"`
	NetAmount string `xml:"NetAmount"`
}

type totalsXML struct {
	NetSubtotal      string `xml:"NetSubtotal"`
	DiscountLabel    string `xml:"DiscountLabel,omitempty"`
	DiscountAmount   string `xml:"DiscountAmount"`
	NetAfterDiscount string `xml:"NetAfterDiscount"`
	TaxAmount        string `xml:"TaxAmount"`
	GrossTotal       string `xml:"GrossTotal"`
}

// Serializer implements the EInvoiceSerializer port.
type Serializer struct{}

// NewSerializer creates an e-invoice serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

var _ portssvc.EInvoiceSerializer = (*Serializer)(nil)

// Serialize emits the invoice XML. Monetary values are formatted with two
// decimal places from the already-rounded document totals; the serializer
// never recomputes amounts.
func (s *Serializer) Serialize(doc *domain.Document, profile *domain.BillingProfile, tenant *domain.Tenant) ([]byte, error) {
	if doc.Number == "" {
		return nil, fmt.Errorf("document %s has no number; only issued documents can be serialized", doc.DocumentID)
	}

	inv := invoiceXML{
		Number:    doc.Number,
		IssueDate: doc.Date.Format(dateFormat),
		BuyerRef:  doc.CustomerRef,
		Seller: partyXML{
			Name:        tenant.Name,
			CountryCode: tenant.CountryCode,
			Email:       profile.BillingEmail,
			Phone:       profile.BillingPhone,
		},
		Payment: payXML{
			AccountHolder: profile.AccountHolder,
			IBAN:          profile.IBAN,
			BIC:           profile.BIC,
		},
		TaxRate: doc.TaxRate.String(),
		Totals: totalsXML{
			NetSubtotal:      money(doc.Totals.NetSubtotal),
			DiscountAmount:   money(doc.Totals.DiscountAmount),
			NetAfterDiscount: money(doc.Totals.NetAfterDiscount),
			TaxAmount:        money(doc.Totals.TaxAmount),
			GrossTotal:       money(doc.Totals.GrossTotal),
		},
	}
	if doc.Discount.Enabled {
		inv.Totals.DiscountLabel = doc.Discount.Label
	}

	lineNo := 0
	for _, pos := range doc.Positions {
		if pos.Kind != domain.ItemPosition {
			continue
		}
		lineNo++
		inv.Lines = append(inv.Lines, lineXML{
			Position:  lineNo,
			Text:      pos.Text,
			Quantity:  pos.Quantity.String(),
			Unit:      pos.Unit,
			UnitPrice: pos.UnitPrice.String(),
			NetAmount: money(pos.Quantity.Mul(pos.UnitPrice).Round(2)),
		})
	}

	out, err := xml.MarshalIndent(inv, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invoice xml: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
