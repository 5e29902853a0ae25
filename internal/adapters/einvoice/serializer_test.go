package einvoice_test

import (
	"encoding/xml"
	"testing"
	"time"

	"github.com/fakturly/fakturly_backend/internal/adapters/einvoice"
	"github.com/fakturly/fakturly_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parsedInvoice mirrors the emitted schema for assertions.
type parsedInvoice struct {
	Number    string `xml:"Number"`
	IssueDate string `xml:"IssueDate"`
	BuyerRef  string `xml:"BuyerReference"`
	Seller    struct {
		Name        string `xml:"Name"`
		CountryCode string `xml:"CountryCode"`
		Email       string `xml:"Email"`
	} `xml:"Seller"`
	Payment struct {
		AccountHolder string `xml:"AccountHolder"`
		IBAN          string `xml:"IBAN"`
	} `xml:"PaymentInstructions"`
	Lines []struct {
		Position  int    `xml:"position,attr"`
		Text      string `xml:"Text"`
		Quantity  string `xml:"Quantity"`
		NetAmount string `xml:"NetAmount"`
	} `xml:"Lines>Line"`
	Totals struct {
		NetSubtotal      string `xml:"NetSubtotal"`
		DiscountAmount   string `xml:"DiscountAmount"`
		NetAfterDiscount string `xml:"NetAfterDiscount"`
		TaxAmount        string `xml:"TaxAmount"`
		GrossTotal       string `xml:"GrossTotal"`
	} `xml:"Totals"`
}

func issuedInvoice() *domain.Document {
	return &domain.Document{
		DocumentID:  "doc-1",
		TenantID:    "tenant-1",
		Kind:        domain.KindInvoice,
		Status:      domain.StatusIssued,
		Number:      "RE-2024-0007",
		Date:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		CustomerRef: "PO-4711",
		Positions: []domain.Position{
			{PositionID: "p1", Kind: domain.HeadingPosition, Text: "Services", SortOrder: 0},
			{PositionID: "p2", Kind: domain.ItemPosition, Text: "Development", Quantity: decimal.NewFromInt(2), Unit: "h", UnitPrice: decimal.NewFromInt(100), SortOrder: 1},
			{PositionID: "p3", Kind: domain.SeparatorPosition, SortOrder: 2},
			{PositionID: "p4", Kind: domain.ItemPosition, Text: "Consulting", Quantity: decimal.NewFromInt(1), Unit: "h", UnitPrice: decimal.NewFromInt(50), SortOrder: 3},
		},
		TaxRate: decimal.NewFromInt(19),
		Totals: domain.DocumentTotals{
			NetSubtotal:      decimal.NewFromInt(250),
			DiscountAmount:   decimal.Zero,
			NetAfterDiscount: decimal.NewFromInt(250),
			TaxAmount:        decimal.NewFromFloat(47.5),
			GrossTotal:       decimal.NewFromFloat(297.5),
		},
	}
}

func sellerFixtures() (*domain.BillingProfile, *domain.Tenant) {
	profile := &domain.BillingProfile{
		TenantID:      "tenant-1",
		AccountHolder: "Muster GmbH",
		IBAN:          "DE89370400440532013000",
		BIC:           "COBADEFFXXX",
		BillingEmail:  "billing@muster.example",
	}
	tenant := &domain.Tenant{TenantID: "tenant-1", Name: "Muster GmbH", CountryCode: "DE"}
	return profile, tenant
}

func TestSerialize(t *testing.T) {
	profile, tenant := sellerFixtures()
	out, err := einvoice.NewSerializer().Serialize(issuedInvoice(), profile, tenant)
	require.NoError(t, err)

	var parsed parsedInvoice
	require.NoError(t, xml.Unmarshal(out, &parsed))

	assert.Equal(t, "RE-2024-0007", parsed.Number)
	assert.Equal(t, "2024-06-01", parsed.IssueDate)
	assert.Equal(t, "PO-4711", parsed.BuyerRef)
	assert.Equal(t, "Muster GmbH", parsed.Seller.Name)
	assert.Equal(t, "DE", parsed.Seller.CountryCode)
	assert.Equal(t, "DE89370400440532013000", parsed.Payment.IBAN)

	// Only ITEM positions become lines; heading and separator are layout.
	require.Len(t, parsed.Lines, 2)
	assert.Equal(t, 1, parsed.Lines[0].Position)
	assert.Equal(t, "Development", parsed.Lines[0].Text)
	assert.Equal(t, "200.00", parsed.Lines[0].NetAmount)
	assert.Equal(t, 2, parsed.Lines[1].Position)
	assert.Equal(t, "Consulting", parsed.Lines[1].Text)
	assert.Equal(t, "50.00", parsed.Lines[1].NetAmount)

	// Totals are copied from the document, formatted to two decimals, and
	// reconcile: gross == net after discount + tax.
	assert.Equal(t, "250.00", parsed.Totals.NetSubtotal)
	assert.Equal(t, "250.00", parsed.Totals.NetAfterDiscount)
	assert.Equal(t, "47.50", parsed.Totals.TaxAmount)
	assert.Equal(t, "297.50", parsed.Totals.GrossTotal)
}

func TestSerializeRejectsUnnumberedDocument(t *testing.T) {
	profile, tenant := sellerFixtures()
	doc := issuedInvoice()
	doc.Status = domain.StatusDraft
	doc.Number = ""

	_, err := einvoice.NewSerializer().Serialize(doc, profile, tenant)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no number")
}
