package domain

// DocumentKind identifies one of the independently numbered document types.
type DocumentKind string

const (
	KindInvoice           DocumentKind = "INVOICE"
	KindQuote             DocumentKind = "QUOTE"
	KindOrderConfirmation DocumentKind = "ORDER_CONFIRMATION"
)

// DocumentKinds lists all kinds in a stable order.
var DocumentKinds = []DocumentKind{KindInvoice, KindQuote, KindOrderConfirmation}

// NumberingConfig is the prefix/start/suffix triple for one document kind.
// The three fields are set together or not at all; a partially filled triple
// means the tenant has not finished setup for that kind.
type NumberingConfig struct {
	Prefix *string `json:"prefix"`
	Start  *int64  `json:"start"`
	Suffix *string `json:"suffix"`
}

// IsSet reports whether the full triple is present.
func (n NumberingConfig) IsSet() bool {
	return n.Prefix != nil && n.Start != nil && n.Suffix != nil
}

// IsEmpty reports whether no field of the triple is present.
func (n NumberingConfig) IsEmpty() bool {
	return n.Prefix == nil && n.Start == nil && n.Suffix == nil
}

// BillingProfile holds the per-tenant billing configuration: one numbering
// triple per document kind plus payment and contact details used on rendered
// documents.
type BillingProfile struct {
	TenantID          string          `json:"tenantID"`
	InvoiceNumbering  NumberingConfig `json:"invoiceNumbering"`
	QuoteNumbering    NumberingConfig `json:"quoteNumbering"`
	OrderConfNumbering NumberingConfig `json:"orderConfirmationNumbering"`
	AccountHolder     string          `json:"accountHolder"`
	IBAN              string          `json:"iban"`
	BIC               string          `json:"bic"`
	BillingPhone      string          `json:"billingPhone"`
	BillingEmail      string          `json:"billingEmail"`
	Template          string          `json:"template"` // PDF template identifier
	AuditFields
}

// NumberingFor returns the numbering triple for the given kind.
func (p *BillingProfile) NumberingFor(kind DocumentKind) NumberingConfig {
	switch kind {
	case KindQuote:
		return p.QuoteNumbering
	case KindOrderConfirmation:
		return p.OrderConfNumbering
	default:
		return p.InvoiceNumbering
	}
}

// ProfileField names a billing profile field for completion reporting.
type ProfileField string

const (
	FieldInvoiceNumbering   ProfileField = "invoiceNumbering"
	FieldQuoteNumbering     ProfileField = "quoteNumbering"
	FieldOrderConfNumbering ProfileField = "orderConfirmationNumbering"
	FieldAccountHolder      ProfileField = "accountHolder"
	FieldIBAN               ProfileField = "iban"
	FieldBillingEmail       ProfileField = "billingEmail"
)

// CompletionStatus is the coarse onboarding state of a billing profile.
type CompletionStatus string

const (
	StatusUnconfigured        CompletionStatus = "UNCONFIGURED"
	StatusPartiallyConfigured CompletionStatus = "PARTIALLY_CONFIGURED"
	StatusReady               CompletionStatus = "READY"
)

// CompletionState is the tagged completion result computed once from a
// profile, instead of re-deriving boolean flags at every call site.
type CompletionState struct {
	Status  CompletionStatus `json:"status"`
	Missing []ProfileField   `json:"missing,omitempty"`
}

// Completion computes the onboarding state of the profile. A tenant is
// considered configured for issuing documents only when every numbering
// triple and the payment contact fields are present.
func (p *BillingProfile) Completion() CompletionState {
	var missing []ProfileField
	if !p.InvoiceNumbering.IsSet() {
		missing = append(missing, FieldInvoiceNumbering)
	}
	if !p.QuoteNumbering.IsSet() {
		missing = append(missing, FieldQuoteNumbering)
	}
	if !p.OrderConfNumbering.IsSet() {
		missing = append(missing, FieldOrderConfNumbering)
	}
	if p.AccountHolder == "" {
		missing = append(missing, FieldAccountHolder)
	}
	if p.IBAN == "" {
		missing = append(missing, FieldIBAN)
	}
	if p.BillingEmail == "" {
		missing = append(missing, FieldBillingEmail)
	}

	switch {
	case len(missing) == 0:
		return CompletionState{Status: StatusReady}
	case p.InvoiceNumbering.IsEmpty() && p.QuoteNumbering.IsEmpty() && p.OrderConfNumbering.IsEmpty() &&
		p.AccountHolder == "" && p.IBAN == "" && p.BillingEmail == "":
		return CompletionState{Status: StatusUnconfigured, Missing: missing}
	default:
		return CompletionState{Status: StatusPartiallyConfigured, Missing: missing}
	}
}
