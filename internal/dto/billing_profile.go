package dto

import (
	"github.com/fakturly/fakturly_backend/internal/core/domain"
)

// --- Billing Profile DTOs ---

// NumberingConfigDTO is the prefix/start/suffix triple for one document kind.
// All three fields must be provided together; a partial triple is rejected.
type NumberingConfigDTO struct {
	Prefix *string `json:"prefix"`
	Start  *int64  `json:"start" binding:"omitempty,min=1"`
	Suffix *string `json:"suffix"`
}

// UpdateBillingProfileRequest defines data for saving a billing profile.
// Every call replaces the whole profile; partial saves are expressed by
// sending the current values back unchanged.
type UpdateBillingProfileRequest struct {
	InvoiceNumbering   NumberingConfigDTO `json:"invoiceNumbering"`
	QuoteNumbering     NumberingConfigDTO `json:"quoteNumbering"`
	OrderConfNumbering NumberingConfigDTO `json:"orderConfirmationNumbering"`
	AccountHolder      string             `json:"accountHolder"`
	IBAN               string             `json:"iban"`
	BIC                string             `json:"bic"`
	BillingPhone       string             `json:"billingPhone"`
	BillingEmail       string             `json:"billingEmail" binding:"omitempty,email"`
	Template           string             `json:"template"`
}

// BillingProfileResponse defines data returned for a billing profile,
// including the derived onboarding completion state.
type BillingProfileResponse struct {
	TenantID           string                 `json:"tenantID"`
	InvoiceNumbering   NumberingConfigDTO     `json:"invoiceNumbering"`
	QuoteNumbering     NumberingConfigDTO     `json:"quoteNumbering"`
	OrderConfNumbering NumberingConfigDTO     `json:"orderConfirmationNumbering"`
	AccountHolder      string                 `json:"accountHolder"`
	IBAN               string                 `json:"iban"`
	BIC                string                 `json:"bic"`
	BillingPhone       string                 `json:"billingPhone"`
	BillingEmail       string                 `json:"billingEmail"`
	Template           string                 `json:"template"`
	Completion         domain.CompletionState `json:"completion"`
}

func toNumberingConfigDTO(n domain.NumberingConfig) NumberingConfigDTO {
	return NumberingConfigDTO{Prefix: n.Prefix, Start: n.Start, Suffix: n.Suffix}
}

// ToNumberingConfig converts the DTO triple to its domain form.
func (n NumberingConfigDTO) ToNumberingConfig() domain.NumberingConfig {
	return domain.NumberingConfig{Prefix: n.Prefix, Start: n.Start, Suffix: n.Suffix}
}

// ToBillingProfileResponse converts domain.BillingProfile to DTO.
func ToBillingProfileResponse(p *domain.BillingProfile) BillingProfileResponse {
	return BillingProfileResponse{
		TenantID:           p.TenantID,
		InvoiceNumbering:   toNumberingConfigDTO(p.InvoiceNumbering),
		QuoteNumbering:     toNumberingConfigDTO(p.QuoteNumbering),
		OrderConfNumbering: toNumberingConfigDTO(p.OrderConfNumbering),
		AccountHolder:      p.AccountHolder,
		IBAN:               p.IBAN,
		BIC:                p.BIC,
		BillingPhone:       p.BillingPhone,
		BillingEmail:       p.BillingEmail,
		Template:           p.Template,
		Completion:         p.Completion(),
	}
}
