package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fakturly/fakturly_backend/internal/apperrors"
	"github.com/fakturly/fakturly_backend/internal/core/domain"
	portsrepo "github.com/fakturly/fakturly_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBillingProfileRepository struct {
	BaseRepository
}

func newPgxBillingProfileRepository(db *pgxpool.Pool) portsrepo.BillingProfileRepository {
	return &PgxBillingProfileRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.BillingProfileRepository = (*PgxBillingProfileRepository)(nil)

func (r *PgxBillingProfileRepository) GetBillingProfile(ctx context.Context, tenantID string) (*domain.BillingProfile, error) {
	query := `
		SELECT tenant_id,
			invoice_prefix, invoice_start, invoice_suffix,
			quote_prefix, quote_start, quote_suffix,
			order_conf_prefix, order_conf_start, order_conf_suffix,
			account_holder, iban, bic, billing_phone, billing_email, template,
			created_at, created_by, last_updated_at, last_updated_by
		FROM billing_profiles
		WHERE tenant_id = $1;
	`
	var p domain.BillingProfile
	err := r.Pool.QueryRow(ctx, query, tenantID).Scan(
		&p.TenantID,
		&p.InvoiceNumbering.Prefix, &p.InvoiceNumbering.Start, &p.InvoiceNumbering.Suffix,
		&p.QuoteNumbering.Prefix, &p.QuoteNumbering.Start, &p.QuoteNumbering.Suffix,
		&p.OrderConfNumbering.Prefix, &p.OrderConfNumbering.Start, &p.OrderConfNumbering.Suffix,
		&p.AccountHolder, &p.IBAN, &p.BIC, &p.BillingPhone, &p.BillingEmail, &p.Template,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find billing profile for tenant %s: %w", tenantID, err)
	}
	return &p, nil
}

// SaveBillingProfile inserts or fully replaces the tenant's profile.
func (r *PgxBillingProfileRepository) SaveBillingProfile(ctx context.Context, profile domain.BillingProfile) error {
	query := `
		INSERT INTO billing_profiles (tenant_id,
			invoice_prefix, invoice_start, invoice_suffix,
			quote_prefix, quote_start, quote_suffix,
			order_conf_prefix, order_conf_start, order_conf_suffix,
			account_holder, iban, bic, billing_phone, billing_email, template,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (tenant_id) DO UPDATE SET
			invoice_prefix = EXCLUDED.invoice_prefix,
			invoice_start = EXCLUDED.invoice_start,
			invoice_suffix = EXCLUDED.invoice_suffix,
			quote_prefix = EXCLUDED.quote_prefix,
			quote_start = EXCLUDED.quote_start,
			quote_suffix = EXCLUDED.quote_suffix,
			order_conf_prefix = EXCLUDED.order_conf_prefix,
			order_conf_start = EXCLUDED.order_conf_start,
			order_conf_suffix = EXCLUDED.order_conf_suffix,
			account_holder = EXCLUDED.account_holder,
			iban = EXCLUDED.iban,
			bic = EXCLUDED.bic,
			billing_phone = EXCLUDED.billing_phone,
			billing_email = EXCLUDED.billing_email,
			template = EXCLUDED.template,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		profile.TenantID,
		profile.InvoiceNumbering.Prefix, profile.InvoiceNumbering.Start, profile.InvoiceNumbering.Suffix,
		profile.QuoteNumbering.Prefix, profile.QuoteNumbering.Start, profile.QuoteNumbering.Suffix,
		profile.OrderConfNumbering.Prefix, profile.OrderConfNumbering.Start, profile.OrderConfNumbering.Suffix,
		profile.AccountHolder, profile.IBAN, profile.BIC, profile.BillingPhone, profile.BillingEmail, profile.Template,
		profile.CreatedAt, profile.CreatedBy, profile.LastUpdatedAt, profile.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save billing profile for tenant %s: %w", profile.TenantID, err)
	}
	return nil
}
