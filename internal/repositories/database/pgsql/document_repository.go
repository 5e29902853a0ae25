package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fakturly/fakturly_backend/internal/apperrors"
	"github.com/fakturly/fakturly_backend/internal/core/domain"
	portsrepo "github.com/fakturly/fakturly_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxDocumentRepository struct {
	BaseRepository
}

func newPgxDocumentRepository(db *pgxpool.Pool) portsrepo.DocumentRepository {
	return &PgxDocumentRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.DocumentRepository = (*PgxDocumentRepository)(nil)

const documentColumns = `document_id, tenant_id, kind, status, number, sequence, date, valid_until,
	title, intro, customer_ref, tax_rate,
	discount_enabled, discount_label, discount_type, discount_base, discount_value,
	net_subtotal, discount_amount, net_after_discount, tax_amount, gross_total,
	pdf_object_path, xml_object_path,
	created_at, created_by, last_updated_at, last_updated_by`

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var d domain.Document
	var number, pdfPath, xmlPath *string
	var sequence *int64
	err := row.Scan(
		&d.DocumentID, &d.TenantID, &d.Kind, &d.Status, &number, &sequence, &d.Date, &d.ValidUntil,
		&d.Title, &d.Intro, &d.CustomerRef, &d.TaxRate,
		&d.Discount.Enabled, &d.Discount.Label, &d.Discount.Type, &d.Discount.Base, &d.Discount.Value,
		&d.Totals.NetSubtotal, &d.Totals.DiscountAmount, &d.Totals.NetAfterDiscount, &d.Totals.TaxAmount, &d.Totals.GrossTotal,
		&pdfPath, &xmlPath,
		&d.CreatedAt, &d.CreatedBy, &d.LastUpdatedAt, &d.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if number != nil {
		d.Number = *number
	}
	if sequence != nil {
		d.Sequence = *sequence
	}
	if pdfPath != nil {
		d.PDFObjectPath = *pdfPath
	}
	if xmlPath != nil {
		d.XMLObjectPath = *xmlPath
	}
	return &d, nil
}

// nullableDocFields maps empty number/path strings to NULL so the partial
// unique index on (tenant_id, kind, number) only covers issued documents.
func nullableDocFields(d domain.Document) (number, pdfPath, xmlPath *string, sequence *int64) {
	if d.Number != "" {
		number = &d.Number
	}
	if d.Sequence != 0 {
		sequence = &d.Sequence
	}
	if d.PDFObjectPath != "" {
		pdfPath = &d.PDFObjectPath
	}
	if d.XMLObjectPath != "" {
		xmlPath = &d.XMLObjectPath
	}
	return
}

func (r *PgxDocumentRepository) CreateDocument(ctx context.Context, doc domain.Document) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	number, pdfPath, xmlPath, sequence := nullableDocFields(doc)
	_, err = tx.Exec(ctx, `
		INSERT INTO documents (document_id, tenant_id, kind, status, number, sequence, date, valid_until,
			title, intro, customer_ref, tax_rate,
			discount_enabled, discount_label, discount_type, discount_base, discount_value,
			net_subtotal, discount_amount, net_after_discount, tax_amount, gross_total,
			pdf_object_path, xml_object_path,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28);
	`,
		doc.DocumentID, doc.TenantID, doc.Kind, doc.Status, number, sequence, doc.Date, doc.ValidUntil,
		doc.Title, doc.Intro, doc.CustomerRef, doc.TaxRate,
		doc.Discount.Enabled, doc.Discount.Label, doc.Discount.Type, doc.Discount.Base, doc.Discount.Value,
		doc.Totals.NetSubtotal, doc.Totals.DiscountAmount, doc.Totals.NetAfterDiscount, doc.Totals.TaxAmount, doc.Totals.GrossTotal,
		pdfPath, xmlPath,
		doc.CreatedAt, doc.CreatedBy, doc.LastUpdatedAt, doc.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	if err := insertPositions(ctx, tx, doc.DocumentID, doc.Positions); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func insertPositions(ctx context.Context, tx pgx.Tx, documentID string, positions []domain.Position) error {
	if len(positions) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, pos := range positions {
		batch.Queue(`
			INSERT INTO document_positions (position_id, document_id, kind, text, quantity, unit, unit_price, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
		`, pos.PositionID, documentID, pos.Kind, pos.Text, pos.Quantity, pos.Unit, pos.UnitPrice, pos.SortOrder)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range positions {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert document position: %w", err)
		}
	}
	return nil
}

func (r *PgxDocumentRepository) loadPositions(ctx context.Context, documentIDs []string) (map[string][]domain.Position, error) {
	byDoc := make(map[string][]domain.Position, len(documentIDs))
	if len(documentIDs) == 0 {
		return byDoc, nil
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT document_id, position_id, kind, text, quantity, unit, unit_price, sort_order
		FROM document_positions
		WHERE document_id = ANY($1)
		ORDER BY document_id, sort_order;
	`, documentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query document positions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var docID string
		var pos domain.Position
		if err := rows.Scan(&docID, &pos.PositionID, &pos.Kind, &pos.Text, &pos.Quantity, &pos.Unit, &pos.UnitPrice, &pos.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan position row: %w", err)
		}
		byDoc[docID] = append(byDoc[docID], pos)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate position rows: %w", err)
	}
	return byDoc, nil
}

func (r *PgxDocumentRepository) GetDocumentByID(ctx context.Context, tenantID string, documentID string) (*domain.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM documents WHERE tenant_id = $1 AND document_id = $2;`, documentColumns)
	doc, err := scanDocument(r.Pool.QueryRow(ctx, query, tenantID, documentID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find document %s: %w", documentID, err)
	}

	positions, err := r.loadPositions(ctx, []string{documentID})
	if err != nil {
		return nil, err
	}
	doc.Positions = positions[documentID]
	return doc, nil
}

func (r *PgxDocumentRepository) ListDocuments(ctx context.Context, tenantID string, filter portsrepo.ListDocumentsFilter) ([]domain.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM documents WHERE tenant_id = $1`, documentColumns)
	args := []any{tenantID}

	if filter.Kind != nil {
		args = append(args, *filter.Kind)
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.BeforeDate != nil && filter.BeforeCreatedAt != nil {
		args = append(args, *filter.BeforeDate, *filter.BeforeCreatedAt)
		query += fmt.Sprintf(" AND (date, created_at) < ($%d, $%d)", len(args)-1, len(args))
	}

	query += " ORDER BY date DESC, created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	var ids []string
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, *doc)
		ids = append(ids, doc.DocumentID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate document rows: %w", err)
	}

	positions, err := r.loadPositions(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		docs[i].Positions = positions[docs[i].DocumentID]
	}
	return docs, nil
}

// UpdateDocument replaces the document row and its position list.
func (r *PgxDocumentRepository) UpdateDocument(ctx context.Context, doc domain.Document) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	_, pdfPath, xmlPath, _ := nullableDocFields(doc)
	tag, err := tx.Exec(ctx, `
		UPDATE documents
		SET date = $3, valid_until = $4, title = $5, intro = $6, customer_ref = $7, tax_rate = $8,
			discount_enabled = $9, discount_label = $10, discount_type = $11, discount_base = $12, discount_value = $13,
			net_subtotal = $14, discount_amount = $15, net_after_discount = $16, tax_amount = $17, gross_total = $18,
			pdf_object_path = $19, xml_object_path = $20,
			last_updated_at = $21, last_updated_by = $22
		WHERE tenant_id = $1 AND document_id = $2;
	`,
		doc.TenantID, doc.DocumentID,
		doc.Date, doc.ValidUntil, doc.Title, doc.Intro, doc.CustomerRef, doc.TaxRate,
		doc.Discount.Enabled, doc.Discount.Label, doc.Discount.Type, doc.Discount.Base, doc.Discount.Value,
		doc.Totals.NetSubtotal, doc.Totals.DiscountAmount, doc.Totals.NetAfterDiscount, doc.Totals.TaxAmount, doc.Totals.GrossTotal,
		pdfPath, xmlPath,
		doc.LastUpdatedAt, doc.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update document %s: %w", doc.DocumentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM document_positions WHERE document_id = $1;`, doc.DocumentID); err != nil {
		return fmt.Errorf("failed to clear document positions: %w", err)
	}
	if err := insertPositions(ctx, tx, doc.DocumentID, doc.Positions); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxDocumentRepository) DeleteDocument(ctx context.Context, tenantID string, documentID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM documents WHERE tenant_id = $1 AND document_id = $2;`, tenantID, documentID)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", documentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxDocumentRepository) GetCurrentSequence(ctx context.Context, tenantID string, kind domain.DocumentKind) (int64, error) {
	var last int64
	err := r.Pool.QueryRow(ctx, `
		SELECT last_value FROM document_sequences WHERE tenant_id = $1 AND kind = $2;
	`, tenantID, kind).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read document sequence: %w", err)
	}
	return last, nil
}

// NextDocumentSequence advances the (tenant, kind) counter in one upsert.
// The GREATEST keeps max(start, last+1) semantics when the configured start
// was raised after values were already consumed. Concurrent callers serialize
// on the sequence row, so each receives a distinct value.
func (r *PgxDocumentRepository) NextDocumentSequence(ctx context.Context, tenantID string, kind domain.DocumentKind, start int64) (int64, error) {
	var value int64
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO document_sequences (tenant_id, kind, last_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (tenant_id, kind) DO UPDATE
		SET last_value = GREATEST(document_sequences.last_value + 1, EXCLUDED.last_value)
		RETURNING last_value;
	`, tenantID, kind, start).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("failed to advance document sequence: %w", err)
	}
	return value, nil
}

// SaveIssuedDocument persists the issued state in one statement. The partial
// unique index on (tenant_id, kind, number) turns a raced number into
// ErrSequenceCollision for the caller to retry.
func (r *PgxDocumentRepository) SaveIssuedDocument(ctx context.Context, doc domain.Document) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE documents
		SET status = $3, number = $4, sequence = $5,
			net_subtotal = $6, discount_amount = $7, net_after_discount = $8, tax_amount = $9, gross_total = $10,
			last_updated_at = $11, last_updated_by = $12
		WHERE tenant_id = $1 AND document_id = $2;
	`,
		doc.TenantID, doc.DocumentID,
		doc.Status, doc.Number, doc.Sequence,
		doc.Totals.NetSubtotal, doc.Totals.DiscountAmount, doc.Totals.NetAfterDiscount, doc.Totals.TaxAmount, doc.Totals.GrossTotal,
		doc.LastUpdatedAt, doc.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return fmt.Errorf("number %s already taken: %w", doc.Number, apperrors.ErrSequenceCollision)
		}
		return fmt.Errorf("failed to persist issued document %s: %w", doc.DocumentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
