package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"taxos/internal/domain"
	"taxos/internal/port"
)

type itcRepo struct {
	db *sqlx.DB
}

// NewITCRepo creates a new PostgreSQL-backed ITCRepository.
func NewITCRepo(db *sqlx.DB) port.ITCRepository {
	return &itcRepo{db: db}
}

// itcRow flattens the tax vector into columns for scanning.
type itcRow struct {
	domain.ITCRecord
	TaxCGST decimal.Decimal `db:"tax_cgst"`
	TaxSGST decimal.Decimal `db:"tax_sgst"`
	TaxIGST decimal.Decimal `db:"tax_igst"`
	TaxCess decimal.Decimal `db:"tax_cess"`
}

func (r itcRow) record() domain.ITCRecord {
	rec := r.ITCRecord
	rec.Tax = domain.TaxHeads{
		CGST: r.TaxCGST,
		SGST: r.TaxSGST,
		IGST: r.TaxIGST,
		Cess: r.TaxCess,
	}
	return rec
}

const itcColumns = `id, invoice_ref, supplier_gstin, invoice_date,
	tax_cgst, tax_sgst, tax_igst, tax_cess,
	goods_received, invoice_received, payment_made, feed_matched, feed_mismatched,
	payment_date, payment_deadline, is_expired, status, claim_status, reversal_required,
	created_at, updated_at`

func (r *itcRepo) Create(ctx context.Context, rec *domain.ITCRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO itc_records (`+itcColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, NOW(), NOW())`,
		rec.ID, rec.InvoiceRef, rec.SupplierGSTIN, rec.InvoiceDate,
		rec.Tax.CGST, rec.Tax.SGST, rec.Tax.IGST, rec.Tax.Cess,
		rec.GoodsReceived, rec.InvoiceReceived, rec.PaymentMade, rec.FeedMatched, rec.FeedMismatched,
		rec.PaymentDate, rec.PaymentDeadline, rec.IsExpired, rec.Status, rec.ClaimStatus, rec.ReversalRequired)
	if isUniqueViolation(err) {
		return fmt.Errorf("itc record %s: %w", rec.InvoiceRef, domain.ErrDuplicateInvoiceRef)
	}
	return err
}

func (r *itcRepo) GetByInvoiceRef(ctx context.Context, ref string) (*domain.ITCRecord, error) {
	var row itcRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+itcColumns+` FROM itc_records WHERE invoice_ref = $1`, ref)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	rec := row.record()
	return &rec, nil
}

func (r *itcRepo) Update(ctx context.Context, rec *domain.ITCRecord) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE itc_records SET
		   goods_received = $1, invoice_received = $2, payment_made = $3,
		   feed_matched = $4, feed_mismatched = $5, payment_date = $6,
		   is_expired = $7, status = $8, claim_status = $9, reversal_required = $10,
		   updated_at = NOW()
		 WHERE id = $11`,
		rec.GoodsReceived, rec.InvoiceReceived, rec.PaymentMade,
		rec.FeedMatched, rec.FeedMismatched, rec.PaymentDate,
		rec.IsExpired, rec.Status, rec.ClaimStatus, rec.ReversalRequired,
		rec.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *itcRepo) ListOpen(ctx context.Context) ([]domain.ITCRecord, error) {
	return r.list(ctx,
		`SELECT `+itcColumns+` FROM itc_records
		 WHERE claim_status NOT IN ($1, $2)
		 ORDER BY payment_deadline, invoice_ref`,
		domain.ClaimStatusReversed, domain.ClaimStatusLapsed)
}

func (r *itcRepo) ListReversalDue(ctx context.Context) ([]domain.ITCRecord, error) {
	return r.list(ctx,
		`SELECT `+itcColumns+` FROM itc_records
		 WHERE reversal_required = TRUE
		 ORDER BY payment_deadline, invoice_ref`)
}

func (r *itcRepo) list(ctx context.Context, query string, args ...interface{}) ([]domain.ITCRecord, error) {
	var rows []itcRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	records := make([]domain.ITCRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record())
	}
	return records, nil
}
