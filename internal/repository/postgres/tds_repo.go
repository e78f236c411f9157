package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taxos/internal/domain"
	"taxos/internal/port"
)

type tdsRepo struct {
	db *sqlx.DB
}

// NewTDSRepo creates a new PostgreSQL-backed TDSRepository.
func NewTDSRepo(db *sqlx.DB) port.TDSRepository {
	return &tdsRepo{db: db}
}

const deductionColumns = `id, vendor_id, section, gross_amount, rate, lower_rate, tax_amount,
	payment_date, financial_year, quarter, challan_ref, created_at`

func (r *tdsRepo) CreateDeduction(ctx context.Context, d *domain.TDSDeduction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tds_deductions (`+deductionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())`,
		d.ID, d.VendorID, d.Section, d.GrossAmount, d.Rate, d.LowerRate, d.TaxAmount,
		d.PaymentDate, d.FinancialYear, d.Quarter, d.ChallanRef)
	return err
}

func (r *tdsRepo) ListUnlinked(ctx context.Context, fy string, quarter int) ([]domain.TDSDeduction, error) {
	var out []domain.TDSDeduction
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+deductionColumns+` FROM tds_deductions
		 WHERE financial_year = $1 AND quarter = $2 AND challan_ref IS NULL
		 ORDER BY payment_date, id`, fy, quarter)
	return out, err
}

func (r *tdsRepo) ListForVendor(ctx context.Context, vendorID, fy string, quarter int) ([]domain.TDSDeduction, error) {
	var out []domain.TDSDeduction
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+deductionColumns+` FROM tds_deductions
		 WHERE vendor_id = $1 AND financial_year = $2 AND quarter = $3
		 ORDER BY payment_date, id`, vendorID, fy, quarter)
	return out, err
}

// nextSeq bumps and returns the per-(kind, fy, quarter) counter in a single
// statement so concurrent callers never observe the same value.
func (r *tdsRepo) nextSeq(ctx context.Context, kind, fy string, quarter int) (int, error) {
	var seq int
	err := r.db.GetContext(ctx, &seq,
		`INSERT INTO tds_sequences (kind, financial_year, quarter, value)
		 VALUES ($1, $2, $3, 1)
		 ON CONFLICT (kind, financial_year, quarter)
		 DO UPDATE SET value = tds_sequences.value + 1
		 RETURNING value`,
		kind, fy, quarter)
	if err != nil {
		return 0, fmt.Errorf("allocating %s sequence for %s Q%d: %w", kind, fy, quarter, err)
	}
	return seq, nil
}

func (r *tdsRepo) NextChallanSeq(ctx context.Context, fy string, quarter int) (int, error) {
	return r.nextSeq(ctx, "challan", fy, quarter)
}

func (r *tdsRepo) NextCertificateSeq(ctx context.Context, fy string, quarter int) (int, error) {
	return r.nextSeq(ctx, "certificate", fy, quarter)
}

func (r *tdsRepo) CreateChallan(ctx context.Context, ch *domain.TDSChallan) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning challan tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO tds_challans
		 (id, challan_number, sequence, financial_year, quarter, amount_total, status, deposited_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`,
		ch.ID, ch.ChallanNumber, ch.Sequence, ch.FinancialYear, ch.Quarter,
		ch.AmountTotal, ch.Status, ch.DepositedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("challan %s: %w", ch.ChallanNumber, domain.ErrDuplicateChallanNumber)
	}
	if err != nil {
		return fmt.Errorf("inserting challan: %w", err)
	}

	for _, dedID := range ch.DeductionRefs {
		res, err := tx.ExecContext(ctx,
			`UPDATE tds_deductions SET challan_ref = $1
			 WHERE id = $2 AND challan_ref IS NULL`,
			ch.ChallanNumber, dedID)
		if err != nil {
			return fmt.Errorf("linking deduction %s: %w", dedID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		// A concurrent challan may have claimed the deduction first.
		if n == 0 {
			return fmt.Errorf("deduction %s already linked: %w", dedID, domain.ErrNoUnlinkedDeductions)
		}
	}
	return tx.Commit()
}

func (r *tdsRepo) GetChallan(ctx context.Context, id uuid.UUID) (*domain.TDSChallan, error) {
	var ch domain.TDSChallan
	err := r.db.GetContext(ctx, &ch,
		`SELECT id, challan_number, sequence, financial_year, quarter, amount_total, status, deposited_at, created_at
		 FROM tds_challans WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &ch.DeductionRefs,
		`SELECT id FROM tds_deductions WHERE challan_ref = $1 ORDER BY payment_date, id`,
		ch.ChallanNumber); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *tdsRepo) MarkDeposited(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tds_challans SET status = $1, deposited_at = NOW()
		 WHERE id = $2 AND status = $3`,
		domain.ChallanStatusDeposited, id, domain.ChallanStatusPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish missing from already deposited.
		var status domain.ChallanStatus
		err := r.db.GetContext(ctx, &status, `SELECT status FROM tds_challans WHERE id = $1`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrRecordNotFound
		}
		if err != nil {
			return err
		}
		return domain.ErrChallanDeposited
	}
	return nil
}

func (r *tdsRepo) DepositedChallanNumbers(ctx context.Context, fy string, quarter int) (map[string]bool, error) {
	var numbers []string
	err := r.db.SelectContext(ctx, &numbers,
		`SELECT challan_number FROM tds_challans
		 WHERE financial_year = $1 AND quarter = $2 AND status = $3`,
		fy, quarter, domain.ChallanStatusDeposited)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(numbers))
	for _, n := range numbers {
		set[n] = true
	}
	return set, nil
}

func (r *tdsRepo) CreateCertificate(ctx context.Context, cert *domain.TDSCertificate) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tds_certificates
		 (id, certificate_number, sequence, vendor_id, financial_year, quarter,
		  gross_total, tax_total, deduction_count, issued_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		cert.ID, cert.CertificateNumber, cert.Sequence, cert.VendorID,
		cert.FinancialYear, cert.Quarter, cert.GrossTotal, cert.TaxTotal,
		cert.DeductionCount, cert.IssuedAt)
	return err
}
