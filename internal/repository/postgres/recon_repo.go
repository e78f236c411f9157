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

type reconRepo struct {
	db *sqlx.DB
}

// NewReconRepo creates a new PostgreSQL-backed ReconRepository.
func NewReconRepo(db *sqlx.DB) port.ReconRepository {
	return &reconRepo{db: db}
}

func (r *reconRepo) CreateRun(ctx context.Context, run *domain.ReconRun, units []domain.ReconUnit) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning recon tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO recon_runs (id, gstin, period, tolerance, summary, created_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())`,
		run.ID, run.GSTIN, run.Period, run.Tolerance, run.Summary)
	if err != nil {
		return fmt.Errorf("inserting recon run: %w", err)
	}

	for i := range units {
		u := &units[i]
		_, err = tx.ExecContext(ctx,
			`INSERT INTO recon_units
			 (id, run_id, gstin, invoice_number, match_status, difference, ambiguous, fuzzy_matched,
			  books_taxable, books_tax, feed_taxable, feed_tax, feed_invoice_number)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			u.ID, u.RunID, u.GSTIN, u.InvoiceNumber, u.MatchStatus, u.Difference, u.Ambiguous,
			u.FuzzyMatched, u.BooksTaxable, u.BooksTax, u.FeedTaxable, u.FeedTax, u.FeedInvoiceNumber)
		if err != nil {
			return fmt.Errorf("inserting recon unit %s: %w", u.InvoiceNumber, err)
		}
	}
	return tx.Commit()
}

func (r *reconRepo) GetRun(ctx context.Context, id uuid.UUID) (*domain.ReconRun, error) {
	var run domain.ReconRun
	err := r.db.GetContext(ctx, &run,
		`SELECT id, gstin, period, tolerance, summary, created_at
		 FROM recon_runs WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *reconRepo) ListUnits(ctx context.Context, runID uuid.UUID, status domain.MatchStatus) ([]domain.ReconUnit, error) {
	query := `SELECT id, run_id, gstin, invoice_number, match_status, difference, ambiguous, fuzzy_matched,
	                 books_taxable, books_tax, feed_taxable, feed_tax, feed_invoice_number
	          FROM recon_units WHERE run_id = $1`
	args := []interface{}{runID}
	if status != "" {
		query += ` AND match_status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY gstin, invoice_number`

	var units []domain.ReconUnit
	if err := r.db.SelectContext(ctx, &units, query, args...); err != nil {
		return nil, err
	}
	return units, nil
}
