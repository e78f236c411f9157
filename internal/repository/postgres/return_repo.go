package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"taxos/internal/domain"
	"taxos/internal/port"
)

type returnRepo struct {
	db *sqlx.DB
}

// NewReturnRepo creates a new PostgreSQL-backed ReturnRepository.
func NewReturnRepo(db *sqlx.DB) port.ReturnRepository {
	return &returnRepo{db: db}
}

// Upsert inserts or replaces the payload for one (gstin, type, period).
// On conflict the existing row keeps its id, so the stored identity is
// read back into ret.
func (r *returnRepo) Upsert(ctx context.Context, ret *domain.PeriodReturn) error {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO period_returns (id, gstin, return_type, period, financial_year, status, payload, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		 ON CONFLICT (gstin, return_type, period)
		 DO UPDATE SET status = EXCLUDED.status, payload = EXCLUDED.payload, updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		ret.ID, ret.GSTIN, ret.ReturnType, ret.Period, ret.FinancialYear, ret.Status, ret.Payload).
		Scan(&ret.ID, &ret.CreatedAt, &ret.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting return %s/%s/%s: %w", ret.GSTIN, ret.ReturnType, ret.Period, err)
	}
	return nil
}

func (r *returnRepo) Get(ctx context.Context, gstin string, rt domain.ReturnType, period string) (*domain.PeriodReturn, error) {
	var ret domain.PeriodReturn
	err := r.db.GetContext(ctx, &ret,
		`SELECT id, gstin, return_type, period, financial_year, status, payload, created_at, updated_at
		 FROM period_returns
		 WHERE gstin = $1 AND return_type = $2 AND period = $3`,
		gstin, rt, period)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReturnNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

func (r *returnRepo) UpdateStatus(ctx context.Context, gstin string, rt domain.ReturnType, period string, status domain.ReturnStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE period_returns SET status = $4, updated_at = NOW()
		 WHERE gstin = $1 AND return_type = $2 AND period = $3`,
		gstin, rt, period, status)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrReturnNotFound
	}
	return nil
}

func (r *returnRepo) ListByGSTIN(ctx context.Context, gstin string, offset, limit int) ([]domain.PeriodReturn, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM period_returns WHERE gstin = $1`, gstin); err != nil {
		return nil, 0, err
	}

	var rets []domain.PeriodReturn
	err := r.db.SelectContext(ctx, &rets,
		`SELECT id, gstin, return_type, period, financial_year, status, payload, created_at, updated_at
		 FROM period_returns
		 WHERE gstin = $1
		 ORDER BY period DESC, return_type
		 OFFSET $2 LIMIT $3`,
		gstin, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return rets, total, nil
}
