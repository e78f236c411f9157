package port

import (
	"context"

	"taxos/internal/domain"
)

// ReturnRepository stores generated period returns keyed by
// (gstin, return_type, period).
type ReturnRepository interface {
	Upsert(ctx context.Context, ret *domain.PeriodReturn) error
	Get(ctx context.Context, gstin string, rt domain.ReturnType, period string) (*domain.PeriodReturn, error)
	UpdateStatus(ctx context.Context, gstin string, rt domain.ReturnType, period string, status domain.ReturnStatus) error
	ListByGSTIN(ctx context.Context, gstin string, offset, limit int) ([]domain.PeriodReturn, int, error)
}
