package port

import (
	"context"

	"taxos/internal/domain"
)

// ITCRepository stores input-credit eligibility records keyed by invoice
// reference.
type ITCRepository interface {
	Create(ctx context.Context, rec *domain.ITCRecord) error
	GetByInvoiceRef(ctx context.Context, ref string) (*domain.ITCRecord, error)
	Update(ctx context.Context, rec *domain.ITCRecord) error
	ListOpen(ctx context.Context) ([]domain.ITCRecord, error)
	ListReversalDue(ctx context.Context) ([]domain.ITCRecord, error)
}
