package port

import (
	"context"

	"github.com/google/uuid"

	"taxos/internal/domain"
)

// TDSRepository stores deductions, challans and certificates. Sequence
// allocation for challan and certificate numbering is the repository's
// responsibility so numbers stay monotonic per (financial year, quarter)
// under concurrent writers.
type TDSRepository interface {
	CreateDeduction(ctx context.Context, d *domain.TDSDeduction) error
	ListUnlinked(ctx context.Context, fy string, quarter int) ([]domain.TDSDeduction, error)
	ListForVendor(ctx context.Context, vendorID, fy string, quarter int) ([]domain.TDSDeduction, error)

	NextChallanSeq(ctx context.Context, fy string, quarter int) (int, error)
	CreateChallan(ctx context.Context, ch *domain.TDSChallan) error
	GetChallan(ctx context.Context, id uuid.UUID) (*domain.TDSChallan, error)
	MarkDeposited(ctx context.Context, id uuid.UUID) error
	DepositedChallanNumbers(ctx context.Context, fy string, quarter int) (map[string]bool, error)

	NextCertificateSeq(ctx context.Context, fy string, quarter int) (int, error)
	CreateCertificate(ctx context.Context, cert *domain.TDSCertificate) error
}
