package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"taxos/internal/domain"
	"taxos/internal/port"
	"taxos/internal/tds"
)

// RecordDeductionInput is one withholding event at vendor payment time.
type RecordDeductionInput struct {
	VendorID    string           `json:"vendor_id" binding:"required"`
	Section     string           `json:"section" binding:"required"`
	GrossAmount decimal.Decimal  `json:"gross_amount"`
	Rate        decimal.Decimal  `json:"rate"`
	LowerRate   *decimal.Decimal `json:"lower_rate,omitempty"`
	PaymentDate time.Time        `json:"payment_date" binding:"required"`
}

// TDSService records deductions and manages challan deposit and
// certificate issuance per (financial year, quarter).
type TDSService interface {
	RecordDeduction(ctx context.Context, in RecordDeductionInput) (*domain.TDSDeduction, error)
	CreateChallan(ctx context.Context, fy string, quarter int) (*domain.TDSChallan, error)
	MarkChallanDeposited(ctx context.Context, id uuid.UUID) (*domain.TDSChallan, error)
	IssueCertificate(ctx context.Context, vendorID, fy string, quarter int) (*domain.TDSCertificate, error)
}

type tdsService struct {
	tdsRepo port.TDSRepository
	locks   *keyedMutex
}

// NewTDSService creates a new TDSService implementation.
func NewTDSService(tdsRepo port.TDSRepository) TDSService {
	return &tdsService{tdsRepo: tdsRepo, locks: newKeyedMutex()}
}

func (s *tdsService) RecordDeduction(ctx context.Context, in RecordDeductionInput) (*domain.TDSDeduction, error) {
	d, err := tds.ComputeDeduction(in.VendorID, in.Section, in.GrossAmount, in.Rate, in.LowerRate, in.PaymentDate)
	if err != nil {
		return nil, err
	}
	if err := s.tdsRepo.CreateDeduction(ctx, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateChallan drains the period's unlinked deductions into one challan.
// Serialised per (fy, quarter) so two concurrent calls cannot both pick up
// the same deductions.
func (s *tdsService) CreateChallan(ctx context.Context, fy string, quarter int) (*domain.TDSChallan, error) {
	unlock := s.locks.Lock(fmt.Sprintf("challan|%s|%d", fy, quarter))
	defer unlock()

	deds, err := s.tdsRepo.ListUnlinked(ctx, fy, quarter)
	if err != nil {
		return nil, err
	}
	if len(deds) == 0 {
		return nil, fmt.Errorf("%s Q%d: %w", fy, quarter, domain.ErrNoUnlinkedDeductions)
	}
	seq, err := s.tdsRepo.NextChallanSeq(ctx, fy, quarter)
	if err != nil {
		return nil, err
	}
	ch, err := tds.BuildChallan(fy, quarter, seq, deds)
	if err != nil {
		return nil, err
	}
	if err := s.tdsRepo.CreateChallan(ctx, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (s *tdsService) MarkChallanDeposited(ctx context.Context, id uuid.UUID) (*domain.TDSChallan, error) {
	if err := s.tdsRepo.MarkDeposited(ctx, id); err != nil {
		return nil, err
	}
	return s.tdsRepo.GetChallan(ctx, id)
}

func (s *tdsService) IssueCertificate(ctx context.Context, vendorID, fy string, quarter int) (*domain.TDSCertificate, error) {
	deds, err := s.tdsRepo.ListForVendor(ctx, vendorID, fy, quarter)
	if err != nil {
		return nil, err
	}
	deposited, err := s.tdsRepo.DepositedChallanNumbers(ctx, fy, quarter)
	if err != nil {
		return nil, err
	}
	seq, err := s.tdsRepo.NextCertificateSeq(ctx, fy, quarter)
	if err != nil {
		return nil, err
	}
	cert, err := tds.BuildCertificate(vendorID, fy, quarter, seq, deds, deposited, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.tdsRepo.CreateCertificate(ctx, &cert); err != nil {
		return nil, err
	}
	return &cert, nil
}
