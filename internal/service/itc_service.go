package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taxos/internal/domain"
	"taxos/internal/itc"
	"taxos/internal/port"
	"taxos/internal/validate"
)

// RegisterITCInput is the purchase invoice data that opens a credit record.
type RegisterITCInput struct {
	InvoiceRef    string          `json:"invoice_ref" binding:"required"`
	SupplierGSTIN string          `json:"supplier_gstin" binding:"required"`
	InvoiceDate   time.Time       `json:"invoice_date" binding:"required"`
	Tax           domain.TaxHeads `json:"tax"`
}

// ITCService tracks input credit eligibility per purchase invoice.
type ITCService interface {
	RegisterInvoice(ctx context.Context, in RegisterITCInput) (*domain.ITCRecord, error)
	ApplyEvent(ctx context.Context, invoiceRef string, ev domain.ITCEvent, at time.Time) (*domain.ITCRecord, error)
	Claim(ctx context.Context, invoiceRef string, asOf time.Time) (*domain.ITCRecord, error)
	Reverse(ctx context.Context, invoiceRef string) (*domain.ITCRecord, error)
	EvaluateAsOf(ctx context.Context, asOf time.Time) (int, error)
	Report(ctx context.Context, asOf time.Time) (*itc.Report, error)
}

type itcService struct {
	itcRepo port.ITCRepository
	tracker *itc.Tracker
}

// NewITCService creates a new ITCService implementation.
func NewITCService(itcRepo port.ITCRepository, tracker *itc.Tracker) ITCService {
	return &itcService{itcRepo: itcRepo, tracker: tracker}
}

func (s *itcService) RegisterInvoice(ctx context.Context, in RegisterITCInput) (*domain.ITCRecord, error) {
	if !validate.ValidGSTIN(in.SupplierGSTIN) {
		return nil, fmt.Errorf("%q: %w", in.SupplierGSTIN, domain.ErrInvalidGSTIN)
	}
	if in.Tax.CGST.IsNegative() || in.Tax.SGST.IsNegative() || in.Tax.IGST.IsNegative() || in.Tax.Cess.IsNegative() {
		return nil, fmt.Errorf("itc for %s: %w", in.InvoiceRef, domain.ErrNegativeAmount)
	}

	rec := &domain.ITCRecord{
		ID:            uuid.New(),
		InvoiceRef:    in.InvoiceRef,
		SupplierGSTIN: in.SupplierGSTIN,
		InvoiceDate:   in.InvoiceDate,
		Tax:           in.Tax,
	}
	s.tracker.Register(rec)
	if err := s.itcRepo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *itcService) ApplyEvent(ctx context.Context, invoiceRef string, ev domain.ITCEvent, at time.Time) (*domain.ITCRecord, error) {
	rec, err := s.itcRepo.GetByInvoiceRef(ctx, invoiceRef)
	if err != nil {
		return nil, err
	}
	if err := s.tracker.ApplyEvent(rec, ev, at); err != nil {
		return nil, err
	}
	if err := s.itcRepo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *itcService) Claim(ctx context.Context, invoiceRef string, asOf time.Time) (*domain.ITCRecord, error) {
	rec, err := s.itcRepo.GetByInvoiceRef(ctx, invoiceRef)
	if err != nil {
		return nil, err
	}
	if err := s.tracker.Claim(rec, asOf); err != nil {
		return nil, err
	}
	if err := s.itcRepo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *itcService) Reverse(ctx context.Context, invoiceRef string) (*domain.ITCRecord, error) {
	rec, err := s.itcRepo.GetByInvoiceRef(ctx, invoiceRef)
	if err != nil {
		return nil, err
	}
	if err := s.tracker.Reverse(rec); err != nil {
		return nil, err
	}
	if err := s.itcRepo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// EvaluateAsOf sweeps every open record against the given date and
// persists the ones whose status changed. Returns how many changed.
func (s *itcService) EvaluateAsOf(ctx context.Context, asOf time.Time) (int, error) {
	open, err := s.itcRepo.ListOpen(ctx)
	if err != nil {
		return 0, err
	}
	changed := 0
	for i := range open {
		rec := &open[i]
		before := *rec
		s.tracker.Evaluate(rec, asOf)
		if rec.Status == before.Status &&
			rec.ClaimStatus == before.ClaimStatus &&
			rec.IsExpired == before.IsExpired &&
			rec.ReversalRequired == before.ReversalRequired {
			continue
		}
		if err := s.itcRepo.Update(ctx, rec); err != nil {
			return changed, fmt.Errorf("persisting %s: %w", rec.InvoiceRef, err)
		}
		changed++
	}
	return changed, nil
}

func (s *itcService) Report(ctx context.Context, asOf time.Time) (*itc.Report, error) {
	open, err := s.itcRepo.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	report := s.tracker.BuildReport(open, asOf)
	return &report, nil
}
