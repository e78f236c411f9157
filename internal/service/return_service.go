package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taxos/internal/domain"
	"taxos/internal/fiscal"
	"taxos/internal/gst"
	"taxos/internal/port"
	"taxos/internal/validate"
)

// GenerateResult carries a generated return together with the input
// records rejected during validation. Rejections do not fail the batch.
type GenerateResult struct {
	Return   *domain.PeriodReturn `json:"return"`
	Rejected []domain.RecordError `json:"rejected,omitempty"`
}

// ReturnService generates, validates and files periodic returns.
type ReturnService interface {
	GenerateGSTR1(ctx context.Context, gstin string, period time.Time, invoices []domain.OutwardInvoice) (*GenerateResult, error)
	GenerateGSTR3B(ctx context.Context, gstin string, period time.Time, outward []domain.OutwardInvoice, inward []domain.InwardSupply) (*GenerateResult, error)
	ValidateReturn(ctx context.Context, gstin string, rt domain.ReturnType, period string) (*domain.PeriodReturn, error)
	MarkFiled(ctx context.Context, gstin string, rt domain.ReturnType, period string) (*domain.PeriodReturn, error)
	Get(ctx context.Context, gstin string, rt domain.ReturnType, period string) (*domain.PeriodReturn, error)
	List(ctx context.Context, gstin string, offset, limit int) ([]domain.PeriodReturn, int, error)
}

type returnService struct {
	returnRepo port.ReturnRepository
	itcRepo    port.ITCRepository
	classifier *gst.Classifier
	locks      *keyedMutex
}

// NewReturnService creates a new ReturnService implementation.
func NewReturnService(returnRepo port.ReturnRepository, itcRepo port.ITCRepository, classifier *gst.Classifier) ReturnService {
	return &returnService{
		returnRepo: returnRepo,
		itcRepo:    itcRepo,
		classifier: classifier,
		locks:      newKeyedMutex(),
	}
}

func lockKey(gstin string, rt domain.ReturnType, period string) string {
	return gstin + "|" + string(rt) + "|" + period
}

// guardRegeneration checks the stored return, if any, allows another
// generation pass. Filed periods are frozen.
func (s *returnService) guardRegeneration(ctx context.Context, gstin string, rt domain.ReturnType, period string) error {
	existing, err := s.returnRepo.Get(ctx, gstin, rt, period)
	if err != nil {
		if err == domain.ErrReturnNotFound {
			return nil
		}
		return err
	}
	if existing.Status == domain.ReturnStatusFiled || existing.Status == domain.ReturnStatusSubmitted {
		return fmt.Errorf("%s %s for %s: %w", rt, period, gstin, domain.ErrPeriodAlreadyFiled)
	}
	return nil
}

func (s *returnService) GenerateGSTR1(ctx context.Context, gstin string, period time.Time, invoices []domain.OutwardInvoice) (*GenerateResult, error) {
	if !validate.ValidGSTIN(gstin) {
		return nil, fmt.Errorf("%q: %w", gstin, domain.ErrInvalidGSTIN)
	}
	retPeriod := fiscal.ReturnPeriod(period)

	unlock := s.locks.Lock(lockKey(gstin, domain.ReturnTypeGSTR1, retPeriod))
	defer unlock()

	if err := s.guardRegeneration(ctx, gstin, domain.ReturnTypeGSTR1, retPeriod); err != nil {
		return nil, err
	}

	accepted, rejected := validate.Batch(invoices)
	classified, classErrs := s.classifier.ClassifyBatch(accepted)
	rejected = append(rejected, classErrs...)

	payload := gst.NewGSTR1Builder(gstin, period).Build(classified)
	return s.store(ctx, gstin, domain.ReturnTypeGSTR1, retPeriod, period, payload, rejected)
}

func (s *returnService) GenerateGSTR3B(ctx context.Context, gstin string, period time.Time, outward []domain.OutwardInvoice, inward []domain.InwardSupply) (*GenerateResult, error) {
	if !validate.ValidGSTIN(gstin) {
		return nil, fmt.Errorf("%q: %w", gstin, domain.ErrInvalidGSTIN)
	}
	retPeriod := fiscal.ReturnPeriod(period)

	unlock := s.locks.Lock(lockKey(gstin, domain.ReturnTypeGSTR3B, retPeriod))
	defer unlock()

	if err := s.guardRegeneration(ctx, gstin, domain.ReturnTypeGSTR3B, retPeriod); err != nil {
		return nil, err
	}

	accepted, rejected := validate.Batch(outward)
	classified, classErrs := s.classifier.ClassifyBatch(accepted)
	rejected = append(rejected, classErrs...)

	reversals, err := s.pendingReversals(ctx)
	if err != nil {
		return nil, err
	}

	payload := gst.NewGSTR3BBuilder(gstin, period).Build(classified, inward, reversals)
	return s.store(ctx, gstin, domain.ReturnTypeGSTR3B, retPeriod, period, payload, rejected)
}

// pendingReversals sums the tax heads of every credit record flagged for
// mandatory reversal, feeding table 4(B) of the summary return.
func (s *returnService) pendingReversals(ctx context.Context) (domain.TaxHeads, error) {
	due, err := s.itcRepo.ListReversalDue(ctx)
	if err != nil {
		return domain.TaxHeads{}, fmt.Errorf("loading pending reversals: %w", err)
	}
	var heads domain.TaxHeads
	for i := range due {
		heads = heads.Add(due[i].Tax)
	}
	return heads, nil
}

func (s *returnService) store(
	ctx context.Context,
	gstin string,
	rt domain.ReturnType,
	retPeriod string,
	period time.Time,
	payload interface{},
	rejected []domain.RecordError,
) (*GenerateResult, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", rt, err)
	}
	ret := &domain.PeriodReturn{
		ID:            uuid.New(),
		GSTIN:         gstin,
		ReturnType:    rt,
		Period:        retPeriod,
		FinancialYear: fiscal.FinancialYear(period),
		Status:        domain.ReturnStatusGenerated,
		Payload:       raw,
	}
	if err := s.returnRepo.Upsert(ctx, ret); err != nil {
		return nil, err
	}
	return &GenerateResult{Return: ret, Rejected: rejected}, nil
}

func (s *returnService) ValidateReturn(ctx context.Context, gstin string, rt domain.ReturnType, period string) (*domain.PeriodReturn, error) {
	ret, err := s.returnRepo.Get(ctx, gstin, rt, period)
	if err != nil {
		return nil, err
	}
	if !ret.Status.CanTransition(domain.ReturnStatusValidated) {
		return nil, fmt.Errorf("%s -> %s: %w", ret.Status, domain.ReturnStatusValidated, domain.ErrInvalidTransition)
	}
	if err := checkPayload(rt, ret.Payload); err != nil {
		if uerr := s.returnRepo.UpdateStatus(ctx, gstin, rt, period, domain.ReturnStatusError); uerr != nil {
			return nil, uerr
		}
		return nil, err
	}
	if err := s.returnRepo.UpdateStatus(ctx, gstin, rt, period, domain.ReturnStatusValidated); err != nil {
		return nil, err
	}
	ret.Status = domain.ReturnStatusValidated
	return ret, nil
}

// checkPayload re-derives the payload's aggregate totals from its own
// sections and rejects any drift. A payload that fails its own arithmetic
// must never reach filing.
func checkPayload(rt domain.ReturnType, raw json.RawMessage) error {
	switch rt {
	case domain.ReturnTypeGSTR1:
		var p gst.GSTR1Payload
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("decoding stored GSTR-1: %w", err)
		}
		return p.CheckTotals()
	case domain.ReturnTypeGSTR3B:
		var p gst.GSTR3BPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("decoding stored GSTR-3B: %w", err)
		}
		return p.CheckTotals()
	default:
		return fmt.Errorf("unknown return type %q", rt)
	}
}

func (s *returnService) MarkFiled(ctx context.Context, gstin string, rt domain.ReturnType, period string) (*domain.PeriodReturn, error) {
	ret, err := s.returnRepo.Get(ctx, gstin, rt, period)
	if err != nil {
		return nil, err
	}
	// Filing walks the remaining lifecycle one step at a time so no state
	// is skipped.
	for ret.Status != domain.ReturnStatusFiled {
		next := domain.ReturnStatusSubmitted
		if ret.Status == domain.ReturnStatusSubmitted {
			next = domain.ReturnStatusFiled
		}
		if !ret.Status.CanTransition(next) {
			return nil, fmt.Errorf("%s -> %s: %w", ret.Status, next, domain.ErrInvalidTransition)
		}
		if err := s.returnRepo.UpdateStatus(ctx, gstin, rt, period, next); err != nil {
			return nil, err
		}
		ret.Status = next
	}
	return ret, nil
}

func (s *returnService) Get(ctx context.Context, gstin string, rt domain.ReturnType, period string) (*domain.PeriodReturn, error) {
	return s.returnRepo.Get(ctx, gstin, rt, period)
}

func (s *returnService) List(ctx context.Context, gstin string, offset, limit int) ([]domain.PeriodReturn, int, error) {
	return s.returnRepo.ListByGSTIN(ctx, gstin, offset, limit)
}
