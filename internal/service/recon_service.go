package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"taxos/internal/csvexport"
	"taxos/internal/domain"
	"taxos/internal/fiscal"
	"taxos/internal/port"
	"taxos/internal/recon"
	"taxos/internal/validate"
)

// ReconResult is a persisted run together with its units.
type ReconResult struct {
	Run   *domain.ReconRun   `json:"run"`
	Units []domain.ReconUnit `json:"units"`
}

// ReconService runs and stores books-versus-feed reconciliations.
type ReconService interface {
	RunReconciliation(ctx context.Context, gstin string, period time.Time, books, feed []domain.ReconRecord) (*ReconResult, error)
	GetRun(ctx context.Context, id uuid.UUID) (*ReconResult, error)
	ListUnits(ctx context.Context, runID uuid.UUID, status domain.MatchStatus) ([]domain.ReconUnit, error)
	ExportCSV(ctx context.Context, runID uuid.UUID, w io.Writer) error
}

type reconService struct {
	reconRepo port.ReconRepository
	matcher   *recon.Matcher
}

// NewReconService creates a new ReconService implementation.
func NewReconService(reconRepo port.ReconRepository, matcher *recon.Matcher) ReconService {
	return &reconService{reconRepo: reconRepo, matcher: matcher}
}

func (s *reconService) RunReconciliation(ctx context.Context, gstin string, period time.Time, books, feed []domain.ReconRecord) (*ReconResult, error) {
	if !validate.ValidGSTIN(gstin) {
		return nil, fmt.Errorf("%q: %w", gstin, domain.ErrInvalidGSTIN)
	}

	runID := uuid.New()
	result, err := s.matcher.Run(ctx, runID, books, feed)
	if err != nil {
		return nil, err
	}

	summary, err := result.SummaryJSON()
	if err != nil {
		return nil, fmt.Errorf("encoding recon summary: %w", err)
	}
	run := &domain.ReconRun{
		ID:        runID,
		GSTIN:     gstin,
		Period:    fiscal.ReturnPeriod(period),
		Tolerance: s.matcher.Tolerance(),
		Summary:   summary,
	}
	if err := s.reconRepo.CreateRun(ctx, run, result.Units); err != nil {
		return nil, fmt.Errorf("persisting recon run: %w", err)
	}
	return &ReconResult{Run: run, Units: result.Units}, nil
}

func (s *reconService) GetRun(ctx context.Context, id uuid.UUID) (*ReconResult, error) {
	run, err := s.reconRepo.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	units, err := s.reconRepo.ListUnits(ctx, id, "")
	if err != nil {
		return nil, err
	}
	return &ReconResult{Run: run, Units: units}, nil
}

func (s *reconService) ListUnits(ctx context.Context, runID uuid.UUID, status domain.MatchStatus) ([]domain.ReconUnit, error) {
	if _, err := s.reconRepo.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	return s.reconRepo.ListUnits(ctx, runID, status)
}

func (s *reconService) ExportCSV(ctx context.Context, runID uuid.UUID, w io.Writer) error {
	units, err := s.ListUnits(ctx, runID, "")
	if err != nil {
		return err
	}
	if _, err := w.Write(csvexport.BOM); err != nil {
		return err
	}
	cw := csvexport.NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	if err := cw.WriteUnits(units); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
