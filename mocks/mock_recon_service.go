package mocks

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxos/internal/domain"
	"taxos/internal/service"
)

// MockReconService is a mock implementation of service.ReconService.
type MockReconService struct {
	mock.Mock
}

func (m *MockReconService) RunReconciliation(ctx context.Context, gstin string, period time.Time, books, feed []domain.ReconRecord) (*service.ReconResult, error) {
	args := m.Called(ctx, gstin, period, books, feed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReconResult), args.Error(1)
}

func (m *MockReconService) GetRun(ctx context.Context, id uuid.UUID) (*service.ReconResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReconResult), args.Error(1)
}

func (m *MockReconService) ListUnits(ctx context.Context, runID uuid.UUID, status domain.MatchStatus) ([]domain.ReconUnit, error) {
	args := m.Called(ctx, runID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconUnit), args.Error(1)
}

func (m *MockReconService) ExportCSV(ctx context.Context, runID uuid.UUID, w io.Writer) error {
	args := m.Called(ctx, runID, w)
	return args.Error(0)
}
