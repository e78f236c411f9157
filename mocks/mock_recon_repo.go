package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxos/internal/domain"
)

// MockReconRepo is a mock implementation of port.ReconRepository.
type MockReconRepo struct {
	mock.Mock
}

func (m *MockReconRepo) CreateRun(ctx context.Context, run *domain.ReconRun, units []domain.ReconUnit) error {
	args := m.Called(ctx, run, units)
	return args.Error(0)
}

func (m *MockReconRepo) GetRun(ctx context.Context, id uuid.UUID) (*domain.ReconRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconRun), args.Error(1)
}

func (m *MockReconRepo) ListUnits(ctx context.Context, runID uuid.UUID, status domain.MatchStatus) ([]domain.ReconUnit, error) {
	args := m.Called(ctx, runID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconUnit), args.Error(1)
}
