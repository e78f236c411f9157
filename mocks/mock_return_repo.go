package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"taxos/internal/domain"
)

// MockReturnRepo is a mock implementation of port.ReturnRepository.
type MockReturnRepo struct {
	mock.Mock
}

func (m *MockReturnRepo) Upsert(ctx context.Context, ret *domain.PeriodReturn) error {
	args := m.Called(ctx, ret)
	return args.Error(0)
}

func (m *MockReturnRepo) Get(ctx context.Context, gstin string, rt domain.ReturnType, period string) (*domain.PeriodReturn, error) {
	args := m.Called(ctx, gstin, rt, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodReturn), args.Error(1)
}

func (m *MockReturnRepo) UpdateStatus(ctx context.Context, gstin string, rt domain.ReturnType, period string, status domain.ReturnStatus) error {
	args := m.Called(ctx, gstin, rt, period, status)
	return args.Error(0)
}

func (m *MockReturnRepo) ListByGSTIN(ctx context.Context, gstin string, offset, limit int) ([]domain.PeriodReturn, int, error) {
	args := m.Called(ctx, gstin, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.PeriodReturn), args.Int(1), args.Error(2)
}
