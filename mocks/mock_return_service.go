package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"taxos/internal/domain"
	"taxos/internal/service"
)

// MockReturnService is a mock implementation of service.ReturnService.
type MockReturnService struct {
	mock.Mock
}

func (m *MockReturnService) GenerateGSTR1(ctx context.Context, gstin string, period time.Time, invoices []domain.OutwardInvoice) (*service.GenerateResult, error) {
	args := m.Called(ctx, gstin, period, invoices)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GenerateResult), args.Error(1)
}

func (m *MockReturnService) GenerateGSTR3B(ctx context.Context, gstin string, period time.Time, outward []domain.OutwardInvoice, inward []domain.InwardSupply) (*service.GenerateResult, error) {
	args := m.Called(ctx, gstin, period, outward, inward)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GenerateResult), args.Error(1)
}

func (m *MockReturnService) ValidateReturn(ctx context.Context, gstin string, rt domain.ReturnType, period string) (*domain.PeriodReturn, error) {
	args := m.Called(ctx, gstin, rt, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodReturn), args.Error(1)
}

func (m *MockReturnService) MarkFiled(ctx context.Context, gstin string, rt domain.ReturnType, period string) (*domain.PeriodReturn, error) {
	args := m.Called(ctx, gstin, rt, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodReturn), args.Error(1)
}

func (m *MockReturnService) Get(ctx context.Context, gstin string, rt domain.ReturnType, period string) (*domain.PeriodReturn, error) {
	args := m.Called(ctx, gstin, rt, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodReturn), args.Error(1)
}

func (m *MockReturnService) List(ctx context.Context, gstin string, offset, limit int) ([]domain.PeriodReturn, int, error) {
	args := m.Called(ctx, gstin, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.PeriodReturn), args.Int(1), args.Error(2)
}
