package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxos/internal/domain"
	"taxos/internal/service"
)

// MockTDSService is a mock implementation of service.TDSService.
type MockTDSService struct {
	mock.Mock
}

func (m *MockTDSService) RecordDeduction(ctx context.Context, in service.RecordDeductionInput) (*domain.TDSDeduction, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TDSDeduction), args.Error(1)
}

func (m *MockTDSService) CreateChallan(ctx context.Context, fy string, quarter int) (*domain.TDSChallan, error) {
	args := m.Called(ctx, fy, quarter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TDSChallan), args.Error(1)
}

func (m *MockTDSService) MarkChallanDeposited(ctx context.Context, id uuid.UUID) (*domain.TDSChallan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TDSChallan), args.Error(1)
}

func (m *MockTDSService) IssueCertificate(ctx context.Context, vendorID, fy string, quarter int) (*domain.TDSCertificate, error) {
	args := m.Called(ctx, vendorID, fy, quarter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TDSCertificate), args.Error(1)
}
