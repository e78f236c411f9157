package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxos/internal/domain"
)

// MockTDSRepo is a mock implementation of port.TDSRepository.
type MockTDSRepo struct {
	mock.Mock
}

func (m *MockTDSRepo) CreateDeduction(ctx context.Context, d *domain.TDSDeduction) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockTDSRepo) ListUnlinked(ctx context.Context, fy string, quarter int) ([]domain.TDSDeduction, error) {
	args := m.Called(ctx, fy, quarter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TDSDeduction), args.Error(1)
}

func (m *MockTDSRepo) ListForVendor(ctx context.Context, vendorID, fy string, quarter int) ([]domain.TDSDeduction, error) {
	args := m.Called(ctx, vendorID, fy, quarter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TDSDeduction), args.Error(1)
}

func (m *MockTDSRepo) NextChallanSeq(ctx context.Context, fy string, quarter int) (int, error) {
	args := m.Called(ctx, fy, quarter)
	return args.Int(0), args.Error(1)
}

func (m *MockTDSRepo) CreateChallan(ctx context.Context, ch *domain.TDSChallan) error {
	args := m.Called(ctx, ch)
	return args.Error(0)
}

func (m *MockTDSRepo) GetChallan(ctx context.Context, id uuid.UUID) (*domain.TDSChallan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TDSChallan), args.Error(1)
}

func (m *MockTDSRepo) MarkDeposited(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTDSRepo) DepositedChallanNumbers(ctx context.Context, fy string, quarter int) (map[string]bool, error) {
	args := m.Called(ctx, fy, quarter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockTDSRepo) NextCertificateSeq(ctx context.Context, fy string, quarter int) (int, error) {
	args := m.Called(ctx, fy, quarter)
	return args.Int(0), args.Error(1)
}

func (m *MockTDSRepo) CreateCertificate(ctx context.Context, cert *domain.TDSCertificate) error {
	args := m.Called(ctx, cert)
	return args.Error(0)
}
