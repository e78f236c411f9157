package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"taxos/internal/domain"
)

// MockITCRepo is a mock implementation of port.ITCRepository.
type MockITCRepo struct {
	mock.Mock
}

func (m *MockITCRepo) Create(ctx context.Context, rec *domain.ITCRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockITCRepo) GetByInvoiceRef(ctx context.Context, ref string) (*domain.ITCRecord, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ITCRecord), args.Error(1)
}

func (m *MockITCRepo) Update(ctx context.Context, rec *domain.ITCRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockITCRepo) ListOpen(ctx context.Context) ([]domain.ITCRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ITCRecord), args.Error(1)
}

func (m *MockITCRepo) ListReversalDue(ctx context.Context) ([]domain.ITCRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ITCRecord), args.Error(1)
}
