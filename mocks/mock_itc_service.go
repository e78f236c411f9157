package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"taxos/internal/domain"
	"taxos/internal/itc"
	"taxos/internal/service"
)

// MockITCService is a mock implementation of service.ITCService.
type MockITCService struct {
	mock.Mock
}

func (m *MockITCService) RegisterInvoice(ctx context.Context, in service.RegisterITCInput) (*domain.ITCRecord, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ITCRecord), args.Error(1)
}

func (m *MockITCService) ApplyEvent(ctx context.Context, invoiceRef string, ev domain.ITCEvent, at time.Time) (*domain.ITCRecord, error) {
	args := m.Called(ctx, invoiceRef, ev, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ITCRecord), args.Error(1)
}

func (m *MockITCService) Claim(ctx context.Context, invoiceRef string, asOf time.Time) (*domain.ITCRecord, error) {
	args := m.Called(ctx, invoiceRef, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ITCRecord), args.Error(1)
}

func (m *MockITCService) Reverse(ctx context.Context, invoiceRef string) (*domain.ITCRecord, error) {
	args := m.Called(ctx, invoiceRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ITCRecord), args.Error(1)
}

func (m *MockITCService) EvaluateAsOf(ctx context.Context, asOf time.Time) (int, error) {
	args := m.Called(ctx, asOf)
	return args.Int(0), args.Error(1)
}

func (m *MockITCService) Report(ctx context.Context, asOf time.Time) (*itc.Report, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*itc.Report), args.Error(1)
}
