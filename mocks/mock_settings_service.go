package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoicer/internal/domain"
)

// MockSettingsService is a mock implementation of service.SettingsService.
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get(ctx context.Context) (*domain.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settings), args.Error(1)
}

func (m *MockSettingsService) Update(ctx context.Context, s *domain.Settings) (*domain.Settings, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settings), args.Error(1)
}

func (m *MockSettingsService) AdvanceCounter(ctx context.Context, next int64) error {
	args := m.Called(ctx, next)
	return args.Error(0)
}
