package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoicer/internal/domain"
)

// MockSettingsRepo is a mock implementation of port.SettingsRepository.
type MockSettingsRepo struct {
	mock.Mock
}

func (m *MockSettingsRepo) Get(ctx context.Context) (*domain.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settings), args.Error(1)
}

func (m *MockSettingsRepo) Save(ctx context.Context, s *domain.Settings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSettingsRepo) AdvanceCounter(ctx context.Context, next int64) error {
	args := m.Called(ctx, next)
	return args.Error(0)
}
