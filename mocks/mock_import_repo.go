package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"invoicer/internal/domain"
)

// MockImportRepo is a mock implementation of port.ImportRepository.
type MockImportRepo struct {
	mock.Mock
}

func (m *MockImportRepo) Create(ctx context.Context, batch *domain.ImportBatch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockImportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ImportBatch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportBatch), args.Error(1)
}

func (m *MockImportRepo) List(ctx context.Context, offset, limit int) ([]domain.ImportBatch, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ImportBatch), args.Int(1), args.Error(2)
}

func (m *MockImportRepo) UpdateCounts(ctx context.Context, id uuid.UUID, invoiceCount, skippedCount int) error {
	args := m.Called(ctx, id, invoiceCount, skippedCount)
	return args.Error(0)
}
