package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"invoicer/internal/domain"
	"invoicer/internal/service"
)

// MockImportService is a mock implementation of service.ImportService.
type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) Preview(ctx context.Context, input service.ImportInput) (*service.PreviewResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PreviewResult), args.Error(1)
}

func (m *MockImportService) Commit(ctx context.Context, input service.ImportInput) (*service.CommitResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CommitResult), args.Error(1)
}

func (m *MockImportService) ListBatches(ctx context.Context, offset, limit int) ([]domain.ImportBatch, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ImportBatch), args.Int(1), args.Error(2)
}

func (m *MockImportService) GetBatch(ctx context.Context, id uuid.UUID) (*domain.ImportBatch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportBatch), args.Error(1)
}

func (m *MockImportService) GetSourceURL(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
