package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"invoicer/internal/domain"
	"invoicer/internal/port"
	"invoicer/internal/service"
)

// MockInvoiceService is a mock implementation of service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*service.InvoiceDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InvoiceDetail), args.Error(1)
}

func (m *MockInvoiceService) List(ctx context.Context, filter port.InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error) {
	args := m.Called(ctx, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), args.Int(1), args.Error(2)
}

func (m *MockInvoiceService) Update(ctx context.Context, id uuid.UUID, data *domain.InvoiceData) (*service.InvoiceDetail, error) {
	args := m.Called(ctx, id, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InvoiceDetail), args.Error(1)
}

func (m *MockInvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Export writes the configured "body" argument to w when one is set.
func (m *MockInvoiceService) Export(ctx context.Context, w io.Writer, filter port.InvoiceFilter) (int, error) {
	args := m.Called(ctx, w, filter)
	if body, ok := args.Get(0).(string); ok {
		_, _ = io.WriteString(w, body)
	}
	return args.Int(1), args.Error(2)
}
