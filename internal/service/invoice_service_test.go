package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invoicer/internal/domain"
	"invoicer/internal/port"
	"invoicer/internal/service"
	"invoicer/mocks"
)

func storedInvoice(t *testing.T) *domain.Invoice {
	t.Helper()
	importID := uuid.New()
	inv, err := domain.NewInvoice(&domain.InvoiceData{
		Metadata:    domain.InvoiceMetadata{InvoiceNo: "INV-7", OrderNo: "#1002", InvoiceDate: "06-03-2024"},
		BillToParty: domain.PartyDetails{Name: "Ravi"},
		LineItems:   []domain.LineItem{{SNo: 1, ItemName: "Bangle", Quantity: 2, RatePerItem: 200, TaxableAmount: 400, Total: 412}},
		TaxSummary:  domain.TaxSummary{TotalTaxableAmount: 400, TotalTaxAmount: 12, TotalAmountAfterTax: 412},
	}, &importID)
	require.NoError(t, err)
	return inv
}

func TestInvoiceService_GetByID(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	svc := service.NewInvoiceService(repo, nil)
	inv := storedInvoice(t)
	repo.On("GetByID", mock.Anything, inv.ID).Return(inv, nil)

	detail, err := svc.GetByID(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Same(t, inv, detail.Invoice)
	assert.NotEmpty(t, detail.Warnings)
}

func TestInvoiceService_GetByID_NotFound(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	svc := service.NewInvoiceService(repo, nil)
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrInvoiceNotFound)

	_, err := svc.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

func TestInvoiceService_Update(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	svc := service.NewInvoiceService(repo, nil)
	existing := storedInvoice(t)
	repo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.ID == existing.ID && inv.InvoiceNo == "INV-7A" && inv.TotalAmount == 500 &&
			inv.ImportID != nil && *inv.ImportID == *existing.ImportID
	})).Return(nil)

	data, err := existing.Decode()
	require.NoError(t, err)
	data.Metadata.InvoiceNo = " INV-7A "
	data.TaxSummary.TotalAmountAfterTax = 500

	detail, err := svc.Update(context.Background(), existing.ID, data)
	require.NoError(t, err)
	assert.Equal(t, "INV-7A", detail.Invoice.InvoiceNo)

	updated, err := detail.Invoice.Decode()
	require.NoError(t, err)
	assert.Equal(t, "Five Hundred Rupees Only", updated.AmountInWords)
	repo.AssertExpectations(t)
}

func TestInvoiceService_Update_Invalid(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	svc := service.NewInvoiceService(repo, nil)

	_, err := svc.Update(context.Background(), uuid.New(), &domain.InvoiceData{})
	assert.ErrorIs(t, err, domain.ErrInvalidInvoiceData)

	_, err = svc.Update(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInvoiceData)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestInvoiceService_Update_DuplicateNumber(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	svc := service.NewInvoiceService(repo, nil)
	existing := storedInvoice(t)
	repo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(domain.ErrDuplicateInvoiceNumber)

	data, err := existing.Decode()
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), existing.ID, data)
	assert.ErrorIs(t, err, domain.ErrDuplicateInvoiceNumber)
}

func TestInvoiceService_Delete(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	svc := service.NewInvoiceService(repo, nil)
	id := uuid.New()
	repo.On("Delete", mock.Anything, id).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), id))
	repo.AssertExpectations(t)
}

func TestInvoiceService_Export(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	svc := service.NewInvoiceService(repo, nil)
	filter := port.InvoiceFilter{Status: domain.FinancialStatusPaid}
	repo.On("ListAll", mock.Anything, filter).Return([]domain.Invoice{*storedInvoice(t)}, nil)

	var buf bytes.Buffer
	n, err := svc.Export(context.Background(), &buf, filter)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\ufeff"))
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(out, "\ufeff")), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "INV-7")
	assert.Contains(t, lines[1], "#1002")
}

func TestInvoiceService_Export_RepoError(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	svc := service.NewInvoiceService(repo, nil)
	repo.On("ListAll", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	var buf bytes.Buffer
	_, err := svc.Export(context.Background(), &buf, port.InvoiceFilter{})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}
