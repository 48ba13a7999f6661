package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"

	"invoicer/internal/csvexport"
	"invoicer/internal/domain"
	"invoicer/internal/mapper"
	"invoicer/internal/port"
	"invoicer/internal/validator/invoice"
)

// InvoiceDetail is a stored invoice with the advisory findings for its document.
type InvoiceDetail struct {
	Invoice  *domain.Invoice   `json:"invoice"`
	Warnings []invoice.Warning `json:"warnings"`
}

// InvoiceService manages stored invoices.
type InvoiceService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*InvoiceDetail, error)
	List(ctx context.Context, filter port.InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error)
	// Update replaces the invoice document. Totals are taken as given.
	Update(ctx context.Context, id uuid.UUID, data *domain.InvoiceData) (*InvoiceDetail, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Export writes the invoice register as CSV and returns the number of invoices written.
	Export(ctx context.Context, w io.Writer, filter port.InvoiceFilter) (int, error)
}

type invoiceService struct {
	repo      port.InvoiceRepository
	validator *invoice.Validator
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(repo port.InvoiceRepository, validator *invoice.Validator) InvoiceService {
	if validator == nil {
		validator = invoice.NewValidator(nil)
	}
	return &invoiceService{repo: repo, validator: validator}
}

func (s *invoiceService) detail(inv *domain.Invoice) (*InvoiceDetail, error) {
	data, err := inv.Decode()
	if err != nil {
		return nil, err
	}
	return &InvoiceDetail{Invoice: inv, Warnings: s.validator.Warnings(data)}, nil
}

func (s *invoiceService) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceDetail, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(inv)
}

func (s *invoiceService) List(ctx context.Context, filter port.InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error) {
	return s.repo.List(ctx, filter, offset, limit)
}

func (s *invoiceService) Update(ctx context.Context, id uuid.UUID, data *domain.InvoiceData) (*InvoiceDetail, error) {
	if data == nil {
		return nil, domain.ErrInvalidInvoiceData
	}
	data.Metadata.InvoiceNo = strings.TrimSpace(data.Metadata.InvoiceNo)
	data.Metadata.OrderNo = strings.TrimSpace(data.Metadata.OrderNo)
	if data.Metadata.InvoiceNo == "" {
		return nil, fmt.Errorf("%w: metadata.invoice_no is required", domain.ErrInvalidInvoiceData)
	}
	if data.Metadata.OrderNo == "" {
		return nil, fmt.Errorf("%w: metadata.order_no is required", domain.ErrInvalidInvoiceData)
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	data.AmountInWords = mapper.AmountInWords(data.TaxSummary.TotalAmountAfterTax)

	updated, err := domain.NewInvoice(data, existing.ImportID)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, err
	}
	log.Printf("invoiceService.Update: invoice %s (%s) updated", updated.ID, updated.InvoiceNo)
	return s.detail(updated)
}

func (s *invoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("invoiceService.Delete: invoice %s deleted", id)
	return nil
}

func (s *invoiceService) Export(ctx context.Context, w io.Writer, filter port.InvoiceFilter) (int, error) {
	invoices, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		return 0, err
	}

	if _, err := w.Write(csvexport.BOM); err != nil {
		return 0, fmt.Errorf("writing BOM: %w", err)
	}
	cw := csvexport.NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return 0, fmt.Errorf("writing CSV header: %w", err)
	}
	if err := cw.WriteInvoices(invoices); err != nil {
		return 0, fmt.Errorf("writing CSV rows: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flushing CSV: %w", err)
	}
	return len(invoices), nil
}
