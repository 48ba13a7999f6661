package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"invoicer/internal/domain"
)

// InvoiceFilter narrows invoice listings. Zero values match everything.
type InvoiceFilter struct {
	// Query matches invoice number, order number or customer name (case-insensitive).
	Query    string
	Status   domain.FinancialStatus
	ImportID *uuid.UUID
}

// InvoiceRepository defines the contract for invoice persistence.
// Invoice numbers are unique across all invoices. An order may span several
// invoices when rows are imported one invoice per row.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	GetByOrderNo(ctx context.Context, orderNo string) (*domain.Invoice, error)
	List(ctx context.Context, filter InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error)
	ListAll(ctx context.Context, filter InvoiceFilter) ([]domain.Invoice, error)
	Update(ctx context.Context, inv *domain.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	InvoiceNumberExists(ctx context.Context, invoiceNo string) (bool, error)
	OrderExists(ctx context.Context, orderNo string) (bool, error)
}

// SettingsRepository persists the single settings record.
type SettingsRepository interface {
	// Get returns domain.ErrNotFound when settings were never saved.
	Get(ctx context.Context) (*domain.Settings, error)
	Save(ctx context.Context, s *domain.Settings) error
	// AdvanceCounter moves the numbering counter forward to next. It never
	// moves the counter backwards.
	AdvanceCounter(ctx context.Context, next int64) error
}

// ImportRepository records committed imports.
type ImportRepository interface {
	Create(ctx context.Context, batch *domain.ImportBatch) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ImportBatch, error)
	List(ctx context.Context, offset, limit int) ([]domain.ImportBatch, int, error)
	// UpdateCounts corrects a batch's counts after a partial commit.
	UpdateCounts(ctx context.Context, id uuid.UUID, invoiceCount, skippedCount int) error
}

// HSNEntry is one row of the HSN master: a code at any granularity and a GST
// rate allowed for it. A code listed with several rates has one entry per
// rate, told apart by ConditionDesc.
type HSNEntry struct {
	Code          string  `db:"code"`
	Description   string  `db:"description"`
	GSTRate       float64 `db:"gst_rate"`
	ConditionDesc string  `db:"condition_desc"`
}

// HSNRepository reads the HSN master used by the advisory rate checks.
type HSNRepository interface {
	LoadEffective(ctx context.Context, on time.Time) ([]HSNEntry, error)
}
