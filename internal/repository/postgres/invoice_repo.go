package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"invoicer/internal/domain"
	"invoicer/internal/port"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

// mapUniqueViolation translates unique constraint failures into domain errors.
// Order numbers are indexed but not unique: row grouping stores one invoice per
// row of the same order.
func mapUniqueViolation(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "duplicate key") && strings.Contains(msg, "invoices_invoice_no_key") {
		return domain.ErrDuplicateInvoiceNumber
	}
	return nil
}

func (r *invoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	query := `INSERT INTO invoices (
		id, invoice_no, order_no, customer_name, invoice_date,
		financial_status, total_amount, data, import_id,
		created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9,
		$10, $11
	)`

	_, err := r.db.ExecContext(ctx, query,
		inv.ID, inv.InvoiceNo, inv.OrderNo, inv.CustomerName, inv.InvoiceDate,
		inv.FinancialStatus, inv.TotalAmount, inv.Data, inv.ImportID,
		inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		if derr := mapUniqueViolation(err); derr != nil {
			return derr
		}
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv, "SELECT * FROM invoices WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	return &inv, nil
}

func (r *invoiceRepo) GetByOrderNo(ctx context.Context, orderNo string) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv,
		"SELECT * FROM invoices WHERE order_no = $1 ORDER BY created_at LIMIT 1", orderNo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByOrderNo: %w", err)
	}
	return &inv, nil
}

// buildInvoiceWhere constructs the WHERE clause for invoice listings and the
// positional arguments it references.
func buildInvoiceWhere(filter port.InvoiceFilter) (clause string, args []interface{}) {
	var conds []string
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(invoice_no ILIKE $%d OR order_no ILIKE $%d OR customer_name ILIKE $%d)", n, n, n))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("financial_status = $%d", len(args)))
	}
	if filter.ImportID != nil {
		args = append(args, *filter.ImportID)
		conds = append(conds, fmt.Sprintf("import_id = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func (r *invoiceRepo) List(ctx context.Context, filter port.InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error) {
	where, args := buildInvoiceWhere(filter)

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM invoices "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List count: %w", err)
	}

	query := fmt.Sprintf(`SELECT * FROM invoices %s
		ORDER BY created_at DESC, invoice_no DESC LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	var invoices []domain.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, append(args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List: %w", err)
	}
	return invoices, total, nil
}

func (r *invoiceRepo) ListAll(ctx context.Context, filter port.InvoiceFilter) ([]domain.Invoice, error) {
	where, args := buildInvoiceWhere(filter)
	var invoices []domain.Invoice
	err := r.db.SelectContext(ctx, &invoices,
		"SELECT * FROM invoices "+where+" ORDER BY created_at ASC, invoice_no ASC", args...)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListAll: %w", err)
	}
	return invoices, nil
}

func (r *invoiceRepo) Update(ctx context.Context, inv *domain.Invoice) error {
	inv.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET
			invoice_no = $1, order_no = $2, customer_name = $3, invoice_date = $4,
			financial_status = $5, total_amount = $6, data = $7, updated_at = $8
		 WHERE id = $9`,
		inv.InvoiceNo, inv.OrderNo, inv.CustomerName, inv.InvoiceDate,
		inv.FinancialStatus, inv.TotalAmount, inv.Data, inv.UpdatedAt,
		inv.ID)
	if err != nil {
		if derr := mapUniqueViolation(err); derr != nil {
			return derr
		}
		return fmt.Errorf("invoiceRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM invoices WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepo) InvoiceNumberExists(ctx context.Context, invoiceNo string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM invoices WHERE invoice_no = $1)", invoiceNo)
	if err != nil {
		return false, fmt.Errorf("invoiceRepo.InvoiceNumberExists: %w", err)
	}
	return exists, nil
}

func (r *invoiceRepo) OrderExists(ctx context.Context, orderNo string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM invoices WHERE order_no = $1)", orderNo)
	if err != nil {
		return false, fmt.Errorf("invoiceRepo.OrderExists: %w", err)
	}
	return exists, nil
}
