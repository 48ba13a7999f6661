package postgres

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"invoicer/internal/domain"
	"invoicer/internal/port"
)

func TestBuildInvoiceWhere(t *testing.T) {
	t.Run("empty filter", func(t *testing.T) {
		clause, args := buildInvoiceWhere(port.InvoiceFilter{})
		assert.Empty(t, clause)
		assert.Empty(t, args)
	})

	t.Run("blank query is ignored", func(t *testing.T) {
		clause, args := buildInvoiceWhere(port.InvoiceFilter{Query: "   "})
		assert.Empty(t, clause)
		assert.Empty(t, args)
	})

	t.Run("all conditions", func(t *testing.T) {
		id := uuid.New()
		clause, args := buildInvoiceWhere(port.InvoiceFilter{
			Query:    " 1001 ",
			Status:   domain.FinancialStatusPaid,
			ImportID: &id,
		})
		assert.Equal(t,
			"WHERE (invoice_no ILIKE $1 OR order_no ILIKE $1 OR customer_name ILIKE $1) AND financial_status = $2 AND import_id = $3",
			clause)
		assert.Equal(t, []interface{}{"%1001%", domain.FinancialStatusPaid, id}, args)
	})

	t.Run("placeholders follow argument order", func(t *testing.T) {
		id := uuid.New()
		clause, args := buildInvoiceWhere(port.InvoiceFilter{ImportID: &id})
		assert.Equal(t, "WHERE import_id = $1", clause)
		assert.Len(t, args, 1)
	})
}

func TestMapUniqueViolation(t *testing.T) {
	err := errors.New(`ERROR: duplicate key value violates unique constraint "invoices_invoice_no_key" (SQLSTATE 23505)`)
	assert.ErrorIs(t, mapUniqueViolation(err), domain.ErrDuplicateInvoiceNumber)

	other := errors.New(`ERROR: duplicate key value violates unique constraint "invoices_pkey" (SQLSTATE 23505)`)
	assert.NoError(t, mapUniqueViolation(other))
}
