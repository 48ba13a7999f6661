package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Invoice is the persisted form of an InvoiceData. The searchable header fields are
// denormalised next to the full JSON document.
type Invoice struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	InvoiceNo       string          `db:"invoice_no" json:"invoice_no"`
	OrderNo         string          `db:"order_no" json:"order_no"`
	CustomerName    string          `db:"customer_name" json:"customer_name"`
	InvoiceDate     string          `db:"invoice_date" json:"invoice_date"`
	FinancialStatus FinancialStatus `db:"financial_status" json:"financial_status"`
	TotalAmount     float64         `db:"total_amount" json:"total_amount"`
	Data            json.RawMessage `db:"data" json:"data"`
	ImportID        *uuid.UUID      `db:"import_id" json:"import_id"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// NewInvoice builds a persistable Invoice from mapped invoice data.
func NewInvoice(data *InvoiceData, importID *uuid.UUID) (*Invoice, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding invoice data: %w", err)
	}
	return &Invoice{
		ID:              uuid.New(),
		InvoiceNo:       data.Metadata.InvoiceNo,
		OrderNo:         data.Metadata.OrderNo,
		CustomerName:    data.BillToParty.Name,
		InvoiceDate:     data.Metadata.InvoiceDate,
		FinancialStatus: data.Metadata.FinancialStatus,
		TotalAmount:     data.TaxSummary.TotalAmountAfterTax,
		Data:            raw,
		ImportID:        importID,
	}, nil
}

// Decode unmarshals the stored JSON document.
func (i *Invoice) Decode() (*InvoiceData, error) {
	var data InvoiceData
	if err := json.Unmarshal(i.Data, &data); err != nil {
		return nil, fmt.Errorf("decoding invoice %s: %w", i.ID, err)
	}
	return &data, nil
}

// ImportBatch records one committed order export upload.
type ImportBatch struct {
	ID           uuid.UUID    `db:"id" json:"id"`
	FileName     string       `db:"file_name" json:"file_name"`
	SourceType   SourceType   `db:"source_type" json:"source_type"`
	GroupingMode GroupingMode `db:"grouping_mode" json:"grouping_mode"`
	S3Bucket     string       `db:"s3_bucket" json:"s3_bucket"`
	S3Key        string       `db:"s3_key" json:"s3_key"`
	RowCount     int          `db:"row_count" json:"row_count"`
	InvoiceCount int          `db:"invoice_count" json:"invoice_count"`
	SkippedCount int          `db:"skipped_count" json:"skipped_count"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}

// Settings holds the seller details and invoice numbering configuration.
type Settings struct {
	Business   BusinessDetails   `json:"business"`
	Numbering  NumberingSettings `json:"numbering"`
	DefaultHSN string            `json:"default_hsn"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// NumberingSettings drives invoice number allocation. When OrderMapping is set,
// invoice numbers are derived from order numbers; otherwise NextNumber is issued
// and advanced.
type NumberingSettings struct {
	Prefix       string        `json:"prefix"`
	NextNumber   int64         `json:"next_number"`
	OrderMapping *OrderMapping `json:"order_mapping,omitempty"`
}

// OrderMapping anchors the linear order-number to invoice-number mapping.
type OrderMapping struct {
	StartingOrderNumber   int64 `json:"starting_order_number"`
	StartingInvoiceNumber int64 `json:"starting_invoice_number"`
}
