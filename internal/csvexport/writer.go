package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"invoicer/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the invoice register header row (20 columns).
var columns = []string{
	"Invoice Number",
	"Invoice Date",
	"Order Number",
	"Order Date",
	"Financial Status",
	"Place of Supply",
	"Customer Name",
	"Customer GSTIN",
	"Customer State",
	"Customer State Code",
	"Line Item Count",
	"Taxable Amount",
	"CGST",
	"SGST",
	"IGST",
	"Tax Amount",
	"Discount",
	"Total",
	"Amount in Words",
	"Created At",
}

// Writer wraps csv.Writer for exporting the invoice register.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the 20-column header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteInvoices converts a batch of invoices to CSV rows and writes them.
func (w *Writer) WriteInvoices(invs []domain.Invoice) error {
	for i := range invs {
		if err := w.csv.Write(invoiceToRow(&invs[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// invoiceToRow converts one invoice to a 20-element row. When the stored
// document cannot be decoded only the denormalised columns are filled.
func invoiceToRow(inv *domain.Invoice) []string {
	row := make([]string, len(columns))

	row[0] = inv.InvoiceNo
	row[1] = inv.InvoiceDate
	row[2] = inv.OrderNo
	row[4] = string(inv.FinancialStatus)
	row[6] = inv.CustomerName
	row[17] = formatMoney(inv.TotalAmount)
	row[19] = inv.CreatedAt.Format(time.RFC3339)

	data, err := inv.Decode()
	if err != nil {
		return row
	}

	s := data.TaxSummary
	row[3] = data.Metadata.OrderDate
	row[5] = data.Metadata.PlaceOfSupply
	row[7] = data.BillToParty.GSTIN
	row[8] = data.BillToParty.State
	row[9] = data.BillToParty.StateCode
	row[10] = strconv.Itoa(len(data.LineItems))
	row[11] = formatMoney(s.TotalTaxableAmount)
	row[12] = formatOptionalMoney(s.TotalCGST)
	row[13] = formatOptionalMoney(s.TotalSGST)
	row[14] = formatOptionalMoney(s.TotalIGST)
	row[15] = formatMoney(s.TotalTaxAmount)
	row[16] = formatMoney(s.DiscountAmount)
	row[18] = data.AmountInWords

	return row
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatOptionalMoney(v *float64) string {
	if v == nil {
		return ""
	}
	return formatMoney(*v)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_name}_{YYYY-MM-DD}.csv
func BuildFilename(name string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", SanitizeFilename(name), now.Format("2006-01-02"))
}
