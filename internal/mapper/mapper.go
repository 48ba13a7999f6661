package mapper

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"invoicer/internal/domain"
)

// DefaultHSN is used for line items whose export row has no HSN code.
const DefaultHSN = "711319"

// DefaultCountry is assumed for parties whose export row names no country.
const DefaultCountry = "India"

// Numberer allocates an invoice number for an order.
type Numberer interface {
	InvoiceNumberFor(orderNo string) string
}

// NumbererFunc adapts a function to Numberer.
type NumbererFunc func(orderNo string) string

// InvoiceNumberFor implements Numberer.
func (f NumbererFunc) InvoiceNumberFor(orderNo string) string { return f(orderNo) }

// Options configures a Mapper.
type Options struct {
	// Business is copied onto every invoice as the seller block.
	Business domain.BusinessDetails
	// DefaultHSN overrides the package default HSN code.
	DefaultHSN string
	// Numberer allocates invoice numbers when none is passed explicitly.
	// Nil leaves the invoice number empty.
	Numberer Numberer
	// IssueDate is the invoice date used when a row carries no date at all.
	IssueDate time.Time
}

// Mapper turns parsed order exports into invoice data. It holds no mutable
// state and is safe for concurrent use as long as its Numberer is.
type Mapper struct {
	opts Options
}

// New creates a Mapper.
func New(opts Options) *Mapper {
	if opts.DefaultHSN == "" {
		opts.DefaultHSN = DefaultHSN
	}
	if opts.Business.StateCode == "" {
		opts.Business.StateCode = StateCode(opts.Business.State)
	}
	return &Mapper{opts: opts}
}

// MapRow converts a single row into an invoice with one line item. When
// invoiceNo is empty the Numberer is asked for one. A rowIndex outside the
// data yields nil.
func (m *Mapper) MapRow(data *ParsedData, rowIndex int, invoiceNo string) *domain.InvoiceData {
	if data == nil || rowIndex < 0 || rowIndex >= len(data.Rows) {
		return nil
	}
	cols := resolveColumns(data.Headers)
	return m.mapRow(cols, data, rowIndex, invoiceNo, 0)
}

func (m *Mapper) mapRow(cols columns, data *ParsedData, rowIndex int, invoiceNo string, fallbackRate float64) *domain.InvoiceData {
	row := data.Rows[rowIndex]

	// The numberer sees the order number as exported; a generated key has no
	// digits worth mapping.
	orderNo := GetValue(row, cols.orderNumber)
	if invoiceNo == "" && m.opts.Numberer != nil {
		invoiceNo = m.opts.Numberer.InvoiceNumberFor(orderNo)
	}
	generated := orderNo == ""
	if generated {
		orderNo = syntheticOrderNo(rowIndex)
	}

	billTo := billingParty(row, cols)
	shipTo := shippingParty(row, cols, billTo)

	orderDate := FormatDate(GetValue(row, cols.orderDate))
	invoiceDate := FormatDate(GetValue(row, cols.invoiceDate))
	if invoiceDate == "" {
		invoiceDate = orderDate
	}
	if invoiceDate == "" && !m.opts.IssueDate.IsZero() {
		invoiceDate = m.opts.IssueDate.Format(InvoiceDateLayout)
	}

	placeOfSupply := GetValue(row, cols.placeOfSupply)
	if placeOfSupply == "" {
		placeOfSupply = shipTo.State
	}

	item := m.lineItem(row, cols, 1, fallbackRate)

	inv := &domain.InvoiceData{
		Business: m.opts.Business,
		Metadata: domain.InvoiceMetadata{
			InvoiceNo:        invoiceNo,
			OrderNo:          orderNo,
			OrderNoGenerated: generated,
			InvoiceDate:      invoiceDate,
			OrderDate:        orderDate,
			PlaceOfSupply:    placeOfSupply,
			TransportMode:    GetValue(row, cols.transportMode),
			PaymentMethod:    GetValue(row, cols.paymentMethod),
			State:            m.opts.Business.State,
			StateCode:        m.opts.Business.StateCode,
			FinancialStatus:  NormalizeFinancialStatus(GetValue(row, cols.financialStatus)),
			CancelledAt:      FormatDate(GetValue(row, cols.cancelledAt)),
		},
		BillToParty: billTo,
		ShipToParty: shipTo,
		LineItems:   []domain.LineItem{item},
		TaxSummary:  rowSummary(row, cols, item),
		Metafields:  metafields(row, data.Metafields),
	}
	inv.AmountInWords = AmountInWords(inv.TaxSummary.TotalAmountAfterTax)
	return inv
}

func syntheticOrderNo(rowIndex int) string {
	return fmt.Sprintf("ORDER-%d", rowIndex+1)
}

func billingParty(row Row, cols columns) domain.PartyDetails {
	state := GetValue(row, cols.billState)
	phone := GetValue(row, cols.billPhone)
	if phone == "" {
		phone = GetValue(row, cols.phone)
	}
	country := GetValue(row, cols.billCountry)
	if country == "" {
		country = DefaultCountry
	}
	return domain.PartyDetails{
		Name:      GetValue(row, cols.billName),
		Address:   joinAddress(GetValue(row, cols.billAddr1), GetValue(row, cols.billAddr2)),
		City:      GetValue(row, cols.billCity),
		State:     state,
		StateCode: StateCode(state),
		Pincode:   strings.TrimPrefix(GetValue(row, cols.billPincode), "'"),
		Phone:     phone,
		Email:     GetValue(row, cols.email),
		GSTIN:     strings.ToUpper(GetValue(row, cols.billGSTIN)),
		Country:   country,
	}
}

// shippingParty falls back field by field to the billing party.
func shippingParty(row Row, cols columns, bill domain.PartyDetails) domain.PartyDetails {
	or := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	address := joinAddress(GetValue(row, cols.shipAddr1), GetValue(row, cols.shipAddr2))
	state := or(GetValue(row, cols.shipState), bill.State)
	return domain.PartyDetails{
		Name:      or(GetValue(row, cols.shipName), bill.Name),
		Address:   or(address, bill.Address),
		City:      or(GetValue(row, cols.shipCity), bill.City),
		State:     state,
		StateCode: StateCode(state),
		Pincode:   or(strings.TrimPrefix(GetValue(row, cols.shipPincode), "'"), bill.Pincode),
		Phone:     or(GetValue(row, cols.shipPhone), bill.Phone),
		Email:     bill.Email,
		GSTIN:     bill.GSTIN,
		Country:   or(GetValue(row, cols.shipCountry), bill.Country),
	}
}

func joinAddress(parts ...string) string {
	nonEmpty := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}

func (m *Mapper) lineItem(row Row, cols columns, sno int, fallbackRate float64) domain.LineItem {
	qty := GetNumericValue(row, cols.itemQuantity)
	if qty <= 0 {
		qty = 1
	}
	rate := GetNumericValue(row, cols.itemPrice)
	discount := GetNumericValue(row, cols.itemDiscount)
	tax := ReconcileTax(row, cols.tax, fallbackRate)

	gross := qty*rate - discount
	inclusive := taxesIncluded(GetValue(row, cols.taxesIncluded))

	taxable := GetNumericValue(row, cols.taxable)
	if taxable <= 0 {
		taxable = gross
		if inclusive && tax.GSTRate > 0 {
			taxable = gross / (1 + tax.GSTRate/100)
		}
	}
	total := GetNumericValue(row, cols.itemTotal)
	if total <= 0 {
		if inclusive {
			total = gross
		} else {
			total = taxable + tax.Total()
		}
	}

	hsn := GetValue(row, cols.hsn)
	if hsn == "" {
		hsn = m.opts.DefaultHSN
	}

	return domain.LineItem{
		SNo:             sno,
		ItemName:        GetValue(row, cols.itemName),
		SKU:             GetValue(row, cols.itemSKU),
		Quantity:        qty,
		RatePerItem:     rate,
		DiscountPerItem: discount,
		TaxableAmount:   round2(taxable),
		HSN:             hsn,
		GSTRate:         tax.GSTRate,
		CGST:            tax.CGST,
		SGST:            tax.SGST,
		IGST:            tax.IGST,
		Total:           round2(total),
	}
}

func taxesIncluded(v string) bool {
	switch strings.ToLower(v) {
	case "true", "yes", "y", "1":
		return true
	}
	return false
}

// rowSummary builds the tax summary of a single-row invoice. Explicit order
// level columns are taken as given; missing ones are derived from the item.
func rowSummary(row Row, cols columns, item domain.LineItem) domain.TaxSummary {
	s := domain.TaxSummary{
		Subtotal:           positiveOr(GetNumericValue(row, cols.subtotal), item.TaxableAmount),
		DiscountAmount:     GetNumericValue(row, cols.discountAmount),
		TotalTaxableAmount: item.TaxableAmount,
		TotalCGST:          explicitOr(row, cols.totalCGST, item.CGST),
		TotalSGST:          explicitOr(row, cols.totalSGST, item.SGST),
		TotalIGST:          explicitOr(row, cols.totalIGST, item.IGST),
	}
	if dp := GetNumericValue(row, cols.discountPercent); dp > 0 {
		s.DiscountPercent = &dp
	}
	s.TotalTaxAmount = positiveOr(GetNumericValue(row, cols.totalTax),
		round2(deref(s.TotalCGST)+deref(s.TotalSGST)+deref(s.TotalIGST)))
	s.TotalAmountAfterTax = positiveOr(GetNumericValue(row, cols.total), item.Total)
	return s
}

func metafields(row Row, keys []string) []domain.Metafield {
	var out []domain.Metafield
	for _, k := range keys {
		if v := GetValue(row, k); v != "" {
			out = append(out, domain.Metafield{Key: k, Value: v})
		}
	}
	return out
}

func positiveOr(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}

func explicitOr(row Row, col string, fallback *float64) *float64 {
	if v := GetNumericValue(row, col); v > 0 {
		return &v
	}
	if fallback == nil {
		return nil
	}
	v := *fallback
	return &v
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
