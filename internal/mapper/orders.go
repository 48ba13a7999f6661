package mapper

import (
	"github.com/shopspring/decimal"

	"invoicer/internal/domain"
)

type orderGroup struct {
	key  string
	rows []int
}

// groupRows buckets row indexes by order number, in order of first appearance.
// Rows without an order number each get their own synthetic key.
func groupRows(data *ParsedData, cols columns) []*orderGroup {
	var groups []*orderGroup
	byKey := make(map[string]*orderGroup)
	for i, row := range data.Rows {
		key := GetValue(row, cols.orderNumber)
		if key == "" {
			key = syntheticOrderNo(i)
		}
		g, ok := byKey[key]
		if !ok {
			g = &orderGroup{key: key}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, i)
	}
	return groups
}

// MapRows converts every row into its own invoice.
func (m *Mapper) MapRows(data *ParsedData) []*domain.InvoiceData {
	if data == nil {
		return nil
	}
	cols := resolveColumns(data.Headers)
	out := make([]*domain.InvoiceData, 0, len(data.Rows))
	for i := range data.Rows {
		out = append(out, m.mapRow(cols, data, i, "", 0))
	}
	return out
}

// MapOrders converts an export with one row per line item into one invoice
// per order. Order-level fields come from the primary row of each order: the
// first row with a billing name, or the first row when none has one.
func (m *Mapper) MapOrders(data *ParsedData) []*domain.InvoiceData {
	if data == nil {
		return nil
	}
	cols := resolveColumns(data.Headers)
	groups := groupRows(data, cols)
	out := make([]*domain.InvoiceData, 0, len(groups))
	for _, g := range groups {
		out = append(out, m.mapOrder(cols, data, g))
	}
	return out
}

func (m *Mapper) mapOrder(cols columns, data *ParsedData, g *orderGroup) *domain.InvoiceData {
	primary := g.rows[0]
	for _, i := range g.rows {
		if GetValue(data.Rows[i], cols.billName) != "" {
			primary = i
			break
		}
	}
	primaryRow := data.Rows[primary]
	orderRate := ReconcileTax(primaryRow, cols.tax, 0).GSTRate

	inv := m.mapRow(cols, data, primary, "", orderRate)

	items := make([]domain.LineItem, 0, len(g.rows))
	for _, i := range g.rows {
		row := data.Rows[i]
		if GetValue(row, cols.itemName) == "" {
			continue
		}
		items = append(items, m.lineItem(row, cols, len(items)+1, orderRate))
	}
	if len(items) == 0 {
		return inv
	}
	inv.LineItems = items

	s := &inv.TaxSummary
	// An explicit order total keeps the primary row's summary figures.
	if GetNumericValue(primaryRow, cols.total) <= 0 {
		taxable := sumItems(items, func(it domain.LineItem) float64 { return it.TaxableAmount })
		s.Subtotal = taxable
		s.TotalTaxableAmount = taxable
		s.TotalAmountAfterTax = sumItems(items, func(it domain.LineItem) float64 { return it.Total })
	}
	s.TotalCGST = explicitOrSum(primaryRow, cols.totalCGST, items, func(it domain.LineItem) *float64 { return it.CGST })
	s.TotalSGST = explicitOrSum(primaryRow, cols.totalSGST, items, func(it domain.LineItem) *float64 { return it.SGST })
	s.TotalIGST = explicitOrSum(primaryRow, cols.totalIGST, items, func(it domain.LineItem) *float64 { return it.IGST })

	taxTotal := decimal.Zero
	for _, p := range []*float64{s.TotalCGST, s.TotalSGST, s.TotalIGST} {
		if p != nil {
			taxTotal = taxTotal.Add(decimal.NewFromFloat(*p))
		}
	}
	s.TotalTaxAmount = positiveOr(GetNumericValue(primaryRow, cols.totalTax), taxTotal.Round(2).InexactFloat64())

	inv.AmountInWords = AmountInWords(s.TotalAmountAfterTax)
	return inv
}

func sumItems(items []domain.LineItem, pick func(domain.LineItem) float64) float64 {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(pick(it)))
	}
	return sum.Round(2).InexactFloat64()
}

// explicitOrSum prefers an order-level column on the primary row and otherwise
// sums the per-item amounts. Nil when no item carries an amount.
func explicitOrSum(row Row, col string, items []domain.LineItem, pick func(domain.LineItem) *float64) *float64 {
	if v := GetNumericValue(row, col); v > 0 {
		return &v
	}
	sum := decimal.Zero
	seen := false
	for _, it := range items {
		if p := pick(it); p != nil {
			sum = sum.Add(decimal.NewFromFloat(*p))
			seen = true
		}
	}
	if !seen {
		return nil
	}
	v := sum.Round(2).InexactFloat64()
	return &v
}
