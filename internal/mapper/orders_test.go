package mapper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicer/internal/mapper"
)

var orderHeaders = []string{
	"Name", "Billing Name", "Billing Province Name", "Lineitem name", "Lineitem quantity",
	"Lineitem price", "Tax 1 Name", "Tax 1 Value", "Total",
}

func TestMapOrders_GroupsLineItems(t *testing.T) {
	data := parsed(orderHeaders,
		[]string{"1001", "", "", "A", "1", "100", "IGST 3%", "3", ""},
		[]string{"1001", "Meera Iyer", "Kerala", "B", "2", "200", "", "", ""},
		[]string{"1001", "Someone Else", "Goa", "", "", "", "", "", ""},
	)

	invoices := mapper.New(mapper.Options{}).MapOrders(data)
	require.Len(t, invoices, 1)
	inv := invoices[0]

	require.Len(t, inv.LineItems, 2)
	assert.Equal(t, 1, inv.LineItems[0].SNo)
	assert.Equal(t, "A", inv.LineItems[0].ItemName)
	assert.Equal(t, 2, inv.LineItems[1].SNo)
	assert.Equal(t, "B", inv.LineItems[1].ItemName)

	assert.Equal(t, "1001", inv.Metadata.OrderNo)
	assert.Equal(t, "Meera Iyer", inv.BillToParty.Name)
	assert.Equal(t, "32", inv.BillToParty.StateCode)
}

func TestMapOrders_OrderLevelRateIsInherited(t *testing.T) {
	data := parsed(orderHeaders,
		[]string{"1002", "Vikram", "Goa", "Ring", "1", "1000", "IGST 3%", "30", ""},
		[]string{"1002", "", "", "Pendant", "1", "500", "", "", ""},
	)

	inv := mapper.New(mapper.Options{}).MapOrders(data)[0]
	require.Len(t, inv.LineItems, 2)
	assert.Equal(t, 3.0, inv.LineItems[0].GSTRate)
	assert.Equal(t, 3.0, inv.LineItems[1].GSTRate)
}

func TestMapOrders_SummedTotals(t *testing.T) {
	data := parsed(orderHeaders,
		[]string{"1003", "Vikram", "Goa", "Ring", "1", "1000", "IGST 3%", "30", ""},
		[]string{"1003", "", "", "Pendant", "2", "250", "IGST 3%", "15", ""},
	)

	inv := mapper.New(mapper.Options{}).MapOrders(data)[0]
	s := inv.TaxSummary
	assert.Equal(t, 1500.0, s.Subtotal)
	assert.Equal(t, 1500.0, s.TotalTaxableAmount)
	require.NotNil(t, s.TotalIGST)
	assert.Equal(t, 45.0, *s.TotalIGST)
	assert.Nil(t, s.TotalCGST)
	assert.Nil(t, s.TotalSGST)
	assert.Equal(t, 45.0, s.TotalTaxAmount)
	assert.Equal(t, 1545.0, s.TotalAmountAfterTax)
	assert.Equal(t, "One Thousand Five Hundred Forty Five Rupees Only", inv.AmountInWords)
}

func TestMapOrders_ExplicitTotalIsTrusted(t *testing.T) {
	data := parsed(orderHeaders,
		[]string{"1004", "Vikram", "Goa", "Ring", "1", "1000", "IGST 3%", "30", "1500"},
		[]string{"1004", "", "", "Pendant", "1", "500", "IGST 3%", "15", ""},
	)

	inv := mapper.New(mapper.Options{}).MapOrders(data)[0]
	assert.Equal(t, 1500.0, inv.TaxSummary.TotalAmountAfterTax)
	assert.Equal(t, "One Thousand Five Hundred Rupees Only", inv.AmountInWords)
	// Subtotal and taxable come from the primary row, not the item sum.
	assert.Equal(t, 1000.0, inv.TaxSummary.Subtotal)
	assert.Equal(t, 1000.0, inv.TaxSummary.TotalTaxableAmount)
}

func TestMapOrders_ExplicitTotalKeepsPrimarySubtotal(t *testing.T) {
	headers := []string{"Name", "Billing Name", "Lineitem name", "Lineitem price", "Subtotal", "Total"}
	data := parsed(headers,
		[]string{"1006", "Vikram", "Ring", "1000", "1400", "1442"},
		[]string{"1006", "", "Pendant", "500", "", ""},
	)

	s := mapper.New(mapper.Options{}).MapOrders(data)[0].TaxSummary
	assert.Equal(t, 1400.0, s.Subtotal)
	assert.Equal(t, 1000.0, s.TotalTaxableAmount)
	assert.Equal(t, 1442.0, s.TotalAmountAfterTax)
}

func TestMapOrders_TotalSumsLineItemTotals(t *testing.T) {
	t.Run("line item total column", func(t *testing.T) {
		headers := []string{"Name", "Billing Name", "Lineitem name", "Lineitem price", "Tax 1 Name", "Tax 1 Value", "Lineitem total"}
		data := parsed(headers,
			[]string{"1007", "Vikram", "Ring", "1000", "IGST 3%", "30", "1030"},
			[]string{"1007", "", "Pendant", "500", "IGST 3%", "15", "515"},
		)

		inv := mapper.New(mapper.Options{}).MapOrders(data)[0]
		require.Len(t, inv.LineItems, 2)
		assert.Equal(t, 1030.0, inv.LineItems[0].Total)
		assert.Equal(t, 515.0, inv.LineItems[1].Total)
		assert.Equal(t, 1545.0, inv.TaxSummary.TotalAmountAfterTax)
		assert.Equal(t, "One Thousand Five Hundred Forty Five Rupees Only", inv.AmountInWords)
	})

	t.Run("tax inclusive prices", func(t *testing.T) {
		headers := []string{"Name", "Billing Name", "Lineitem name", "Lineitem price", "Tax 1 Name", "Taxes Included"}
		data := parsed(headers,
			[]string{"1008", "Vikram", "Ring", "1030", "IGST 3%", "true"},
			[]string{"1008", "", "Pendant", "515", "IGST 3%", "true"},
		)

		inv := mapper.New(mapper.Options{}).MapOrders(data)[0]
		s := inv.TaxSummary
		assert.Equal(t, 1500.0, s.TotalTaxableAmount)
		assert.Equal(t, 1545.0, s.TotalAmountAfterTax)
	})
}

func TestMapOrders_ExplicitTaxTotalPerType(t *testing.T) {
	headers := []string{"Name", "Billing Name", "Lineitem name", "Lineitem price", "CGST Amount", "SGST Amount", "Total CGST"}
	data := parsed(headers,
		[]string{"1005", "Anu", "Ring", "1000", "15", "15", "40"},
		[]string{"1005", "", "Chain", "1000", "15", "15", ""},
	)

	s := mapper.New(mapper.Options{}).MapOrders(data)[0].TaxSummary
	require.NotNil(t, s.TotalCGST)
	require.NotNil(t, s.TotalSGST)
	assert.Equal(t, 40.0, *s.TotalCGST)
	assert.Equal(t, 30.0, *s.TotalSGST)
	assert.Equal(t, 70.0, s.TotalTaxAmount)
}

func TestMapOrders_FirstAppearanceOrderAndSyntheticKeys(t *testing.T) {
	data := parsed(orderHeaders,
		[]string{"2002", "B", "", "x", "1", "10", "", "", ""},
		[]string{"", "C", "", "y", "1", "10", "", "", ""},
		[]string{"2001", "A", "", "z", "1", "10", "", "", ""},
		[]string{"2002", "", "", "w", "1", "10", "", "", ""},
		[]string{"", "D", "", "v", "1", "10", "", "", ""},
	)

	invoices := mapper.New(mapper.Options{}).MapOrders(data)
	require.Len(t, invoices, 4)
	assert.Equal(t, "2002", invoices[0].Metadata.OrderNo)
	assert.Len(t, invoices[0].LineItems, 2)
	assert.Equal(t, "ORDER-2", invoices[1].Metadata.OrderNo)
	assert.Equal(t, "2001", invoices[2].Metadata.OrderNo)
	assert.Equal(t, "ORDER-5", invoices[3].Metadata.OrderNo)
}

func TestMapOrders_NoLineItemsKeepsBaseInvoice(t *testing.T) {
	data := parsed(orderHeaders,
		[]string{"3001", "Kiran", "", "", "1", "100", "", "", "100"},
		[]string{"3001", "", "", "", "1", "50", "", "", ""},
	)

	inv := mapper.New(mapper.Options{}).MapOrders(data)[0]
	require.Len(t, inv.LineItems, 1)
	assert.Equal(t, "", inv.LineItems[0].ItemName)
	assert.Equal(t, 100.0, inv.LineItems[0].RatePerItem)
	assert.Equal(t, 100.0, inv.TaxSummary.TotalAmountAfterTax)
}

func TestMapOrders_NumbersEachOrderOnce(t *testing.T) {
	data := parsed(orderHeaders,
		[]string{"4001", "A", "", "x", "1", "10", "", "", ""},
		[]string{"4001", "", "", "y", "1", "10", "", "", ""},
		[]string{"4002", "B", "", "z", "1", "10", "", "", ""},
	)
	var asked []string
	m := mapper.New(mapper.Options{Numberer: mapper.NumbererFunc(func(orderNo string) string {
		asked = append(asked, orderNo)
		return "INV-" + orderNo
	})})

	invoices := m.MapOrders(data)
	require.Len(t, invoices, 2)
	assert.Equal(t, []string{"4001", "4002"}, asked)
	assert.Equal(t, "INV-4001", invoices[0].Metadata.InvoiceNo)
	assert.Equal(t, "INV-4002", invoices[1].Metadata.InvoiceNo)
}

func TestMapOrders_GeneratedKeyIsNotNumbered(t *testing.T) {
	data := parsed(orderHeaders,
		[]string{"MAN-25-6246", "A", "", "x", "1", "10", "", "", ""},
		[]string{"", "B", "", "y", "1", "10", "", "", ""},
	)
	var asked []string
	m := mapper.New(mapper.Options{Numberer: mapper.NumbererFunc(func(orderNo string) string {
		asked = append(asked, orderNo)
		return "INV-" + orderNo
	})})

	invoices := m.MapOrders(data)
	require.Len(t, invoices, 2)
	assert.Equal(t, []string{"MAN-25-6246", ""}, asked)
	assert.False(t, invoices[0].Metadata.OrderNoGenerated)
	assert.True(t, invoices[1].Metadata.OrderNoGenerated)
	assert.Equal(t, "ORDER-2", invoices[1].Metadata.OrderNo)
	assert.Equal(t, "INV-", invoices[1].Metadata.InvoiceNo)
}

func TestMapOrders_Idempotent(t *testing.T) {
	data := parsed(orderHeaders,
		[]string{"5001", "A", "Telangana", "x", "2", "10", "CGST 1.5%", "0.3", ""},
		[]string{"5001", "", "", "y", "1", "10", "", "", ""},
	)
	m := mapper.New(mapper.Options{Business: seller})

	assert.Equal(t, m.MapOrders(data), m.MapOrders(data))
}

func TestMapRows_OneInvoicePerRow(t *testing.T) {
	data := parsed(orderHeaders,
		[]string{"6001", "A", "", "x", "1", "10", "", "", ""},
		[]string{"6001", "", "", "y", "1", "10", "", "", ""},
	)

	invoices := mapper.New(mapper.Options{}).MapRows(data)
	require.Len(t, invoices, 2)
	assert.Equal(t, "x", invoices[0].LineItems[0].ItemName)
	assert.Equal(t, "y", invoices[1].LineItems[0].ItemName)
}
