package mapper_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicer/internal/domain"
	"invoicer/internal/mapper"
)

func textRow(headers []string, values ...string) mapper.Row {
	row := make(mapper.Row, len(headers))
	for i, h := range headers {
		if i < len(values) {
			row[h] = mapper.Text(values[i])
		}
	}
	return row
}

func parsed(headers []string, rows ...[]string) *mapper.ParsedData {
	out := make([]mapper.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, textRow(headers, r...))
	}
	return mapper.NewParsedData(headers, out)
}

var seller = domain.BusinessDetails{
	Name:  "Kanthi Jewels",
	State: "Telangana",
	GSTIN: "36AABCK1234L1Z5",
}

func TestMapRow_EndToEnd(t *testing.T) {
	data := parsed(
		[]string{"Order Number", "Billing Name", "Billing State", "Lineitem Name", "Lineitem Quantity", "Lineitem Price", "Tax 1 Name", "Tax 1 Value", "Total"},
		[]string{"5001", "Jane Doe", "Telangana", "Earrings", "2", "500", "IGST 3%", "30", "1030"},
	)
	m := mapper.New(mapper.Options{Business: seller})

	inv := m.MapRow(data, 0, "INV-1")
	require.NotNil(t, inv)

	assert.Equal(t, "36", inv.BillToParty.StateCode)
	assert.Equal(t, "Jane Doe", inv.BillToParty.Name)
	assert.Equal(t, "India", inv.BillToParty.Country)
	assert.Equal(t, "5001", inv.Metadata.OrderNo)
	assert.Equal(t, "INV-1", inv.Metadata.InvoiceNo)

	require.Len(t, inv.LineItems, 1)
	item := inv.LineItems[0]
	assert.Equal(t, 1, item.SNo)
	assert.Equal(t, "Earrings", item.ItemName)
	assert.Equal(t, 2.0, item.Quantity)
	assert.Equal(t, 500.0, item.RatePerItem)
	assert.Equal(t, 3.0, item.GSTRate)
	require.NotNil(t, item.IGST)
	assert.Equal(t, 30.0, *item.IGST)
	assert.Nil(t, item.CGST)
	assert.Equal(t, 1000.0, item.TaxableAmount)
	assert.Equal(t, 1030.0, item.Total)
	assert.Equal(t, mapper.DefaultHSN, item.HSN)

	assert.Equal(t, 1030.0, inv.TaxSummary.TotalAmountAfterTax)
	assert.Equal(t, 30.0, inv.TaxSummary.TotalTaxAmount)
	require.NotNil(t, inv.TaxSummary.TotalIGST)
	assert.Equal(t, 30.0, *inv.TaxSummary.TotalIGST)
	assert.Equal(t, "One Thousand Thirty Rupees Only", inv.AmountInWords)
	assert.Empty(t, inv.Metafields)
}

func TestMapRow_Business(t *testing.T) {
	data := parsed([]string{"Name"}, []string{"#1"})
	inv := mapper.New(mapper.Options{Business: seller}).MapRow(data, 0, "")
	require.NotNil(t, inv)

	assert.Equal(t, seller.Name, inv.Business.Name)
	assert.Equal(t, "36", inv.Business.StateCode)
	assert.Equal(t, "Telangana", inv.Metadata.State)
	assert.Equal(t, "36", inv.Metadata.StateCode)
}

func TestMapRow_ShipToFallsBackToBillTo(t *testing.T) {
	headers := []string{"Name", "Billing Name", "Billing Address1", "Billing City", "Billing Province Name", "Billing Zip", "Shipping Name", "Shipping City", "Shipping Province Name"}
	data := parsed(headers,
		[]string{"#1001", "Asha Rao", "12 MG Road", "Bengaluru", "Karnataka", "560001", "", "Mysuru", ""},
	)
	inv := mapper.New(mapper.Options{}).MapRow(data, 0, "")
	require.NotNil(t, inv)

	assert.Equal(t, "Asha Rao", inv.ShipToParty.Name)
	assert.Equal(t, "12 MG Road", inv.ShipToParty.Address)
	assert.Equal(t, "Mysuru", inv.ShipToParty.City)
	assert.Equal(t, "Karnataka", inv.ShipToParty.State)
	assert.Equal(t, "29", inv.ShipToParty.StateCode)
	assert.Equal(t, "560001", inv.ShipToParty.Pincode)
	assert.Equal(t, "Karnataka", inv.Metadata.PlaceOfSupply)
}

func TestMapRow_ShopifyExport(t *testing.T) {
	headers := []string{
		"Name", "Email", "Financial Status", "Paid at", "Created at", "Subtotal",
		"Taxes", "Total", "Discount Amount", "Lineitem quantity", "Lineitem name", "Lineitem price",
		"Lineitem sku", "Billing Name", "Billing Address1", "Billing Address2", "Billing City",
		"Billing Zip", "Billing Province Name", "Billing Phone", "Payment Method", "Tax 1 Name",
		"Tax 1 Value", "Tax 2 Name", "Tax 2 Value", "Gift Note",
	}
	data := parsed(headers, []string{
		"#1042", "a@example.com", "paid", "", "2024-03-05 18:22:10 +0530", "1000",
		"30", "1030", "0", "1", "Silver Ring", "1000",
		"SR-01", "Ravi Kumar", "Flat 4", "Banjara Hills", "Hyderabad",
		"'500034", "Telangana", "+91 90000 00000", "Razorpay", "CGST 1.5%",
		"15", "SGST 1.5%", "15", "Happy birthday",
	})

	inv := mapper.New(mapper.Options{Business: seller}).MapRow(data, 0, "")
	require.NotNil(t, inv)

	assert.Equal(t, "#1042", inv.Metadata.OrderNo)
	assert.Equal(t, "", inv.Metadata.InvoiceNo)
	assert.Equal(t, domain.FinancialStatusPaid, inv.Metadata.FinancialStatus)
	assert.Equal(t, "05-03-2024", inv.Metadata.OrderDate)
	assert.Equal(t, "05-03-2024", inv.Metadata.InvoiceDate)
	assert.Equal(t, "Razorpay", inv.Metadata.PaymentMethod)
	assert.Equal(t, "Flat 4, Banjara Hills", inv.BillToParty.Address)
	assert.Equal(t, "500034", inv.BillToParty.Pincode)
	assert.Equal(t, "a@example.com", inv.BillToParty.Email)

	item := inv.LineItems[0]
	assert.Equal(t, "SR-01", item.SKU)
	assert.Equal(t, 1.5, item.GSTRate)
	require.NotNil(t, item.CGST)
	require.NotNil(t, item.SGST)
	assert.Equal(t, 15.0, *item.CGST)
	assert.Equal(t, 15.0, *item.SGST)

	assert.Equal(t, 1000.0, inv.TaxSummary.Subtotal)
	assert.Equal(t, 30.0, inv.TaxSummary.TotalTaxAmount)
	assert.Equal(t, 1030.0, inv.TaxSummary.TotalAmountAfterTax)

	assert.Equal(t, []domain.Metafield{{Key: "Gift Note", Value: "Happy birthday"}}, inv.Metafields)
}

func TestMapRow_Defaults(t *testing.T) {
	data := parsed([]string{"Lineitem name", "Lineitem quantity", "Lineitem price"}, []string{"Chain", "0", "250"})
	issued := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	inv := mapper.New(mapper.Options{DefaultHSN: "7117", IssueDate: issued}).MapRow(data, 0, "")
	require.NotNil(t, inv)

	assert.Equal(t, "ORDER-1", inv.Metadata.OrderNo)
	assert.Equal(t, "01-06-2024", inv.Metadata.InvoiceDate)
	assert.Equal(t, 1.0, inv.LineItems[0].Quantity)
	assert.Equal(t, "7117", inv.LineItems[0].HSN)
	assert.Equal(t, 250.0, inv.LineItems[0].Total)
	assert.Equal(t, 250.0, inv.TaxSummary.TotalAmountAfterTax)
}

func TestMapRow_TaxInclusivePrice(t *testing.T) {
	data := parsed(
		[]string{"Lineitem name", "Lineitem price", "GST Rate", "Taxes Included"},
		[]string{"Bangle", "1180", "18", "true"},
	)
	inv := mapper.New(mapper.Options{}).MapRow(data, 0, "")
	require.NotNil(t, inv)

	item := inv.LineItems[0]
	assert.Equal(t, 18.0, item.GSTRate)
	assert.Equal(t, 1000.0, item.TaxableAmount)
	assert.Equal(t, 1180.0, item.Total)
	assert.Equal(t, 1180.0, inv.TaxSummary.TotalAmountAfterTax)
}

func TestMapRow_UsesNumberer(t *testing.T) {
	data := parsed([]string{"Name"}, []string{"#77"})
	var asked string
	m := mapper.New(mapper.Options{Numberer: mapper.NumbererFunc(func(orderNo string) string {
		asked = orderNo
		return "INV-0077"
	})})

	inv := m.MapRow(data, 0, "")
	require.NotNil(t, inv)
	assert.Equal(t, "#77", asked)
	assert.Equal(t, "INV-0077", inv.Metadata.InvoiceNo)

	inv = m.MapRow(data, 0, "OVERRIDE-1")
	assert.Equal(t, "OVERRIDE-1", inv.Metadata.InvoiceNo)
}

func TestMapRow_OutOfRange(t *testing.T) {
	data := parsed([]string{"Name"}, []string{"#1"})
	m := mapper.New(mapper.Options{})
	assert.Nil(t, m.MapRow(data, 1, ""))
	assert.Nil(t, m.MapRow(data, -1, ""))
	assert.Nil(t, m.MapRow(nil, 0, ""))
}

func TestMapRow_UnparseableDatePassesThrough(t *testing.T) {
	data := parsed([]string{"Name", "Created at"}, []string{"#1", "sometime in May"})
	inv := mapper.New(mapper.Options{}).MapRow(data, 0, "")
	require.NotNil(t, inv)
	assert.Equal(t, "sometime in May", inv.Metadata.OrderDate)
	assert.Equal(t, "sometime in May", inv.Metadata.InvoiceDate)
}
