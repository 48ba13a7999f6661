package mapper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicer/internal/mapper"
)

var shopifyTaxCols = mapper.TaxColumns{
	Tax1Name:  "Tax 1 Name",
	Tax1Value: "Tax 1 Value",
	Tax2Name:  "Tax 2 Name",
	Tax2Value: "Tax 2 Value",
}

func TestExtractRate(t *testing.T) {
	assert.Equal(t, 3.0, mapper.ExtractRate("IGST 3%"))
	assert.Equal(t, 2.5, mapper.ExtractRate("CGST 2.5 %"))
	assert.Equal(t, 0.0, mapper.ExtractRate("IGST"))
	assert.Equal(t, 0.0, mapper.ExtractRate("18.50"))
}

func TestReconcileTax_NoTaxColumns(t *testing.T) {
	tb := mapper.ReconcileTax(mapper.Row{"Lineitem name": mapper.Text("Ring")}, mapper.TaxColumns{}, 0)
	assert.Equal(t, 0.0, tb.GSTRate)
	assert.Nil(t, tb.CGST)
	assert.Nil(t, tb.SGST)
	assert.Nil(t, tb.IGST)
}

func TestReconcileTax_TaxNamePairOnly(t *testing.T) {
	row := mapper.Row{
		"Tax 1 Name":  mapper.Text("IGST 3%"),
		"Tax 1 Value": mapper.Text("30"),
	}
	tb := mapper.ReconcileTax(row, shopifyTaxCols, 0)
	assert.Equal(t, 3.0, tb.GSTRate)
	require.NotNil(t, tb.IGST)
	assert.Equal(t, 30.0, *tb.IGST)
	assert.Nil(t, tb.CGST)
	assert.Nil(t, tb.SGST)
}

func TestReconcileTax_IntraStatePairs(t *testing.T) {
	row := mapper.Row{
		"Tax 1 Name":  mapper.Text("CGST 1.5%"),
		"Tax 1 Value": mapper.Text("15"),
		"Tax 2 Name":  mapper.Text("SGST 1.5%"),
		"Tax 2 Value": mapper.Text("15"),
	}
	tb := mapper.ReconcileTax(row, shopifyTaxCols, 0)
	assert.Equal(t, 1.5, tb.GSTRate)
	require.NotNil(t, tb.CGST)
	require.NotNil(t, tb.SGST)
	assert.Equal(t, 15.0, *tb.CGST)
	assert.Equal(t, 15.0, *tb.SGST)
	assert.Nil(t, tb.IGST)
}

func TestReconcileTax_Tax2OverwritesTax1ForSameType(t *testing.T) {
	row := mapper.Row{
		"Tax 1 Name":  mapper.Text("IGST 3%"),
		"Tax 1 Value": mapper.Text("30"),
		"Tax 2 Name":  mapper.Text("IGST adjustment"),
		"Tax 2 Value": mapper.Text("31"),
	}
	tb := mapper.ReconcileTax(row, shopifyTaxCols, 0)
	require.NotNil(t, tb.IGST)
	assert.Equal(t, 31.0, *tb.IGST)
}

func TestReconcileTax_DedicatedColumnsWin(t *testing.T) {
	cols := shopifyTaxCols
	cols.CGST = "CGST Amount"
	cols.SGST = "SGST Amount"
	row := mapper.Row{
		"Tax 1 Name":  mapper.Text("IGST 3%"),
		"Tax 1 Value": mapper.Text("30"),
		"CGST Amount": mapper.Text("9"),
		"SGST Amount": mapper.Text("9"),
	}
	tb := mapper.ReconcileTax(row, cols, 0)
	require.NotNil(t, tb.CGST)
	require.NotNil(t, tb.SGST)
	assert.Equal(t, 9.0, *tb.CGST)
	assert.Equal(t, 9.0, *tb.SGST)
	assert.Nil(t, tb.IGST)
	assert.Equal(t, 3.0, tb.GSTRate)
}

func TestReconcileTax_ValueNeverReadAsRate(t *testing.T) {
	row := mapper.Row{
		"Tax 1 Name":  mapper.Text("IGST"),
		"Tax 1 Value": mapper.Text("18.50"),
	}
	tb := mapper.ReconcileTax(row, shopifyTaxCols, 0)
	assert.Equal(t, 0.0, tb.GSTRate)
	require.NotNil(t, tb.IGST)
	assert.Equal(t, 18.5, *tb.IGST)
}

func TestReconcileTax_RateColumn(t *testing.T) {
	cols := mapper.TaxColumns{Rate: "GST Rate"}

	tests := []struct {
		name     string
		value    string
		fallback float64
		want     float64
	}{
		{"in range", "18", 0, 18},
		{"upper bound", "100", 0, 100},
		{"out of range uses fallback", "540", 3, 3},
		{"zero uses fallback", "0", 12, 12},
		{"percent sign stripped", "5%", 0, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := mapper.Row{"GST Rate": mapper.Text(tt.value)}
			assert.Equal(t, tt.want, mapper.ReconcileTax(row, cols, tt.fallback).GSTRate)
		})
	}
}

func TestReconcileTax_NameRateBeatsRateColumn(t *testing.T) {
	cols := shopifyTaxCols
	cols.Rate = "GST Rate"
	row := mapper.Row{
		"Tax 1 Name": mapper.Text("IGST 3%"),
		"GST Rate":   mapper.Text("18"),
	}
	assert.Equal(t, 3.0, mapper.ReconcileTax(row, cols, 0).GSTRate)
}

func TestTaxBreakdown_Total(t *testing.T) {
	c, s := 9.0, 9.0
	assert.Equal(t, 18.0, mapper.TaxBreakdown{CGST: &c, SGST: &s}.Total())
	assert.Equal(t, 0.0, mapper.TaxBreakdown{}.Total())
}
