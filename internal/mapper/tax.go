package mapper

import (
	"regexp"
	"strconv"
	"strings"
)

var ratePercent = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)

// TaxColumns names the tax-related headers of an export. Empty means absent.
type TaxColumns struct {
	Rate      string
	Tax1Name  string
	Tax1Value string
	Tax2Name  string
	Tax2Value string
	CGST      string
	SGST      string
	IGST      string
}

// TaxBreakdown is the reconciled tax of a single row. Amounts are nil when the
// row gave no value for that tax type.
type TaxBreakdown struct {
	GSTRate float64
	CGST    *float64
	SGST    *float64
	IGST    *float64
}

// Total sums the amounts that are present.
func (t TaxBreakdown) Total() float64 {
	return deref(t.CGST) + deref(t.SGST) + deref(t.IGST)
}

// ExtractRate pulls a percentage such as "IGST 18%" out of free text. 0 when none.
func ExtractRate(text string) float64 {
	m := ratePercent.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	r, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return r
}

// ReconcileTax derives the GST rate and the CGST/SGST/IGST amounts of a row.
//
// The rate comes from a percentage in the Tax 1 name, then from the dedicated
// rate column when it lies in (0, 100], then from fallbackRate. Amounts come
// from the dedicated columns; when all of those are zero or missing, the Tax 1
// and Tax 2 name/value pairs are used, keyed on the tax type named in the
// name text. Tax 2 overwrites Tax 1 for the same type.
func ReconcileTax(row Row, cols TaxColumns, fallbackRate float64) TaxBreakdown {
	var tb TaxBreakdown

	tb.GSTRate = ExtractRate(GetValue(row, cols.Tax1Name))
	if tb.GSTRate == 0 && cols.Rate != "" {
		if r := GetNumericValue(row, cols.Rate); r > 0 && r <= 100 {
			tb.GSTRate = r
		}
	}
	if tb.GSTRate == 0 {
		tb.GSTRate = fallbackRate
	}

	cgst := GetNumericValue(row, cols.CGST)
	sgst := GetNumericValue(row, cols.SGST)
	igst := GetNumericValue(row, cols.IGST)
	if cgst != 0 || sgst != 0 || igst != 0 {
		tb.CGST = nonZero(cgst)
		tb.SGST = nonZero(sgst)
		tb.IGST = nonZero(igst)
		return tb
	}

	pairs := [...]struct{ name, value string }{
		{cols.Tax1Name, cols.Tax1Value},
		{cols.Tax2Name, cols.Tax2Value},
	}
	for _, p := range pairs {
		if p.name == "" || p.value == "" {
			continue
		}
		label := strings.ToLower(GetValue(row, p.name))
		if label == "" {
			continue
		}
		amount := GetNumericValue(row, p.value)
		switch {
		case strings.Contains(label, "cgst"):
			tb.CGST = &amount
		case strings.Contains(label, "sgst"), strings.Contains(label, "utgst"):
			tb.SGST = &amount
		case strings.Contains(label, "igst"):
			tb.IGST = &amount
		}
	}
	return tb
}

func nonZero(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
