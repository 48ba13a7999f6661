package invoice

import (
	"fmt"
	"math"

	"invoicer/internal/domain"
)

const mathTolerance = 1.00

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= mathTolerance
}

func mathResult(passed bool, fieldPath, expected, actual, ruleName string) ValidationResult {
	msg := fmt.Sprintf("%s: %s calculation matches", ruleName, fieldPath)
	if !passed {
		msg = fmt.Sprintf("%s: %s calculation mismatch (expected %s, got %s)", ruleName, fieldPath, expected, actual)
	}
	return ValidationResult{
		Passed: passed, FieldPath: fieldPath,
		ExpectedValue: expected, ActualValue: actual, Message: msg,
	}
}

func fmtf(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// MathValidators compare the totals carried over from the export with a
// recomputation. Exports are trusted, so mismatches are only reported.
func MathValidators() []*BuiltinValidator {
	return []*BuiltinValidator{
		{
			key: "math.line_item.tax_amount", name: "Math: Line Item Tax Amount", sev: SeverityWarning,
			fn: func(d *domain.InvoiceData) []ValidationResult {
				results := make([]ValidationResult, 0, len(d.LineItems))
				for i := range d.LineItems {
					item := &d.LineItems[i]
					tax := deref(item.CGST) + deref(item.SGST) + deref(item.IGST)
					if item.GSTRate == 0 || tax == 0 {
						continue
					}
					fp := fmt.Sprintf("line_items[%d].tax", i)
					expected := item.TaxableAmount * item.GSTRate / 100
					passed := approxEqual(tax, expected)
					// A rate read from a "CGST 1.5%" label covers one half of the split.
					if !passed && (positive(item.CGST) || positive(item.SGST)) && approxEqual(tax, 2*expected) {
						passed, expected = true, 2*expected
					}
					results = append(results, mathResult(passed, fp, fmtf(expected), fmtf(tax), "Math: Line Item Tax Amount"))
				}
				return results
			},
		},
		{
			key: "math.tax_summary.taxable_amount", name: "Math: Total Taxable Amount", sev: SeverityWarning,
			fn: func(d *domain.InvoiceData) []ValidationResult {
				var sum float64
				for i := range d.LineItems {
					sum += d.LineItems[i].TaxableAmount
				}
				actual := d.TaxSummary.TotalTaxableAmount
				return []ValidationResult{mathResult(approxEqual(actual, sum), "tax_summary.total_taxable_amount", fmtf(sum), fmtf(actual), "Math: Total Taxable Amount")}
			},
		},
		{
			key: "math.tax_summary.total", name: "Math: Total After Tax", sev: SeverityWarning,
			fn: func(d *domain.InvoiceData) []ValidationResult {
				s := d.TaxSummary
				expected := s.TotalTaxableAmount + s.TotalTaxAmount - s.DiscountAmount
				return []ValidationResult{mathResult(approxEqual(s.TotalAmountAfterTax, expected), "tax_summary.total_amount_after_tax", fmtf(expected), fmtf(s.TotalAmountAfterTax), "Math: Total After Tax")}
			},
		},
	}
}
