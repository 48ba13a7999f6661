package invoice

import (
	"fmt"
	"strings"

	"invoicer/internal/domain"
)

// HSNValidators returns checks backed by the HSN master list. The lookup is
// captured by closure.
func HSNValidators(lookup *HSNLookup) []*BuiltinValidator {
	return []*BuiltinValidator{
		{
			key: "logic.line_item.hsn_exists", name: "Logical: HSN Code Exists in Master", sev: SeverityWarning,
			fn: hsnExistsValidator(lookup),
		},
		{
			key: "xf.line_item.hsn_rate", name: "Cross-field: HSN Code GST Rate Match", sev: SeverityWarning,
			fn: hsnRateValidator(lookup),
		},
	}
}

func hsnExistsValidator(lookup *HSNLookup) func(*domain.InvoiceData) []ValidationResult {
	return func(inv *domain.InvoiceData) []ValidationResult {
		results := make([]ValidationResult, 0, len(inv.LineItems))
		for i := range inv.LineItems {
			item := &inv.LineItems[i]
			if item.HSN == "" {
				continue
			}
			fp := fmt.Sprintf("line_items[%d].hsn", i)
			exists := lookup.Exists(item.HSN)
			msg := fmt.Sprintf("Logical: HSN Code Exists in Master: %s found in HSN master list", fp)
			if !exists {
				msg = fmt.Sprintf("Logical: HSN Code Exists in Master: %s code %q not found in HSN master list", fp, item.HSN)
			}
			results = append(results, ValidationResult{
				Passed:        exists,
				FieldPath:     fp,
				ExpectedValue: "valid HSN code from master list",
				ActualValue:   item.HSN,
				Message:       msg,
			})
		}
		return results
	}
}

// hsnRateValidator compares the line's GST rate with the master rates. Rates
// read from a "CGST 1.5%" label are half the GST rate, so split-tax lines also
// match at twice their rate.
func hsnRateValidator(lookup *HSNLookup) func(*domain.InvoiceData) []ValidationResult {
	return func(inv *domain.InvoiceData) []ValidationResult {
		results := make([]ValidationResult, 0, len(inv.LineItems))
		for i := range inv.LineItems {
			item := &inv.LineItems[i]
			if item.HSN == "" || item.GSTRate == 0 || !lookup.Exists(item.HSN) {
				continue
			}
			fp := fmt.Sprintf("line_items[%d].gst_rate", i)

			matched, validRates := lookup.RateMatches(item.HSN, item.GSTRate, positive(item.CGST) || positive(item.SGST))

			msg := fmt.Sprintf("Cross-field: HSN Code GST Rate Match: %s rate matches HSN %s", fp, item.HSN)
			if !matched {
				msg = fmt.Sprintf("Cross-field: HSN Code GST Rate Match: %s rate %s%% does not match expected rates for HSN %s", fp, fmtf(item.GSTRate), item.HSN)
			}
			results = append(results, ValidationResult{
				Passed:        matched,
				FieldPath:     fp,
				ExpectedValue: formatExpectedRates(validRates),
				ActualValue:   fmtf(item.GSTRate) + "%",
				Message:       msg,
			})
		}
		return results
	}
}

func formatExpectedRates(rates []HSNRate) string {
	if len(rates) == 0 {
		return "no rates found"
	}
	parts := make([]string, 0, len(rates))
	for idx := range rates {
		r := &rates[idx]
		s := fmtf(r.Rate) + "%"
		if r.Condition != "" {
			s += " (" + r.Condition + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}
