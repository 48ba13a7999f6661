package invoice

import (
	"fmt"
	"regexp"
	"strconv"

	"invoicer/internal/domain"
)

var (
	gstinPattern = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	panPattern   = regexp.MustCompile(`^[A-Z]{5}\d{4}[A-Z]$`)
	hsnPattern   = regexp.MustCompile(`^\d{4,8}$`)
	pinPattern   = regexp.MustCompile(`^[1-9]\d{5}$`)
)

func regexCheck(fieldPath, value, pattern, ruleName string, re *regexp.Regexp) ValidationResult {
	if value == "" {
		return ValidationResult{
			Passed: true, FieldPath: fieldPath,
			ExpectedValue: pattern, ActualValue: value,
			Message: fmt.Sprintf("%s: field is empty, skipping format check", ruleName),
		}
	}
	passed := re.MatchString(value)
	msg := fmt.Sprintf("%s: %s matches expected format", ruleName, fieldPath)
	if !passed {
		msg = fmt.Sprintf("%s: %s does not match expected format", ruleName, fieldPath)
	}
	return ValidationResult{
		Passed: passed, FieldPath: fieldPath,
		ExpectedValue: pattern, ActualValue: value, Message: msg,
	}
}

func stateCodeCheck(fieldPath, value, ruleName string) ValidationResult {
	if value == "" {
		return ValidationResult{
			Passed: true, FieldPath: fieldPath,
			ExpectedValue: "2-digit state code (01-38)", ActualValue: value,
			Message: fmt.Sprintf("%s: field is empty, skipping state code check", ruleName),
		}
	}
	passed := false
	if len(value) == 2 {
		code, err := strconv.Atoi(value)
		if err == nil && code >= 1 && code <= 38 {
			passed = true
		}
	}
	msg := fmt.Sprintf("%s: %s is a valid state code", ruleName, fieldPath)
	if !passed {
		msg = fmt.Sprintf("%s: %s is not a valid 2-digit state code (01-38)", ruleName, fieldPath)
	}
	return ValidationResult{
		Passed: passed, FieldPath: fieldPath,
		ExpectedValue: "2-digit state code (01-38)", ActualValue: value, Message: msg,
	}
}

func regexRule(key, name, fieldPath string, re *regexp.Regexp, extract func(*domain.InvoiceData) string) *BuiltinValidator {
	return &BuiltinValidator{
		key: key, name: name, sev: SeverityWarning,
		fn: func(d *domain.InvoiceData) []ValidationResult {
			return []ValidationResult{regexCheck(fieldPath, extract(d), re.String(), name, re)}
		},
	}
}

// FormatValidators returns format checks for identifiers printed on the invoice.
func FormatValidators() []*BuiltinValidator {
	return []*BuiltinValidator{
		regexRule("fmt.business.gstin", "Format: Seller GSTIN", "business.gstin", gstinPattern,
			func(d *domain.InvoiceData) string { return d.Business.GSTIN }),
		regexRule("fmt.business.pan", "Format: Seller PAN", "business.pan", panPattern,
			func(d *domain.InvoiceData) string { return d.Business.PAN }),
		regexRule("fmt.bill_to.gstin", "Format: Buyer GSTIN", "bill_to_party.gstin", gstinPattern,
			func(d *domain.InvoiceData) string { return d.BillToParty.GSTIN }),
		regexRule("fmt.bill_to.pincode", "Format: Buyer Pincode", "bill_to_party.pincode", pinPattern,
			func(d *domain.InvoiceData) string { return d.BillToParty.Pincode }),
		{
			key: "fmt.bill_to.state_code", name: "Format: Buyer State Code", sev: SeverityWarning,
			fn: func(d *domain.InvoiceData) []ValidationResult {
				return []ValidationResult{stateCodeCheck("bill_to_party.state_code", d.BillToParty.StateCode, "Format: Buyer State Code")}
			},
		},
		{
			key: "fmt.line_item.hsn", name: "Format: Line Item HSN", sev: SeverityWarning,
			fn: func(d *domain.InvoiceData) []ValidationResult {
				results := make([]ValidationResult, 0, len(d.LineItems))
				for i := range d.LineItems {
					fp := fmt.Sprintf("line_items[%d].hsn", i)
					results = append(results, regexCheck(fp, d.LineItems[i].HSN, hsnPattern.String(), "Format: Line Item HSN", hsnPattern))
				}
				return results
			},
		},
	}
}
