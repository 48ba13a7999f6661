package invoice

import (
	"fmt"

	"invoicer/internal/domain"
)

func requiredCheck(ruleName, fieldPath, value string) ValidationResult {
	passed := value != ""
	msg := fmt.Sprintf("%s: %s is present", ruleName, fieldPath)
	if !passed {
		msg = fmt.Sprintf("%s: %s is empty", ruleName, fieldPath)
	}
	return ValidationResult{
		Passed: passed, FieldPath: fieldPath,
		ExpectedValue: "non-empty value", ActualValue: value, Message: msg,
	}
}

func required(key, name, fieldPath string, extract func(*domain.InvoiceData) string) *BuiltinValidator {
	return &BuiltinValidator{
		key: key, name: name, sev: SeverityWarning,
		fn: func(d *domain.InvoiceData) []ValidationResult {
			return []ValidationResult{requiredCheck(name, fieldPath, extract(d))}
		},
	}
}

// RequiredFieldValidators returns presence checks for fields a GST invoice must print.
func RequiredFieldValidators() []*BuiltinValidator {
	return []*BuiltinValidator{
		required("req.business.gstin", "Required: Seller GSTIN", "business.gstin",
			func(d *domain.InvoiceData) string { return d.Business.GSTIN }),
		required("req.business.state_code", "Required: Seller State Code", "business.state_code",
			func(d *domain.InvoiceData) string { return d.Business.StateCode }),
		required("req.metadata.invoice_no", "Required: Invoice Number", "metadata.invoice_no",
			func(d *domain.InvoiceData) string { return d.Metadata.InvoiceNo }),
		required("req.metadata.invoice_date", "Required: Invoice Date", "metadata.invoice_date",
			func(d *domain.InvoiceData) string { return d.Metadata.InvoiceDate }),
		required("req.metadata.place_of_supply", "Required: Place of Supply", "metadata.place_of_supply",
			func(d *domain.InvoiceData) string { return d.Metadata.PlaceOfSupply }),
		required("req.bill_to.name", "Required: Buyer Name", "bill_to_party.name",
			func(d *domain.InvoiceData) string { return d.BillToParty.Name }),
		{
			key: "req.line_item.hsn", name: "Required: Line Item HSN", sev: SeverityWarning,
			fn: func(d *domain.InvoiceData) []ValidationResult {
				results := make([]ValidationResult, 0, len(d.LineItems))
				for i := range d.LineItems {
					fp := fmt.Sprintf("line_items[%d].hsn", i)
					results = append(results, requiredCheck("Required: Line Item HSN", fp, d.LineItems[i].HSN))
				}
				return results
			},
		},
	}
}
