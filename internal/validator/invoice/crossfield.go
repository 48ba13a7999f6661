package invoice

import (
	"fmt"

	"invoicer/internal/domain"
	"invoicer/internal/mapper"
)

// supplyStateCode is the state code of the place of supply, falling back to
// the ship-to party.
func supplyStateCode(d *domain.InvoiceData) string {
	if code := mapper.StateCode(d.Metadata.PlaceOfSupply); code != "" {
		return code
	}
	return d.ShipToParty.StateCode
}

// CrossFieldValidators returns checks relating fields to each other.
func CrossFieldValidators() []*BuiltinValidator {
	return []*BuiltinValidator{
		{
			key: "xf.business.gstin_state", name: "Cross-field: Seller GSTIN-State Match", sev: SeverityWarning,
			fn: func(d *domain.InvoiceData) []ValidationResult {
				return gstinStateCheck("business", d.Business.GSTIN, d.Business.StateCode)
			},
		},
		{
			key: "xf.bill_to.gstin_state", name: "Cross-field: Buyer GSTIN-State Match", sev: SeverityWarning,
			fn: func(d *domain.InvoiceData) []ValidationResult {
				return gstinStateCheck("bill_to_party", d.BillToParty.GSTIN, d.BillToParty.StateCode)
			},
		},
		{
			key: "xf.business.gstin_pan", name: "Cross-field: Seller GSTIN-PAN Match", sev: SeverityWarning,
			fn: func(d *domain.InvoiceData) []ValidationResult {
				return gstinPANCheck("business", d.Business.GSTIN, d.Business.PAN)
			},
		},
		{
			key: "xf.tax_type", name: "Cross-field: Tax Type for Place of Supply", sev: SeverityWarning,
			fn: taxTypeCheck,
		},
		{
			key: "xf.parties.different_gstin", name: "Cross-field: Different Party GSTINs", sev: SeverityInfo,
			fn: func(d *domain.InvoiceData) []ValidationResult {
				if d.Business.GSTIN == "" || d.BillToParty.GSTIN == "" {
					return nil
				}
				passed := d.Business.GSTIN != d.BillToParty.GSTIN
				msg := "Cross-field: Different Party GSTINs: seller and buyer have different GSTINs"
				if !passed {
					msg = "Cross-field: Different Party GSTINs: seller and buyer have the same GSTIN"
				}
				return []ValidationResult{{
					Passed: passed, FieldPath: "bill_to_party.gstin",
					ExpectedValue: "business.gstin != bill_to_party.gstin",
					ActualValue:   d.BillToParty.GSTIN,
					Message:       msg,
				}}
			},
		},
	}
}

// taxTypeCheck expects CGST+SGST when the place of supply is the seller's
// state and IGST otherwise.
func taxTypeCheck(d *domain.InvoiceData) []ValidationResult {
	seller, supply := d.Business.StateCode, supplyStateCode(d)
	if seller == "" || supply == "" {
		return nil
	}
	intra := seller == supply
	results := make([]ValidationResult, 0, len(d.LineItems))
	for i := range d.LineItems {
		item := &d.LineItems[i]
		hasSplit := positive(item.CGST) || positive(item.SGST)
		hasIGST := positive(item.IGST)
		if !hasSplit && !hasIGST {
			continue
		}
		fp := fmt.Sprintf("line_items[%d]", i)
		var passed bool
		var expected, msg string
		if intra {
			passed = hasSplit && !hasIGST
			expected = "CGST+SGST used, IGST=0"
			msg = fmt.Sprintf("Cross-field: Tax Type: %s should use CGST+SGST (not IGST) for same-state supply", fp)
		} else {
			passed = hasIGST && !hasSplit
			expected = "IGST used, CGST+SGST=0"
			msg = fmt.Sprintf("Cross-field: Tax Type: %s should use IGST (not CGST+SGST) for inter-state supply", fp)
		}
		if passed {
			msg = fmt.Sprintf("Cross-field: Tax Type: %s uses the expected tax type", fp)
		}
		results = append(results, ValidationResult{
			Passed: passed, FieldPath: fp,
			ExpectedValue: expected,
			ActualValue:   fmt.Sprintf("CGST=%.2f, SGST=%.2f, IGST=%.2f", deref(item.CGST), deref(item.SGST), deref(item.IGST)),
			Message:       msg,
		})
	}
	return results
}

func gstinStateCheck(party, gstin, stateCode string) []ValidationResult {
	fp := party + ".gstin"
	if len(gstin) < 2 || stateCode == "" {
		return nil
	}
	gstinState := gstin[:2]
	passed := gstinState == stateCode
	msg := fmt.Sprintf("Cross-field: %s GSTIN-State Match: GSTIN prefix matches state_code", party)
	if !passed {
		msg = fmt.Sprintf("Cross-field: %s GSTIN-State Match: GSTIN prefix %s does not match state_code %s", party, gstinState, stateCode)
	}
	return []ValidationResult{{
		Passed: passed, FieldPath: fp,
		ExpectedValue: fmt.Sprintf("GSTIN[0:2] == %s", stateCode),
		ActualValue:   gstinState, Message: msg,
	}}
}

func gstinPANCheck(party, gstin, pan string) []ValidationResult {
	if len(gstin) < 12 || pan == "" {
		return nil
	}
	embedded := gstin[2:12]
	passed := embedded == pan
	msg := fmt.Sprintf("Cross-field: %s GSTIN-PAN Match: GSTIN embeds the PAN", party)
	if !passed {
		msg = fmt.Sprintf("Cross-field: %s GSTIN-PAN Match: GSTIN embeds %s, PAN is %s", party, embedded, pan)
	}
	return []ValidationResult{{
		Passed: passed, FieldPath: party + ".pan",
		ExpectedValue: embedded, ActualValue: pan, Message: msg,
	}}
}

func positive(p *float64) bool { return p != nil && *p > 0 }

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
