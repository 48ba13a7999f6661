package invoice

import (
	"invoicer/internal/domain"
)

// BuiltinValidator wraps a check function and its metadata for the registry.
type BuiltinValidator struct {
	key  string
	name string
	sev  Severity
	fn   func(*domain.InvoiceData) []ValidationResult
}

func (b *BuiltinValidator) Validate(data *domain.InvoiceData) []ValidationResult {
	return b.fn(data)
}
func (b *BuiltinValidator) RuleKey() string    { return b.key }
func (b *BuiltinValidator) RuleName() string   { return b.name }
func (b *BuiltinValidator) Severity() Severity { return b.sev }

// AllBuiltinValidators returns the checks that need no lookup tables.
func AllBuiltinValidators() []*BuiltinValidator {
	var all []*BuiltinValidator
	all = append(all, RequiredFieldValidators()...)
	all = append(all, FormatValidators()...)
	all = append(all, MathValidators()...)
	all = append(all, CrossFieldValidators()...)
	return all
}

// Validator runs advisory GST checks over mapped invoices.
type Validator struct {
	rules []*BuiltinValidator
}

// NewValidator creates a Validator. A nil or empty lookup disables the HSN
// master checks.
func NewValidator(lookup *HSNLookup) *Validator {
	rules := AllBuiltinValidators()
	if lookup != nil && lookup.Len() > 0 {
		rules = append(rules, HSNValidators(lookup)...)
	}
	return &Validator{rules: rules}
}

// Warnings runs every check and returns the failures.
func (v *Validator) Warnings(data *domain.InvoiceData) []Warning {
	out := []Warning{}
	for _, r := range v.rules {
		for _, res := range r.Validate(data) {
			if res.Passed {
				continue
			}
			out = append(out, Warning{
				RuleKey:   r.RuleKey(),
				Severity:  r.Severity(),
				FieldPath: res.FieldPath,
				Message:   res.Message,
			})
		}
	}
	return out
}
