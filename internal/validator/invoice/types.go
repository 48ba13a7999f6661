package invoice

// Severity tells how seriously a failed check should be taken. Every check is
// advisory: failures are reported, never corrected.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ValidationResult is the outcome of one check against one field.
type ValidationResult struct {
	Passed        bool   `json:"passed"`
	FieldPath     string `json:"field_path"`
	ExpectedValue string `json:"expected_value,omitempty"`
	ActualValue   string `json:"actual_value,omitempty"`
	Message       string `json:"message"`
}

// Warning is a failed check as reported to API clients.
type Warning struct {
	RuleKey   string   `json:"rule_key"`
	Severity  Severity `json:"severity"`
	FieldPath string   `json:"field_path"`
	Message   string   `json:"message"`
}
