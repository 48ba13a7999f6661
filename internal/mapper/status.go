package mapper

import (
	"strings"

	"invoicer/internal/domain"
)

// NormalizeFinancialStatus maps free-text payment states onto the invoice enum.
// Keywords are checked in priority order so that "unpaid" never reads as "paid"
// and "partially_refunded" reads as partially paid. Unknown text yields "".
func NormalizeFinancialStatus(raw string) domain.FinancialStatus {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case v == "":
		return ""
	case strings.Contains(v, "unpaid"):
		return domain.FinancialStatusUnpaid
	case strings.Contains(v, "partially"):
		return domain.FinancialStatusPartiallyPaid
	case strings.Contains(v, "paid"):
		return domain.FinancialStatusPaid
	case strings.Contains(v, "pending"):
		return domain.FinancialStatusPending
	case strings.Contains(v, "refund"):
		return domain.FinancialStatusRefunded
	case strings.Contains(v, "void"):
		return domain.FinancialStatusVoided
	}
	return ""
}
