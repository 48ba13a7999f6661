package domain

// FinancialStatus is the payment state of an order as reported by the export.
type FinancialStatus string

const (
	FinancialStatusPaid          FinancialStatus = "paid"
	FinancialStatusPending       FinancialStatus = "pending"
	FinancialStatusUnpaid        FinancialStatus = "unpaid"
	FinancialStatusPartiallyPaid FinancialStatus = "partially_paid"
	FinancialStatusRefunded      FinancialStatus = "refunded"
	FinancialStatusVoided        FinancialStatus = "voided"
)

// SourceType represents the allowed order export formats.
type SourceType string

const (
	SourceTypeCSV  SourceType = "csv"
	SourceTypeXLSX SourceType = "xlsx"
)

// AllowedSourceExtensions maps file extensions (without dot) to SourceType.
var AllowedSourceExtensions = map[string]SourceType{
	"csv":  SourceTypeCSV,
	"xlsx": SourceTypeXLSX,
}

// SourceContentTypes maps SourceType to the MIME type used when archiving.
var SourceContentTypes = map[SourceType]string{
	SourceTypeCSV:  "text/csv",
	SourceTypeXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// GroupingMode selects how rows become invoices.
type GroupingMode string

const (
	// GroupingByOrder produces one invoice per distinct order number.
	GroupingByOrder GroupingMode = "order"
	// GroupingByRow produces one invoice per row.
	GroupingByRow GroupingMode = "row"
)
