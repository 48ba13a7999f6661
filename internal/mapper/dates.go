package mapper

import (
	"strings"
	"time"
)

// InvoiceDateLayout is the display format of every date on an invoice.
const InvoiceDateLayout = "02-01-2006"

// Day-first layouts come before month-first ones.
var dateLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -07:00",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"2/1/2006",
	"02.01.2006",
	"02-Jan-2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"01/02/2006",
	"1/2/2006",
}

// FormatDate renders a source date as DD-MM-YYYY. The calendar date is taken in
// the offset it was written with. Text that matches no known layout is returned
// unchanged (trimmed).
func FormatDate(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return ""
	}
	if t, ok := parseDate(v); ok {
		return t.Format(InvoiceDateLayout)
	}
	return v
}

func parseDate(v string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
