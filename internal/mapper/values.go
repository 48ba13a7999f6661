package mapper

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	nonNumericChars = regexp.MustCompile(`[^0-9.\-]`)
	leadingNumber   = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
)

// GetValue returns the trimmed text of the cell under col. A missing column or
// absent cell yields "".
func GetValue(row Row, col string) string {
	if col == "" {
		return ""
	}
	cell, ok := row[col]
	if !ok {
		return ""
	}
	return strings.TrimSpace(cell.String())
}

// GetNumericValue parses the cell under col as a number after removing every
// character other than digits, '.' and '-'. Currency symbols and thousands
// separators are therefore ignored. Digits separated by text are concatenated
// ("abc 12 def 34" is 1234). Anything unparseable is 0.
func GetNumericValue(row Row, col string) float64 {
	raw := GetValue(row, col)
	if raw == "" {
		return 0
	}
	cleaned := nonNumericChars.ReplaceAllString(raw, "")
	// Only the leading numeric run counts, so "12.3.4" reads as 12.3.
	m := leadingNumber.FindString(cleaned)
	if m == "" {
		return 0
	}
	n, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return n
}
