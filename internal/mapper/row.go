package mapper

import "strconv"

// CellKind tags the value held by a Cell.
type CellKind uint8

const (
	CellAbsent CellKind = iota
	CellText
	CellNumber
)

// Cell is a single value of an order export row. Spreadsheet sources can carry
// typed numbers; CSV sources only carry text.
type Cell struct {
	kind   CellKind
	text   string
	number float64
}

// Text returns a text cell.
func Text(s string) Cell {
	return Cell{kind: CellText, text: s}
}

// Number returns a numeric cell.
func Number(n float64) Cell {
	return Cell{kind: CellNumber, number: n}
}

// Kind reports what the cell holds.
func (c Cell) Kind() CellKind { return c.kind }

// IsAbsent reports whether the cell holds no value.
func (c Cell) IsAbsent() bool { return c.kind == CellAbsent }

// String coerces the cell to text. Absent cells are empty.
func (c Cell) String() string {
	switch c.kind {
	case CellText:
		return c.text
	case CellNumber:
		return strconv.FormatFloat(c.number, 'f', -1, 64)
	default:
		return ""
	}
}

// Row maps a header name to its cell. Headers missing from the map are absent.
type Row map[string]Cell

// ParsedData is one parsed order export.
type ParsedData struct {
	// Headers in document order, trimmed.
	Headers []string
	Rows    []Row
	// Metafields are the headers not matched by any standard field.
	Metafields []string
}

// NewParsedData builds ParsedData from headers and rows and computes its metafields.
func NewParsedData(headers []string, rows []Row) *ParsedData {
	return &ParsedData{
		Headers:    headers,
		Rows:       rows,
		Metafields: DetectMetafields(headers),
	}
}
