// Package importer reads order exports into mapper.ParsedData.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"invoicer/internal/domain"
	"invoicer/internal/mapper"
)

const utf8BOM = "\ufeff"

// DetectSourceType maps a file name to its source type by extension.
func DetectSourceType(fileName string) (domain.SourceType, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	st, ok := domain.AllowedSourceExtensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedSourceType, ext)
	}
	return st, nil
}

// Parse reads an export of the given type. The first row holds the headers;
// headers and cells are trimmed and rows with no content are skipped.
func Parse(r io.Reader, sourceType domain.SourceType) (*mapper.ParsedData, error) {
	var (
		records [][]string
		err     error
	)
	switch sourceType {
	case domain.SourceTypeCSV:
		records, err = readCSV(r)
	case domain.SourceTypeXLSX:
		records, err = readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedSourceType, sourceType)
	}
	if err != nil {
		return nil, err
	}
	return build(records)
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedSource, err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], utf8BOM)
	}
	return records, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedSource, err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %v", domain.ErrMalformedSource, sheet, err)
	}
	return rows, nil
}

func build(records [][]string) (*mapper.ParsedData, error) {
	var (
		headers []string
		index   []int
		rows    []mapper.Row
	)
	for _, rec := range records {
		if isBlank(rec) {
			continue
		}
		if headers == nil {
			headers, index = headerColumns(rec)
			if len(headers) == 0 {
				return nil, fmt.Errorf("%w: header row has no names", domain.ErrMalformedSource)
			}
			continue
		}
		row := make(mapper.Row, len(headers))
		for i, h := range headers {
			col := index[i]
			if col >= len(rec) {
				continue
			}
			if v := strings.TrimSpace(rec[col]); v != "" {
				row[h] = mapper.Text(v)
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, domain.ErrNoDataRows
	}
	return mapper.NewParsedData(headers, rows), nil
}

// headerColumns returns the trimmed non-empty header names and their column
// positions. A repeated header keeps its first column.
func headerColumns(rec []string) ([]string, []int) {
	seen := make(map[string]bool, len(rec))
	var (
		names []string
		index []int
	)
	for i, h := range rec {
		h = strings.TrimSpace(h)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		names = append(names, h)
		index = append(index, i)
	}
	return names, index
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ParseBytes is Parse over an in-memory file.
func ParseBytes(content []byte, sourceType domain.SourceType) (*mapper.ParsedData, error) {
	return Parse(bytes.NewReader(content), sourceType)
}
