// Command seedhsn converts an HSN/SAC rate list (CSV or XLSX) into a SQL seed
// file for the hsn_codes table used by the advisory HSN checks.
//
// The list needs a code column ("HSN", "SAC", "Code"), a rate column ("GST Rate",
// "Rate") and optionally a description column. Rates may be free text such as
// "18%", "Exempt" or "12%-18%".
//
// Usage: go run ./cmd/seedhsn -in hsn_rates.xlsx -out db/seeds/hsn_codes.sql
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"invoicer/internal/importer"
	"invoicer/internal/mapper"
)

const batchSize = 500

type hsnEntry struct {
	code        string
	description string
	gstRate     float64
	parentCode  string // empty = NULL
}

var (
	codeField = mapper.Field{Name: "code", Exact: []string{"hsn", "sac", "code"}, Patterns: []string{"hsn", "sac", "code"}}
	descField = mapper.Field{Name: "description", Patterns: []string{"description", "desc", "name"}}
	rateField = mapper.Field{Name: "rate", Patterns: []string{"gst rate", "rate", "gst"}}
)

func main() {
	in := flag.String("in", "", "HSN/SAC rate list (.csv or .xlsx)")
	outPath := flag.String("out", "db/seeds/hsn_codes.sql", "output SQL file")
	flag.Parse()

	if err := run(*in, *outPath); err != nil {
		log.Fatal(err)
	}
}

func run(in, outPath string) error {
	if in == "" {
		return fmt.Errorf("-in is required")
	}
	sourceType, err := importer.DetectSourceType(in)
	if err != nil {
		return err
	}
	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("open rate list: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := importer.Parse(f, sourceType)
	if err != nil {
		return fmt.Errorf("parse rate list: %w", err)
	}
	entries, err := collectEntries(data)
	if err != nil {
		return err
	}
	log.Printf("seedhsn: %d entries from %d rows", len(entries), len(data.Rows))

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if err := writeSeed(out, entries); err != nil {
		return err
	}
	log.Printf("seedhsn: wrote %d batches to %s", (len(entries)+batchSize-1)/batchSize, outPath)
	return nil
}

// collectEntries reads one entry per (code, rate) pair. Rows without a numeric
// code or a recognisable rate are skipped.
func collectEntries(data *mapper.ParsedData) ([]hsnEntry, error) {
	codeCol, ok := codeField.Lookup(data.Headers)
	if !ok {
		return nil, fmt.Errorf("no HSN/SAC code column in %v", data.Headers)
	}
	rateCol, ok := rateField.Lookup(data.Headers)
	if !ok {
		return nil, fmt.Errorf("no GST rate column in %v", data.Headers)
	}
	descCol, _ := descField.Lookup(data.Headers)

	seen := make(map[string]bool)
	var entries []hsnEntry
	for _, row := range data.Rows {
		code := strings.ReplaceAll(mapper.GetValue(row, codeCol), " ", "")
		if !isNumeric(code) {
			continue
		}
		desc := mapper.GetValue(row, descCol)
		for _, rate := range parseRate(mapper.GetValue(row, rateCol)) {
			entries = addEntry(entries, seen, code, desc, rate)
		}
	}
	return entries, nil
}

// ratePattern matches a number optionally followed by "%".
var ratePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%?`)

// parseRate extracts GST rate(s) from free-text rate strings.
//
//	"18%"                                   → [18]
//	"Exempt"                                → [0]
//	"12%-18%"                               → [12, 18]
//	"1% (without ITC) or 5% (without ITC)"  → [1, 5]
//	"0.25"                                  → [0.25]
func parseRate(s string) []float64 {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return nil
	case "exempt", "nil":
		return []float64{0}
	}

	seen := make(map[float64]bool)
	var rates []float64
	for _, m := range ratePattern.FindAllStringSubmatch(s, -1) {
		rate, err := strconv.ParseFloat(m[1], 64)
		if err != nil || rate > 100 || seen[rate] {
			continue
		}
		seen[rate] = true
		rates = append(rates, rate)
	}
	return rates
}

func addEntry(entries []hsnEntry, seen map[string]bool, code, description string, gstRate float64) []hsnEntry {
	key := fmt.Sprintf("%s|%.2f", code, gstRate)
	if seen[key] {
		return entries
	}
	seen[key] = true

	parent := ""
	if len(code) > 4 {
		parent = code[:4]
	}
	return append(entries, hsnEntry{code: code, description: description, gstRate: gstRate, parentCode: parent})
}

func writeSeed(w io.Writer, entries []hsnEntry) error {
	header := fmt.Sprintf("-- HSN/SAC code seed data.\n-- %d entries in batches of %d.\nBEGIN;\n\n", len(entries), batchSize)
	if _, err := io.WriteString(w, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < len(entries); i += batchSize {
		end := min(i+batchSize, len(entries))
		if err := writeBatch(w, entries[i:end]); err != nil {
			return fmt.Errorf("write batch at offset %d: %w", i, err)
		}
	}
	if _, err := io.WriteString(w, "\nCOMMIT;\n"); err != nil {
		return fmt.Errorf("write footer: %w", err)
	}
	return nil
}

func writeBatch(w io.Writer, batch []hsnEntry) error {
	if len(batch) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO hsn_codes (code, description, gst_rate, parent_code, effective_from) VALUES\n")
	for i := range batch {
		e := &batch[i]
		if i > 0 {
			b.WriteString(",\n")
		}
		parentVal := "NULL"
		if e.parentCode != "" {
			parentVal = fmt.Sprintf("'%s'", e.parentCode)
		}
		fmt.Fprintf(&b, "  ('%s', '%s', %.2f, %s, '2017-07-01')",
			escapeSQL(e.code), escapeSQL(e.description), e.gstRate, parentVal)
	}
	b.WriteString("\nON CONFLICT (code, gst_rate, condition_desc, effective_from) DO NOTHING;\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
