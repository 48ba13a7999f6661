package invoice

import (
	"math"
	"slices"
	"strings"

	"invoicer/internal/port"
)

// HSNRate is one GST rate the master list allows for a code, with the
// condition under which it applies ("value above Rs 1000", say).
type HSNRate struct {
	Rate      float64
	Condition string
}

// HSNLookup answers HSN master questions for the codes found on invoices.
// Exports carry codes at any granularity: a store may write 7113, 711319 or
// 71131910 for the same article, often as "7113.19" or with a leading quote
// from a spreadsheet. Lookups therefore match a code against the master at
// both coarser headings and finer subheadings. The lookup is read-only once
// built.
type HSNLookup struct {
	codes map[string][]HSNRate
	// headings holds the merged rates of the master codes under each 4 and 6
	// digit heading the master itself does not list.
	headings map[string][]HSNRate
}

// NewHSNLookup indexes master entries by their digit-only code.
func NewHSNLookup(entries []port.HSNEntry) *HSNLookup {
	h := &HSNLookup{
		codes:    make(map[string][]HSNRate, len(entries)),
		headings: make(map[string][]HSNRate),
	}
	for _, e := range entries {
		code := normalizeHSN(e.Code)
		if code == "" {
			continue
		}
		h.codes[code] = addRate(h.codes[code], HSNRate{Rate: e.GSTRate, Condition: e.ConditionDesc})
	}
	// Sorted so merged heading rates come out in a stable order.
	codes := make([]string, 0, len(h.codes))
	for code := range h.codes {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	for _, code := range codes {
		rates := h.codes[code]
		for _, n := range []int{6, 4} {
			if len(code) <= n {
				continue
			}
			heading := code[:n]
			if _, listed := h.codes[heading]; listed {
				continue
			}
			for _, r := range rates {
				h.headings[heading] = addRate(h.headings[heading], r)
			}
		}
	}
	return h
}

// Len is the number of distinct codes in the master.
func (h *HSNLookup) Len() int { return len(h.codes) }

// Exists reports whether the code, a heading above it, or a subheading below
// it is in the master.
func (h *HSNLookup) Exists(code string) bool {
	return h.Rates(code) != nil
}

// Rates returns the rates for a code. An exact master entry wins, then the
// nearest listed heading above the code, then the merged rates of the master
// codes below it.
func (h *HSNLookup) Rates(code string) []HSNRate {
	code = normalizeHSN(code)
	if code == "" || len(h.codes) == 0 {
		return nil
	}
	if rates, ok := h.codes[code]; ok {
		return rates
	}
	for _, n := range []int{6, 4} {
		if len(code) > n {
			if rates, ok := h.codes[code[:n]]; ok {
				return rates
			}
		}
	}
	return h.headings[code]
}

// RateMatches reports whether gstRate is one of the code's master rates, and
// returns those rates. splitTax is set for CGST/SGST lines whose rate was read
// as the per-component half; twice the rate is accepted for them.
func (h *HSNLookup) RateMatches(code string, gstRate float64, splitTax bool) (bool, []HSNRate) {
	rates := h.Rates(code)
	for _, r := range rates {
		if sameRate(r.Rate, gstRate) || (splitTax && sameRate(r.Rate, gstRate*2)) {
			return true, rates
		}
	}
	return false, rates
}

// normalizeHSN keeps the digits of a code, so "7113.19" and "'711319" both
// read as 711319.
func normalizeHSN(code string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, code)
}

func addRate(rates []HSNRate, r HSNRate) []HSNRate {
	for _, have := range rates {
		if sameRate(have.Rate, r.Rate) && have.Condition == r.Condition {
			return rates
		}
	}
	return append(rates, r)
}

func sameRate(a, b float64) bool { return math.Abs(a-b) < 0.01 }
