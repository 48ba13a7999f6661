// Package numbering allocates invoice numbers, either from a running counter
// or by mapping order numbers linearly onto invoice numbers.
package numbering

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"sync"

	"invoicer/internal/domain"
)

// MaxUniqueAttempts bounds how far EnsureUnique walks past taken numbers.
const MaxUniqueAttempts = 1000

var (
	trailingDigits = regexp.MustCompile(`^(.+?)(\d+)$`)
	lastDigitRun   = regexp.MustCompile(`(\d+)\D*$`)
)

// Increment bumps the trailing number of an invoice number, keeping its
// zero padding ("INV-0099" becomes "INV-0100"). A number without trailing
// digits gets "-1" appended.
func Increment(invoiceNo string) string {
	m := trailingDigits.FindStringSubmatch(invoiceNo)
	if m == nil {
		return invoiceNo + "-1"
	}
	n, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return invoiceNo + "-1"
	}
	return m[1] + fmt.Sprintf("%0*d", len(m[2]), n+1)
}

// OrderNumber extracts the last run of digits in an order number.
func OrderNumber(orderNo string) (int64, bool) {
	m := lastDigitRun.FindStringSubmatch(orderNo)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FromOrderMapping computes prefix + (startInvoice + orderNumber - startOrder).
// It reports false when the order number carries no digits. Order numbers are
// assumed to be sequential; gaps and reuse are not detected.
func FromOrderMapping(orderNo, prefix string, mapping domain.OrderMapping) (string, bool) {
	n, ok := OrderNumber(orderNo)
	if !ok {
		return "", false
	}
	return prefix + strconv.FormatInt(mapping.StartingInvoiceNumber+(n-mapping.StartingOrderNumber), 10), true
}

// Sequencer issues invoice numbers from a snapshot of the numbering settings.
// Counter numbers are only advanced in the sequencer; the caller persists
// Next() back to settings once the numbers are committed.
type Sequencer struct {
	mu       sync.Mutex
	settings domain.NumberingSettings
	next     int64
}

// NewSequencer creates a Sequencer from a settings snapshot.
func NewSequencer(settings domain.NumberingSettings) *Sequencer {
	next := settings.NextNumber
	if next < 1 {
		next = 1
	}
	return &Sequencer{settings: settings, next: next}
}

// InvoiceNumberFor returns the invoice number for an order. With an order
// mapping configured the number is derived from the order number; otherwise,
// or when the order number has no digits, the counter is used.
func (s *Sequencer) InvoiceNumberFor(orderNo string) string {
	if s.settings.OrderMapping != nil {
		if no, ok := FromOrderMapping(orderNo, s.settings.Prefix, *s.settings.OrderMapping); ok {
			return no
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	no := s.settings.Prefix + strconv.FormatInt(s.next, 10)
	s.next++
	return no
}

// Next is the counter value the next counter-mode number would use.
func (s *Sequencer) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// Checker reports whether an invoice number is already taken.
type Checker interface {
	InvoiceNumberExists(ctx context.Context, invoiceNo string) (bool, error)
}

// EnsureUnique returns invoiceNo, or the first free number after it when it is
// already taken. reserved holds numbers claimed earlier in the same batch.
func EnsureUnique(ctx context.Context, checker Checker, invoiceNo string, reserved map[string]bool) (string, error) {
	candidate := invoiceNo
	for i := 0; i < MaxUniqueAttempts; i++ {
		if !reserved[candidate] {
			exists, err := checker.InvoiceNumberExists(ctx, candidate)
			if err != nil {
				return "", fmt.Errorf("numbering.EnsureUnique: %w", err)
			}
			if !exists {
				if candidate != invoiceNo {
					log.Printf("numbering.EnsureUnique: %s taken, using %s", invoiceNo, candidate)
				}
				return candidate, nil
			}
		}
		candidate = Increment(candidate)
	}
	return "", fmt.Errorf("numbering.EnsureUnique: %s: %w", invoiceNo, domain.ErrInvoiceNumberExhausted)
}
