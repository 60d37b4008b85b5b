package itemize

import (
	"fmt"
	"strings"
)

// Boundary controls how many prices may be accepted relative to the number
// of item names found.
type Boundary int

const (
	// Lenient accepts one price more than there are names. The extra slot
	// usually catches the printed total.
	Lenient Boundary = iota
	// Strict accepts at most one price per name.
	Strict
)

// String returns the flag spelling of the boundary
func (b Boundary) String() string {
	switch b {
	case Lenient:
		return "lenient"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("boundary(%d)", int(b))
	}
}

// ParseBoundary parses "lenient" or "strict"
func ParseBoundary(s string) (Boundary, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lenient", "":
		return Lenient, nil
	case "strict":
		return Strict, nil
	default:
		return Lenient, fmt.Errorf("unknown price boundary %q (want lenient or strict)", s)
	}
}

func (b Boundary) accepts(prices, names int) bool {
	if b == Strict {
		return prices < names
	}
	return prices <= names
}

// Option configures Itemize
type Option func(*options)

type options struct {
	boundary Boundary
}

// WithBoundary sets the price acceptance boundary. Lenient is the default.
func WithBoundary(b Boundary) Option {
	return func(o *options) {
		o.boundary = b
	}
}

// Row pairs the Nth name with the Nth accepted price
type Row struct {
	Name  Line  `json:"name"`
	Price Price `json:"price"`
}

// Table is the itemized form of a receipt
type Table struct {
	Names  []Line  `json:"names"`
	Prices []Price `json:"prices"`
	Rows   []Row   `json:"rows"`

	// ComputedTotal is the sum of every accepted price, in cents.
	ComputedTotal int `json:"computed_total"`
	// DetectedTotal is the last numeric line that exceeded the running
	// total when it was scanned. Nil if no line did.
	DetectedTotal *int `json:"detected_total,omitempty"`
}

// Discrepancy returns DetectedTotal minus ComputedTotal. The second value is
// false when no total was detected.
func (t *Table) Discrepancy() (int, bool) {
	if t.DetectedTotal == nil {
		return 0, false
	}
	return *t.DetectedTotal - t.ComputedTotal, true
}

// Reconciled reports whether a printed total was detected and matches the sum
func (t *Table) Reconciled() bool {
	d, ok := t.Discrepancy()
	return ok && d == 0
}

// Itemize classifies OCR text into names and prices and pairs them into rows.
//
// Names are collected from every line. Prices are only looked for after the
// last name line. A price is accepted while the boundary allows it; every
// accepted price is added to ComputedTotal. Independently, any line whose
// original text parses as a number larger than the running total (after that
// line's own price was added) becomes the DetectedTotal.
func Itemize(text string, opts ...Option) *Table {
	o := options{boundary: Lenient}
	for _, opt := range opts {
		opt(&o)
	}

	lines := Segment(text)
	names, lastName := matchNames(lines)

	prices := make([]Price, 0)
	total := 0
	var detected *int

	for _, ln := range lines[lastName+1:] {
		token, repaired := RepairPrice(ln.Content)
		if IsPrice(token) && o.boundary.accepts(len(prices), len(names)) {
			if cents, ok := ParseCents(token); ok {
				prices = append(prices, Price{
					Line:     ln,
					Token:    token,
					Cents:    cents,
					Repaired: repaired,
				})
				total += cents
			}
		}

		if v, ok := ParseCents(ln.Content); ok && v > total {
			detected = &v
		}
	}

	n := min(len(names), len(prices))
	rows := make([]Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, Row{Name: names[i], Price: prices[i]})
	}

	return &Table{
		Names:         names,
		Prices:        prices,
		Rows:          rows,
		ComputedTotal: total,
		DetectedTotal: detected,
	}
}
