package itemize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// OCR sometimes reads the leading 0 of a price as a capital letter ("O.99").
	brokenPriceRe = regexp.MustCompile(`^[A-Z]*\.[0-9]{2}$`)
	priceRe       = regexp.MustCompile(`^[0-9]+\.[0-9]{2}$`)
	numberRe      = regexp.MustCompile(`^([0-9]+)(?:\.([0-9]{1,2}))?$`)
)

// Price is an accepted price line
type Price struct {
	Line     Line   `json:"line"`
	Token    string `json:"token"` // text that matched, after repair
	Cents    int    `json:"cents"`
	Repaired bool   `json:"repaired"`
}

// IsPrice reports whether s is a well-formed price such as "12.50"
func IsPrice(s string) bool {
	return priceRe.MatchString(s)
}

// RepairPrice fixes a price whose leading digit was misread as a capital
// letter. Only the first letter before the decimal point is replaced with
// "0.", so "O.99" becomes "0.99" while "OO.99" becomes "0.O99" and stays
// invalid. Tokens that do not look broken are returned unchanged with false.
func RepairPrice(token string) (string, bool) {
	if !brokenPriceRe.MatchString(token) {
		return token, false
	}

	dot := strings.IndexByte(token, '.')
	prefix, digits := token[:dot], token[dot+1:]
	if i := strings.IndexFunc(prefix, isUpperASCII); i >= 0 {
		prefix = prefix[:i] + "0." + prefix[i+1:]
	}
	return prefix + digits, true
}

func isUpperASCII(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// ParseCents parses a plain decimal amount ("12", "4.3", "4.30") into cents.
// Anything else is rejected: signs, spaces, letters, more than two
// fractional digits, and values that overflow int.
func ParseCents(s string) (int, bool) {
	m := numberRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	whole, err := strconv.Atoi(m[1])
	if err != nil || whole > math.MaxInt/100 {
		return 0, false
	}
	frac := 0
	switch len(m[2]) {
	case 1:
		frac = int(m[2][0]-'0') * 10
	case 2:
		frac = int(m[2][0]-'0')*10 + int(m[2][1]-'0')
	}
	if whole*100 > math.MaxInt-frac {
		return 0, false
	}
	return whole*100 + frac, true
}

// FormatCents renders cents as a decimal amount, e.g. 430 as "4.30"
func FormatCents(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
