package schema

import (
	"math"
	"strconv"
	"strings"
)

// FormatRevision formats a revision number with the shortest representation
// that round-trips, so 110 prints as "110" and 1.5 as "1.5".
func FormatRevision(rev float64) string {
	return strconv.FormatFloat(rev, 'f', -1, 64)
}

// FormatPercent formats a fractional change as a percentage with two decimals.
// Exact halfway values round away from zero, so 0.125 prints as "0.13".
func FormatPercent(relativeChange float64) string {
	pct := relativeChange * 100
	if pct == 0 {
		return "0.00"
	}
	abs := math.Abs(pct)
	if isHundredthsTie(abs) {
		// Any value above the tie rounds up.
		abs = math.Nextafter(abs, math.Inf(1))
	}
	s := strconv.FormatFloat(abs, 'f', 2, 64)
	if pct < 0 {
		return "-" + s
	}
	return s
}

// isHundredthsTie reports whether v lies exactly halfway between two
// hundredths. The exact decimal expansion of a tie ends in a single 5 at
// the third decimal place.
func isHundredthsTie(v float64) bool {
	exact := strconv.FormatFloat(v, 'f', 40, 64)
	dot := strings.IndexByte(exact, '.')
	return strings.TrimRight(exact[dot+3:], "0") == "5"
}

// ParseRevision parses a revision given on the command line or in a query string.
// An empty string means no revision.
func ParseRevision(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
