// Package protocolnum computes and parses sequential protocol numbers of the
// form PREFIX-YYYY-NNN.
//
// The package is pure: it never touches storage. Callers gather the numbers
// already issued for a year (including deleted ones) and ask Next for the
// successor. Sequences past 999 widen the padding instead of wrapping, so the
// suffix stays unique and numerically increasing.
package protocolnum

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultPrefix is the organization prefix used when none is configured.
const DefaultPrefix = "GLESP"

// MinDigits is the minimum zero padding of the sequence suffix.
const MinDigits = 3

// MaxSeq is the largest sequence suffix. Longer suffixes are treated as
// malformed so a bad import cannot push the sequence into overflow.
const MaxSeq = 999_999_999

var (
	// ErrMalformed is returned by Parse for strings that are not PREFIX-YYYY-N.
	ErrMalformed = errors.New("malformed protocol number")

	// ErrExhausted is returned by Next when a year already issued MaxSeq.
	ErrExhausted = errors.New("protocol number sequence exhausted")
)

// Number is a parsed protocol number.
type Number struct {
	Prefix string
	Year   int
	Seq    int
}

// String renders n with the standard padding.
func (n Number) String() string { return Format(n.Prefix, n.Year, n.Seq) }

// Format renders PREFIX-YYYY-NNN, padding seq to at least MinDigits.
func Format(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%04d-%0*d", prefix, year, MinDigits, seq)
}

// YearPrefix returns the prefix shared by every number of a year, e.g.
// "GLESP-2025-". Stores use it for the year scan.
func YearPrefix(prefix string, year int) string {
	return fmt.Sprintf("%s-%04d-", prefix, year)
}

// Parse splits s on '-' and reads the year and the numeric suffix from the
// second and third segments.
func Parse(s string) (Number, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 || parts[0] == "" {
		return Number{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 4 {
		return Number{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	seq, err := strconv.Atoi(parts[2])
	if err != nil || seq < 0 || seq > MaxSeq {
		return Number{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	return Number{Prefix: parts[0], Year: year, Seq: seq}, nil
}

// Suffix returns the numeric sequence of s and whether it parsed.
func Suffix(s string) (int, bool) {
	n, err := Parse(s)
	if err != nil {
		return 0, false
	}
	return n.Seq, true
}

// Next returns the number following the highest suffix in existing. Entries
// that fail to parse contribute zero and are reported in corrupt so callers
// can surface them; they never abort the computation. When the highest
// suffix is MaxSeq, Next returns ErrExhausted.
func Next(prefix string, year int, existing []string) (next string, corrupt []string, err error) {
	high := 0
	for _, s := range existing {
		seq, ok := Suffix(s)
		if !ok {
			corrupt = append(corrupt, s)
			continue
		}
		if seq > high {
			high = seq
		}
	}
	if high >= MaxSeq {
		return "", corrupt, fmt.Errorf("%w: %s", ErrExhausted, YearPrefix(prefix, year))
	}
	return Format(prefix, year, high+1), corrupt, nil
}

// Compare orders two protocol numbers by year and then by numeric suffix, so
// "GLESP-2025-1000" sorts after "GLESP-2025-999". When either side does not
// parse the comparison falls back to plain string order.
func Compare(a, b string) int {
	na, errA := Parse(a)
	nb, errB := Parse(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	switch {
	case na.Year != nb.Year:
		return cmpInt(na.Year, nb.Year)
	case na.Seq != nb.Seq:
		return cmpInt(na.Seq, nb.Seq)
	default:
		return strings.Compare(na.Prefix, nb.Prefix)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
