package policy

import (
	"fmt"
	"strconv"
	"strings"
)

// Selector addresses a location within an IPLD value: a sequence of
// filters applied left to right (§4.5.1).
type Selector struct {
	filters []Filter
}

// NewSelector builds a Selector from an explicit filter sequence.
func NewSelector(filters ...Filter) Selector {
	return Selector{filters: append([]Filter(nil), filters...)}
}

// Filters returns the selector's filter sequence.
func (s Selector) Filters() []Filter { return s.filters }

// String renders the selector in canonical printed form: a leading `.`
// when the selector is empty or its first filter isn't already printed
// with a leading dot, followed by each filter's own Display form.
func (s Selector) String() string {
	var b strings.Builder
	if len(s.filters) == 0 {
		return "."
	}
	first := s.filters[0]
	if !dotPrefixed(first) {
		b.WriteString(".")
	}
	for _, f := range s.filters {
		b.WriteString(f.String())
	}
	return b.String()
}

// dotPrefixed reports whether f's own String() already starts with '.'
// (true for a plain dot-field, and for a Try wrapping one), so the
// selector printer doesn't double up the leading dot.
func dotPrefixed(f Filter) bool {
	if f.kind == FilterField {
		return f.isDotField()
	}
	if f.kind == FilterTry {
		inner, _ := f.Inner()
		return dotPrefixed(inner)
	}
	return false
}

// ErrMissingStartingDot is returned when a selector string doesn't begin
// with `.`.
var ErrMissingStartingDot = fmt.Errorf("policy: selector must start with '.'")

// ErrStartsWithDoubleDot is returned when a selector string begins `..`.
var ErrStartsWithDoubleDot = fmt.Errorf("policy: selector must not start with '..'")

// ErrTrailingInput is returned when parsing stops before consuming the
// whole selector string.
var ErrTrailingInput = fmt.Errorf("policy: trailing input in selector")

// ErrUnknownPattern is returned when no filter grammar rule matches the
// remaining input.
var ErrUnknownPattern = fmt.Errorf("policy: unrecognized selector syntax")

// ParseSelector parses a selector string per §4.5.1's grammar.
func ParseSelector(s string) (Selector, error) {
	if !strings.HasPrefix(s, ".") {
		return Selector{}, fmt.Errorf("%w: %q", ErrMissingStartingDot, s)
	}
	if strings.HasPrefix(s, "..") {
		return Selector{}, fmt.Errorf("%w: %q", ErrStartsWithDoubleDot, s)
	}

	var acc []Filter
	var working string

	if f, rest, ok := parseTryDotField(s); ok {
		acc = append(acc, f)
		working = rest
	} else if f, rest, ok := parseDotField(s); ok {
		acc = append(acc, f)
		working = rest
	} else {
		working = s[1:]
	}

	// Consume any run of bare '?' characters before further filters; the
	// original grammar accepts these as a no-op (e.g. ".?????").
	for strings.HasPrefix(working, "?") {
		working = working[1:]
	}

	for len(working) > 0 {
		f, rest, err := parseFilter(working)
		if err != nil {
			return Selector{}, fmt.Errorf("%w: %q", ErrUnknownPattern, working)
		}
		acc = append(acc, f)
		working = rest
	}

	return Selector{filters: acc}, nil
}

// Ordering is the result of comparing two selectors by filter-sequence
// prefix (§4.5.1 / original_source's `PartialOrd` impl on Selector).
type Ordering int

const (
	OrderIncomparable Ordering = iota
	OrderEqual
	OrderLess
	OrderGreater
)

// Compare reports how s relates to other: Equal if their filter sequences
// match exactly, Greater if other's sequence is a strict prefix of s's
// (s is "more specific"), Less if s's sequence is a strict prefix of
// other's, and Incomparable otherwise.
func (s Selector) Compare(other Selector) Ordering {
	if filtersEqual(s.filters, other.filters) {
		return OrderEqual
	}
	if hasFilterPrefix(s.filters, other.filters) {
		return OrderGreater
	}
	if hasFilterPrefix(other.filters, s.filters) {
		return OrderLess
	}
	return OrderIncomparable
}

func filtersEqual(a, b []Filter) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// hasFilterPrefix reports whether prefix is a (non-strict) prefix of full.
func hasFilterPrefix(full, prefix []Filter) bool {
	if len(prefix) > len(full) {
		return false
	}
	for i := range prefix {
		if !full[i].Equal(prefix[i]) {
			return false
		}
	}
	return true
}

// --- filter grammar ---

func parseFilter(s string) (Filter, string, error) {
	if f, rest, ok := parseTry(s); ok {
		return f, rest, nil
	}
	return parseNonTry(s)
}

func parseTry(s string) (Filter, string, bool) {
	f, rest, err := parseNonTry(s)
	if err != nil {
		return Filter{}, s, false
	}
	if !strings.HasPrefix(rest, "?") {
		return Filter{}, s, false
	}
	for strings.HasPrefix(rest, "?") {
		rest = rest[1:]
	}
	return Try(f), rest, true
}

func parseTryDotField(s string) (Filter, string, bool) {
	f, rest, ok := parseDotField(s)
	if !ok || !strings.HasPrefix(rest, "?") {
		return Filter{}, s, false
	}
	for strings.HasPrefix(rest, "?") {
		rest = rest[1:]
	}
	return Try(f), rest, true
}

func parseNonTry(s string) (Filter, string, error) {
	if f, rest, ok := parseValues(s); ok {
		return f, rest, nil
	}
	if f, rest, ok := parseField(s); ok {
		return f, rest, nil
	}
	if f, rest, ok := parseArrayIndex(s); ok {
		return f, rest, nil
	}
	return Filter{}, s, fmt.Errorf("%w: %q", ErrUnknownPattern, s)
}

func parseValues(s string) (Filter, string, bool) {
	if strings.HasPrefix(s, "[]") {
		return Values(), s[2:], true
	}
	return Filter{}, s, false
}

func parseField(s string) (Filter, string, bool) {
	if f, rest, ok := parseDelimField(s); ok {
		return f, rest, ok
	}
	return parseDotField(s)
}

func parseDotField(s string) (Filter, string, bool) {
	runes := []rune(s)
	if len(runes) < 2 || runes[0] != '.' {
		return Filter{}, s, false
	}
	if !isAlpha(runes[1]) && runes[1] != '_' {
		return Filter{}, s, false
	}
	i := 2
	for i < len(runes) && (isAlphaNumeric(runes[i]) || runes[i] == '_') {
		i++
	}
	key := string(runes[1:i])
	return Field(key), string(runes[i:]), true
}

func parseDelimField(s string) (Filter, string, bool) {
	if strings.HasPrefix(s, `[""]`) {
		return Field(""), s[4:], true
	}
	if !strings.HasPrefix(s, `["`) {
		return Filter{}, s, false
	}
	rest := s[2:]
	end := strings.Index(rest, `"]`)
	if end < 0 {
		return Filter{}, s, false
	}
	return Field(rest[:end]), rest[end+2:], true
}

func parseArrayIndex(s string) (Filter, string, bool) {
	if !strings.HasPrefix(s, "[") {
		return Filter{}, s, false
	}
	rest := s[1:]
	neg := false
	if strings.HasPrefix(rest, "-") {
		neg = true
		rest = rest[1:]
	}
	digits := 0
	for digits < len(rest) && isDigit(rune(rest[digits])) {
		digits++
	}
	if digits == 0 || digits >= len(rest) || rest[digits] != ']' {
		return Filter{}, s, false
	}
	n, err := strconv.Atoi(rest[:digits])
	if err != nil {
		return Filter{}, s, false
	}
	if neg {
		n = -n
	}
	return ArrayIndex(int32(n)), rest[digits+1:], true
}
