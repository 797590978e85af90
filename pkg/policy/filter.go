// Package policy implements the predicate language and selector
// sublanguage UCAN delegation payloads use to constrain invocation
// arguments (§4.5).
package policy

import "fmt"

// FilterKind identifies which selector step a Filter represents.
type FilterKind int

const (
	FilterArrayIndex FilterKind = iota
	FilterField
	FilterValues
	FilterTry
)

// Filter is one step of a Selector: index into an array, look up a map
// field, flatten a collection's values, or wrap an inner filter so
// failures resolving it are swallowed rather than propagated (§4.5.1).
type Filter struct {
	kind  FilterKind
	index int32
	field string
	inner *Filter
}

// ArrayIndex builds a `[i]` filter. Negative indices count from the end
// of the array at resolution time.
func ArrayIndex(i int32) Filter { return Filter{kind: FilterArrayIndex, index: i} }

// Field builds a `.key` / `["key"]` filter.
func Field(key string) Filter { return Filter{kind: FilterField, field: key} }

// Values builds a `[]` filter, flattening a list or map's elements.
func Values() Filter { return Filter{kind: FilterValues} }

// Try builds a `?` filter wrapping inner: resolution errors for inner are
// swallowed and replaced with Null rather than propagated.
func Try(inner Filter) Filter {
	cp := inner
	return Filter{kind: FilterTry, inner: &cp}
}

func (f Filter) Kind() FilterKind { return f.kind }

// Inner returns the wrapped filter for a Try filter.
func (f Filter) Inner() (Filter, bool) {
	if f.kind != FilterTry || f.inner == nil {
		return Filter{}, false
	}
	return *f.inner, true
}

// Index returns the target index for an ArrayIndex filter.
func (f Filter) Index() (int32, bool) {
	if f.kind != FilterArrayIndex {
		return 0, false
	}
	return f.index, true
}

// Key returns the field name for a Field filter.
func (f Filter) Key() (string, bool) {
	if f.kind != FilterField {
		return "", false
	}
	return f.field, true
}

// IsIn reports whether f is subsumed by other: equal filters are mutually
// "in" each other, and any ArrayIndex or Field filter is "in" a Values
// filter (since Values iterates every element/field a more specific
// filter could have picked out one of).
func (f Filter) IsIn(other Filter) bool {
	switch {
	case f.kind == FilterArrayIndex && other.kind == FilterArrayIndex:
		return f.index == other.index
	case f.kind == FilterField && other.kind == FilterField:
		return f.field == other.field
	case f.kind == FilterValues && other.kind == FilterValues:
		return true
	case f.kind == FilterArrayIndex && other.kind == FilterValues:
		return true
	case f.kind == FilterField && other.kind == FilterValues:
		return true
	case f.kind == FilterTry && other.kind == FilterTry:
		a, _ := f.Inner()
		b, _ := other.Inner()
		return a.IsIn(b)
	default:
		return false
	}
}

// Equal reports structural equality, used by Selector's partial order.
func (f Filter) Equal(other Filter) bool {
	if f.kind != other.kind {
		return false
	}
	switch f.kind {
	case FilterArrayIndex:
		return f.index == other.index
	case FilterField:
		return f.field == other.field
	case FilterValues:
		return true
	case FilterTry:
		a, _ := f.Inner()
		b, _ := other.Inner()
		return a.Equal(b)
	default:
		return false
	}
}

// isDotField reports whether Field's key can be printed as `.key` rather
// than `["key"]`: it must start with a letter or underscore and contain
// only letters, digits, and underscores.
func (f Filter) isDotField() bool {
	if f.kind != FilterField {
		return false
	}
	if len(f.field) == 0 {
		return false
	}
	for i, r := range f.field {
		switch {
		case r == '_':
		case i == 0 && isAlpha(r):
		case i > 0 && isAlphaNumeric(r):
		default:
			return false
		}
	}
	return true
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || isDigit(r)
}

// String renders the filter in selector-printer form (§4.5.1: `.foo` is
// preferred over `["foo"]` whenever the key is identifier-shaped).
func (f Filter) String() string {
	switch f.kind {
	case FilterArrayIndex:
		return fmt.Sprintf("[%d]", f.index)
	case FilterField:
		if f.isDotField() {
			return "." + f.field
		}
		return fmt.Sprintf("[%q]", f.field)
	case FilterValues:
		return "[]"
	case FilterTry:
		inner, _ := f.Inner()
		return inner.String() + "?"
	default:
		return ""
	}
}
