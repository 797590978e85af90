package policy

import "github.com/ucan-wg/go-ucan/pkg/ipld"

// Sel is a predicate operand: either a literal IPLD value, or a Selector
// resolved against the ambient argument map at evaluation time (§3.7's
// `Sel<T>`, ported from `original_source`'s `Select<T>` enum's `Pure`/`Get`
// variants).
type Sel struct {
	isLiteral bool
	literal   ipld.Value
	selector  Selector
}

// Literal builds a Sel that always resolves to v regardless of context.
func Literal(v ipld.Value) Sel {
	return Sel{isLiteral: true, literal: v}
}

// FromSelector builds a Sel that resolves sel against whatever context
// it's run against.
func FromSelector(sel Selector) Sel {
	return Sel{selector: sel}
}

// MustParseSel parses a selector string into a Sel, panicking on a
// malformed selector; intended for static policy construction, not for
// parsing untrusted input (use ParseSelector directly and FromSelector
// for that).
func MustParseSel(s string) Sel {
	sel, err := ParseSelector(s)
	if err != nil {
		panic(err)
	}
	return FromSelector(sel)
}

// Resolve returns the operand's value: the literal itself, or the result
// of resolving its selector against data.
func (s Sel) Resolve(data ipld.Value) (ipld.Value, error) {
	if s.isLiteral {
		return s.literal, nil
	}
	return Select(s.selector, data)
}
