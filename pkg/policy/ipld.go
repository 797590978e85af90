package policy

import (
	"fmt"

	"github.com/ucan-wg/go-ucan/pkg/ipld"
)

// ToIPLD renders a Sel the way the original crate's derived serde encoding
// for its Select<T> enum would: an externally-tagged single-key map, "Get"
// carrying the selector's string form or "Pure" carrying the literal value
// untouched.
func (s Sel) ToIPLD() ipld.Value {
	if s.isLiteral {
		return ipld.Map(map[string]ipld.Value{"Pure": s.literal})
	}
	return ipld.Map(map[string]ipld.Value{"Get": ipld.String(s.selector.String())})
}

// selFromIPLD parses a Sel previously produced by ToIPLD.
func selFromIPLD(v ipld.Value) (Sel, error) {
	m, ok := v.AsMap()
	if !ok {
		return Sel{}, fmt.Errorf("policy: Sel is not a map")
	}
	if lit, ok := m["Pure"]; ok {
		return Literal(lit), nil
	}
	if get, ok := m["Get"]; ok {
		s, ok := get.AsString()
		if !ok {
			return Sel{}, fmt.Errorf("policy: Sel.Get is not a string")
		}
		sel, err := ParseSelector(s)
		if err != nil {
			return Sel{}, fmt.Errorf("policy: Sel.Get: %w", err)
		}
		return FromSelector(sel), nil
	}
	return Sel{}, fmt.Errorf("policy: Sel has neither \"Pure\" nor \"Get\"")
}

var predicateOps = map[PredicateKind]string{
	PredicateEqual:              "==",
	PredicateGreaterThan:        ">",
	PredicateGreaterThanOrEqual: ">=",
	PredicateLessThan:           "<",
	PredicateLessThanOrEqual:    "<=",
	PredicateLike:               "like",
	PredicateNot:                "not",
	PredicateAnd:                "and",
	PredicateOr:                 "or",
	PredicateEvery:              "every",
	PredicateSome:               "some",
}

var opToPredicateKind = func() map[string]PredicateKind {
	m := make(map[string]PredicateKind, len(predicateOps))
	for k, v := range predicateOps {
		m[v] = k
	}
	return m
}()

// ToIPLD renders p as a tagged list: `["==", lhs, rhs]`, `["not", inner]`,
// `["every", xs, body]`, and so on, mirroring the original crate's
// `impl From<Predicate> for Ipld`. The boolean leaves encode as bare
// IPLD booleans rather than tagged lists.
func (p Predicate) ToIPLD() (ipld.Value, error) {
	return predicateToIPLD(p)
}

// FromIPLD parses a predicate previously produced by Predicate.ToIPLD.
func FromIPLD(v ipld.Value) (Predicate, error) {
	return predicateFromIPLD(v)
}

func predicateToIPLD(p Predicate) (ipld.Value, error) {
	switch p.kind {
	case PredicateTrue:
		return ipld.Bool(true), nil
	case PredicateFalse:
		return ipld.Bool(false), nil

	case PredicateEqual, PredicateGreaterThan, PredicateGreaterThanOrEqual,
		PredicateLessThan, PredicateLessThanOrEqual, PredicateLike:
		op, ok := predicateOps[p.kind]
		if !ok {
			return ipld.Value{}, fmt.Errorf("policy: unknown comparison kind %v", p.kind)
		}
		return ipld.List([]ipld.Value{ipld.String(op), p.lhs.ToIPLD(), p.rhs.ToIPLD()}), nil

	case PredicateNot:
		inner, err := predicateToIPLD(*p.not)
		if err != nil {
			return ipld.Value{}, err
		}
		return ipld.List([]ipld.Value{ipld.String("not"), inner}), nil

	case PredicateAnd, PredicateOr:
		op := predicateOps[p.kind]
		l, err := predicateToIPLD(*p.l)
		if err != nil {
			return ipld.Value{}, err
		}
		r, err := predicateToIPLD(*p.r)
		if err != nil {
			return ipld.Value{}, err
		}
		return ipld.List([]ipld.Value{ipld.String(op), l, r}), nil

	case PredicateEvery, PredicateSome:
		op := predicateOps[p.kind]
		body, err := predicateToIPLD(*p.body)
		if err != nil {
			return ipld.Value{}, err
		}
		return ipld.List([]ipld.Value{ipld.String(op), p.coll.ToIPLD(), body}), nil

	default:
		return ipld.Value{}, fmt.Errorf("policy: unknown predicate kind %v", p.kind)
	}
}

// predicateFromIPLD parses a predicate previously produced by
// predicateToIPLD.
func predicateFromIPLD(v ipld.Value) (Predicate, error) {
	if b, ok := v.AsBool(); ok {
		if b {
			return True(), nil
		}
		return False(), nil
	}

	items, ok := v.AsList()
	if !ok || len(items) == 0 {
		return Predicate{}, fmt.Errorf("policy: predicate is neither a bool nor a tagged list")
	}
	op, ok := items[0].AsString()
	if !ok {
		return Predicate{}, fmt.Errorf("policy: predicate tag is not a string")
	}
	kind, ok := opToPredicateKind[op]
	if !ok {
		return Predicate{}, fmt.Errorf("policy: unknown predicate tag %q", op)
	}

	switch kind {
	case PredicateEqual, PredicateGreaterThan, PredicateGreaterThanOrEqual,
		PredicateLessThan, PredicateLessThanOrEqual, PredicateLike:
		if len(items) != 3 {
			return Predicate{}, fmt.Errorf("policy: %q predicate expects 2 operands, got %d", op, len(items)-1)
		}
		lhs, err := selFromIPLD(items[1])
		if err != nil {
			return Predicate{}, err
		}
		rhs, err := selFromIPLD(items[2])
		if err != nil {
			return Predicate{}, err
		}
		return Predicate{kind: kind, lhs: lhs, rhs: rhs}, nil

	case PredicateNot:
		if len(items) != 2 {
			return Predicate{}, fmt.Errorf("policy: \"not\" predicate expects 1 operand, got %d", len(items)-1)
		}
		inner, err := predicateFromIPLD(items[1])
		if err != nil {
			return Predicate{}, err
		}
		return Predicate{kind: PredicateNot, not: &inner}, nil

	case PredicateAnd, PredicateOr:
		if len(items) != 3 {
			return Predicate{}, fmt.Errorf("policy: %q predicate expects 2 operands, got %d", op, len(items)-1)
		}
		l, err := predicateFromIPLD(items[1])
		if err != nil {
			return Predicate{}, err
		}
		r, err := predicateFromIPLD(items[2])
		if err != nil {
			return Predicate{}, err
		}
		return Predicate{kind: kind, l: &l, r: &r}, nil

	case PredicateEvery, PredicateSome:
		if len(items) != 3 {
			return Predicate{}, fmt.Errorf("policy: %q predicate expects 2 operands, got %d", op, len(items)-1)
		}
		xs, err := selFromIPLD(items[1])
		if err != nil {
			return Predicate{}, err
		}
		body, err := predicateFromIPLD(items[2])
		if err != nil {
			return Predicate{}, err
		}
		return Predicate{kind: kind, coll: xs, body: &body}, nil

	default:
		return Predicate{}, fmt.Errorf("policy: unreachable predicate tag %q", op)
	}
}
