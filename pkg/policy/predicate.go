package policy

import (
	"fmt"

	"github.com/ucan-wg/go-ucan/pkg/ipld"
)

// PredicateKind identifies which variant of Predicate is populated.
type PredicateKind int

const (
	PredicateTrue PredicateKind = iota
	PredicateFalse
	PredicateEqual
	PredicateGreaterThan
	PredicateGreaterThanOrEqual
	PredicateLessThan
	PredicateLessThanOrEqual
	PredicateLike
	PredicateNot
	PredicateAnd
	PredicateOr
	PredicateEvery
	PredicateSome
)

// Predicate is the policy constraint language evaluated against an
// invocation's arguments (§3.7, §4.5): boolean literals, selector/literal
// comparisons, glob matching, the usual connectives, and bounded
// quantification over a selected collection.
type Predicate struct {
	kind PredicateKind
	lhs  Sel
	rhs  Sel
	not  *Predicate
	l    *Predicate
	r    *Predicate
	coll Sel
	body *Predicate
}

func True() Predicate  { return Predicate{kind: PredicateTrue} }
func False() Predicate { return Predicate{kind: PredicateFalse} }

func EqualP(lhs, rhs Sel) Predicate {
	return Predicate{kind: PredicateEqual, lhs: lhs, rhs: rhs}
}

func GreaterThan(lhs, rhs Sel) Predicate {
	return Predicate{kind: PredicateGreaterThan, lhs: lhs, rhs: rhs}
}

func GreaterThanOrEqual(lhs, rhs Sel) Predicate {
	return Predicate{kind: PredicateGreaterThanOrEqual, lhs: lhs, rhs: rhs}
}

func LessThan(lhs, rhs Sel) Predicate {
	return Predicate{kind: PredicateLessThan, lhs: lhs, rhs: rhs}
}

func LessThanOrEqual(lhs, rhs Sel) Predicate {
	return Predicate{kind: PredicateLessThanOrEqual, lhs: lhs, rhs: rhs}
}

func Like(lhs, rhs Sel) Predicate {
	return Predicate{kind: PredicateLike, lhs: lhs, rhs: rhs}
}

func Not(inner Predicate) Predicate {
	cp := inner
	return Predicate{kind: PredicateNot, not: &cp}
}

func And(lhs, rhs Predicate) Predicate {
	l, r := lhs, rhs
	return Predicate{kind: PredicateAnd, l: &l, r: &r}
}

func Or(lhs, rhs Predicate) Predicate {
	l, r := lhs, rhs
	return Predicate{kind: PredicateOr, l: &l, r: &r}
}

// Every builds a `∀x ∈ xs` predicate: body must hold for every value xs
// selects (vacuously true when xs selects an empty collection).
func Every(xs Sel, body Predicate) Predicate {
	cp := body
	return Predicate{kind: PredicateEvery, coll: xs, body: &cp}
}

// Some builds a `∃x ∈ xs` predicate: body must hold for at least one
// value xs selects (false when xs selects an empty collection).
func Some(xs Sel, body Predicate) Predicate {
	cp := body
	return Predicate{kind: PredicateSome, coll: xs, body: &cp}
}

func (p Predicate) Kind() PredicateKind { return p.kind }

// Run evaluates p against data, resolving every selector operand
// relative to data as the root value (§4.5.3).
func (p Predicate) Run(data ipld.Value) (bool, error) {
	switch p.kind {
	case PredicateTrue:
		return true, nil
	case PredicateFalse:
		return false, nil

	case PredicateEqual:
		lv, err := p.lhs.Resolve(data)
		if err != nil {
			return false, err
		}
		rv, err := p.rhs.Resolve(data)
		if err != nil {
			return false, err
		}
		return ipld.Equal(lv, rv), nil

	case PredicateGreaterThan, PredicateGreaterThanOrEqual, PredicateLessThan, PredicateLessThanOrEqual:
		lv, rv, err := resolveNumberPair(p.lhs, p.rhs, data)
		if err != nil {
			return false, err
		}
		switch p.kind {
		case PredicateGreaterThan:
			return lv > rv, nil
		case PredicateGreaterThanOrEqual:
			return lv >= rv, nil
		case PredicateLessThan:
			return lv < rv, nil
		default:
			return lv <= rv, nil
		}

	case PredicateLike:
		lv, err := p.lhs.Resolve(data)
		if err != nil {
			return false, err
		}
		rv, err := p.rhs.Resolve(data)
		if err != nil {
			return false, err
		}
		ls, ok := lv.AsString()
		if !ok {
			return false, fmt.Errorf("policy: like: left side is not a string")
		}
		rs, ok := rv.AsString()
		if !ok {
			return false, fmt.Errorf("policy: like: right side is not a string")
		}
		return glob(ls, rs), nil

	case PredicateNot:
		inner, err := p.not.Run(data)
		if err != nil {
			return false, err
		}
		return !inner, nil

	case PredicateAnd:
		l, err := p.l.Run(data)
		if err != nil {
			return false, err
		}
		if !l {
			return false, nil
		}
		r, err := p.r.Run(data)
		if err != nil {
			return false, err
		}
		return r, nil

	case PredicateOr:
		l, err := p.l.Run(data)
		if err != nil {
			return false, err
		}
		if l {
			return true, nil
		}
		r, err := p.r.Run(data)
		if err != nil {
			return false, err
		}
		return r, nil

	case PredicateEvery:
		items, err := resolveCollection(p.coll, data)
		if err != nil {
			return false, err
		}
		for _, item := range items {
			ok, err := p.body.Run(item)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil

	case PredicateSome:
		items, err := resolveCollection(p.coll, data)
		if err != nil {
			return false, err
		}
		for _, item := range items {
			ok, err := p.body.Run(item)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	default:
		return false, fmt.Errorf("policy: unknown predicate kind %v", p.kind)
	}
}

func resolveCollection(s Sel, data ipld.Value) ([]ipld.Value, error) {
	v, err := s.Resolve(data)
	if err != nil {
		return nil, err
	}
	return asCollection(v)
}

func resolveNumberPair(lhs, rhs Sel, data ipld.Value) (float64, float64, error) {
	lv, err := lhs.Resolve(data)
	if err != nil {
		return 0, 0, err
	}
	rv, err := rhs.Resolve(data)
	if err != nil {
		return 0, 0, err
	}
	l, ok := asNumber(lv)
	if !ok {
		return 0, 0, fmt.Errorf("policy: left side of comparison is not a number")
	}
	r, ok := asNumber(rv)
	if !ok {
		return 0, 0, fmt.Errorf("policy: right side of comparison is not a number")
	}
	return l, r, nil
}

func asNumber(v ipld.Value) (float64, bool) {
	if i, ok := v.AsInt(); ok {
		return float64(i), true
	}
	if f, ok := v.AsFloat(); ok {
		return f, true
	}
	return 0, false
}

// glob ports the original predicate matcher bit-for-bit: it returns true
// the moment it sees a '*' in pattern, regardless of what's left in
// either string. A stricter implementation would be a behavior change,
// not a bug fix.
func glob(input, pattern string) bool {
	in := []rune(input)
	pat := []rune(pattern)
	i, j := 0, 0
	for {
		iHas := i < len(in)
		pHas := j < len(pat)
		switch {
		case iHas && pHas:
			if pat[j] == '*' {
				return true
			}
			if in[i] != pat[j] {
				return false
			}
			i++
			j++
		case iHas && !pHas:
			return false
		case !iHas && pHas:
			if pat[j] == '*' {
				return true
			}
			j++
		default:
			return true
		}
	}
}
