package policy

import (
	"errors"
	"fmt"

	"github.com/ucan-wg/go-ucan/pkg/ipld"
)

// ErrFieldNotFound is returned when a Field filter names a key absent
// from the map it's applied to.
var ErrFieldNotFound = errors.New("policy: field not found")

// ErrIndexOutOfRange is returned when an ArrayIndex filter's index (after
// resolving any negative offset) falls outside the list.
var ErrIndexOutOfRange = errors.New("policy: array index out of range")

// ErrNotAnArray is returned when an ArrayIndex or Values filter is applied
// to a value that isn't a list (and, for Values, isn't a map either).
var ErrNotAnArray = errors.New("policy: not an array")

// ErrNotAField is returned when a Field filter is applied to a non-map
// value.
var ErrNotAField = errors.New("policy: not a map")

// Select resolves sel against root, threading a single current value
// through each filter in turn (§4.5.2): a Field or ArrayIndex filter
// narrows the current value (or fails); a Values filter replaces a map
// with the list of its values in key order, or leaves a list as-is; a
// Try filter resolves its inner filter against the *current* value and
// substitutes Null rather than propagating a failure.
func Select(sel Selector, root ipld.Value) (ipld.Value, error) {
	current := root
	for _, f := range sel.Filters() {
		next, err := applyOne(f, current)
		if err != nil {
			return ipld.Value{}, err
		}
		current = next
	}
	return current, nil
}

func applyOne(f Filter, v ipld.Value) (ipld.Value, error) {
	switch f.Kind() {
	case FilterField:
		key, _ := f.Key()
		m, ok := v.AsMap()
		if !ok {
			return ipld.Value{}, fmt.Errorf("%w: %q", ErrNotAField, key)
		}
		field, ok := m[key]
		if !ok {
			return ipld.Value{}, fmt.Errorf("%w: %q", ErrFieldNotFound, key)
		}
		return field, nil

	case FilterArrayIndex:
		idx, _ := f.Index()
		list, ok := v.AsList()
		if !ok {
			return ipld.Value{}, fmt.Errorf("%w: index %d", ErrNotAnArray, idx)
		}
		resolved := idx
		if resolved < 0 {
			resolved += int32(len(list))
		}
		if resolved < 0 || int(resolved) >= len(list) {
			return ipld.Value{}, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, idx, len(list))
		}
		return list[resolved], nil

	case FilterValues:
		return valuesOf(v)

	case FilterTry:
		inner, _ := f.Inner()
		resolved, err := applyOne(inner, v)
		if err != nil {
			return ipld.Null(), nil
		}
		return resolved, nil

	default:
		return ipld.Value{}, fmt.Errorf("policy: unknown filter kind %v", f.Kind())
	}
}

// valuesOf implements the `[]` filter: a list passes through unchanged, a
// map becomes the list of its values in sorted-key order, anything else
// is an error.
func valuesOf(v ipld.Value) (ipld.Value, error) {
	switch v.Kind() {
	case ipld.KindList:
		return v, nil
	case ipld.KindMap:
		m, _ := v.AsMap()
		values := make([]ipld.Value, 0, len(m))
		for _, k := range v.SortedKeys() {
			values = append(values, m[k])
		}
		return ipld.List(values), nil
	default:
		return ipld.Value{}, fmt.Errorf("%w: cannot flatten values of %v", ErrNotAnArray, v.Kind())
	}
}

// asCollection coerces v to the element list a Collection-typed selector
// iterates: a list as-is, or a map's values in sorted-key order.
func asCollection(v ipld.Value) ([]ipld.Value, error) {
	switch v.Kind() {
	case ipld.KindList:
		list, _ := v.AsList()
		return list, nil
	case ipld.KindMap:
		m, _ := v.AsMap()
		values := make([]ipld.Value, 0, len(m))
		for _, k := range v.SortedKeys() {
			values = append(values, m[k])
		}
		return values, nil
	default:
		return nil, fmt.Errorf("policy: not a collection: %v", v.Kind())
	}
}
