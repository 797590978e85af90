package invocation

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"github.com/ucan-wg/go-ucan/pkg/ipld"
	"github.com/ucan-wg/go-ucan/pkg/receipt"
)

// Promise marker keys (§6.1): a sole-key map `{key: <cid>}` appearing as
// an argument-tree leaf defers that position to a later receipt's `out`.
const (
	awaitOk  = "await/ok"
	awaitErr = "await/err"
	awaitAny = "await/*"
)

// ReceiptLookup resolves the receipt produced for the invocation CID c,
// if one has been recorded yet.
type ReceiptLookup func(c cid.Cid) (receipt.Outcome, bool)

// promiseMarker reports whether v is a sole-key promise marker, and if
// so, which branch it awaits and the CID it's keyed by.
func promiseMarker(v ipld.Value) (branch string, c cid.Cid, ok bool) {
	m, isMap := v.AsMap()
	if !isMap || len(m) != 1 {
		return "", cid.Undef, false
	}
	for _, key := range []string{awaitOk, awaitErr, awaitAny} {
		val, present := m[key]
		if !present {
			continue
		}
		linked, isLink := val.AsLink()
		if !isLink {
			return "", cid.Undef, false
		}
		return key, linked, true
	}
	return "", cid.Undef, false
}

// TryResolve walks args (§4.6), substituting any promise leaf whose
// receipt is known and whose branch matches what the leaf awaits.
// Leaves with no known receipt, or whose receipt's outcome doesn't match
// the awaited branch (`await/ok` awaiting a failed receipt, or vice
// versa), are left untouched and their CID is added to the returned
// pending set. Resolution recurses into resolved sub-trees, since a
// promise may resolve to a value that itself contains promises.
//
// TryResolve is idempotent and monotone: run again with a superset of
// known receipts, it never reverts an already-resolved leaf.
func TryResolve(args map[string]ipld.Value, lookup ReceiptLookup) (map[string]ipld.Value, []cid.Cid, error) {
	pending := map[cid.Cid]struct{}{}
	resolved := make(map[string]ipld.Value, len(args))
	for k, v := range args {
		rv, err := resolveValue(v, lookup, pending)
		if err != nil {
			return nil, nil, fmt.Errorf("invocation: resolving arg %q: %w", k, err)
		}
		resolved[k] = rv
	}

	blockers := make([]cid.Cid, 0, len(pending))
	for c := range pending {
		blockers = append(blockers, c)
	}
	return resolved, blockers, nil
}

func resolveValue(v ipld.Value, lookup ReceiptLookup, pending map[cid.Cid]struct{}) (ipld.Value, error) {
	if branch, c, ok := promiseMarker(v); ok {
		out, found := lookup(c)
		if !found {
			pending[c] = struct{}{}
			return v, nil
		}

		switch branch {
		case awaitOk:
			sv, isOk := out.Success()
			if !isOk {
				pending[c] = struct{}{}
				return v, nil
			}
			return resolveValue(sv, lookup, pending)
		case awaitErr:
			ev, isErr := out.Failure()
			if !isErr {
				pending[c] = struct{}{}
				return v, nil
			}
			return resolveValue(ev, lookup, pending)
		default: // awaitAny
			branchVal, _ := out.Value()
			return resolveValue(branchVal, lookup, pending)
		}
	}

	switch v.Kind() {
	case ipld.KindList:
		items, _ := v.AsList()
		out := make([]ipld.Value, len(items))
		for i, item := range items {
			rv, err := resolveValue(item, lookup, pending)
			if err != nil {
				return ipld.Value{}, err
			}
			out[i] = rv
		}
		return ipld.List(out), nil

	case ipld.KindMap:
		m, _ := v.AsMap()
		out := make(map[string]ipld.Value, len(m))
		for k, item := range m {
			rv, err := resolveValue(item, lookup, pending)
			if err != nil {
				return ipld.Value{}, err
			}
			out[k] = rv
		}
		return ipld.Map(out), nil

	default:
		return v, nil
	}
}

// IsResolvable reports whether args contains zero pending promise
// leaves under lookup.
func IsResolvable(args map[string]ipld.Value, lookup ReceiptLookup) (bool, error) {
	_, pending, err := TryResolve(args, lookup)
	if err != nil {
		return false, err
	}
	return len(pending) == 0, nil
}
