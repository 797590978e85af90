package receipt

import "github.com/ucan-wg/go-ucan/pkg/ipld"

// Outcome is a receipt's `out` field (§3.5): either a success value or a
// named-map error, never both.
type Outcome struct {
	ok    bool
	value ipld.Value
}

// Ok builds a successful outcome carrying v.
func Ok(v ipld.Value) Outcome { return Outcome{ok: true, value: v} }

// Err builds a failed outcome carrying the named-map error e.
func Err(e ipld.Value) Outcome { return Outcome{ok: false, value: e} }

// IsOk reports whether the outcome is the success branch.
func (o Outcome) IsOk() bool { return o.ok }

// Value returns the carried value regardless of branch and whether it's
// the success branch.
func (o Outcome) Value() (ipld.Value, bool) { return o.value, o.ok }

// Success returns the carried value if this is the Ok branch.
func (o Outcome) Success() (ipld.Value, bool) {
	if !o.ok {
		return ipld.Value{}, false
	}
	return o.value, true
}

// Failure returns the carried value if this is the Err branch.
func (o Outcome) Failure() (ipld.Value, bool) {
	if o.ok {
		return ipld.Value{}, false
	}
	return o.value, true
}

// ToIPLD renders the outcome as a single-key tagged map, matching the
// default serde external tagging a Rust `Result<T, E>` gets: {"Ok": v}
// or {"Err": e}.
func (o Outcome) ToIPLD() ipld.Value {
	if o.ok {
		return ipld.Map(map[string]ipld.Value{"Ok": o.value})
	}
	return ipld.Map(map[string]ipld.Value{"Err": o.value})
}

// OutcomeFromIPLD parses an Outcome previously produced by ToIPLD.
func OutcomeFromIPLD(v ipld.Value) (Outcome, error) {
	m, ok := v.AsMap()
	if !ok || len(m) != 1 {
		return Outcome{}, ErrMalformedOutcome
	}
	if v, present := m["Ok"]; present {
		return Ok(v), nil
	}
	if errVal, present := m["Err"]; present {
		return Err(errVal), nil
	}
	return Outcome{}, ErrMalformedOutcome
}
