package receipt

import "errors"

// ErrMalformedOutcome is returned when an `out` capsule field is neither
// a {"Ok": ...} nor a {"Err": ...} single-key map.
var ErrMalformedOutcome = errors.New("receipt: malformed outcome")

// ErrMalformedPayload covers a capsule body that fails to decode into a
// well-formed Payload.
var ErrMalformedPayload = errors.New("receipt: malformed payload")
