package invocation

import "errors"

// ErrMalformedPayload covers a capsule body that fails to decode into a
// well-formed Payload (§7).
var ErrMalformedPayload = errors.New("invocation: malformed payload")
