package envelope

import "errors"

// Sentinel errors for the envelope Sign/Verify/CID operations (§4.2's edge
// cases), checked with errors.Is at call sites.
var (
	// ErrInvalidPayloadCapsule is returned by Verify when the envelope's
	// capsule tag doesn't match the tag the caller expected.
	ErrInvalidPayloadCapsule = errors.New("envelope: invalid payload capsule")

	// ErrSignatureInvalid is returned when signature verification fails.
	ErrSignatureInvalid = errors.New("envelope: signature invalid")

	// ErrMalformedSignature names a signature whose byte length is wrong
	// for the header's algorithm. Verify does not check signature length
	// and does not return this error: a wrong-length signature is rejected
	// by the verifier and reported as ErrSignatureInvalid.
	ErrMalformedSignature = errors.New("envelope: malformed signature")

	// ErrVerifierKeyTypeMismatch is returned when the supplied verifier's
	// key type doesn't match the envelope header's algorithm.
	ErrVerifierKeyTypeMismatch = errors.New("envelope: verifier key type does not match header")
)
