// Package nonce generates the random nonces delegation, invocation, and
// receipt payloads carry, and the bounded timestamp type used for nbf/exp.
package nonce

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

// Size is the default nonce length in bytes (128 bits), matching the
// donor's preference for 16-byte random key material (see
// pkg/crypto/bls/key_manager.go's GenerateNewKey, which reads 32 bytes of
// crypto/rand for key seeds).
const Size = 16

// ErrInvalidSize is returned when a caller asks for a zero or negative
// nonce length.
var ErrInvalidSize = errors.New("nonce: size must be positive")

// Nonce is opaque random bytes unique to a single payload.
type Nonce []byte

// New returns a cryptographically random Nonce of Size bytes.
func New() (Nonce, error) {
	return Generate(Size)
}

// Generate returns a cryptographically random Nonce of the given length.
// Callers that need a wider nonce (the spec allows 12-32 bytes) use this
// directly.
func Generate(size int) (Nonce, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("nonce: reading random bytes: %w", err)
	}
	return Nonce(buf), nil
}

// String renders the nonce as lowercase hex, for logging only; the wire
// encoding of a nonce is always its raw bytes.
func (n Nonce) String() string {
	return hex.EncodeToString(n)
}
