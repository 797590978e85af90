package did

import (
	"errors"
	"fmt"

	"github.com/multiformats/go-multibase"
)

// Verifier checks a signature against a message for one key type. It is
// the capability a DID resolves to for validating proof-chain hops and
// envelope signatures (§3.1, §4.4).
type Verifier interface {
	KeyType() KeyType
	// Raw returns the bare public key bytes (no multicodec prefix), in the
	// encoding native to the key type (compressed point, modulus bytes, ...).
	Raw() []byte
	Verify(message, signature []byte) error
}

// Signer produces signatures a matching Verifier accepts, and exposes that
// Verifier as its public half.
type Signer interface {
	KeyType() KeyType
	Public() Verifier
	Sign(message []byte) ([]byte, error)
}

// ErrInvalidSignature is the sentinel every Verifier implementation wraps
// or returns directly when a signature fails to verify.
var ErrInvalidSignature = errors.New("did: invalid signature")

// String renders a did:key URI: "did:key:z" followed by the multibase
// base58btc encoding of the key type's multicodec varint prefix and the
// raw public key bytes (§6.1's closed key-type table drives both which
// prefix is used and how Raw() is interpreted).
func String(v Verifier) (string, error) {
	prefix, err := multicodecPrefix(v.KeyType())
	if err != nil {
		return "", err
	}
	payload := append(append([]byte(nil), prefix...), v.Raw()...)
	encoded, err := multibase.Encode(multibase.Base58BTC, payload)
	if err != nil {
		return "", fmt.Errorf("did: multibase encoding key: %w", err)
	}
	return "did:key:" + encoded, nil
}

// bls12381G2RawLen is the compressed byte length of a G2 point, used to
// tell a BLS12-381 G2 public key apart from a G1 one once decoded: both
// share multicodec code 0xeb, so raw length (48 bytes for G1, 96 for G2)
// is the only signal at parse time, mirroring the RS256/RS512 pattern.
const bls12381G2RawLen = 96

// Parse decodes a did:key URI into a Verifier. RS256 and RS512 share a
// multicodec code; Parse resolves to whichever the decoded modulus size
// indicates (2048-bit -> RS256, 4096-bit -> RS512), per §6.1. BLS12-381
// G1 and G2 public keys likewise share a multicodec code and are told
// apart by decoded key length.
func Parse(didKey string) (Verifier, error) {
	const prefix = "did:key:"
	if len(didKey) <= len(prefix) || didKey[:len(prefix)] != prefix {
		return nil, fmt.Errorf("did: %q is not a did:key URI", didKey)
	}
	encoded := didKey[len(prefix):]
	_, payload, err := multibase.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("did: decoding multibase payload: %w", err)
	}

	kt, _, raw, err := splitMulticodecPrefix(payload)
	if err != nil {
		return nil, err
	}

	switch kt {
	case KeyTypeEdDSA:
		return NewEdDSAVerifier(raw)
	case KeyTypeES256K:
		return NewES256KVerifier(raw)
	case KeyTypeES256:
		return NewECDSAVerifier(KeyTypeES256, raw)
	case KeyTypeES384:
		return NewECDSAVerifier(KeyTypeES384, raw)
	case KeyTypeES512:
		return NewECDSAVerifier(KeyTypeES512, raw)
	case KeyTypeRS256:
		return NewRSAVerifier(raw)
	case KeyTypeBLS12381G1:
		if len(raw) >= bls12381G2RawLen {
			return NewBLSG2Verifier(raw)
		}
		return NewBLSG1Verifier(raw)
	case KeyTypeBLS12381G2:
		return NewBLSG2Verifier(raw)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedKeyType, kt)
	}
}
