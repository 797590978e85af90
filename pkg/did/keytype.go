// Package did implements did:key issuers and verifiers for the closed set
// of signature algorithms: EdDSA, ES256, ES256K, ES384, ES512, RS256,
// RS512, and BLS12-381 in both its G1-public-key and G2-public-key forms
// (§3.1, §6.1). ES384 and BLS12-381 have no varsig preset in pkg/envelope.
package did

import (
	"fmt"

	"github.com/multiformats/go-varint"
)

// KeyType identifies one member of the closed set of signature algorithms
// a did:key / varsig header may carry.
type KeyType int

const (
	KeyTypeEdDSA KeyType = iota
	KeyTypeES256
	KeyTypeES256K
	KeyTypeES384
	KeyTypeES512
	KeyTypeRS256
	KeyTypeRS512
	KeyTypeBLS12381G1
	KeyTypeBLS12381G2
)

func (kt KeyType) String() string {
	switch kt {
	case KeyTypeEdDSA:
		return "EdDSA"
	case KeyTypeES256:
		return "ES256"
	case KeyTypeES256K:
		return "ES256K"
	case KeyTypeES384:
		return "ES384"
	case KeyTypeES512:
		return "ES512"
	case KeyTypeRS256:
		return "RS256"
	case KeyTypeRS512:
		return "RS512"
	case KeyTypeBLS12381G1:
		return "BLS12381G1"
	case KeyTypeBLS12381G2:
		return "BLS12381G2"
	default:
		return "unknown"
	}
}

// multicodecCode is the registered multicodec integer for each key type's
// public-key encoding, used as the did:key multibase payload prefix.
var multicodecCode = map[KeyType]uint64{
	KeyTypeEdDSA:      0xed,
	KeyTypeES256K:     0xe7,
	KeyTypeES256:      0x1200,
	KeyTypeES384:      0x1201,
	KeyTypeES512:      0x1202,
	KeyTypeRS256:      0x1205,
	KeyTypeRS512:      0x1205,
	KeyTypeBLS12381G1: 0xeb,
	KeyTypeBLS12381G2: 0xeb,
}

// codeToKeyType inverts multicodecCode for parsing. Two pairs of key types
// share a multicodec code — RS256/RS512 (rsa-pub) and the BLS12-381
// G1/G2 public key forms — each disambiguated by decoded key size rather
// than by code (§6.1: a 2048 vs 4096-bit RSA modulus; a 48 vs 96-byte BLS
// point). This table resolves each shared code to one default member
// (RS256, BLS12381G1); callers needing the other member re-tag the result
// after inspecting the decoded key's length.
var codeToKeyType = func() map[uint64]KeyType {
	m := make(map[uint64]KeyType, len(multicodecCode))
	for kt, code := range multicodecCode {
		if kt == KeyTypeRS512 || kt == KeyTypeBLS12381G2 {
			continue
		}
		m[code] = kt
	}
	return m
}()

// ErrUnsupportedKeyType is returned when a multicodec prefix doesn't match
// any key type this package knows how to verify.
var ErrUnsupportedKeyType = fmt.Errorf("did: unsupported key type")

// multicodecPrefix returns the unsigned-varint encoding of kt's multicodec
// code, the bytes prepended to the raw public key before multibase
// encoding.
func multicodecPrefix(kt KeyType) ([]byte, error) {
	code, ok := multicodecCode[kt]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedKeyType, kt)
	}
	return varint.ToUvarint(code), nil
}

// splitMulticodecPrefix reads a leading unsigned-varint multicodec code off
// data and returns the matching KeyType, the code, and the remaining bytes.
func splitMulticodecPrefix(data []byte) (KeyType, uint64, []byte, error) {
	code, n, err := varint.FromUvarint(data)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("did: reading multicodec prefix: %w", err)
	}
	kt, ok := codeToKeyType[code]
	if !ok {
		return 0, 0, nil, fmt.Errorf("%w: multicodec code 0x%x", ErrUnsupportedKeyType, code)
	}
	return kt, code, data[n:], nil
}
