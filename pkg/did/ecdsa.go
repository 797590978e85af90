package did

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
)

func curveFor(kt KeyType) (elliptic.Curve, error) {
	switch kt {
	case KeyTypeES256:
		return elliptic.P256(), nil
	case KeyTypeES384:
		return elliptic.P384(), nil
	case KeyTypeES512:
		return elliptic.P521(), nil
	default:
		return nil, fmt.Errorf("did: %v is not an ECDSA key type", kt)
	}
}

func digestFor(kt KeyType, message []byte) []byte {
	var h hash.Hash
	switch kt {
	case KeyTypeES384:
		h = sha512.New384()
	case KeyTypeES512:
		h = sha512.New()
	default:
		h = sha256.New()
	}
	h.Write(message)
	return h.Sum(nil)
}

// ECDSAVerifier wraps a P-256/P-384/P-521 public key, covering the ES256,
// ES384, and ES512 key types (§6.1).
type ECDSAVerifier struct {
	kt  KeyType
	pub *ecdsa.PublicKey
}

// NewECDSAVerifier decodes raw as a SEC1-compressed point on kt's curve.
func NewECDSAVerifier(kt KeyType, raw []byte) (*ECDSAVerifier, error) {
	curve, err := curveFor(kt)
	if err != nil {
		return nil, err
	}
	x, y := elliptic.UnmarshalCompressed(curve, raw)
	if x == nil {
		return nil, fmt.Errorf("did: invalid %v compressed point", kt)
	}
	return &ECDSAVerifier{kt: kt, pub: &ecdsa.PublicKey{Curve: curve, X: x, Y: y}}, nil
}

func (v *ECDSAVerifier) KeyType() KeyType { return v.kt }

func (v *ECDSAVerifier) Raw() []byte {
	return elliptic.MarshalCompressed(v.pub.Curve, v.pub.X, v.pub.Y)
}

// Verify checks an ASN.1 DER-encoded ECDSA signature over the key type's
// digest of message (SHA-256/384/512 for ES256/ES384/ES512 respectively).
func (v *ECDSAVerifier) Verify(message, signature []byte) error {
	digest := digestFor(v.kt, message)
	if !ecdsa.VerifyASN1(v.pub, digest, signature) {
		return ErrInvalidSignature
	}
	return nil
}

// ECDSASigner wraps a P-256/P-384/P-521 private key.
type ECDSASigner struct {
	kt   KeyType
	priv *ecdsa.PrivateKey
}

// NewECDSASigner generates a fresh key pair for kt's curve.
func NewECDSASigner(kt KeyType) (*ECDSASigner, error) {
	curve, err := curveFor(kt)
	if err != nil {
		return nil, err
	}
	priv, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("did: generating %v key: %w", kt, err)
	}
	return &ECDSASigner{kt: kt, priv: priv}, nil
}

func (s *ECDSASigner) KeyType() KeyType { return s.kt }

func (s *ECDSASigner) Public() Verifier {
	return &ECDSAVerifier{kt: s.kt, pub: &s.priv.PublicKey}
}

func (s *ECDSASigner) Sign(message []byte) ([]byte, error) {
	digest := digestFor(s.kt, message)
	return ecdsa.SignASN1(rand.Reader, s.priv, digest)
}
