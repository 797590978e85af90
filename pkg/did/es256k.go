package did

import (
	"crypto/sha256"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// ES256KVerifier wraps a secp256k1 public key.
type ES256KVerifier struct {
	pub *secp256k1.PublicKey
}

// NewES256KVerifier decodes raw as a compressed secp256k1 point.
func NewES256KVerifier(raw []byte) (*ES256KVerifier, error) {
	pub, err := secp256k1.ParsePubKey(raw)
	if err != nil {
		return nil, fmt.Errorf("did: invalid ES256K public key: %w", err)
	}
	return &ES256KVerifier{pub: pub}, nil
}

func (v *ES256KVerifier) KeyType() KeyType { return KeyTypeES256K }
func (v *ES256KVerifier) Raw() []byte      { return v.pub.SerializeCompressed() }

func (v *ES256KVerifier) Verify(message, signature []byte) error {
	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	digest := sha256.Sum256(message)
	if !sig.Verify(digest[:], v.pub) {
		return ErrInvalidSignature
	}
	return nil
}

// ES256KSigner wraps a secp256k1 private key.
type ES256KSigner struct {
	priv *secp256k1.PrivateKey
}

// NewES256KSigner generates a fresh secp256k1 key pair.
func NewES256KSigner() (*ES256KSigner, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("did: generating ES256K key: %w", err)
	}
	return &ES256KSigner{priv: priv}, nil
}

func (s *ES256KSigner) KeyType() KeyType { return KeyTypeES256K }

func (s *ES256KSigner) Public() Verifier {
	return &ES256KVerifier{pub: s.priv.PubKey()}
}

func (s *ES256KSigner) Sign(message []byte) ([]byte, error) {
	digest := sha256.Sum256(message)
	sig := ecdsa.Sign(s.priv, digest[:])
	return sig.Serialize(), nil
}
