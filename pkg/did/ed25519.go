package did

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
)

// EdDSAVerifier wraps an Ed25519 public key.
type EdDSAVerifier struct {
	pub ed25519.PublicKey
}

// NewEdDSAVerifier validates raw as an Ed25519 public key.
func NewEdDSAVerifier(raw []byte) (*EdDSAVerifier, error) {
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("did: invalid EdDSA public key size: got %d, want %d", len(raw), ed25519.PublicKeySize)
	}
	return &EdDSAVerifier{pub: ed25519.PublicKey(raw)}, nil
}

func (v *EdDSAVerifier) KeyType() KeyType { return KeyTypeEdDSA }
func (v *EdDSAVerifier) Raw() []byte      { return []byte(v.pub) }

func (v *EdDSAVerifier) Verify(message, signature []byte) error {
	if len(signature) != ed25519.SignatureSize {
		return fmt.Errorf("%w: bad signature size %d", ErrInvalidSignature, len(signature))
	}
	if !ed25519.Verify(v.pub, message, signature) {
		return ErrInvalidSignature
	}
	return nil
}

// EdDSASigner wraps an Ed25519 private key.
type EdDSASigner struct {
	priv ed25519.PrivateKey
}

// NewEdDSASigner generates a fresh Ed25519 key pair.
func NewEdDSASigner() (*EdDSASigner, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("did: generating EdDSA key: %w", err)
	}
	return &EdDSASigner{priv: priv}, nil
}

// EdDSASignerFromSeed derives a deterministic key pair from a 32-byte seed.
func EdDSASignerFromSeed(seed []byte) (*EdDSASigner, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("did: invalid EdDSA seed size: got %d, want %d", len(seed), ed25519.SeedSize)
	}
	return &EdDSASigner{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

func (s *EdDSASigner) KeyType() KeyType { return KeyTypeEdDSA }

func (s *EdDSASigner) Public() Verifier {
	return &EdDSAVerifier{pub: s.priv.Public().(ed25519.PublicKey)}
}

func (s *EdDSASigner) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(s.priv, message), nil
}
