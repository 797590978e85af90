package did

import (
	"fmt"
	"math/big"
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// blsInit lazily loads the curve's generator points once, following the
// donor's Initialize()/sync.Once pattern in pkg/crypto/bls/bls.go.
var (
	blsInitOnce sync.Once
	blsG1Gen    bls12381.G1Affine
	blsG2Gen    bls12381.G2Affine
)

func blsInit() {
	blsInitOnce.Do(func() {
		_, _, g1, g2 := bls12381.Generators()
		blsG1Gen = g1
		blsG2Gen = g2
	})
}

func hashToG1(message []byte) bls12381.G1Affine {
	p, _ := bls12381.HashToG1(message, []byte("BLS_SIG_BLS12381G1_XMD:SHA-256_SSWU_RO_UCAN_"))
	return p
}

func hashToG2(message []byte) bls12381.G2Affine {
	p, _ := bls12381.HashToG2(message, []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_UCAN_"))
	return p
}

// BLSG2Verifier wraps a BLS12-381 public key on G2, verifying signatures
// on G1 (the variant directly grounded on the donor's single-curve BLS
// package, where the public key is the larger G2 point and the signature
// the smaller, aggregable G1 point).
type BLSG2Verifier struct {
	pub bls12381.G2Affine
}

// NewBLSG2Verifier decodes raw as a compressed G2 point.
func NewBLSG2Verifier(raw []byte) (*BLSG2Verifier, error) {
	blsInit()
	var pub bls12381.G2Affine
	if _, err := pub.SetBytes(raw); err != nil {
		return nil, fmt.Errorf("did: invalid BLS12-381 G2 public key: %w", err)
	}
	return &BLSG2Verifier{pub: pub}, nil
}

func (v *BLSG2Verifier) KeyType() KeyType { return KeyTypeBLS12381G2 }

func (v *BLSG2Verifier) Raw() []byte {
	b := v.pub.Bytes()
	return b[:]
}

func (v *BLSG2Verifier) Verify(message, signature []byte) error {
	var sig bls12381.G1Affine
	if _, err := sig.SetBytes(signature); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	h := hashToG1(message)

	var negPub bls12381.G2Affine
	negPub.Neg(&v.pub)

	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{sig, h},
		[]bls12381.G2Affine{blsG2Gen, negPub},
	)
	if err != nil || !ok {
		return ErrInvalidSignature
	}
	return nil
}

// BLSG2Signer wraps a BLS12-381 scalar producing G2-public-key/G1-signature
// pairs.
type BLSG2Signer struct {
	scalar fr.Element
}

// NewBLSG2Signer generates a fresh key pair.
func NewBLSG2Signer() (*BLSG2Signer, error) {
	blsInit()
	var sk fr.Element
	if _, err := sk.SetRandom(); err != nil {
		return nil, fmt.Errorf("did: generating BLS12-381 key: %w", err)
	}
	return &BLSG2Signer{scalar: sk}, nil
}

func (s *BLSG2Signer) KeyType() KeyType { return KeyTypeBLS12381G2 }

func (s *BLSG2Signer) Public() Verifier {
	var pub bls12381.G2Affine
	var skBig big.Int
	s.scalar.BigInt(&skBig)
	pub.ScalarMultiplication(&blsG2Gen, &skBig)
	return &BLSG2Verifier{pub: pub}
}

func (s *BLSG2Signer) Sign(message []byte) ([]byte, error) {
	h := hashToG1(message)
	var sig bls12381.G1Affine
	var skBig big.Int
	s.scalar.BigInt(&skBig)
	sig.ScalarMultiplication(&h, &skBig)
	b := sig.Bytes()
	return b[:], nil
}

// BLSG1Verifier wraps a BLS12-381 public key on G1, verifying signatures
// on G2 (the symmetric counterpart variant, its public key the smaller G1
// point and its signature the larger G2 point).
type BLSG1Verifier struct {
	pub bls12381.G1Affine
}

// NewBLSG1Verifier decodes raw as a compressed G1 point.
func NewBLSG1Verifier(raw []byte) (*BLSG1Verifier, error) {
	blsInit()
	var pub bls12381.G1Affine
	if _, err := pub.SetBytes(raw); err != nil {
		return nil, fmt.Errorf("did: invalid BLS12-381 G1 public key: %w", err)
	}
	return &BLSG1Verifier{pub: pub}, nil
}

func (v *BLSG1Verifier) KeyType() KeyType { return KeyTypeBLS12381G1 }

func (v *BLSG1Verifier) Raw() []byte {
	b := v.pub.Bytes()
	return b[:]
}

func (v *BLSG1Verifier) Verify(message, signature []byte) error {
	var sig bls12381.G2Affine
	if _, err := sig.SetBytes(signature); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	h := hashToG2(message)

	var negPub bls12381.G1Affine
	negPub.Neg(&v.pub)

	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{blsG1Gen, negPub},
		[]bls12381.G2Affine{sig, h},
	)
	if err != nil || !ok {
		return ErrInvalidSignature
	}
	return nil
}

// BLSG1Signer wraps a BLS12-381 scalar producing G1-public-key/G2-signature
// pairs.
type BLSG1Signer struct {
	scalar fr.Element
}

// NewBLSG1Signer generates a fresh key pair.
func NewBLSG1Signer() (*BLSG1Signer, error) {
	blsInit()
	var sk fr.Element
	if _, err := sk.SetRandom(); err != nil {
		return nil, fmt.Errorf("did: generating BLS12-381 key: %w", err)
	}
	return &BLSG1Signer{scalar: sk}, nil
}

func (s *BLSG1Signer) KeyType() KeyType { return KeyTypeBLS12381G1 }

func (s *BLSG1Signer) Public() Verifier {
	var pub bls12381.G1Affine
	var skBig big.Int
	s.scalar.BigInt(&skBig)
	pub.ScalarMultiplication(&blsG1Gen, &skBig)
	return &BLSG1Verifier{pub: pub}
}

func (s *BLSG1Signer) Sign(message []byte) ([]byte, error) {
	h := hashToG2(message)
	var sig bls12381.G2Affine
	var skBig big.Int
	s.scalar.BigInt(&skBig)
	sig.ScalarMultiplication(&h, &skBig)
	b := sig.Bytes()
	return b[:], nil
}
