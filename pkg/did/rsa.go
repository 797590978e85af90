package did

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/x509"
	"fmt"
)

// rs512Threshold is the modulus bit length at or above which a parsed RSA
// key is treated as the RS512 variant rather than RS256 (§6.1: RS256 uses
// 2048-bit keys, RS512 uses 4096-bit keys, and the two share a multicodec
// code so the modulus size is the only signal at parse time).
const rs512Threshold = 4096

// RSAVerifier wraps an RSA public key used for either RS256 or RS512,
// selected by modulus size.
type RSAVerifier struct {
	kt  KeyType
	pub *rsa.PublicKey
}

// NewRSAVerifier parses raw as a PKCS#1 DER-encoded RSA public key and
// tags it RS256 or RS512 by modulus bit length.
func NewRSAVerifier(raw []byte) (*RSAVerifier, error) {
	pub, err := x509.ParsePKCS1PublicKey(raw)
	if err != nil {
		return nil, fmt.Errorf("did: invalid RSA public key: %w", err)
	}
	return &RSAVerifier{kt: rsaKeyType(pub), pub: pub}, nil
}

func rsaKeyType(pub *rsa.PublicKey) KeyType {
	if pub.N.BitLen() >= rs512Threshold {
		return KeyTypeRS512
	}
	return KeyTypeRS256
}

func (v *RSAVerifier) KeyType() KeyType { return v.kt }
func (v *RSAVerifier) Raw() []byte      { return x509.MarshalPKCS1PublicKey(v.pub) }

func (v *RSAVerifier) Verify(message, signature []byte) error {
	hashFn, digest := rsaDigest(v.kt, message)
	if err := rsa.VerifyPKCS1v15(v.pub, hashFn, digest, signature); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}

func rsaDigest(kt KeyType, message []byte) (crypto.Hash, []byte) {
	if kt == KeyTypeRS512 {
		sum := sha512.Sum512(message)
		return crypto.SHA512, sum[:]
	}
	sum := sha256.Sum256(message)
	return crypto.SHA256, sum[:]
}

// RSASigner wraps an RSA private key.
type RSASigner struct {
	kt   KeyType
	priv *rsa.PrivateKey
}

// NewRSASigner generates a fresh key pair for kt, which must be RS256 or
// RS512; RS256 keys are 2048 bits, RS512 keys are 4096 bits (§6.1).
func NewRSASigner(kt KeyType) (*RSASigner, error) {
	bits := 2048
	if kt == KeyTypeRS512 {
		bits = 4096
	} else if kt != KeyTypeRS256 {
		return nil, fmt.Errorf("did: %v is not an RSA key type", kt)
	}
	priv, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("did: generating %v key: %w", kt, err)
	}
	return &RSASigner{kt: kt, priv: priv}, nil
}

func (s *RSASigner) KeyType() KeyType { return s.kt }

func (s *RSASigner) Public() Verifier {
	return &RSAVerifier{kt: s.kt, pub: &s.priv.PublicKey}
}

func (s *RSASigner) Sign(message []byte) ([]byte, error) {
	hashFn, digest := rsaDigest(s.kt, message)
	return rsa.SignPKCS1v15(rand.Reader, s.priv, hashFn, digest)
}
