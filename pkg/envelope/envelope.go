// Package envelope implements the signed outer container every
// delegation, invocation, and receipt payload travels in: a varsig
// header naming the signature algorithm and serialization codec, a
// detached signature over the canonically-encoded capsule, and the
// capsule itself (§3.2, §4.2).
package envelope

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/ucan-wg/go-ucan/pkg/did"
	"github.com/ucan-wg/go-ucan/pkg/ipld"
)

// Envelope is the parsed wire form: `[signature, [header, {tag: payload}]]`.
type Envelope struct {
	Header    Header
	Signature []byte
	Tag       string
	Payload   ipld.Value
}

// encodeCapsule builds the single-entry `{tag: payload}` map that is the
// signed content.
func encodeCapsule(tag string, payload ipld.Value) ipld.Value {
	return ipld.Map(map[string]ipld.Value{tag: payload})
}

// encodeSignedBytes re-encodes the capsule with the codec the header
// names. Only DagCbor (the default, and UCAN's canonical encoding) is
// currently implemented; any other codec is a caller error until this
// module grows an encoder for it.
func encodeSignedBytes(codec Codec, capsule ipld.Value) ([]byte, error) {
	switch codec {
	case CodecDagCbor:
		return ipld.MarshalCanonicalCBOR(capsule)
	default:
		return nil, fmt.Errorf("envelope: encoding with %v is not implemented", codec)
	}
}

// Sign builds a new Envelope: it encodes `{tag: payload}` with the
// header's codec, signs those bytes with signer, and returns the
// resulting envelope. The header's KeyType must match signer's.
func Sign(signer did.Signer, header Header, tag string, payload ipld.Value) (*Envelope, error) {
	if header.KeyType != signer.KeyType() {
		return nil, fmt.Errorf("%w: header names %v, signer is %v", ErrVerifierKeyTypeMismatch, header.KeyType, signer.KeyType())
	}
	if _, err := header.Encode(); err != nil {
		return nil, err
	}
	capsule := encodeCapsule(tag, payload)
	signedBytes, err := encodeSignedBytes(header.Codec, capsule)
	if err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}
	sig, err := signer.Sign(signedBytes)
	if err != nil {
		return nil, fmt.Errorf("envelope: signing: %w", err)
	}
	return &Envelope{Header: header, Signature: sig, Tag: tag, Payload: payload}, nil
}

// Verify checks env's signature against verifier, and that env's capsule
// carries exactly the expected tag. verifier's key type must match the
// envelope header's algorithm.
func Verify(verifier did.Verifier, env *Envelope, expectedTag string) error {
	if env.Tag != expectedTag {
		return fmt.Errorf("%w: got %q, want %q", ErrInvalidPayloadCapsule, env.Tag, expectedTag)
	}
	if verifier.KeyType() != env.Header.KeyType {
		return fmt.Errorf("%w: header names %v, verifier is %v", ErrVerifierKeyTypeMismatch, env.Header.KeyType, verifier.KeyType())
	}
	capsule := encodeCapsule(env.Tag, env.Payload)
	signedBytes, err := encodeSignedBytes(env.Header.Codec, capsule)
	if err != nil {
		return fmt.Errorf("envelope: %w", err)
	}
	if err := verifier.Verify(signedBytes, env.Signature); err != nil {
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	return nil
}

// wireValue renders the full `[signature, [header_bytes, capsule]]` list,
// the form re-encoded for CID computation.
func (e *Envelope) wireValue() (ipld.Value, error) {
	headerBytes, err := e.Header.Encode()
	if err != nil {
		return ipld.Value{}, err
	}
	capsule := encodeCapsule(e.Tag, e.Payload)
	inner := ipld.List([]ipld.Value{ipld.Bytes(headerBytes), capsule})
	return ipld.List([]ipld.Value{ipld.Bytes(e.Signature), inner}), nil
}

// CID re-encodes the full envelope with the header's codec and hashes it
// with SHA2-256, wrapped in a CIDv1 whose codec field is the header's
// codec code (§3.2, §4.2).
func (e *Envelope) CID() (cid.Cid, error) {
	wire, err := e.wireValue()
	if err != nil {
		return cid.Undef, err
	}
	encoded, err := encodeSignedBytes(e.Header.Codec, wire)
	if err != nil {
		return cid.Undef, fmt.Errorf("envelope: %w", err)
	}
	mh, err := multihash.Sum(encoded, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, fmt.Errorf("envelope: hashing envelope: %w", err)
	}
	return cid.NewCidV1(uint64(e.Header.Codec), mh), nil
}
