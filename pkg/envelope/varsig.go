package envelope

import (
	"bytes"
	"fmt"

	"github.com/multiformats/go-varint"
	"github.com/ucan-wg/go-ucan/pkg/did"
)

// Header is a varsig: a self-describing prefix naming the signature
// algorithm and the codec the signed bytes were serialized with (§6.1).
// Only the six key types with a defined varsig preset can appear here;
// ES384 and BLS12-381 are valid did:key types but have no varsig preset
// (original_source's preset.rs marks both "needs varsig specs" and never
// defines them), so envelopes cannot be signed with those key types.
type Header struct {
	KeyType did.KeyType
	Codec   Codec
}

// algPrefix is the literal byte sequence preceding the codec varint for
// each supported key type, taken verbatim from §6.1's wire table.
var algPrefix = map[did.KeyType][]byte{
	did.KeyTypeEdDSA:  {0xed, 0x01},
	did.KeyTypeES256K: {0xe7, 0x12},
	did.KeyTypeES256:  {0x12, 0x00, 0x12},
	did.KeyTypeES512:  {0x12, 0x02, 0x13},
	did.KeyTypeRS256:  {0x12, 0x05, 0x12},
	did.KeyTypeRS512:  {0x12, 0x05, 0x13},
}

// ErrUnsupportedVarsigKeyType is returned when a Header names a key type
// with no defined varsig preset.
var ErrUnsupportedVarsigKeyType = fmt.Errorf("envelope: key type has no varsig preset")

// Encode serializes h as an unsigned-varint-framed varsig header.
func (h Header) Encode() ([]byte, error) {
	prefix, ok := algPrefix[h.KeyType]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedVarsigKeyType, h.KeyType)
	}
	if err := validCodec(h.Codec); err != nil {
		return nil, err
	}
	out := append([]byte(nil), prefix...)
	out = append(out, varint.ToUvarint(uint64(h.Codec))...)
	return out, nil
}

// DecodeHeader parses a varsig header, matching the known algorithm prefix
// data starts with (no known prefix is a prefix of another) before reading
// the trailing codec varint.
func DecodeHeader(data []byte) (Header, error) {
	for kt, prefix := range algPrefix {
		if len(data) < len(prefix) || !bytes.Equal(data[:len(prefix)], prefix) {
			continue
		}
		codeValue, n, err := varint.FromUvarint(data[len(prefix):])
		if err != nil {
			return Header{}, fmt.Errorf("envelope: reading codec varint: %w", err)
		}
		if len(prefix)+n != len(data) {
			return Header{}, fmt.Errorf("envelope: trailing bytes after varsig header")
		}
		codec := Codec(codeValue)
		if err := validCodec(codec); err != nil {
			return Header{}, err
		}
		return Header{KeyType: kt, Codec: codec}, nil
	}
	return Header{}, fmt.Errorf("envelope: unrecognized varsig header prefix")
}
