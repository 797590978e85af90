package envelope

import "fmt"

// Codec identifies how the signed bytes (and the full envelope, for CID
// purposes) are serialized, named in the varsig header's trailing varint
// (§6.1).
type Codec uint64

const (
	CodecIdentity Codec = 0x5f
	CodecDagPb    Codec = 0x70
	CodecDagCbor  Codec = 0x71
	CodecDagJson  Codec = 0x0129
	CodecJwt      Codec = 0x6a77
	CodecEip191   Codec = 0xe191
)

func (c Codec) String() string {
	switch c {
	case CodecIdentity:
		return "Identity"
	case CodecDagPb:
		return "DagPb"
	case CodecDagCbor:
		return "DagCbor"
	case CodecDagJson:
		return "DagJson"
	case CodecJwt:
		return "Jwt"
	case CodecEip191:
		return "Eip191"
	default:
		return fmt.Sprintf("Codec(0x%x)", uint64(c))
	}
}

// ErrUnknownCodec is returned by header parsing when the trailing varint
// doesn't match one of the codecs above (§4.2's UnknownCodec edge case).
var ErrUnknownCodec = fmt.Errorf("envelope: unknown codec")

func validCodec(c Codec) error {
	switch c {
	case CodecIdentity, CodecDagPb, CodecDagCbor, CodecDagJson, CodecJwt, CodecEip191:
		return nil
	default:
		return fmt.Errorf("%w: 0x%x", ErrUnknownCodec, uint64(c))
	}
}
