package ipld

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/ipfs/go-cid"
)

// linkTag is the CBOR tag DAG-CBOR uses to distinguish a CID from an
// ordinary byte string (IPLD's "tag 42" convention).
const linkTag = 42

var canonicalEncMode cbor.EncMode

func init() {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeUnixDynamic
	mode, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("ipld: building canonical CBOR encoder: %v", err))
	}
	canonicalEncMode = mode
}

// MarshalCanonicalCBOR encodes v using RFC 8949 core-deterministic CBOR,
// the wire form the envelope signs over (§3.2, §4.2: "canonical encoding is
// mandatory"). Byte-identical Values always produce byte-identical output.
func MarshalCanonicalCBOR(v Value) ([]byte, error) {
	native, err := toNative(v)
	if err != nil {
		return nil, err
	}
	return canonicalEncMode.Marshal(native)
}

// UnmarshalCanonicalCBOR is the inverse of MarshalCanonicalCBOR.
func UnmarshalCanonicalCBOR(data []byte) (Value, error) {
	var native interface{}
	if err := cbor.Unmarshal(data, &native); err != nil {
		return Value{}, fmt.Errorf("ipld: decoding cbor: %w", err)
	}
	return fromNative(native)
}

// toNative lowers a Value into the plain Go types the cbor encoder
// understands, translating KindLink into a tagged CID byte string per the
// DAG-CBOR convention (multibase-identity-prefixed CID bytes under tag 42).
func toNative(v Value) (interface{}, error) {
	switch v.kind {
	case KindNull:
		return nil, nil
	case KindBool:
		return v.b, nil
	case KindInt:
		return v.i, nil
	case KindFloat:
		return v.f, nil
	case KindString:
		return v.s, nil
	case KindBytes:
		return v.bytes, nil
	case KindList:
		out := make([]interface{}, len(v.list))
		for i, item := range v.list {
			n, err := toNative(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case KindMap:
		out := make(map[string]interface{}, len(v.m))
		for k, val := range v.m {
			n, err := toNative(val)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case KindLink:
		linkBytes := append([]byte{0x00}, v.link.Bytes()...)
		return cbor.Tag{Number: linkTag, Content: linkBytes}, nil
	default:
		return nil, fmt.Errorf("ipld: invalid value kind %d", v.kind)
	}
}

func fromNative(n interface{}) (Value, error) {
	switch x := n.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(x), nil
	case uint64:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case float64:
		return Float(x), nil
	case string:
		return String(x), nil
	case []byte:
		return Bytes(x), nil
	case []interface{}:
		items := make([]Value, len(x))
		for i, item := range x {
			v, err := fromNative(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return List(items), nil
	case map[interface{}]interface{}:
		m := make(map[string]Value, len(x))
		for k, val := range x {
			ks, ok := k.(string)
			if !ok {
				return Value{}, fmt.Errorf("ipld: non-string map key %v", k)
			}
			v, err := fromNative(val)
			if err != nil {
				return Value{}, err
			}
			m[ks] = v
		}
		return Map(m), nil
	case map[string]interface{}:
		m := make(map[string]Value, len(x))
		for k, val := range x {
			v, err := fromNative(val)
			if err != nil {
				return Value{}, err
			}
			m[k] = v
		}
		return Map(m), nil
	case cbor.Tag:
		if x.Number != linkTag {
			return Value{}, fmt.Errorf("ipld: unsupported cbor tag %d", x.Number)
		}
		raw, ok := x.Content.([]byte)
		if !ok || len(raw) == 0 || raw[0] != 0x00 {
			return Value{}, fmt.Errorf("ipld: malformed link tag content")
		}
		c, err := cid.Cast(raw[1:])
		if err != nil {
			return Value{}, fmt.Errorf("ipld: decoding link cid: %w", err)
		}
		return Link(c), nil
	default:
		return Value{}, fmt.Errorf("ipld: unsupported native type %T", n)
	}
}
