package ipld

import (
	"bytes"
	"testing"
)

func TestCBORRoundTripScalars(t *testing.T) {
	cases := []Value{
		Null(),
		Bool(true),
		Bool(false),
		Int(-7),
		Int(0),
		Float(3.25),
		String("hello"),
		Bytes([]byte{0xde, 0xad, 0xbe, 0xef}),
	}
	for _, v := range cases {
		data, err := MarshalCanonicalCBOR(v)
		if err != nil {
			t.Fatalf("marshal %v: %v", v, err)
		}
		back, err := UnmarshalCanonicalCBOR(data)
		if err != nil {
			t.Fatalf("unmarshal %v: %v", v, err)
		}
		if !Equal(v, back) {
			t.Fatalf("round trip mismatch: got %v, want %v", back, v)
		}
	}
}

func TestCBORRoundTripCollections(t *testing.T) {
	v := Map(map[string]Value{
		"list": List([]Value{Int(1), String("two"), Null()}),
		"nested": Map(map[string]Value{
			"a": Bool(true),
		}),
	})
	data, err := MarshalCanonicalCBOR(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := UnmarshalCanonicalCBOR(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !Equal(v, back) {
		t.Fatalf("round trip mismatch: got %v, want %v", back, v)
	}
}

func TestCBORRoundTripLink(t *testing.T) {
	c := testCID(t, "link-round-trip")
	v := Link(c)
	data, err := MarshalCanonicalCBOR(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := UnmarshalCanonicalCBOR(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !Equal(v, back) {
		t.Fatalf("round trip mismatch: got %v, want %v", back, v)
	}
}

func TestCBOREncodingIsDeterministicAcrossMapOrder(t *testing.T) {
	a := Map(map[string]Value{"z": Int(1), "a": Int(2), "m": Int(3)})
	b := Map(map[string]Value{"m": Int(3), "z": Int(1), "a": Int(2)})
	da, err := MarshalCanonicalCBOR(a)
	if err != nil {
		t.Fatalf("marshal a: %v", err)
	}
	db, err := MarshalCanonicalCBOR(b)
	if err != nil {
		t.Fatalf("marshal b: %v", err)
	}
	if !bytes.Equal(da, db) {
		t.Fatalf("expected identical bytes regardless of Go map iteration order, got %x vs %x", da, db)
	}
}
