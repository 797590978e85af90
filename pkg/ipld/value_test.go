package ipld

import (
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

func testCID(t *testing.T, data string) cid.Cid {
	t.Helper()
	mh, err := multihash.Sum([]byte(data), multihash.SHA2_256, -1)
	if err != nil {
		t.Fatalf("hashing test cid: %v", err)
	}
	return cid.NewCidV1(cid.DagCBOR, mh)
}

func TestValueAccessorsMatchKind(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		kind Kind
	}{
		{"null", Null(), KindNull},
		{"bool", Bool(true), KindBool},
		{"int", Int(42), KindInt},
		{"float", Float(1.5), KindFloat},
		{"string", String("hi"), KindString},
		{"bytes", Bytes([]byte{1, 2, 3}), KindBytes},
		{"list", List([]Value{Int(1), Int(2)}), KindList},
		{"map", Map(map[string]Value{"a": Int(1)}), KindMap},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.v.Kind() != tc.kind {
				t.Fatalf("Kind() = %v, want %v", tc.v.Kind(), tc.kind)
			}
		})
	}
}

func TestEqualDistinguishesIntAndFloat(t *testing.T) {
	if Equal(Int(1), Float(1.0)) {
		t.Fatalf("Int(1) must not equal Float(1.0)")
	}
	if !Equal(Int(1), Int(1)) {
		t.Fatalf("Int(1) must equal Int(1)")
	}
}

func TestEqualList(t *testing.T) {
	a := List([]Value{Int(1), String("x")})
	b := List([]Value{Int(1), String("x")})
	c := List([]Value{Int(1), String("y")})
	if !Equal(a, b) {
		t.Fatalf("expected equal lists")
	}
	if Equal(a, c) {
		t.Fatalf("expected unequal lists")
	}
}

func TestEqualLink(t *testing.T) {
	c1 := testCID(t, "one")
	c2 := testCID(t, "two")
	if !Equal(Link(c1), Link(c1)) {
		t.Fatalf("identical links must be equal")
	}
	if Equal(Link(c1), Link(c2)) {
		t.Fatalf("distinct links must not be equal")
	}
}

func TestSortedKeysDeterministic(t *testing.T) {
	v := Map(map[string]Value{"z": Int(1), "a": Int(2), "m": Int(3)})
	keys := v.SortedKeys()
	want := []string{"a", "m", "z"}
	if len(keys) != len(want) {
		t.Fatalf("got %d keys, want %d", len(keys), len(want))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestMapCopiesOnConstruction(t *testing.T) {
	src := map[string]Value{"a": Int(1)}
	v := Map(src)
	src["a"] = Int(99)
	got, _ := v.AsMap()
	if i, _ := got["a"].AsInt(); i != 1 {
		t.Fatalf("Map must copy its input, mutation leaked through: got %d", i)
	}
}
