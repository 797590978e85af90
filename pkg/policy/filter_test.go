package policy

import "testing"

func TestFilterStringForms(t *testing.T) {
	cases := []struct {
		name string
		f    Filter
		want string
	}{
		{"field identifier", Field("status"), ".status"},
		{"field needs quoting", Field("has space"), `["has space"]`},
		{"field leading digit", Field("2fa"), `["2fa"]`},
		{"array index", ArrayIndex(3), "[3]"},
		{"negative array index", ArrayIndex(-1), "[-1]"},
		{"values", Values(), "[]"},
		{"try wraps field", Try(Field("status")), ".status?"},
		{"try wraps quoted field", Try(Field("has space")), `["has space"]?`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.f.String(); got != c.want {
				t.Fatalf("String() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestFilterIsIn(t *testing.T) {
	if !ArrayIndex(2).IsIn(Values()) {
		t.Fatalf("expected ArrayIndex to be subsumed by Values")
	}
	if !Field("a").IsIn(Values()) {
		t.Fatalf("expected Field to be subsumed by Values")
	}
	if Field("a").IsIn(Field("b")) {
		t.Fatalf("distinct fields must not be mutually in")
	}
	if !Field("a").IsIn(Field("a")) {
		t.Fatalf("identical fields must be in each other")
	}
	if ArrayIndex(1).IsIn(ArrayIndex(2)) {
		t.Fatalf("distinct indices must not be mutually in")
	}
}

func TestFilterEqual(t *testing.T) {
	if !Try(Field("a")).Equal(Try(Field("a"))) {
		t.Fatalf("expected equal Try filters to compare equal")
	}
	if Try(Field("a")).Equal(Try(Field("b"))) {
		t.Fatalf("expected differing inner filters to compare unequal")
	}
	if ArrayIndex(1).Equal(Field("a")) {
		t.Fatalf("filters of different kinds must not be equal")
	}
}
