package policy

import "testing"

func TestParseSelectorBasic(t *testing.T) {
	cases := []struct {
		in   string
		want []FilterKind
	}{
		{".", nil},
		{".foo", []FilterKind{FilterField}},
		{".foo.bar", []FilterKind{FilterField, FilterField}},
		{`.foo["bar"]`, []FilterKind{FilterField, FilterField}},
		{".foo[0]", []FilterKind{FilterField, FilterArrayIndex}},
		{".foo[-1]", []FilterKind{FilterField, FilterArrayIndex}},
		{".foo[]", []FilterKind{FilterField, FilterValues}},
		{".foo?", []FilterKind{FilterTry}},
		{".foo?.bar", []FilterKind{FilterTry, FilterField}},
		{".args[0]?", []FilterKind{FilterField, FilterTry}},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			sel, err := ParseSelector(c.in)
			if err != nil {
				t.Fatalf("ParseSelector(%q): %v", c.in, err)
			}
			got := sel.Filters()
			if len(got) != len(c.want) {
				t.Fatalf("got %d filters, want %d (%v)", len(got), len(c.want), got)
			}
			for i := range got {
				if got[i].Kind() != c.want[i] {
					t.Fatalf("filter %d kind = %v, want %v", i, got[i].Kind(), c.want[i])
				}
			}
		})
	}
}

func TestParseSelectorRejectsMissingDot(t *testing.T) {
	if _, err := ParseSelector("foo"); err == nil {
		t.Fatalf("expected error for selector missing leading dot")
	}
}

func TestParseSelectorRejectsDoubleDot(t *testing.T) {
	if _, err := ParseSelector("..foo"); err == nil {
		t.Fatalf("expected error for selector starting with '..'")
	}
}

func TestSelectorStringRoundTrip(t *testing.T) {
	cases := []string{".", ".foo", ".foo.bar", ".foo[0]", ".foo[-1]", ".foo[]", ".foo?"}
	for _, in := range cases {
		sel, err := ParseSelector(in)
		if err != nil {
			t.Fatalf("ParseSelector(%q): %v", in, err)
		}
		if got := sel.String(); got != in {
			t.Fatalf("String() = %q, want %q", got, in)
		}
	}
}

func TestSelectorCompare(t *testing.T) {
	a, _ := ParseSelector(".foo.bar")
	b, _ := ParseSelector(".foo")
	c, _ := ParseSelector(".foo.baz")

	if got := a.Compare(b); got != OrderGreater {
		t.Fatalf("a.Compare(b) = %v, want OrderGreater", got)
	}
	if got := b.Compare(a); got != OrderLess {
		t.Fatalf("b.Compare(a) = %v, want OrderLess", got)
	}
	if got := a.Compare(a); got != OrderEqual {
		t.Fatalf("a.Compare(a) = %v, want OrderEqual", got)
	}
	if got := a.Compare(c); got != OrderIncomparable {
		t.Fatalf("a.Compare(c) = %v, want OrderIncomparable", got)
	}
}
