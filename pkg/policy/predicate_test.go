package policy

import (
	"testing"

	"github.com/ucan-wg/go-ucan/pkg/ipld"
)

func mustSel(t *testing.T, s string) Sel {
	t.Helper()
	sel, err := ParseSelector(s)
	if err != nil {
		t.Fatalf("ParseSelector(%q): %v", s, err)
	}
	return FromSelector(sel)
}

func TestPredicateBooleans(t *testing.T) {
	data := ipld.Null()
	if ok, err := True().Run(data); err != nil || !ok {
		t.Fatalf("True().Run = %v, %v", ok, err)
	}
	if ok, err := False().Run(data); err != nil || ok {
		t.Fatalf("False().Run = %v, %v", ok, err)
	}
}

func TestPredicateEqual(t *testing.T) {
	data := sampleData()
	p := EqualP(mustSel(t, ".args.amount"), mustSel(t, ".args.amount"))
	ok, err := p.Run(data)
	if err != nil || !ok {
		t.Fatalf("Equal same field = %v, %v", ok, err)
	}

	p2 := EqualP(mustSel(t, ".args.amount"), Literal(ipld.Int(42)))
	ok, err = p2.Run(data)
	if err != nil || !ok {
		t.Fatalf("Equal against literal = %v, %v", ok, err)
	}

	p3 := EqualP(mustSel(t, ".args.amount"), mustSel(t, ".args.tags[0]"))
	ok, err = p3.Run(data)
	if err != nil || ok {
		t.Fatalf("Equal across types should be false, got %v, %v", ok, err)
	}
}

func TestPredicateComparisons(t *testing.T) {
	data := ipld.Map(map[string]ipld.Value{"a": ipld.Int(10), "b": ipld.Int(20)})
	a, b := mustSel(t, ".a"), mustSel(t, ".b")

	if ok, err := GreaterThan(b, a).Run(data); err != nil || !ok {
		t.Fatalf("20 > 10 should be true, got %v, %v", ok, err)
	}
	if ok, err := LessThan(a, b).Run(data); err != nil || !ok {
		t.Fatalf("10 < 20 should be true, got %v, %v", ok, err)
	}
	if ok, err := GreaterThanOrEqual(a, a).Run(data); err != nil || !ok {
		t.Fatalf("10 >= 10 should be true, got %v, %v", ok, err)
	}
	if ok, err := LessThanOrEqual(a, a).Run(data); err != nil || !ok {
		t.Fatalf("10 <= 10 should be true, got %v, %v", ok, err)
	}
	if ok, err := GreaterThan(a, Literal(ipld.Int(5))).Run(data); err != nil || !ok {
		t.Fatalf("10 > 5 (literal) should be true, got %v, %v", ok, err)
	}
}

func TestPredicateLike(t *testing.T) {
	data := ipld.Map(map[string]ipld.Value{
		"subject": ipld.String("storage/write"),
	})
	p := Like(mustSel(t, ".subject"), Literal(ipld.String("storage/*")))
	if ok, err := p.Run(data); err != nil || !ok {
		t.Fatalf("Like: %v, %v", ok, err)
	}

	// glob returns true as soon as it reaches '*' after a matching prefix,
	// ignoring whatever follows the '*' in the pattern.
	mismatched := ipld.Map(map[string]ipld.Value{"subject": ipld.String("storage/write")})
	p2 := Like(mustSel(t, ".subject"), Literal(ipld.String("storage/*.json")))
	if ok, err := p2.Run(mismatched); err != nil || !ok {
		t.Fatalf("expected glob to short-circuit true on '*' regardless of the rest of the pattern, got %v, %v", ok, err)
	}
}

func TestPredicateNotAndOr(t *testing.T) {
	data := ipld.Null()
	if ok, err := Not(False()).Run(data); err != nil || !ok {
		t.Fatalf("Not(False) = %v, %v", ok, err)
	}
	if ok, err := And(True(), False()).Run(data); err != nil || ok {
		t.Fatalf("And(True, False) = %v, %v", ok, err)
	}
	if ok, err := Or(False(), True()).Run(data); err != nil || !ok {
		t.Fatalf("Or(False, True) = %v, %v", ok, err)
	}
}

func entry(v int64, want int64) ipld.Value {
	return ipld.Map(map[string]ipld.Value{"v": ipld.Int(v), "want": ipld.Int(want)})
}

func TestPredicateEvery(t *testing.T) {
	matchesWant := EqualP(mustSel(t, ".v"), mustSel(t, ".want"))

	data := ipld.Map(map[string]ipld.Value{
		"entries": ipld.List([]ipld.Value{entry(2, 2), entry(4, 4), entry(6, 6)}),
	})
	ok, err := Every(mustSel(t, ".entries"), matchesWant).Run(data)
	if err != nil || !ok {
		t.Fatalf("Every over all-matching entries = %v, %v", ok, err)
	}

	mixed := ipld.Map(map[string]ipld.Value{
		"entries": ipld.List([]ipld.Value{entry(2, 2), entry(3, 4)}),
	})
	ok, err = Every(mustSel(t, ".entries"), matchesWant).Run(mixed)
	if err != nil || ok {
		t.Fatalf("Every should fail when one entry mismatches, got %v, %v", ok, err)
	}

	empty := ipld.Map(map[string]ipld.Value{"entries": ipld.List(nil)})
	ok, err = Every(mustSel(t, ".entries"), False()).Run(empty)
	if err != nil || !ok {
		t.Fatalf("Every over empty selection must be vacuously true, got %v, %v", ok, err)
	}
}

func TestPredicateSome(t *testing.T) {
	matchesWant := EqualP(mustSel(t, ".v"), mustSel(t, ".want"))

	data := ipld.Map(map[string]ipld.Value{
		"entries": ipld.List([]ipld.Value{entry(1, 2), entry(3, 4), entry(5, 5)}),
	})
	ok, err := Some(mustSel(t, ".entries"), matchesWant).Run(data)
	if err != nil || !ok {
		t.Fatalf("Some should find the one matching entry, got %v, %v", ok, err)
	}

	none := ipld.Map(map[string]ipld.Value{
		"entries": ipld.List([]ipld.Value{entry(1, 2), entry(3, 4)}),
	})
	ok, err = Some(mustSel(t, ".entries"), matchesWant).Run(none)
	if err != nil || ok {
		t.Fatalf("Some should be false when nothing matches, got %v, %v", ok, err)
	}

	empty := ipld.Map(map[string]ipld.Value{"entries": ipld.List(nil)})
	ok, err = Some(mustSel(t, ".entries"), True()).Run(empty)
	if err != nil || ok {
		t.Fatalf("Some over empty selection must be false, got %v, %v", ok, err)
	}
}
