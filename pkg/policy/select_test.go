package policy

import (
	"testing"

	"github.com/ucan-wg/go-ucan/pkg/ipld"
)

func sampleData() ipld.Value {
	return ipld.Map(map[string]ipld.Value{
		"args": ipld.Map(map[string]ipld.Value{
			"amount": ipld.Int(42),
			"tags":   ipld.List([]ipld.Value{ipld.String("a"), ipld.String("b")}),
		}),
	})
}

func TestSelectField(t *testing.T) {
	sel, _ := ParseSelector(".args.amount")
	got, err := Select(sel, sampleData())
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	n, ok := got.AsInt()
	if !ok || n != 42 {
		t.Fatalf("got %v, want 42", got)
	}
}

func TestSelectArrayIndex(t *testing.T) {
	sel, _ := ParseSelector(".args.tags[1]")
	got, err := Select(sel, sampleData())
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	s, _ := got.AsString()
	if s != "b" {
		t.Fatalf("got %q, want \"b\"", s)
	}
}

func TestSelectNegativeArrayIndex(t *testing.T) {
	sel, _ := ParseSelector(".args.tags[-1]")
	got, err := Select(sel, sampleData())
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	s, _ := got.AsString()
	if s != "b" {
		t.Fatalf("got %q, want \"b\"", s)
	}
}

func TestSelectValuesOnList(t *testing.T) {
	sel, _ := ParseSelector(".args.tags[]")
	got, err := Select(sel, sampleData())
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	list, ok := got.AsList()
	if !ok || len(list) != 2 {
		t.Fatalf("got %v, want a 2-element list", got)
	}
}

func TestSelectValuesOnMap(t *testing.T) {
	sel, _ := ParseSelector(".args[]")
	got, err := Select(sel, sampleData())
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	list, ok := got.AsList()
	if !ok || len(list) != 2 {
		t.Fatalf("got %v, want a 2-element list of the map's values", got)
	}
}

func TestSelectMissingFieldErrors(t *testing.T) {
	sel, _ := ParseSelector(".args.missing")
	if _, err := Select(sel, sampleData()); err == nil {
		t.Fatalf("expected error for missing field")
	}
}

func TestSelectTrySwallowsError(t *testing.T) {
	sel, _ := ParseSelector(".args.missing?")
	got, err := Select(sel, sampleData())
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if !got.IsNull() {
		t.Fatalf("expected Null from swallowed error, got %v", got)
	}
}

func TestSelectTryAppliesAtCurrentPosition(t *testing.T) {
	// A Try filter resolves its inner filter against wherever the walk
	// currently is, swallowing to Null there; the next filter then runs
	// against that Null rather than silently resuming from the root.
	sel, _ := ParseSelector(".args.missing?.tags")
	if _, err := Select(sel, sampleData()); err == nil {
		t.Fatalf("expected error: field lookup after a swallowed Try runs against Null, not the root")
	}
}

func TestSelectOutOfRangeIndex(t *testing.T) {
	sel, _ := ParseSelector(".args.tags[5]")
	if _, err := Select(sel, sampleData()); err == nil {
		t.Fatalf("expected error for out-of-range index")
	}
}
