package store

import (
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

func mustCID(t *testing.T, seed byte) cid.Cid {
	t.Helper()
	mh, err := multihash.Sum([]byte{seed}, multihash.SHA2_256, -1)
	if err != nil {
		t.Fatalf("multihash.Sum: %v", err)
	}
	return cid.NewCidV1(cid.DagCBOR, mh)
}

func TestPromiseWaitIndexPutGetWaiting(t *testing.T) {
	idx := NewPromiseWaitIndex()
	inv := mustCID(t, 1)
	blockerA := mustCID(t, 2)
	blockerB := mustCID(t, 3)

	idx.PutWaiting(inv, []cid.Cid{blockerA, blockerB})

	got := idx.GetWaiting([]cid.Cid{blockerA})
	if len(got) != 1 || got[0] != inv {
		t.Fatalf("unexpected waiters for blockerA: %+v", got)
	}

	got = idx.GetWaiting([]cid.Cid{blockerB})
	if len(got) != 1 || got[0] != inv {
		t.Fatalf("unexpected waiters for blockerB: %+v", got)
	}

	other := mustCID(t, 4)
	if got := idx.GetWaiting([]cid.Cid{other}); len(got) != 0 {
		t.Fatalf("expected no waiters for unrelated blocker, got %+v", got)
	}
}

func TestPromiseWaitIndexDeduplicatesAcrossBlockers(t *testing.T) {
	idx := NewPromiseWaitIndex()
	inv := mustCID(t, 1)
	blockerA := mustCID(t, 2)
	blockerB := mustCID(t, 3)

	idx.PutWaiting(inv, []cid.Cid{blockerA, blockerB})

	got := idx.GetWaiting([]cid.Cid{blockerA, blockerB})
	if len(got) != 1 || got[0] != inv {
		t.Fatalf("expected a single deduplicated waiter, got %+v", got)
	}
}

func TestPromiseWaitIndexPutWaitingReplacesPriorSet(t *testing.T) {
	idx := NewPromiseWaitIndex()
	inv := mustCID(t, 1)
	blockerA := mustCID(t, 2)
	blockerB := mustCID(t, 3)

	idx.PutWaiting(inv, []cid.Cid{blockerA})
	idx.PutWaiting(inv, []cid.Cid{blockerB})

	if got := idx.GetWaiting([]cid.Cid{blockerA}); len(got) != 0 {
		t.Fatalf("expected blockerA to no longer block inv, got %+v", got)
	}
	got := idx.GetWaiting([]cid.Cid{blockerB})
	if len(got) != 1 || got[0] != inv {
		t.Fatalf("expected blockerB to block inv, got %+v", got)
	}
}

func TestPromiseWaitIndexClear(t *testing.T) {
	idx := NewPromiseWaitIndex()
	inv := mustCID(t, 1)
	blockerA := mustCID(t, 2)

	idx.PutWaiting(inv, []cid.Cid{blockerA})
	idx.Clear(inv)

	if got := idx.GetWaiting([]cid.Cid{blockerA}); len(got) != 0 {
		t.Fatalf("expected cleared invocation to be gone, got %+v", got)
	}
}
