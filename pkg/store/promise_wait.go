package store

import (
	"sync"

	"github.com/ipfs/go-cid"
)

// PromiseWaitIndex tracks, for each pending invocation, the set of
// receipt CIDs it is still waiting on, and answers the inverse query:
// given a newly-arrived receipt CID, which invocations does it unblock
// (§4.6, §4.7).
type PromiseWaitIndex struct {
	mu        sync.RWMutex
	waiting   map[cid.Cid]map[cid.Cid]struct{} // invocation CID -> blocker CIDs
	byBlocker map[cid.Cid]map[cid.Cid]struct{} // blocker CID -> invocation CIDs
}

// NewPromiseWaitIndex returns an empty index.
func NewPromiseWaitIndex() *PromiseWaitIndex {
	return &PromiseWaitIndex{
		waiting:   make(map[cid.Cid]map[cid.Cid]struct{}),
		byBlocker: make(map[cid.Cid]map[cid.Cid]struct{}),
	}
}

// PutWaiting records that invCid remains blocked on blockers. A second
// call for the same invCid replaces its prior blocker set, reflecting
// that TryResolve narrows the pending set monotonically as receipts
// arrive.
func (idx *PromiseWaitIndex) PutWaiting(invCid cid.Cid, blockers []cid.Cid) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if old, ok := idx.waiting[invCid]; ok {
		for blocker := range old {
			if set := idx.byBlocker[blocker]; set != nil {
				delete(set, invCid)
				if len(set) == 0 {
					delete(idx.byBlocker, blocker)
				}
			}
		}
	}

	if len(blockers) == 0 {
		delete(idx.waiting, invCid)
		return
	}

	set := make(map[cid.Cid]struct{}, len(blockers))
	for _, blocker := range blockers {
		set[blocker] = struct{}{}
		if idx.byBlocker[blocker] == nil {
			idx.byBlocker[blocker] = make(map[cid.Cid]struct{})
		}
		idx.byBlocker[blocker][invCid] = struct{}{}
	}
	idx.waiting[invCid] = set
}

// GetWaiting returns every invocation CID whose pending blocker set
// intersects the given blockers, deduplicated.
func (idx *PromiseWaitIndex) GetWaiting(blockers []cid.Cid) []cid.Cid {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	seen := make(map[cid.Cid]struct{})
	var result []cid.Cid
	for _, blocker := range blockers {
		for invCid := range idx.byBlocker[blocker] {
			if _, dup := seen[invCid]; dup {
				continue
			}
			seen[invCid] = struct{}{}
			result = append(result, invCid)
		}
	}
	return result
}

// Clear removes invCid from the index entirely, once TryResolve reports
// it fully resolved.
func (idx *PromiseWaitIndex) Clear(invCid cid.Cid) {
	idx.PutWaiting(invCid, nil)
}
