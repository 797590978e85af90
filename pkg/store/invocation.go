package store

import (
	"sync"

	"github.com/ipfs/go-cid"

	"github.com/ucan-wg/go-ucan/pkg/invocation"
)

// InvocationStore holds invocation payloads keyed by the CID of their
// signed envelope (§4.7).
type InvocationStore struct {
	mu      sync.RWMutex
	records map[cid.Cid]invocation.Payload
}

// NewInvocationStore returns an empty store.
func NewInvocationStore() *InvocationStore {
	return &InvocationStore{records: make(map[cid.Cid]invocation.Payload)}
}

// Put stores an invocation payload under c.
func (s *InvocationStore) Put(c cid.Cid, payload invocation.Payload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[c] = payload
}

// Get returns the invocation stored under c.
func (s *InvocationStore) Get(c cid.Cid) (invocation.Payload, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.records[c]
	return p, ok
}

// Has reports whether c has a stored invocation, without the cost of
// copying the payload out.
func (s *InvocationStore) Has(c cid.Cid) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[c]
	return ok
}
