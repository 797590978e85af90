// Package store implements the in-memory store contracts §4.7 names:
// DelegationStore, InvocationStore, and PromiseWaitIndex. Each is a
// read-write-locked map, the "canonical form" the concurrency model
// calls for, following the donor's LedgerStore in spirit (a small
// struct wrapping a guarded key-value surface) adapted from a
// single-writer KV abstraction to the concurrent-reader/single-writer
// in-memory map the spec asks for here.
package store

import (
	"sync"

	"github.com/ipfs/go-cid"

	"github.com/ucan-wg/go-ucan/pkg/chain"
	"github.com/ucan-wg/go-ucan/pkg/delegation"
	"github.com/ucan-wg/go-ucan/pkg/envelope"
	"github.com/ucan-wg/go-ucan/pkg/nonce"
)

// Hop is one link of a chain DelegationStore.GetChain assembles, in
// leaf-to-root order (matching the order pkg/chain.Validate expects in
// an invocation's prf list).
type Hop struct {
	CID     cid.Cid
	Payload delegation.Payload
}

// DelegationStore holds delegations keyed by CID, plus a revocation set,
// guarded by a single read-write lock (§4.7). It stores each
// delegation's signed envelope alongside its decoded payload so it
// satisfies chain.Store directly.
type DelegationStore struct {
	mu      sync.RWMutex
	records map[cid.Cid]chain.DelegationRecord
	revoked map[cid.Cid]bool
}

// NewDelegationStore returns an empty store.
func NewDelegationStore() *DelegationStore {
	return &DelegationStore{
		records: make(map[cid.Cid]chain.DelegationRecord),
		revoked: make(map[cid.Cid]bool),
	}
}

// Put stores a delegation's payload and signed envelope under c. Putting
// the same CID twice is a no-op success, since a CID is content
// addressed: the same CID can only ever name the same bytes.
func (s *DelegationStore) Put(c cid.Cid, payload delegation.Payload, env *envelope.Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[c] = chain.DelegationRecord{Payload: payload, Envelope: env}
}

// Get returns the delegation record stored under c, satisfying the Get
// half of chain.Store.
func (s *DelegationStore) Get(c cid.Cid) (chain.DelegationRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[c]
	return rec, ok
}

// Revoke marks c as revoked. Revoking a CID that was never stored is
// allowed, since revocation is a standing fact independent of whether
// this store instance has the payload.
func (s *DelegationStore) Revoke(c cid.Cid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[c] = true
}

// IsRevoked reports whether c has been revoked, satisfying the other
// half of chain.Store.
func (s *DelegationStore) IsRevoked(c cid.Cid) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revoked[c]
}

// GetChain implements §4.7's DelegationStore.get_chain: search for a
// chain of delegations ending at audience, rooted at a self-issued
// delegation over subject, every hop time-valid at now, with cmdPrefix
// extending the leaf hop's command (the leaf grants cmdPrefix itself or
// a command cmdPrefix attenuates). Returns the chain in leaf-to-root
// order (hops[0] is the one naming audience) and true, or (nil, false)
// if no such chain exists.
//
// GetChain takes no policy argument and evaluates no policy — it only
// finds a structurally valid chain; combining its folded policy with any
// further policy and running it against concrete arguments is the
// caller's job (via
// delegation.InheritedPolicy and policy.Predicate.Run), since policy
// satisfiability depends on invocation arguments this contract doesn't
// have.
func (s *DelegationStore) GetChain(audience, subject, cmdPrefix string, now nonce.Timestamp) ([]Hop, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visited := make(map[cid.Cid]bool)
	return s.search(audience, subject, cmdPrefix, now, visited)
}

// search looks for a hop naming audience as its own audience, whose
// command is extended by childCmd — the most specific command
// established so far, walking from the leaf toward the root. A
// candidate's own command, being the less specific side of that
// relation, becomes the next childCmd once the walk continues past it
// toward its issuer.
func (s *DelegationStore) search(audience, subject, childCmd string, now nonce.Timestamp, visited map[cid.Cid]bool) ([]Hop, bool) {
	for c, rec := range s.records {
		p := rec.Payload
		if visited[c] || s.revoked[c] {
			continue
		}
		if p.Audience != audience {
			continue
		}
		if p.Subject != nil && *p.Subject != subject {
			continue
		}
		if !delegation.Extends(childCmd, p.Command) {
			continue
		}
		if p.NotBefore != nil && now.Before(*p.NotBefore) {
			continue
		}
		if now.After(p.Expiration) {
			continue
		}

		if p.Issuer == subject {
			if rootSub, ok := p.LinkSubject(); ok && rootSub == subject {
				return []Hop{{CID: c, Payload: p}}, true
			}
		}

		visited[c] = true
		if rest, ok := s.search(p.Issuer, subject, p.Command, now, visited); ok {
			return append([]Hop{{CID: c, Payload: p}}, rest...), true
		}
		visited[c] = false
	}
	return nil, false
}
