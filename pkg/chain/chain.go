// Package chain implements the proof-chain validator (§4.4): given a
// leaf invocation and a delegation store, it walks the invocation's
// proof CIDs back to a self-issued root, checking every pairwise link
// (§4.3), every hop's time bounds and revocation status, the chain's
// rootedness, the effective policy, and the invocation's own signature.
package chain

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"github.com/ucan-wg/go-ucan/pkg/delegation"
	"github.com/ucan-wg/go-ucan/pkg/did"
	"github.com/ucan-wg/go-ucan/pkg/envelope"
	"github.com/ucan-wg/go-ucan/pkg/invocation"
	"github.com/ucan-wg/go-ucan/pkg/ipld"
	"github.com/ucan-wg/go-ucan/pkg/nonce"
	"github.com/ucan-wg/go-ucan/pkg/policy"
)

// DelegationRecord pairs a delegation payload with the envelope it was
// signed in, so the validator can verify its signature as well as read
// its fields.
type DelegationRecord struct {
	Payload  delegation.Payload
	Envelope *envelope.Envelope
}

// Store is the read surface the validator needs from a delegation
// store (§4.7): resolve a proof CID, and test whether it's been
// revoked.
type Store interface {
	Get(c cid.Cid) (DelegationRecord, bool)
	IsRevoked(c cid.Cid) bool
}

// Result is what a successful validation establishes: the effective
// policy in root-to-leaf order, ready to run against the invocation's
// (already promise-resolved) arguments.
type Result struct {
	EffectivePolicy []policy.Predicate
}

// Validate runs §4.4's algorithm in full. invEnvelope must be the
// envelope the invocation payload inv was decoded from, used for its
// own signature check in the final step.
func Validate(invEnvelope *envelope.Envelope, inv invocation.Payload, store Store, now nonce.Timestamp) (*Result, error) {
	if len(inv.Prf) == 0 {
		return nil, ErrEmptyProofChain
	}

	hops := make([]DelegationRecord, len(inv.Prf))
	for i, c := range inv.Prf {
		rec, ok := store.Get(c)
		if !ok {
			return nil, &HopError{HopIndex: i, Err: ErrMissingDelegation}
		}
		hops[i] = rec
	}

	// Step 2: adjacent pairs. hops[i+1] is closer to the root and acts
	// as proof for hops[i], which is closer to the leaf.
	for i := 0; i < len(hops)-1; i++ {
		if err := delegation.CheckLink(hops[i+1].Payload, hops[i].Payload); err != nil {
			return nil, &HopError{HopIndex: i, Err: err}
		}
	}

	// Step 3: the closest hop to the invocation must authorize it.
	if err := delegation.CheckLink(hops[0].Payload, inv); err != nil {
		return nil, &HopError{HopIndex: 0, Err: err}
	}

	// Step 4: the terminal hop is a self-issued root.
	root := hops[len(hops)-1]
	rootSubject, hasSubject := root.Payload.LinkSubject()
	if !hasSubject || root.Payload.Issuer != rootSubject {
		var subjPtr *string
		if hasSubject {
			subjPtr = &rootSubject
		}
		return nil, &UnrootedChainError{HopIndex: len(hops) - 1, Issuer: root.Payload.Issuer, Subject: subjPtr}
	}

	// Step 5: time bounds and revocation, each hop.
	for i, hop := range hops {
		if hop.Payload.NotBefore != nil && now.Before(*hop.Payload.NotBefore) {
			return nil, &TimeBoundsError{HopIndex: i, NotYet: true}
		}
		if now.After(hop.Payload.Expiration) {
			return nil, &TimeBoundsError{HopIndex: i, NotYet: false}
		}
		if store.IsRevoked(inv.Prf[i]) {
			return nil, &RevokedError{HopIndex: i}
		}
	}

	// Step 6: effective policy, root-to-leaf order, conjunction over args.
	effective := make([]policy.Predicate, 0)
	for i := len(hops) - 1; i >= 0; i-- {
		effective = append(effective, hops[i].Payload.Policy...)
	}
	argsValue := ipld.Map(inv.Args)
	for idx, pred := range effective {
		ok, err := pred.Run(argsValue)
		if err != nil {
			return nil, &PolicyDeniedError{PredicateIndex: idx, Reason: err.Error()}
		}
		if !ok {
			return nil, &PolicyDeniedError{PredicateIndex: idx, Reason: "predicate evaluated to false"}
		}
	}

	// Step 7: every hop's own envelope signature, then the invocation's.
	for i, hop := range hops {
		verifier, err := did.Parse(hop.Payload.Issuer)
		if err != nil {
			return nil, &HopError{HopIndex: i, Err: fmt.Errorf("parsing issuer DID: %w", err)}
		}
		if err := envelope.Verify(verifier, hop.Envelope, delegation.Tag); err != nil {
			return nil, &HopError{HopIndex: i, Err: err}
		}
	}
	invVerifier, err := did.Parse(inv.Issuer)
	if err != nil {
		return nil, fmt.Errorf("chain: parsing invocation issuer DID: %w", err)
	}
	if err := envelope.Verify(invVerifier, invEnvelope, invocation.Tag); err != nil {
		return nil, fmt.Errorf("chain: invocation signature: %w", err)
	}

	return &Result{EffectivePolicy: effective}, nil
}
