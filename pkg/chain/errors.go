package chain

import (
	"errors"
	"fmt"
)

// ErrEmptyProofChain is returned when an invocation names no proofs at
// all: §4.4 requires at least a self-issued root hop.
var ErrEmptyProofChain = errors.New("chain: invocation has no proofs")

// ErrMissingDelegation is returned when a proof CID can't be loaded from
// the delegation store.
var ErrMissingDelegation = errors.New("chain: proof CID not found in delegation store")

// UnrootedChainError reports a terminal hop that isn't self-issued over
// its own subject (§4.4 step 4).
type UnrootedChainError struct {
	HopIndex int
	Issuer   string
	Subject  *string
}

func (e *UnrootedChainError) Error() string {
	subj := "<powerline>"
	if e.Subject != nil {
		subj = *e.Subject
	}
	return fmt.Sprintf("chain: hop %d is not a self-issued root: iss %q != sub %q", e.HopIndex, e.Issuer, subj)
}

// TimeBoundsError reports a hop whose window doesn't cover the
// validating clock (§4.4 step 5).
type TimeBoundsError struct {
	HopIndex int
	NotYet   bool // true when now < nbf; false when now > exp
}

func (e *TimeBoundsError) Error() string {
	if e.NotYet {
		return fmt.Sprintf("chain: hop %d is not yet valid", e.HopIndex)
	}
	return fmt.Sprintf("chain: hop %d has expired", e.HopIndex)
}

// RevokedError reports a hop whose CID is in the revocation set
// (§4.3 step 6).
type RevokedError struct {
	HopIndex int
}

func (e *RevokedError) Error() string {
	return fmt.Sprintf("chain: hop %d has been revoked", e.HopIndex)
}

// PolicyDeniedError reports a failing effective-policy predicate
// (§4.4 step 6).
type PolicyDeniedError struct {
	PredicateIndex int
	Reason         string
}

func (e *PolicyDeniedError) Error() string {
	return fmt.Sprintf("chain: policy predicate %d denied: %s", e.PredicateIndex, e.Reason)
}

// HopError wraps an error from a pairwise link check or signature
// verification with the zero-based hop index it occurred at.
type HopError struct {
	HopIndex int
	Err      error
}

func (e *HopError) Error() string {
	return fmt.Sprintf("chain: hop %d: %v", e.HopIndex, e.Err)
}

func (e *HopError) Unwrap() error { return e.Err }
