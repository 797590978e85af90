package delegation

import (
	"github.com/ucan-wg/go-ucan/pkg/nonce"
	"github.com/ucan-wg/go-ucan/pkg/policy"
)

// ChainLink is the subset of a delegation or invocation payload a pairwise
// hop check needs (§4.3). Both Payload and an invocation payload satisfy
// it, so the same check runs for every adjacent pair in a proof chain,
// including the terminal (proof, invocation) pair (§4.4).
type ChainLink interface {
	LinkIssuer() string
	LinkSubject() (subject string, ok bool)
	LinkCommand() string
	LinkNotBefore() *nonce.Timestamp
	LinkExpiration() nonce.Timestamp
}

// CheckLink runs §4.3 steps 1-4 between a proof delegation and the child
// that cites it as a proof: audience linkage, subject scoping, command
// attenuation, and time nesting. Policy inheritance (5) is a merge, not a
// check, and is done by InheritedPolicy. Revocation (6) and signature
// validity (7) need store/envelope access beyond a bare payload pair, so
// they're left to the proof-chain validator.
func CheckLink(proof Payload, child ChainLink) error {
	if proof.Audience != child.LinkIssuer() {
		return &AudienceMismatchError{ProofAudience: proof.Audience, ChildIssuer: child.LinkIssuer()}
	}

	if proof.Subject != nil {
		childSub, ok := child.LinkSubject()
		if !ok || childSub != *proof.Subject {
			return &SubjectMismatchError{ProofSubject: *proof.Subject, ChildSubject: childSub}
		}
	}

	if !Extends(child.LinkCommand(), proof.Command) {
		return &CommandEscalationError{ProofCommand: proof.Command, ChildCommand: child.LinkCommand()}
	}

	if err := checkTimeNesting(proof, child); err != nil {
		return err
	}

	return nil
}

// checkTimeNesting enforces §4.3(4): the child's window must sit inside
// the proof's. A proof with no nbf is treated as -infinity.
func checkTimeNesting(proof Payload, child ChainLink) error {
	if proof.NotBefore != nil {
		childNbf := child.LinkNotBefore()
		if childNbf == nil || childNbf.Before(*proof.NotBefore) {
			return ErrTimeWindowExceeded
		}
	}
	if child.LinkExpiration().After(proof.Expiration) {
		return ErrTimeWindowExceeded
	}
	return nil
}

// InheritedPolicy returns the policy a child inherits from its proof:
// append-only conjunction of the proof's predicates followed by the
// child's own (§4.3(5)).
func InheritedPolicy(proof Payload, childPolicy []policy.Predicate) []policy.Predicate {
	merged := make([]policy.Predicate, 0, len(proof.Policy)+len(childPolicy))
	merged = append(merged, proof.Policy...)
	merged = append(merged, childPolicy...)
	return merged
}
