package delegation

import (
	"errors"
	"fmt"
)

// ErrMalformedPayload covers a capsule body that fails to decode into a
// well-formed Payload (§7).
var ErrMalformedPayload = errors.New("delegation: malformed payload")

// ErrTimeWindowExceeded is returned when a payload's own nbf/exp bounds
// are inconsistent, or when a child's time window isn't nested inside
// its proof's (§4.3(4)).
var ErrTimeWindowExceeded = errors.New("delegation: time window exceeded")

// MalformedCommandError reports a command string that isn't rooted at "/".
type MalformedCommandError struct {
	Command string
}

func (e *MalformedCommandError) Error() string {
	return fmt.Sprintf("delegation: command %q is not rooted at \"/\"", e.Command)
}

// AudienceMismatchError reports a broken audience-to-issuer chain
// linkage (§4.3(1)): the proof's audience must match the child's issuer.
type AudienceMismatchError struct {
	ProofAudience string
	ChildIssuer   string
}

func (e *AudienceMismatchError) Error() string {
	return fmt.Sprintf("delegation: audience mismatch: proof aud %q != child iss %q", e.ProofAudience, e.ChildIssuer)
}

// SubjectMismatchError reports a child naming a subject other than the
// one its non-powerline proof was scoped to (§4.3(2)).
type SubjectMismatchError struct {
	ProofSubject string
	ChildSubject string
}

func (e *SubjectMismatchError) Error() string {
	return fmt.Sprintf("delegation: subject mismatch: proof sub %q != child sub %q", e.ProofSubject, e.ChildSubject)
}

// CommandEscalationError reports a child command that isn't a
// path-extension of its proof's command (§4.3(3)).
type CommandEscalationError struct {
	ProofCommand string
	ChildCommand string
}

func (e *CommandEscalationError) Error() string {
	return fmt.Sprintf("delegation: command escalation: %q does not extend %q", e.ChildCommand, e.ProofCommand)
}
