// Package delegation implements the delegation payload (§3.3) and the
// pairwise checks a proof-chain validator runs between adjacent hops
// (§4.3).
package delegation

import (
	"fmt"

	"github.com/ucan-wg/go-ucan/pkg/ipld"
	"github.com/ucan-wg/go-ucan/pkg/nonce"
	"github.com/ucan-wg/go-ucan/pkg/policy"
)

// Tag is the capsule key a delegation envelope's payload is wrapped
// under (§6.1).
const Tag = "ucan/d/1.0.0-rc.1"

// Payload is a delegation: issuer grants audience the right to invoke
// cmd (and any command it attenuates) over subject, subject to policy,
// within the given time window (§3.3).
type Payload struct {
	Issuer   string
	Audience string
	// Subject is nil for a powerline delegation: the child may name any
	// subject of its choosing (§4.3(2)).
	Subject *string

	Command string
	Policy  []policy.Predicate

	Nonce nonce.Nonce
	Meta  map[string]ipld.Value

	NotBefore  *nonce.Timestamp
	Expiration nonce.Timestamp
}

// LinkIssuer implements ChainLink.
func (p Payload) LinkIssuer() string { return p.Issuer }

// LinkSubject implements ChainLink.
func (p Payload) LinkSubject() (string, bool) {
	if p.Subject == nil {
		return "", false
	}
	return *p.Subject, true
}

// LinkCommand implements ChainLink.
func (p Payload) LinkCommand() string { return p.Command }

// LinkNotBefore implements ChainLink.
func (p Payload) LinkNotBefore() *nonce.Timestamp { return p.NotBefore }

// LinkExpiration implements ChainLink.
func (p Payload) LinkExpiration() nonce.Timestamp { return p.Expiration }

// Validate checks the payload-local invariants from §3.3 that don't
// require a counterpart hop: `nbf <= exp` and a rooted command string.
func (p Payload) Validate() error {
	if err := ValidateCommand(p.Command); err != nil {
		return err
	}
	if p.NotBefore != nil && *p.NotBefore > p.Expiration {
		return fmt.Errorf("%w: nbf %d > exp %d", ErrTimeWindowExceeded, *p.NotBefore, p.Expiration)
	}
	return nil
}

// ToIPLD renders the payload as the capsule body signed inside an
// envelope.
func (p Payload) ToIPLD() (ipld.Value, error) {
	predicates := make([]ipld.Value, len(p.Policy))
	for i, pred := range p.Policy {
		v, err := pred.ToIPLD()
		if err != nil {
			return ipld.Value{}, fmt.Errorf("delegation: encoding policy[%d]: %w", i, err)
		}
		predicates[i] = v
	}

	meta := make(map[string]ipld.Value, len(p.Meta))
	for k, v := range p.Meta {
		meta[k] = v
	}

	fields := map[string]ipld.Value{
		"iss":   ipld.String(p.Issuer),
		"aud":   ipld.String(p.Audience),
		"cmd":   ipld.String(p.Command),
		"pol":   ipld.List(predicates),
		"nonce": ipld.Bytes(p.Nonce),
		"meta":  ipld.Map(meta),
		"exp":   ipld.Int(int64(p.Expiration)),
	}
	if p.Subject != nil {
		fields["sub"] = ipld.String(*p.Subject)
	} else {
		fields["sub"] = ipld.Null()
	}
	if p.NotBefore != nil {
		fields["nbf"] = ipld.Int(int64(*p.NotBefore))
	}
	return ipld.Map(fields), nil
}

// FromIPLD parses a capsule body previously produced by ToIPLD.
func FromIPLD(v ipld.Value) (Payload, error) {
	m, ok := v.AsMap()
	if !ok {
		return Payload{}, fmt.Errorf("%w: delegation payload is not a map", ErrMalformedPayload)
	}

	iss, err := requireString(m, "iss")
	if err != nil {
		return Payload{}, err
	}
	aud, err := requireString(m, "aud")
	if err != nil {
		return Payload{}, err
	}
	cmd, err := requireString(m, "cmd")
	if err != nil {
		return Payload{}, err
	}

	var subject *string
	if subVal, ok := m["sub"]; ok && !subVal.IsNull() {
		s, ok := subVal.AsString()
		if !ok {
			return Payload{}, fmt.Errorf("%w: \"sub\" is not a string", ErrMalformedPayload)
		}
		subject = &s
	}

	polList, ok := m["pol"]
	if !ok {
		return Payload{}, fmt.Errorf("%w: missing \"pol\"", ErrMalformedPayload)
	}
	polItems, ok := polList.AsList()
	if !ok {
		return Payload{}, fmt.Errorf("%w: \"pol\" is not a list", ErrMalformedPayload)
	}
	predicates := make([]policy.Predicate, len(polItems))
	for i, item := range polItems {
		p, err := policy.FromIPLD(item)
		if err != nil {
			return Payload{}, fmt.Errorf("delegation: decoding policy[%d]: %w", i, err)
		}
		predicates[i] = p
	}

	nonceVal, ok := m["nonce"]
	if !ok {
		return Payload{}, fmt.Errorf("%w: missing \"nonce\"", ErrMalformedPayload)
	}
	nonceBytes, ok := nonceVal.AsBytes()
	if !ok {
		return Payload{}, fmt.Errorf("%w: \"nonce\" is not bytes", ErrMalformedPayload)
	}

	meta := map[string]ipld.Value{}
	if metaVal, ok := m["meta"]; ok {
		metaMap, ok := metaVal.AsMap()
		if !ok {
			return Payload{}, fmt.Errorf("%w: \"meta\" is not a map", ErrMalformedPayload)
		}
		for k, v := range metaMap {
			meta[k] = v
		}
	}

	exp, err := requireTimestamp(m, "exp")
	if err != nil {
		return Payload{}, err
	}

	var notBefore *nonce.Timestamp
	if nbfVal, ok := m["nbf"]; ok {
		n, ok := nbfVal.AsInt()
		if !ok {
			return Payload{}, fmt.Errorf("%w: \"nbf\" is not an integer", ErrMalformedPayload)
		}
		ts, err := nonce.NewTimestamp(n)
		if err != nil {
			return Payload{}, fmt.Errorf("delegation: nbf: %w", err)
		}
		notBefore = &ts
	}

	return Payload{
		Issuer:     iss,
		Audience:   aud,
		Subject:    subject,
		Command:    cmd,
		Policy:     predicates,
		Nonce:      nonce.Nonce(nonceBytes),
		Meta:       meta,
		NotBefore:  notBefore,
		Expiration: exp,
	}, nil
}

func requireString(m map[string]ipld.Value, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", fmt.Errorf("%w: missing %q", ErrMalformedPayload, key)
	}
	s, ok := v.AsString()
	if !ok {
		return "", fmt.Errorf("%w: %q is not a string", ErrMalformedPayload, key)
	}
	return s, nil
}

func requireTimestamp(m map[string]ipld.Value, key string) (nonce.Timestamp, error) {
	v, ok := m[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing %q", ErrMalformedPayload, key)
	}
	n, ok := v.AsInt()
	if !ok {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrMalformedPayload, key)
	}
	ts, err := nonce.NewTimestamp(n)
	if err != nil {
		return 0, fmt.Errorf("delegation: %s: %w", key, err)
	}
	return ts, nil
}
