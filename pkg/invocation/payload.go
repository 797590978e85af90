// Package invocation implements the invocation payload (§3.4) and
// promise (deferred-value) substitution over its argument tree (§4.6).
package invocation

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"github.com/ucan-wg/go-ucan/pkg/ipld"
	"github.com/ucan-wg/go-ucan/pkg/nonce"
)

// Tag is the capsule key an invocation envelope's payload is wrapped
// under (§6.1).
const Tag = "ucan/i/1.0.0-rc.1"

// Payload is an invocation: issuer asks for cmd to run over subject
// with args, citing prf as the delegation chain that authorizes it.
type Payload struct {
	Issuer   string
	Subject  string
	Audience *string

	Command string
	Args    map[string]ipld.Value

	Prf   []cid.Cid
	Cause *cid.Cid

	Nonce nonce.Nonce
	Meta  map[string]ipld.Value

	NotBefore  *nonce.Timestamp
	Expiration nonce.Timestamp
}

// LinkIssuer implements delegation.ChainLink.
func (p Payload) LinkIssuer() string { return p.Issuer }

// LinkSubject implements delegation.ChainLink: an invocation always
// names a concrete subject.
func (p Payload) LinkSubject() (string, bool) { return p.Subject, true }

// LinkCommand implements delegation.ChainLink.
func (p Payload) LinkCommand() string { return p.Command }

// LinkNotBefore implements delegation.ChainLink.
func (p Payload) LinkNotBefore() *nonce.Timestamp { return p.NotBefore }

// LinkExpiration implements delegation.ChainLink.
func (p Payload) LinkExpiration() nonce.Timestamp { return p.Expiration }

// ToIPLD renders the payload as the capsule body signed inside an
// envelope.
func (p Payload) ToIPLD() (ipld.Value, error) {
	args := make(map[string]ipld.Value, len(p.Args))
	for k, v := range p.Args {
		args[k] = v
	}
	meta := make(map[string]ipld.Value, len(p.Meta))
	for k, v := range p.Meta {
		meta[k] = v
	}
	prf := make([]ipld.Value, len(p.Prf))
	for i, c := range p.Prf {
		prf[i] = ipld.Link(c)
	}

	fields := map[string]ipld.Value{
		"iss":   ipld.String(p.Issuer),
		"sub":   ipld.String(p.Subject),
		"cmd":   ipld.String(p.Command),
		"args":  ipld.Map(args),
		"prf":   ipld.List(prf),
		"nonce": ipld.Bytes(p.Nonce),
		"meta":  ipld.Map(meta),
		"exp":   ipld.Int(int64(p.Expiration)),
	}
	if p.Audience != nil {
		fields["aud"] = ipld.String(*p.Audience)
	}
	if p.Cause != nil {
		fields["cause"] = ipld.Link(*p.Cause)
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
		return Payload{}, fmt.Errorf("%w: invocation payload is not a map", ErrMalformedPayload)
	}

	iss, err := requireString(m, "iss")
	if err != nil {
		return Payload{}, err
	}
	sub, err := requireString(m, "sub")
	if err != nil {
		return Payload{}, err
	}
	cmd, err := requireString(m, "cmd")
	if err != nil {
		return Payload{}, err
	}

	var audience *string
	if audVal, ok := m["aud"]; ok && !audVal.IsNull() {
		a, ok := audVal.AsString()
		if !ok {
			return Payload{}, fmt.Errorf("%w: \"aud\" is not a string", ErrMalformedPayload)
		}
		audience = &a
	}

	argsVal, ok := m["args"]
	if !ok {
		return Payload{}, fmt.Errorf("%w: missing \"args\"", ErrMalformedPayload)
	}
	argsMap, ok := argsVal.AsMap()
	if !ok {
		return Payload{}, fmt.Errorf("%w: \"args\" is not a map", ErrMalformedPayload)
	}
	args := make(map[string]ipld.Value, len(argsMap))
	for k, v := range argsMap {
		args[k] = v
	}

	prfVal, ok := m["prf"]
	if !ok {
		return Payload{}, fmt.Errorf("%w: missing \"prf\"", ErrMalformedPayload)
	}
	prfItems, ok := prfVal.AsList()
	if !ok {
		return Payload{}, fmt.Errorf("%w: \"prf\" is not a list", ErrMalformedPayload)
	}
	prf := make([]cid.Cid, len(prfItems))
	for i, item := range prfItems {
		c, ok := item.AsLink()
		if !ok {
			return Payload{}, fmt.Errorf("%w: \"prf\"[%d] is not a link", ErrMalformedPayload, i)
		}
		prf[i] = c
	}

	var cause *cid.Cid
	if causeVal, ok := m["cause"]; ok && !causeVal.IsNull() {
		c, ok := causeVal.AsLink()
		if !ok {
			return Payload{}, fmt.Errorf("%w: \"cause\" is not a link", ErrMalformedPayload)
		}
		cause = &c
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
			return Payload{}, fmt.Errorf("invocation: nbf: %w", err)
		}
		notBefore = &ts
	}

	return Payload{
		Issuer:     iss,
		Subject:    sub,
		Audience:   audience,
		Command:    cmd,
		Args:       args,
		Prf:        prf,
		Cause:      cause,
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
		return 0, fmt.Errorf("invocation: %s: %w", key, err)
	}
	return ts, nil
}
