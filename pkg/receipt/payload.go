// Package receipt implements the receipt payload (§3.5): the outcome of
// executing an invocation, keyed by the invocation's own CID.
package receipt

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"github.com/ucan-wg/go-ucan/pkg/ipld"
	"github.com/ucan-wg/go-ucan/pkg/nonce"
)

// Tag is the capsule key a receipt envelope's payload is wrapped under
// (§6.1).
const Tag = "ucan/r/1.0.0-rc.1"

// Payload records what happened when Ran was executed: Issuer is the
// executor (not necessarily the invocation's subject), Out carries the
// success or error outcome, and Next queues any follow-up invocations
// the executor produced.
type Payload struct {
	Issuer string

	Ran cid.Cid
	Out Outcome
	Next []cid.Cid

	Prf  []cid.Cid
	Meta map[string]ipld.Value

	Nonce nonce.Nonce
	IssuedAt *nonce.Timestamp
}

// ToIPLD renders the payload as the capsule body signed inside an
// envelope.
func (p Payload) ToIPLD() (ipld.Value, error) {
	next := make([]ipld.Value, len(p.Next))
	for i, c := range p.Next {
		next[i] = ipld.Link(c)
	}
	prf := make([]ipld.Value, len(p.Prf))
	for i, c := range p.Prf {
		prf[i] = ipld.Link(c)
	}
	meta := make(map[string]ipld.Value, len(p.Meta))
	for k, v := range p.Meta {
		meta[k] = v
	}

	fields := map[string]ipld.Value{
		"iss":   ipld.String(p.Issuer),
		"ran":   ipld.Link(p.Ran),
		"out":   p.Out.ToIPLD(),
		"next":  ipld.List(next),
		"prf":   ipld.List(prf),
		"meta":  ipld.Map(meta),
		"nonce": ipld.Bytes(p.Nonce),
	}
	if p.IssuedAt != nil {
		fields["iat"] = ipld.Int(int64(*p.IssuedAt))
	}
	return ipld.Map(fields), nil
}

// FromIPLD parses a capsule body previously produced by ToIPLD.
func FromIPLD(v ipld.Value) (Payload, error) {
	m, ok := v.AsMap()
	if !ok {
		return Payload{}, fmt.Errorf("%w: receipt payload is not a map", ErrMalformedPayload)
	}

	iss, ok := m["iss"]
	if !ok {
		return Payload{}, fmt.Errorf("%w: missing \"iss\"", ErrMalformedPayload)
	}
	issuer, ok := iss.AsString()
	if !ok {
		return Payload{}, fmt.Errorf("%w: \"iss\" is not a string", ErrMalformedPayload)
	}

	ranVal, ok := m["ran"]
	if !ok {
		return Payload{}, fmt.Errorf("%w: missing \"ran\"", ErrMalformedPayload)
	}
	ran, ok := ranVal.AsLink()
	if !ok {
		return Payload{}, fmt.Errorf("%w: \"ran\" is not a link", ErrMalformedPayload)
	}

	outVal, ok := m["out"]
	if !ok {
		return Payload{}, fmt.Errorf("%w: missing \"out\"", ErrMalformedPayload)
	}
	out, err := OutcomeFromIPLD(outVal)
	if err != nil {
		return Payload{}, fmt.Errorf("receipt: out: %w", err)
	}

	next, err := decodeLinkList(m, "next")
	if err != nil {
		return Payload{}, err
	}
	prf, err := decodeLinkList(m, "prf")
	if err != nil {
		return Payload{}, err
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

	nonceVal, ok := m["nonce"]
	if !ok {
		return Payload{}, fmt.Errorf("%w: missing \"nonce\"", ErrMalformedPayload)
	}
	nonceBytes, ok := nonceVal.AsBytes()
	if !ok {
		return Payload{}, fmt.Errorf("%w: \"nonce\" is not bytes", ErrMalformedPayload)
	}

	var issuedAt *nonce.Timestamp
	if iatVal, ok := m["iat"]; ok {
		n, ok := iatVal.AsInt()
		if !ok {
			return Payload{}, fmt.Errorf("%w: \"iat\" is not an integer", ErrMalformedPayload)
		}
		ts, err := nonce.NewTimestamp(n)
		if err != nil {
			return Payload{}, fmt.Errorf("receipt: iat: %w", err)
		}
		issuedAt = &ts
	}

	return Payload{
		Issuer:   issuer,
		Ran:      ran,
		Out:      out,
		Next:     next,
		Prf:      prf,
		Meta:     meta,
		Nonce:    nonce.Nonce(nonceBytes),
		IssuedAt: issuedAt,
	}, nil
}

func decodeLinkList(m map[string]ipld.Value, key string) ([]cid.Cid, error) {
	v, ok := m[key]
	if !ok {
		return nil, nil
	}
	items, ok := v.AsList()
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a list", ErrMalformedPayload, key)
	}
	out := make([]cid.Cid, len(items))
	for i, item := range items {
		c, ok := item.AsLink()
		if !ok {
			return nil, fmt.Errorf("%w: %q[%d] is not a link", ErrMalformedPayload, key, i)
		}
		out[i] = c
	}
	return out, nil
}
