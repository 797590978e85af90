package chain

import (
	"github.com/ucan-wg/go-ucan/pkg/delegation"
	"github.com/ucan-wg/go-ucan/pkg/ipld"
	"github.com/ucan-wg/go-ucan/pkg/nonce"
	"github.com/ucan-wg/go-ucan/pkg/policy"
)

// ReducedCapability is one entry of a capability-reduction view (§4.4's
// "Reduction / caching" paragraph): a command/policy/time-window grant
// and the set of DIDs that originate it. This is a read-only summary for
// serving layers; Validate never consults it.
type ReducedCapability struct {
	Originators []string
	Command     string
	Policy      []policy.Predicate
	NotBefore   *nonce.Timestamp
	Expiration  nonce.Timestamp
}

// Reduce walks hops in the order they appear in the invocation's prf list
// (leaf to root) and emits one ReducedCapability per hop, merging hops
// whose (command, policy, nbf, exp) are equal by unioning their
// originators. Order of the returned slice follows first occurrence of
// each distinct equivalence class.
func Reduce(hops []DelegationRecord) ([]ReducedCapability, error) {
	reduced := make([]ReducedCapability, 0, len(hops))
	keys := make([]string, 0, len(hops))

	for _, hop := range hops {
		key, err := reductionKey(hop.Payload)
		if err != nil {
			return nil, err
		}
		if idx := indexOf(keys, key); idx >= 0 {
			reduced[idx].Originators = appendUnique(reduced[idx].Originators, hop.Payload.Issuer)
			continue
		}
		keys = append(keys, key)
		reduced = append(reduced, ReducedCapability{
			Originators: []string{hop.Payload.Issuer},
			Command:     hop.Payload.Command,
			Policy:      hop.Payload.Policy,
			NotBefore:   hop.Payload.NotBefore,
			Expiration:  hop.Payload.Expiration,
		})
	}
	return reduced, nil
}

// reductionKey canonically encodes the fields that determine equivalence
// for merging, so two hops compare equal iff their (command, policy, nbf,
// exp) are identical.
func reductionKey(p delegation.Payload) (string, error) {
	policyItems := make([]ipld.Value, len(p.Policy))
	for i, pred := range p.Policy {
		v, err := pred.ToIPLD()
		if err != nil {
			return "", err
		}
		policyItems[i] = v
	}

	fields := map[string]ipld.Value{
		"command": ipld.String(p.Command),
		"policy":  ipld.List(policyItems),
		"exp":     ipld.Int(int64(p.Expiration)),
	}
	if p.NotBefore != nil {
		fields["nbf"] = ipld.Int(int64(*p.NotBefore))
	}

	b, err := ipld.MarshalCanonicalCBOR(ipld.Map(fields))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func indexOf(keys []string, key string) int {
	for i, k := range keys {
		if k == key {
			return i
		}
	}
	return -1
}

func appendUnique(dids []string, did string) []string {
	for _, d := range dids {
		if d == did {
			return dids
		}
	}
	return append(dids, did)
}
