package store

import (
	"testing"

	"github.com/ipfs/go-cid"

	"github.com/ucan-wg/go-ucan/pkg/invocation"
)

func TestInvocationStorePutGetHas(t *testing.T) {
	s := NewInvocationStore()
	c := cid.Undef

	if s.Has(c) {
		t.Fatalf("expected empty store to miss")
	}
	if _, ok := s.Get(c); ok {
		t.Fatalf("expected empty store to miss")
	}

	p := invocation.Payload{
		Issuer:  "did:key:zIssuer",
		Subject: "did:key:zSubject",
		Command: "/crud/read",
		Nonce:   []byte{1},
	}
	s.Put(c, p)

	if !s.Has(c) {
		t.Fatalf("expected Has to report stored invocation")
	}
	got, ok := s.Get(c)
	if !ok {
		t.Fatalf("expected Get to find stored invocation")
	}
	if got.Command != "/crud/read" {
		t.Fatalf("got command %q, want /crud/read", got.Command)
	}
}
