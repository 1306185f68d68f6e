package backend

import (
	"context"
	"fmt"
	"net/http"
)

// TokenReader is the slice of the session store the transport needs.
type TokenReader interface {
	ReadToken(ctx context.Context) (string, error)
}

// BearerTransport decorates every outgoing request with the persisted bearer
// token. It is the single place credentials are attached; callers never set
// the Authorization header themselves. When no token is stored the request
// goes out unauthenticated.
type BearerTransport struct {
	store TokenReader
	next  http.RoundTripper
}

// NewBearerTransport wraps next (http.DefaultTransport when nil).
func NewBearerTransport(store TokenReader, next http.RoundTripper) *BearerTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &BearerTransport{store: store, next: next}
}

// RoundTrip implements http.RoundTripper. A store read failure fails the
// request rather than sending it without its credential.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.store.ReadToken(req.Context())
	if err != nil {
		return nil, fmt.Errorf("bearer transport: read token: %w", err)
	}
	if token == "" {
		return t.next.RoundTrip(req)
	}

	// Per http.RoundTripper contract the request must not be mutated.
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+token)
	return t.next.RoundTrip(clone)
}
