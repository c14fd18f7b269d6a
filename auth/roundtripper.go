package auth

import (
	"fmt"
	"net/http"
)

var _ http.RoundTripper = &Authenticator{}

// Authenticator is an http.RoundTripper that adds a bearer token to every request before handing
// it to the next RoundTripper. Use it to decorate the transport of the http.Client passed to
// jsonclient, so every request through that client is authenticated.
type Authenticator struct {
	TokenSource TokenSource
	Next        http.RoundTripper
}

func (a *Authenticator) RoundTrip(request *http.Request) (*http.Response, error) {
	if a.TokenSource == nil {
		return nil, ErrNoTokenSource
	}
	token, err := a.TokenSource.Token(request.Context())
	if err != nil {
		return nil, fmt.Errorf("token: %w", err)
	}

	next := a.Next
	if next == nil {
		next = http.DefaultTransport
	}

	// RoundTrippers must not modify the original request
	request = request.Clone(request.Context())
	request.Header.Set("Authorization", "Bearer "+token.String())
	return next.RoundTrip(request)
}
