package auth

import "errors"

var (
	// ErrNoTokenSource indicates that a component needs a TokenSource, but none was provided.
	ErrNoTokenSource = errors.New("no token source provided")
	// ErrNoTokenURL indicates that ClientCredentials was used without a token URL.
	ErrNoTokenURL = errors.New("no token URL configured")
	// ErrNoToken indicates that the token endpoint returned a response without an access token.
	ErrNoToken = errors.New("token endpoint did not return a token")
)
