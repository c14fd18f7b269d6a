package auth

import (
	"errors"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwt"
)

// The token issuer's clock may drift from the client's, meaning that a freshly issued token's
// issue time ("iat") may be in the future. clockSkewTolerance indicates how far off the time can
// be before we consider the token invalid.
const clockSkewTolerance = time.Minute

// Token is a bearer token. It can be either an opaque string or a JWT.
type Token string

// String returns the token as a string.
func (t Token) String() string {
	return string(t)
}

// IsJWT returns true if the token is a JWT.
// Note: returns true even if the token is expired.
func (t Token) IsJWT() bool {
	_, err := t.parseJWT()
	return err == nil || errors.Is(err, jwt.TokenExpiredError())
}

// IsValid returns true if the token can still be used: an opaque token is always considered
// valid, a JWT is valid until it expires. The signature, if present, is not verified.
func (t Token) IsValid() bool {
	if t == "" {
		return false
	}
	tok, err := t.parseJWT()
	if err != nil {
		// not a JWT: treat it as an opaque token
		return !errors.Is(err, jwt.TokenExpiredError())
	}
	exp, ok := tok.Expiration()
	return !ok || exp.After(time.Now())
}

func (t Token) parseJWT() (jwt.Token, error) {
	return jwt.Parse([]byte(t), jwt.WithVerify(false), jwt.WithAcceptableSkew(clockSkewTolerance))
}
