// Package auth provides bearer tokens for the jsonclient package: token sources that fetch,
// cache and persist tokens, and a RoundTripper that attaches them to outgoing requests.
package auth

import (
	"context"
	"log/slog"
	"sync"
)

// TokenSource supplies a bearer [Token].
type TokenSource interface {
	Token(ctx context.Context) (Token, error)
}

var _ TokenSource = (*tokenSourceFunc)(nil)

// tokenSourceFunc is an adapter to convert a function with the correct signature into a TokenSource.
type tokenSourceFunc func(context.Context) (Token, error)

func (f tokenSourceFunc) Token(ctx context.Context) (Token, error) {
	return f(ctx)
}

var _ TokenSource = staticTokenSource{}

// StaticTokenSource returns a TokenSource that always returns the given token.
func StaticTokenSource(token Token) TokenSource {
	return staticTokenSource{token: token}
}

type staticTokenSource struct {
	token Token
}

func (s staticTokenSource) Token(_ context.Context) (Token, error) {
	return s.token, nil
}

var _ TokenSource = (*cachingTokenSource)(nil)

// CachingTokenSource caches the token obtained from src, fetching a new one when the cached token
// is no longer valid. Opaque (non-JWT) tokens never expire and are cached for the lifetime of the
// source.
func CachingTokenSource(src TokenSource) TokenSource {
	return &cachingTokenSource{tokenSource: src}
}

type cachingTokenSource struct {
	tokenSource TokenSource
	token       Token
	lock        sync.Mutex
}

func (s *cachingTokenSource) Token(ctx context.Context) (Token, error) {
	if s.tokenSource == nil {
		return "", ErrNoTokenSource
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	// Note: IsValid parses the token on each call. We must test it here, since a JWT may expire.
	if s.token.IsValid() {
		return s.token, nil
	}
	token, err := s.tokenSource.Token(ctx)
	if err == nil {
		s.token = token
	}
	return token, err
}

// TokenSourceOption configures an optional attribute of a TokenSource.
type TokenSourceOption func(*tokenSourceOptions)

// WithLogger configures an optional logger.
func WithLogger(logger *slog.Logger) TokenSourceOption {
	return func(o *tokenSourceOptions) {
		o.logger = logger
	}
}

type tokenSourceOptions struct {
	logger *slog.Logger
}

func makeTokenSourceOptions(opts ...TokenSourceOption) tokenSourceOptions {
	o := tokenSourceOptions{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
