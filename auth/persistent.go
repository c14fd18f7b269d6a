package auth

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/clambin/jsonclient/internal/vault"
)

// A TokenStore persists a token between runs.
type TokenStore interface {
	Save(token Token) error
	Load() (Token, error)
}

// VaultTokenStore returns a TokenStore that keeps the token in a file at path, encrypted at rest
// with a key derived from passphrase.
func VaultTokenStore(path, passphrase string) TokenStore {
	return vaultTokenStore{vault: vault.New[Token](path, passphrase)}
}

type vaultTokenStore struct {
	vault *vault.Vault[Token]
}

func (s vaultTokenStore) Save(token Token) error {
	return s.vault.Save(token)
}

func (s vaultTokenStore) Load() (Token, error) {
	return s.vault.Load()
}

var _ TokenSource = (*persistentTokenSource)(nil)

// PersistentTokenSource wraps src, saving issued tokens to store so they survive restarts. On
// first use, it returns the stored token if it is still valid; otherwise it fetches a new token
// from src and saves it.
func PersistentTokenSource(src TokenSource, store TokenStore, opts ...TokenSourceOption) TokenSource {
	options := makeTokenSourceOptions(opts...)
	return &persistentTokenSource{
		tokenSource: src,
		store:       store,
		logger:      options.logger,
	}
}

type persistentTokenSource struct {
	tokenSource TokenSource
	store       TokenStore
	logger      *slog.Logger
	token       Token
	lock        sync.Mutex
}

func (s *persistentTokenSource) Token(ctx context.Context) (Token, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.token.IsValid() {
		return s.token, nil
	}

	if token, err := s.store.Load(); err == nil && token.IsValid() {
		s.token = token
		return token, nil
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("failed to load stored token", "err", err)
	}

	if s.tokenSource == nil {
		return "", ErrNoTokenSource
	}
	token, err := s.tokenSource.Token(ctx)
	if err != nil {
		return "", err
	}
	if err = s.store.Save(token); err != nil {
		s.logger.Warn("failed to store token", "err", err)
	}
	s.token = token
	return token, nil
}
