// Package vault stores a small piece of data on disk, encrypted at rest with AES-256-GCM, using a
// key derived from a passphrase and a random salt.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/afero"
	"golang.org/x/crypto/hkdf"
)

const currentVersion = 1

var _ error = &ErrInvalidKey{}

// ErrInvalidKey indicates the data could not be decrypted, typically because the passphrase does
// not match the one used to save it.
type ErrInvalidKey struct {
	Err error
}

func (e *ErrInvalidKey) Error() string {
	if e.Err != nil {
		return "invalid key: " + e.Err.Error()
	}
	return "invalid key"
}

func (e *ErrInvalidKey) Unwrap() error {
	return e.Err
}

// Vault stores a value of type T in an encrypted file.
type Vault[T any] struct {
	fs         afero.Fs
	path       string
	passphrase string
	lock       sync.Mutex
}

// New returns a Vault backed by a file at path on the local filesystem.
func New[T any](path, passphrase string) *Vault[T] {
	return newWithFS[T](afero.NewOsFs(), path, passphrase)
}

func newWithFS[T any](fs afero.Fs, path, passphrase string) *Vault[T] {
	return &Vault[T]{
		fs:         fs,
		path:       path,
		passphrase: passphrase,
	}
}

// envelope is the on-disk file format.
type envelope struct {
	Salt    []byte `json:"salt"`
	Data    []byte `json:"data"`
	Version int    `json:"version"`
}

// Load reads, decrypts and decodes the stored value. It returns os.ErrNotExist if the file does
// not exist, and ErrInvalidKey if the passphrase does not match.
func (v *Vault[T]) Load() (T, error) {
	var value T
	v.lock.Lock()
	defer v.lock.Unlock()

	raw, err := afero.ReadFile(v.fs, v.path)
	if err != nil {
		if errors.Is(err, afero.ErrFileNotFound) {
			return value, os.ErrNotExist
		}
		return value, err
	}

	var record envelope
	if err = json.Unmarshal(raw, &record); err != nil {
		return value, fmt.Errorf("unrecognized file format: %w", err)
	}
	if record.Version != currentVersion {
		return value, fmt.Errorf("unsupported version %d", record.Version)
	}

	key, err := deriveKey(v.passphrase, record.Salt)
	if err != nil {
		return value, fmt.Errorf("derive encryption key: %w", err)
	}
	plaintext, err := decrypt(record.Data, key)
	if err != nil {
		return value, &ErrInvalidKey{Err: err}
	}

	if err = json.Unmarshal(plaintext, &value); err != nil {
		return value, fmt.Errorf("decode data: %w", err)
	}
	return value, nil
}

// Save encrypts and writes the value to disk, replacing any previous content. Each save uses a
// newly generated salt.
func (v *Vault[T]) Save(value T) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	record := envelope{
		Version: currentVersion,
		Salt:    make([]byte, sha256.Size),
	}
	if _, err := rand.Read(record.Salt); err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}

	plaintext, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode data: %w", err)
	}
	key, err := deriveKey(v.passphrase, record.Salt)
	if err != nil {
		return fmt.Errorf("derive encryption key: %w", err)
	}
	if record.Data, err = encrypt(plaintext, key); err != nil {
		return fmt.Errorf("encrypt data: %w", err)
	}

	raw, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return afero.WriteFile(v.fs, v.path, raw, 0600)
}

// deriveKey generates a 32-byte encryption key from the passphrase and salt.
func deriveKey(passphrase string, salt []byte) ([]byte, error) {
	key := make([]byte, 32)
	_, err := io.ReadFull(hkdf.New(sha256.New, []byte(passphrase), salt, nil), key)
	return key, err
}

func encrypt(data, key []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err = rand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, data, nil), nil
}

func decrypt(data, key []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	if len(data) < aead.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	return aead.Open(nil, data[:aead.NonceSize()], data[aead.NonceSize():], nil)
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
