package keypair

import (
	"bytes"
	"context"
	"crypto/ed25519"

	"github.com/pkg/errors"
)

var (
	ErrKeypairNotFound = errors.New("keypair not found")
	ErrKeypairExists   = errors.New("keypair already exists")
	ErrInvalidKeypair  = errors.New("private key does not match address")
)

// Store holds the signing keys of accounts created by this server. Keys are
// written once per address and never evicted.
type Store interface {
	// Put saves the private key for address. ErrKeypairExists is returned if
	// a key was already saved for the address.
	Put(ctx context.Context, address ed25519.PublicKey, key ed25519.PrivateKey) error

	// Get gets the private key for address. ErrKeypairNotFound is returned if
	// no key was saved.
	Get(ctx context.Context, address ed25519.PublicKey) (ed25519.PrivateKey, error)
}

// Validate checks that key is a well formed ed25519 key for address
func Validate(address ed25519.PublicKey, key ed25519.PrivateKey) error {
	if len(address) != ed25519.PublicKeySize || len(key) != ed25519.PrivateKeySize {
		return ErrInvalidKeypair
	}
	if !bytes.Equal(key.Public().(ed25519.PublicKey), address) {
		return ErrInvalidKeypair
	}
	return nil
}

// Clone copies key so callers never share the store's backing array
func Clone(key ed25519.PrivateKey) ed25519.PrivateKey {
	return append(ed25519.PrivateKey(nil), key...)
}
