package memory

import (
	"context"
	"crypto/ed25519"
	"sync"

	"github.com/mr-tron/base58"

	"github.com/code-payments/fragments/pkg/fragments/data/keypair"
)

type store struct {
	mu   sync.RWMutex
	keys map[string]ed25519.PrivateKey
}

// New returns a new in memory keypair.Store
func New() keypair.Store {
	return &store{
		keys: make(map[string]ed25519.PrivateKey),
	}
}

// Put implements keypair.Store.Put
func (s *store) Put(_ context.Context, address ed25519.PublicKey, key ed25519.PrivateKey) error {
	if err := keypair.Validate(address, key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	encoded := base58.Encode(address)
	if _, ok := s.keys[encoded]; ok {
		return keypair.ErrKeypairExists
	}

	s.keys[encoded] = keypair.Clone(key)
	return nil
}

// Get implements keypair.Store.Get
func (s *store) Get(_ context.Context, address ed25519.PublicKey) (ed25519.PrivateKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.keys[base58.Encode(address)]
	if !ok {
		return nil, keypair.ErrKeypairNotFound
	}
	return keypair.Clone(key), nil
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys = make(map[string]ed25519.PrivateKey)
}
