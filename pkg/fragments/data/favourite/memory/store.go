package memory

import (
	"context"
	"sync"

	"github.com/code-payments/fragments/pkg/fragments/data/favourite"
)

type store struct {
	mu         sync.RWMutex
	favourites map[string]string
}

// New returns a new in memory favourite.Store
func New() favourite.Store {
	return &store{
		favourites: make(map[string]string),
	}
}

// Ping implements favourite.Store.Ping
func (s *store) Ping(_ context.Context) (string, error) {
	return "PONG", nil
}

// Put implements favourite.Store.Put
func (s *store) Put(_ context.Context, namespace, favouriteCoin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.favourites[namespace] = favouriteCoin
	return nil
}

// Get implements favourite.Store.Get
func (s *store) Get(_ context.Context, namespace string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.favourites[namespace]
	if !ok || len(value) == 0 {
		return "", favourite.ErrFavouriteNotFound
	}
	return value, nil
}

// Delete implements favourite.Store.Delete
func (s *store) Delete(_ context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.favourites, namespace)
	return nil
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.favourites = make(map[string]string)
}
