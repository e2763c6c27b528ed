package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/code-payments/fragments/pkg/fragments/data/coin"
)

type store struct {
	mu      sync.Mutex
	records []*coin.Coin
	last    int64
}

// New returns a new in memory coin.Store seeded with the default coins
func New() coin.Store {
	s := &store{}
	s.reset()
	return s
}

// Ping implements coin.Store.Ping
func (s *store) Ping(_ context.Context) error {
	return nil
}

// GetAll implements coin.Store.GetAll
func (s *store) GetAll(_ context.Context) ([]*coin.Coin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter(func(*coin.Coin) bool { return true }), nil
}

// GetByTicker implements coin.Store.GetByTicker
func (s *store) GetByTicker(_ context.Context, ticker string) (*coin.Coin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.find(ticker)
	if item == nil {
		return nil, coin.ErrCoinNotFound
	}

	cloned := item.Clone()
	return &cloned, nil
}

// GetLaunchedAfter implements coin.Store.GetLaunchedAfter
func (s *store) GetLaunchedAfter(_ context.Context, year int) ([]*coin.Coin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter(func(item *coin.Coin) bool { return item.Launched > year }), nil
}

// Create implements coin.Store.Create
func (s *store) Create(_ context.Context, record *coin.Coin) (bool, error) {
	if err := record.Validate(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(record.Ticker) != nil {
		return false, nil
	}

	s.last++
	record.Id = s.last

	cloned := record.Clone()
	s.records = append(s.records, &cloned)
	return true, nil
}

// Update implements coin.Store.Update
func (s *store) Update(_ context.Context, record *coin.Coin) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.find(record.Ticker)
	if item == nil {
		return coin.ErrCoinNotFound
	}

	item.Name = record.Name
	item.Launched = record.Launched
	item.CopyTo(record)
	return nil
}

// Delete implements coin.Store.Delete
func (s *store) Delete(_ context.Context, ticker string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.records {
		if item.Ticker == ticker {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *store) find(ticker string) *coin.Coin {
	for _, item := range s.records {
		if item.Ticker == ticker {
			return item
		}
	}
	return nil
}

func (s *store) filter(include func(*coin.Coin) bool) []*coin.Coin {
	var res []*coin.Coin
	for _, item := range s.records {
		if include(item) {
			cloned := item.Clone()
			res = append(res, &cloned)
		}
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Launched > res[j].Launched
	})
	return res
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last = 0
	s.records = nil
	for _, seed := range coin.Seed() {
		s.last++
		seed.Id = s.last
		s.records = append(s.records, seed)
	}
}
