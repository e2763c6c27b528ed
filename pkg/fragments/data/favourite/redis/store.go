package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/code-payments/fragments/pkg/fragments/data/favourite"
)

// Each namespace is a hash holding a single favourite_coin field
const favouriteCoinField = "favourite_coin"

type store struct {
	client redis.UniversalClient
}

// New returns a new redis favourite.Store
func New(client redis.UniversalClient) favourite.Store {
	return &store{
		client: client,
	}
}

// Ping implements favourite.Store.Ping
func (s *store) Ping(ctx context.Context) (string, error) {
	return s.client.Ping(ctx).Result()
}

// Put implements favourite.Store.Put
func (s *store) Put(ctx context.Context, namespace, favouriteCoin string) error {
	return s.client.HSet(ctx, namespace, favouriteCoinField, favouriteCoin).Err()
}

// Get implements favourite.Store.Get
func (s *store) Get(ctx context.Context, namespace string) (string, error) {
	value, err := s.client.HGet(ctx, namespace, favouriteCoinField).Result()
	if err == redis.Nil {
		return "", favourite.ErrFavouriteNotFound
	} else if err != nil {
		return "", err
	}

	if len(value) == 0 {
		return "", favourite.ErrFavouriteNotFound
	}
	return value, nil
}

// Delete implements favourite.Store.Delete
func (s *store) Delete(ctx context.Context, namespace string) error {
	return s.client.Del(ctx, namespace).Err()
}
