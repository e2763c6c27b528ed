package redis

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/code-payments/fragments/pkg/retry"
	"github.com/code-payments/fragments/pkg/retry/backoff"
)

const defaultConnectAttempts = 5

// NewWithUrl creates a client from a redis:// URL and pings it, retrying
// while the server comes up
func NewWithUrl(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "invalid redis url")
	}

	client := redis.NewClient(opts)

	_, err = retry.Retry(
		func() error {
			return client.Ping(ctx).Err()
		},
		retry.Limit(defaultConnectAttempts),
		retry.Context(ctx),
		retry.Backoff(backoff.BinaryExponential(100*time.Millisecond), 2*time.Second),
	)
	if err != nil {
		client.Close()
		return nil, errors.Wrap(err, "error connecting to redis")
	}

	return client, nil
}
