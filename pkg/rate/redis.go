package rate

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "rate"
	redisTimeout   = time.Second
)

type redisRateLimiter struct {
	client redis.UniversalClient
	limit  int64
	window time.Duration
}

// NewRedisRateLimiter returns a limiter shared by every process using the
// same redis. Each key may perform limit operations per fixed window.
func NewRedisRateLimiter(client redis.UniversalClient, limit int64, window time.Duration) Limiter {
	return &redisRateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Allow implements limiter.Allow.
func (l *redisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	bucket := fmt.Sprintf("%s:%s:%d", redisKeyPrefix, key, time.Now().UnixNano()/int64(l.window))

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, bucket)
	pipe.Expire(ctx, bucket, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, errors.Wrap(err, "error incrementing rate limit bucket")
	}

	return incr.Val() <= l.limit, nil
}
