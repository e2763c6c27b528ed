// Package rate limits operations per key, such as a client IP.
package rate

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/code-payments/fragments/pkg/cache"
)

// Bounds the number of keys tracked by a local limiter. The least recently
// seen keys are forgotten first, which resets their budget.
const localLimiterMaxKeys = 100_000

// Limiter limits operations based on a provided key
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type localRateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters *cache.Cache[string, *rate.Limiter]
}

// NewLocalRateLimiter returns an in memory limiter allowing limit operations
// per second for every key
func NewLocalRateLimiter(limit rate.Limit) Limiter {
	burst := int(limit)
	if burst < 1 {
		burst = 1
	}

	return &localRateLimiter{
		limit:    limit,
		burst:    burst,
		limiters: cache.New[string, *rate.Limiter](localLimiterMaxKeys),
	}
}

// Allow implements Limiter.Allow
func (l *localRateLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	limiter, err := l.limiters.GetOrCompute(key, 1, func() (*rate.Limiter, error) {
		return rate.NewLimiter(l.limit, l.burst), nil
	})
	l.mu.Unlock()
	if err != nil {
		return false, err
	}

	return limiter.Allow(), nil
}

// NoLimiter never limits operations
type NoLimiter struct{}

// Allow implements Limiter.Allow
func (NoLimiter) Allow(context.Context, string) (bool, error) {
	return true, nil
}
