package rate

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestNoLimiter(t *testing.T) {
	var l Limiter = &NoLimiter{}
	for i := 0; i < 1000; i++ {
		allowed, err := l.Allow(context.Background(), "")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestLocalRateLimiter(t *testing.T) {
	ctx := context.Background()
	l := NewLocalRateLimiter(rate.Limit(2))

	for _, key := range []string{"a", "b"} {
		for i := 0; i < 2; i++ {
			allowed, err := l.Allow(ctx, key)
			require.NoError(t, err)
			assert.True(t, allowed)
		}

		allowed, err := l.Allow(ctx, key)
		require.NoError(t, err)
		assert.False(t, allowed)
	}
}

func TestLocalRateLimiter_FractionalLimit(t *testing.T) {
	ctx := context.Background()
	l := NewLocalRateLimiter(rate.Limit(0.5))

	allowed, err := l.Allow(ctx, "a")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = l.Allow(ctx, "a")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestLocalRateLimiter_BoundedKeys(t *testing.T) {
	l := NewLocalRateLimiter(rate.Limit(1)).(*localRateLimiter)

	for i := 0; i < localLimiterMaxKeys+10; i++ {
		_, err := l.Allow(context.Background(), fmt.Sprintf("key-%d", i))
		require.NoError(t, err)
	}
	assert.Equal(t, localLimiterMaxKeys, l.limiters.Weight())
}
