package rate

import (
	"context"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redistest "github.com/code-payments/fragments/pkg/database/redis/test"
)

func TestRedisRateLimiter(t *testing.T) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	client, closeFunc, err := redistest.StartRedis(pool)
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	defer closeFunc()
	defer client.Close()

	ctx := context.Background()

	// A long window keeps every call in the same bucket
	l := NewRedisRateLimiter(client, 2, time.Hour)

	for i := 0; i < 2; i++ {
		allowed, err := l.Allow(ctx, "a")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := l.Allow(ctx, "a")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = l.Allow(ctx, "b")
	require.NoError(t, err)
	assert.True(t, allowed)
}
