package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/fragments/pkg/fragments/data/favourite"
)

func RunTests(t *testing.T, s favourite.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s favourite.Store){
		testPing,
		testRoundTrip,
		testNamespaces,
	} {
		tf(t, s)
		teardown()
	}
}

func testPing(t *testing.T, s favourite.Store) {
	t.Run("testPing", func(t *testing.T) {
		pong, err := s.Ping(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "PONG", pong)
	})
}

func testRoundTrip(t *testing.T, s favourite.Store) {
	t.Run("testRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.Get(ctx, "go")
		assert.Equal(t, favourite.ErrFavouriteNotFound, err)

		require.NoError(t, s.Put(ctx, "go", "bitcoin"))

		actual, err := s.Get(ctx, "go")
		require.NoError(t, err)
		assert.Equal(t, "bitcoin", actual)

		require.NoError(t, s.Put(ctx, "go", "pepe"))

		actual, err = s.Get(ctx, "go")
		require.NoError(t, err)
		assert.Equal(t, "pepe", actual)

		require.NoError(t, s.Delete(ctx, "go"))

		_, err = s.Get(ctx, "go")
		assert.Equal(t, favourite.ErrFavouriteNotFound, err)

		// Idempotent
		require.NoError(t, s.Delete(ctx, "go"))
	})
}

func testNamespaces(t *testing.T, s favourite.Store) {
	t.Run("testNamespaces", func(t *testing.T) {
		ctx := context.Background()

		require.NoError(t, s.Put(ctx, "go", "bitcoin"))
		require.NoError(t, s.Put(ctx, "rust", "solana"))

		actual, err := s.Get(ctx, "go")
		require.NoError(t, err)
		assert.Equal(t, "bitcoin", actual)

		actual, err = s.Get(ctx, "rust")
		require.NoError(t, err)
		assert.Equal(t, "solana", actual)

		require.NoError(t, s.Delete(ctx, "go"))

		actual, err = s.Get(ctx, "rust")
		require.NoError(t, err)
		assert.Equal(t, "solana", actual)
	})
}
