package tests

import (
	"context"
	"crypto/ed25519"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/fragments/pkg/fragments/data/keypair"
	"github.com/code-payments/fragments/pkg/testutil"
)

func RunTests(t *testing.T, s keypair.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s keypair.Store){
		testRoundTrip,
		testWriteOnce,
		testInvalidKeypair,
		testConcurrentPuts,
	} {
		tf(t, s)
		teardown()
	}
}

func testRoundTrip(t *testing.T, s keypair.Store) {
	t.Run("testRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		key := testutil.GenerateSolanaKeypair(t)
		address := testutil.PublicKey(key)

		_, err := s.Get(ctx, address)
		assert.Equal(t, keypair.ErrKeypairNotFound, err)

		require.NoError(t, s.Put(ctx, address, key))

		actual, err := s.Get(ctx, address)
		require.NoError(t, err)
		assert.Equal(t, key, actual)

		// Mutating the returned key doesn't affect the store
		actual[0] ^= 0xff
		again, err := s.Get(ctx, address)
		require.NoError(t, err)
		assert.Equal(t, key, again)
	})
}

func testWriteOnce(t *testing.T, s keypair.Store) {
	t.Run("testWriteOnce", func(t *testing.T) {
		ctx := context.Background()

		key := testutil.GenerateSolanaKeypair(t)
		address := testutil.PublicKey(key)

		require.NoError(t, s.Put(ctx, address, key))
		assert.Equal(t, keypair.ErrKeypairExists, s.Put(ctx, address, key))

		actual, err := s.Get(ctx, address)
		require.NoError(t, err)
		assert.Equal(t, key, actual)
	})
}

func testInvalidKeypair(t *testing.T, s keypair.Store) {
	t.Run("testInvalidKeypair", func(t *testing.T) {
		ctx := context.Background()

		key := testutil.GenerateSolanaKeypair(t)
		other := testutil.GenerateSolanaKeys(t, 1)[0]

		assert.Equal(t, keypair.ErrInvalidKeypair, s.Put(ctx, other, key))
		assert.Equal(t, keypair.ErrInvalidKeypair, s.Put(ctx, testutil.PublicKey(key), key[:32]))

		_, err := s.Get(ctx, other)
		assert.Equal(t, keypair.ErrKeypairNotFound, err)
	})
}

func testConcurrentPuts(t *testing.T, s keypair.Store) {
	t.Run("testConcurrentPuts", func(t *testing.T) {
		ctx := context.Background()

		keys := make([]ed25519.PrivateKey, 20)
		for i := range keys {
			keys[i] = testutil.GenerateSolanaKeypair(t)
		}

		var wg sync.WaitGroup
		for _, key := range keys {
			wg.Add(1)
			go func(key ed25519.PrivateKey) {
				defer wg.Done()
				assert.NoError(t, s.Put(ctx, testutil.PublicKey(key), key))
			}(key)
		}
		wg.Wait()

		for _, key := range keys {
			actual, err := s.Get(ctx, testutil.PublicKey(key))
			require.NoError(t, err)
			assert.Equal(t, key, actual)
		}
	})
}
