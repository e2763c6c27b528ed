package leveldb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/fragments/pkg/fragments/data/keypair/tests"
	"github.com/code-payments/fragments/pkg/testutil"
)

func TestKeypairLevelDBStore(t *testing.T) {
	testStore, err := New(t.TempDir())
	require.NoError(t, err)
	defer testStore.Close()

	teardown := func() {
		require.NoError(t, testStore.reset())
	}
	tests.RunTests(t, testStore, teardown)
}

func TestKeypairLevelDBStore_SurvivesReopen(t *testing.T) {
	path := t.TempDir()
	key := testutil.GenerateSolanaKeypair(t)
	address := testutil.PublicKey(key)

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(context.Background(), address, key))
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	actual, err := s.Get(context.Background(), address)
	require.NoError(t, err)
	assert.Equal(t, key, actual)
}
