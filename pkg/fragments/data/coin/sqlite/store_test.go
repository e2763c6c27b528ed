package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/code-payments/fragments/pkg/database/sqlite"
	"github.com/code-payments/fragments/pkg/fragments/data/coin/tests"
)

func TestCoinSqliteStore(t *testing.T) {
	testStore, db, err := Open(context.Background(), sqlite.InMemoryPath)
	require.NoError(t, err)
	defer db.Close()

	teardown := func() {
		_, err := db.Exec(`DROP TABLE crypto_coins`)
		require.NoError(t, err)
		_, err = db.Exec(Schema)
		require.NoError(t, err)
	}
	tests.RunTests(t, testStore, teardown)
}
