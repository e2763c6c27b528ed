package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/fragments/pkg/fragments/data/coin"
)

// RunTests expects every store to start out holding exactly coin.Seed(),
// and teardown to restore that state
func RunTests(t *testing.T, s coin.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s coin.Store){
		testSeeded,
		testGetByTicker,
		testGetLaunchedAfter,
		testCreate,
		testUpdate,
		testDelete,
		testValidation,
	} {
		tf(t, s)
		teardown()
	}
}

func testSeeded(t *testing.T, s coin.Store) {
	t.Run("testSeeded", func(t *testing.T) {
		ctx := context.Background()

		require.NoError(t, s.Ping(ctx))

		actual, err := s.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, actual, 3)

		assert.Equal(t, []string{"SOL", "ETH", "BTC"}, tickers(actual))
		for _, item := range actual {
			assert.True(t, item.Id > 0)
		}
	})
}

func testGetByTicker(t *testing.T, s coin.Store) {
	t.Run("testGetByTicker", func(t *testing.T) {
		ctx := context.Background()

		actual, err := s.GetByTicker(ctx, "BTC")
		require.NoError(t, err)
		assert.Equal(t, "BTC", actual.Ticker)
		assert.Equal(t, "Bitcoin", actual.Name)
		assert.Equal(t, 2009, actual.Launched)

		_, err = s.GetByTicker(ctx, "DOGE")
		assert.Equal(t, coin.ErrCoinNotFound, err)

		// Tickers are matched exactly
		_, err = s.GetByTicker(ctx, "btc")
		assert.Equal(t, coin.ErrCoinNotFound, err)
	})
}

func testGetLaunchedAfter(t *testing.T, s coin.Store) {
	t.Run("testGetLaunchedAfter", func(t *testing.T) {
		ctx := context.Background()

		actual, err := s.GetLaunchedAfter(ctx, 2010)
		require.NoError(t, err)
		assert.Equal(t, []string{"SOL", "ETH"}, tickers(actual))

		// Strictly after
		actual, err = s.GetLaunchedAfter(ctx, 2015)
		require.NoError(t, err)
		assert.Equal(t, []string{"SOL"}, tickers(actual))

		actual, err = s.GetLaunchedAfter(ctx, 2020)
		require.NoError(t, err)
		assert.Empty(t, actual)
	})
}

func testCreate(t *testing.T, s coin.Store) {
	t.Run("testCreate", func(t *testing.T) {
		ctx := context.Background()

		record := &coin.Coin{Ticker: "PEPE", Name: "Pepe", Launched: 2023}
		created, err := s.Create(ctx, record)
		require.NoError(t, err)
		assert.True(t, created)
		assert.True(t, record.Id > 0)

		actual, err := s.GetByTicker(ctx, "PEPE")
		require.NoError(t, err)
		assert.Equal(t, *record, *actual)

		all, err := s.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"PEPE", "SOL", "ETH", "BTC"}, tickers(all))

		// Conflicting tickers are ignored
		created, err = s.Create(ctx, &coin.Coin{Ticker: "BTC", Name: "Other", Launched: 2024})
		require.NoError(t, err)
		assert.False(t, created)

		actual, err = s.GetByTicker(ctx, "BTC")
		require.NoError(t, err)
		assert.Equal(t, "Bitcoin", actual.Name)
		assert.Equal(t, 2009, actual.Launched)
	})
}

func testUpdate(t *testing.T, s coin.Store) {
	t.Run("testUpdate", func(t *testing.T) {
		ctx := context.Background()

		before, err := s.GetByTicker(ctx, "BTC")
		require.NoError(t, err)

		record := &coin.Coin{Ticker: "BTC", Name: "Bitcoin Core", Launched: 2008}
		require.NoError(t, s.Update(ctx, record))
		assert.Equal(t, before.Id, record.Id)
		assert.Equal(t, "Bitcoin Core", record.Name)
		assert.Equal(t, 2008, record.Launched)

		actual, err := s.GetByTicker(ctx, "BTC")
		require.NoError(t, err)
		assert.Equal(t, *record, *actual)

		err = s.Update(ctx, &coin.Coin{Ticker: "DOGE", Name: "Dogecoin", Launched: 2013})
		assert.Equal(t, coin.ErrCoinNotFound, err)
	})
}

func testDelete(t *testing.T, s coin.Store) {
	t.Run("testDelete", func(t *testing.T) {
		ctx := context.Background()

		require.NoError(t, s.Delete(ctx, "ETH"))

		_, err := s.GetByTicker(ctx, "ETH")
		assert.Equal(t, coin.ErrCoinNotFound, err)

		// Idempotent
		require.NoError(t, s.Delete(ctx, "ETH"))
		require.NoError(t, s.Delete(ctx, "DOGE"))

		all, err := s.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"SOL", "BTC"}, tickers(all))
	})
}

func testValidation(t *testing.T, s coin.Store) {
	t.Run("testValidation", func(t *testing.T) {
		ctx := context.Background()

		for _, invalid := range []*coin.Coin{
			{Ticker: "", Name: "Empty", Launched: 2020},
			{Ticker: "TOOLONGTICKER", Name: "Long", Launched: 2020},
			{Ticker: "X", Name: "", Launched: 2020},
			{Ticker: "X", Name: "X", Launched: -1},
		} {
			_, err := s.Create(ctx, invalid)
			assert.Equal(t, coin.ErrInvalidCoin, err)
			assert.Equal(t, coin.ErrInvalidCoin, s.Update(ctx, invalid))
		}
	})
}

func tickers(coins []*coin.Coin) []string {
	res := make([]string, len(coins))
	for i, item := range coins {
		res[i] = item.Ticker
	}
	return res
}
