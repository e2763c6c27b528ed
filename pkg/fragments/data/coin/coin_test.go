package coin

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	valid := &Coin{Ticker: "SOL", Name: "Solana", Launched: 2020}
	assert.NoError(t, valid.Validate())

	for _, invalid := range []*Coin{
		{Ticker: "", Name: "Solana", Launched: 2020},
		{Ticker: "TOOLONGTICKER", Name: "Solana", Launched: 2020},
		{Ticker: "SOL", Name: "", Launched: 2020},
		{Ticker: "SOL", Name: "Solana", Launched: -1},
		{Ticker: "SOL", Name: "Solana", Launched: 32768},
	} {
		err := invalid.Validate()
		assert.Equal(t, ErrInvalidCoin, err, invalid.String())

		// Stores wrap their failures, callers match on the sentinel
		assert.True(t, errors.Is(errors.Wrap(err, "error saving coin"), ErrInvalidCoin))
	}

	assert.True(t, errors.Is(errors.Wrapf(ErrCoinNotFound, "id %d", 1), ErrCoinNotFound))
}

func TestNormalizeTicker(t *testing.T) {
	assert.Equal(t, "SOL", NormalizeTicker("  sol "))
}
