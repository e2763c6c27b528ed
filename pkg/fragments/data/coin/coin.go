package coin

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

const (
	MaxTickerLength = 8
	MaxNameLength   = 30
)

var (
	ErrCoinNotFound = errors.New("coin not found")
	ErrInvalidCoin  = errors.New("invalid coin")
)

type Coin struct {
	Id       int64
	Ticker   string
	Name     string
	Launched int
}

// NormalizeTicker upper-cases a ticker taken from user input
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

func (c *Coin) Validate() error {
	if len(c.Ticker) == 0 || len(c.Ticker) > MaxTickerLength {
		return ErrInvalidCoin
	}
	if len(c.Name) == 0 || len(c.Name) > MaxNameLength {
		return ErrInvalidCoin
	}
	if c.Launched < 0 || c.Launched > 32767 {
		return ErrInvalidCoin
	}
	return nil
}

func (c *Coin) Clone() Coin {
	return Coin{
		Id:       c.Id,
		Ticker:   c.Ticker,
		Name:     c.Name,
		Launched: c.Launched,
	}
}

func (c *Coin) CopyTo(dst *Coin) {
	dst.Id = c.Id
	dst.Ticker = c.Ticker
	dst.Name = c.Name
	dst.Launched = c.Launched
}

func (c *Coin) String() string {
	return fmt.Sprintf("%s (%s, %d)", c.Ticker, c.Name, c.Launched)
}

// Seed is the initial content of every coin store
func Seed() []*Coin {
	return []*Coin{
		{Ticker: "BTC", Name: "Bitcoin", Launched: 2009},
		{Ticker: "ETH", Name: "Ethereum", Launched: 2015},
		{Ticker: "SOL", Name: "Solana", Launched: 2020},
	}
}
