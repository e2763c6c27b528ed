package coin

import "context"

type Store interface {
	// Ping checks connectivity to the underlying database
	Ping(ctx context.Context) error

	// GetAll returns every coin, most recently launched first
	GetAll(ctx context.Context) ([]*Coin, error)

	// GetByTicker gets a coin by its ticker. ErrCoinNotFound is returned if
	// no coin exists.
	GetByTicker(ctx context.Context, ticker string) (*Coin, error)

	// GetLaunchedAfter returns coins launched strictly after year, most
	// recently launched first
	GetLaunchedAfter(ctx context.Context, year int) ([]*Coin, error)

	// Create inserts a coin. A coin with the same ticker is left as is, in
	// which case false is returned. The record's Id is set when inserted.
	Create(ctx context.Context, record *Coin) (bool, error)

	// Update sets the name and launch year of the coin with the record's
	// ticker, and copies the updated coin into record. ErrCoinNotFound is
	// returned if no coin exists.
	Update(ctx context.Context, record *Coin) error

	// Delete removes a coin by its ticker. Deleting a missing coin is not
	// an error.
	Delete(ctx context.Context, ticker string) error
}
