package pg

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/code-payments/fragments/pkg/retry"
	"github.com/code-payments/fragments/pkg/retry/backoff"

	_ "github.com/newrelic/go-agent/v3/integrations/nrpgx"
)

const (
	defaultMaxOpenConnections = 10
	defaultMaxIdleConnections = 2
	defaultConnectAttempts    = 5
)

type Config struct {
	Url                string
	MaxOpenConnections int
	MaxIdleConnections int
	ConnectAttempts    uint
}

// NewWithUrl opens a connection pool against a postgres:// URL and pings it,
// retrying while the server comes up
//
// The "nrpgx" driver wraps pgx so queries show up as New Relic datastore
// segments when a transaction is on the context.
func NewWithUrl(ctx context.Context, config *Config) (*sql.DB, error) {
	if len(config.Url) == 0 {
		return nil, errors.New("postgres url is required")
	}

	db, err := sql.Open("nrpgx", config.Url)
	if err != nil {
		return nil, err
	}

	maxOpen := config.MaxOpenConnections
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConnections
	}
	maxIdle := config.MaxIdleConnections
	if maxIdle <= 0 {
		maxIdle = defaultMaxIdleConnections
	}
	attempts := config.ConnectAttempts
	if attempts == 0 {
		attempts = defaultConnectAttempts
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)

	_, err = retry.Retry(
		func() error {
			return db.PingContext(ctx)
		},
		retry.Limit(attempts),
		retry.Context(ctx),
		retry.Backoff(backoff.BinaryExponential(100*time.Millisecond), 2*time.Second),
	)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "error connecting to postgres")
	}

	return db, nil
}
