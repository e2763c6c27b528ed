package postgres

import (
	"context"
	"database/sql"
	_ "embed"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	pgutil "github.com/code-payments/fragments/pkg/database/postgres"
	"github.com/code-payments/fragments/pkg/fragments/data/coin"
)

//go:embed schema.sql
var Schema string

type store struct {
	db *sqlx.DB
}

// New returns a new postgres coin.Store
func New(db *sql.DB) coin.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Migrate creates and seeds the coin table if it doesn't exist
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, Schema)
	if err != nil {
		return errors.Wrap(err, "error creating coin table")
	}
	return nil
}

// Ping implements coin.Store.Ping
func (s *store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetAll implements coin.Store.GetAll
func (s *store) GetAll(ctx context.Context) ([]*coin.Coin, error) {
	models, err := dbGetAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return fromModels(models), nil
}

// GetByTicker implements coin.Store.GetByTicker
func (s *store) GetByTicker(ctx context.Context, ticker string) (*coin.Coin, error) {
	m, err := dbGetByTicker(ctx, s.db, ticker)
	if err != nil {
		return nil, err
	}
	return fromModel(m), nil
}

// GetLaunchedAfter implements coin.Store.GetLaunchedAfter
func (s *store) GetLaunchedAfter(ctx context.Context, year int) ([]*coin.Coin, error) {
	models, err := dbGetLaunchedAfter(ctx, s.db, year)
	if err != nil {
		return nil, err
	}
	return fromModels(models), nil
}

// Create implements coin.Store.Create
func (s *store) Create(ctx context.Context, record *coin.Coin) (bool, error) {
	m, err := toModel(record)
	if err != nil {
		return false, err
	}

	var created bool
	err = pgutil.ExecuteRetryable(func() error {
		created, err = m.dbCreate(ctx, s.db)
		return err
	})
	if err != nil || !created {
		return false, err
	}

	fromModel(m).CopyTo(record)
	return true, nil
}

// Update implements coin.Store.Update
func (s *store) Update(ctx context.Context, record *coin.Coin) error {
	m, err := toModel(record)
	if err != nil {
		return err
	}

	err = pgutil.ExecuteRetryable(func() error {
		return m.dbUpdate(ctx, s.db)
	})
	if err != nil {
		return err
	}

	fromModel(m).CopyTo(record)
	return nil
}

// Delete implements coin.Store.Delete
func (s *store) Delete(ctx context.Context, ticker string) error {
	return dbDelete(ctx, s.db, ticker)
}
