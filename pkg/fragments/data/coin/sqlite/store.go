package sqlite

import (
	"context"
	"database/sql"
	_ "embed"

	"github.com/jmoiron/sqlx"

	"github.com/code-payments/fragments/pkg/database/sqlite"
	"github.com/code-payments/fragments/pkg/fragments/data/coin"
)

//go:embed schema.sql
var Schema string

const allColumns = `id, ticker, name, launched`

type model struct {
	Id       int64  `db:"id"`
	Ticker   string `db:"ticker"`
	Name     string `db:"name"`
	Launched int    `db:"launched"`
}

func (m *model) toCoin() *coin.Coin {
	return &coin.Coin{
		Id:       m.Id,
		Ticker:   m.Ticker,
		Name:     m.Name,
		Launched: m.Launched,
	}
}

type store struct {
	db *sqlx.DB
}

// New returns a coin.Store over a database opened with Schema applied
func New(db *sqlx.DB) coin.Store {
	return &store{db: db}
}

// Open opens the database at path, creating and seeding the coin table as
// needed, and returns a store over it
func Open(ctx context.Context, path string) (coin.Store, *sqlx.DB, error) {
	db, err := sqlite.Open(ctx, path, Schema)
	if err != nil {
		return nil, nil, err
	}
	return New(db), db, nil
}

// Ping implements coin.Store.Ping
func (s *store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetAll implements coin.Store.GetAll
func (s *store) GetAll(ctx context.Context) ([]*coin.Coin, error) {
	return s.selectCoins(ctx, `SELECT `+allColumns+` FROM crypto_coins ORDER BY launched DESC, id ASC`)
}

// GetByTicker implements coin.Store.GetByTicker
func (s *store) GetByTicker(ctx context.Context, ticker string) (*coin.Coin, error) {
	var m model
	err := s.db.GetContext(ctx, &m, `SELECT `+allColumns+` FROM crypto_coins WHERE ticker = ? LIMIT 1`, ticker)
	if err != nil {
		return nil, checkNoRows(err)
	}
	return m.toCoin(), nil
}

// GetLaunchedAfter implements coin.Store.GetLaunchedAfter
func (s *store) GetLaunchedAfter(ctx context.Context, year int) ([]*coin.Coin, error) {
	return s.selectCoins(ctx, `SELECT `+allColumns+` FROM crypto_coins WHERE launched > ? ORDER BY launched DESC, id ASC`, year)
}

// Create implements coin.Store.Create
func (s *store) Create(ctx context.Context, record *coin.Coin) (bool, error) {
	if err := record.Validate(); err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO crypto_coins (ticker, name, launched) VALUES (?, ?, ?) ON CONFLICT (ticker) DO NOTHING`,
		record.Ticker,
		record.Name,
		record.Launched,
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return false, err
	}
	record.Id = id
	return true, nil
}

// Update implements coin.Store.Update
func (s *store) Update(ctx context.Context, record *coin.Coin) error {
	if err := record.Validate(); err != nil {
		return err
	}

	var m model
	err := s.db.QueryRowxContext(
		ctx,
		`UPDATE crypto_coins SET name = ?, launched = ? WHERE ticker = ? RETURNING `+allColumns,
		record.Name,
		record.Launched,
		record.Ticker,
	).StructScan(&m)
	if err != nil {
		return checkNoRows(err)
	}

	m.toCoin().CopyTo(record)
	return nil
}

// Delete implements coin.Store.Delete
func (s *store) Delete(ctx context.Context, ticker string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM crypto_coins WHERE ticker = ?`, ticker)
	return err
}

func (s *store) selectCoins(ctx context.Context, query string, args ...interface{}) ([]*coin.Coin, error) {
	models := []*model{}
	if err := s.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, err
	}

	res := make([]*coin.Coin, len(models))
	for i, m := range models {
		res[i] = m.toCoin()
	}
	return res, nil
}

func checkNoRows(err error) error {
	if err == sql.ErrNoRows {
		return coin.ErrCoinNotFound
	}
	return err
}
