package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	pgutil "github.com/code-payments/fragments/pkg/database/postgres"
	"github.com/code-payments/fragments/pkg/fragments/data/coin"
)

const (
	tableName = "crypto_coins"

	allColumns = `id, ticker, name, launched`
)

type model struct {
	Id       sql.NullInt64 `db:"id"`
	Ticker   string        `db:"ticker"`
	Name     string        `db:"name"`
	Launched int           `db:"launched"`
}

func toModel(obj *coin.Coin) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &model{
		Ticker:   obj.Ticker,
		Name:     obj.Name,
		Launched: obj.Launched,
	}, nil
}

func fromModel(obj *model) *coin.Coin {
	return &coin.Coin{
		Id:       obj.Id.Int64,
		Ticker:   obj.Ticker,
		Name:     obj.Name,
		Launched: obj.Launched,
	}
}

func fromModels(objs []*model) []*coin.Coin {
	res := make([]*coin.Coin, len(objs))
	for i, obj := range objs {
		res[i] = fromModel(obj)
	}
	return res
}

// dbCreate returns false, leaving m untouched, when the ticker is taken
func (m *model) dbCreate(ctx context.Context, db *sqlx.DB) (bool, error) {
	query := `INSERT INTO ` + tableName + `
		(ticker, name, launched)
		VALUES ($1, $2, $3)

		ON CONFLICT (ticker) DO NOTHING

		RETURNING ` + allColumns

	err := db.QueryRowxContext(
		ctx,
		query,
		m.Ticker,
		m.Name,
		m.Launched,
	).StructScan(m)
	if pgutil.IsNoRows(err) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

func (m *model) dbUpdate(ctx context.Context, db *sqlx.DB) error {
	query := `UPDATE ` + tableName + `
		SET name = $2, launched = $3
		WHERE ticker = $1

		RETURNING ` + allColumns

	err := db.QueryRowxContext(
		ctx,
		query,
		m.Ticker,
		m.Name,
		m.Launched,
	).StructScan(m)
	return pgutil.CheckNoRows(err, coin.ErrCoinNotFound)
}

func dbGetByTicker(ctx context.Context, db *sqlx.DB, ticker string) (*model, error) {
	res := &model{}

	query := `SELECT ` + allColumns + ` FROM ` + tableName + `
		WHERE ticker = $1
		LIMIT 1`

	err := db.GetContext(ctx, res, query, ticker)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, coin.ErrCoinNotFound)
	}
	return res, nil
}

func dbGetLaunchedAfter(ctx context.Context, db *sqlx.DB, year int) ([]*model, error) {
	res := []*model{}

	query := `SELECT ` + allColumns + ` FROM ` + tableName + `
		WHERE launched > $1
		ORDER BY launched DESC, id ASC`

	err := db.SelectContext(ctx, &res, query, year)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func dbGetAll(ctx context.Context, db *sqlx.DB) ([]*model, error) {
	res := []*model{}

	query := `SELECT ` + allColumns + ` FROM ` + tableName + `
		ORDER BY launched DESC, id ASC`

	err := db.SelectContext(ctx, &res, query)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func dbDelete(ctx context.Context, db *sqlx.DB, ticker string) error {
	query := `DELETE FROM ` + tableName + `
		WHERE ticker = $1`

	_, err := db.ExecContext(ctx, query, ticker)
	return err
}
