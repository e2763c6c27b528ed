package sqlite

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	_ "github.com/mattn/go-sqlite3"
)

const (
	driverName = "sqlite3"

	InMemoryPath = ":memory:"
)

// Open opens the database at path and applies schema, a sequence of
// semicolon-separated statements. Schemas must be idempotent since they run
// on every open.
//
// An in-memory database exists per connection, so the pool is pinned to a
// single connection when path is InMemoryPath.
func Open(ctx context.Context, path string, schema string) (*sqlx.DB, error) {
	dsn := path
	if path != InMemoryPath {
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "error opening sqlite database")
	}

	if path == InMemoryPath {
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}

	if err := migrate(ctx, db, schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "error applying sqlite schema")
	}

	return db, nil
}

func migrate(ctx context.Context, db *sqlx.DB, schema string) error {
	for _, stmt := range strings.Split(stripComments(schema), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "error executing %q", firstLine(stmt))
		}
	}
	return nil
}

// IsUniqueViolation reports whether err is a UNIQUE constraint failure
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func stripComments(schema string) string {
	var b strings.Builder
	for _, line := range strings.Split(schema, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func firstLine(stmt string) string {
	line, _, _ := strings.Cut(stmt, "\n")
	return line
}
