package test

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/pkg/errors"

	pg "github.com/code-payments/fragments/pkg/database/postgres"
)

const (
	containerName     = "postgres"
	containerVersion  = "16-alpine"
	containerAutoKill = 120 * time.Second

	port     = 5432
	user     = "fragments"
	password = "fragments"
	dbname   = "fragments_test"

	connectAttempts = 30
)

// StartPostgresDB starts a Docker container using the postgres image and
// returns a connection pool for testing purposes
func StartPostgresDB(pool *dockertest.Pool) (db *sql.DB, closeFunc func(), err error) {
	closeFunc = func() {}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: containerName,
		Tag:        containerVersion,
		Env: []string{
			"POSTGRES_USER=" + user,
			"POSTGRES_PASSWORD=" + password,
			"POSTGRES_DB=" + dbname,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, closeFunc, errors.Wrapf(err, "failed to start resource")
	}

	closeFunc = func() {
		_ = pool.Purge(resource)
	}

	// Expire never fails
	_ = resource.Expire(uint(containerAutoKill.Seconds()))

	db, err = pg.NewWithUrl(context.Background(), &pg.Config{
		Url: fmt.Sprintf(
			"postgres://%s:%s@%s/%s?sslmode=disable",
			user,
			password,
			resource.GetHostPort(fmt.Sprintf("%d/tcp", port)),
			dbname,
		),
		ConnectAttempts: connectAttempts,
	})
	if err != nil {
		closeFunc()
		return nil, func() {}, errors.Wrap(err, "timed out waiting for postgres container to become available")
	}

	return db, closeFunc, nil
}
