package redis

import (
	"context"
	"os"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/fragments/pkg/fragments/data/favourite"
	"github.com/code-payments/fragments/pkg/fragments/data/favourite/tests"

	redistest "github.com/code-payments/fragments/pkg/database/redis/test"
)

var (
	testStore favourite.Store
	teardown  func()
)

func TestMain(m *testing.M) {
	log := logrus.StandardLogger()

	testPool, err := dockertest.NewPool("")
	if err != nil {
		log.WithError(err).Error("Error creating docker pool")
		os.Exit(1)
	}

	client, cleanUpFunc, err := redistest.StartRedis(testPool)
	if err != nil {
		log.WithError(err).Error("Error starting redis image")
		os.Exit(1)
	}
	defer client.Close()

	testStore = New(client)
	teardown = func() {
		if pc := recover(); pc != nil {
			cleanUpFunc()
			panic(pc)
		}

		if err := client.FlushDB(context.Background()).Err(); err != nil {
			log.WithError(err).Error("Error flushing test database")
			cleanUpFunc()
			os.Exit(1)
		}
	}

	code := m.Run()
	cleanUpFunc()
	os.Exit(code)
}

func TestFavouriteRedisStore(t *testing.T) {
	tests.RunTests(t, testStore, teardown)
}
