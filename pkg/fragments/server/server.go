// Package server wires the fragments stores, Solana clients and HTTP routes
// into an app.App.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	xrate "golang.org/x/time/rate"

	"github.com/code-payments/fragments/pkg/fragments/config"
	"github.com/code-payments/fragments/pkg/fragments/data/keypair"
	"github.com/code-payments/fragments/pkg/fragments/program"
	"github.com/code-payments/fragments/pkg/fragments/server/api"
	"github.com/code-payments/fragments/pkg/http/app"
	"github.com/code-payments/fragments/pkg/rate"
	"github.com/code-payments/fragments/pkg/solana"
	"github.com/code-payments/fragments/pkg/solana/confirm"
	"github.com/code-payments/fragments/pkg/solana/pubsub"

	pg "github.com/code-payments/fragments/pkg/database/postgres"
	redis_client "github.com/code-payments/fragments/pkg/database/redis"
	coin_postgres "github.com/code-payments/fragments/pkg/fragments/data/coin/postgres"
	coin_sqlite "github.com/code-payments/fragments/pkg/fragments/data/coin/sqlite"
	favourite_redis "github.com/code-payments/fragments/pkg/fragments/data/favourite/redis"
	keypair_leveldb "github.com/code-payments/fragments/pkg/fragments/data/keypair/leveldb"
	keypair_memory "github.com/code-payments/fragments/pkg/fragments/data/keypair/memory"
)

const initTimeout = time.Minute

// Server is the fragments app.App
type Server struct {
	log *logrus.Entry

	handler http.Handler

	closersMu sync.Mutex
	closers   []func() error

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

func New() *Server {
	return &Server{
		log:        logrus.StandardLogger().WithField("type", "fragments/server"),
		shutdownCh: make(chan struct{}),
	}
}

// Init implements app.App.Init. Anything opened before a failure is
// released.
func (s *Server) Init(appConfig app.Config, metricsProvider *newrelic.Application) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	defer func() {
		if err != nil {
			s.Stop()
		}
	}()

	if err := config.LoadProgramKeys(); err != nil {
		return err
	}

	conf := config.WithAppConfigs(appConfig)()

	programIds, err := conf.GetProgramIds(ctx)
	if err != nil {
		return err
	}

	pgDB, err := pg.NewWithUrl(ctx, &pg.Config{Url: conf.PostgresUrl.Get(ctx)})
	if err != nil {
		return errors.Wrap(err, "error connecting to postgres")
	}
	s.addCloser(pgDB.Close)

	if err := coin_postgres.Migrate(ctx, pgDB); err != nil {
		return err
	}

	sqliteCoins, sqliteDB, err := coin_sqlite.Open(ctx, conf.SqlitePath.Get(ctx))
	if err != nil {
		return errors.Wrap(err, "error opening sqlite")
	}
	s.addCloser(sqliteDB.Close)

	redisClient, err := redis_client.NewWithUrl(ctx, conf.RedisUrl.Get(ctx))
	if err != nil {
		return err
	}
	s.addCloser(redisClient.Close)

	keypairs, err := s.newKeypairStore(ctx, conf)
	if err != nil {
		return err
	}

	rpc := solana.New(conf.SolanaRpcUrl.Get(ctx))
	if version, err := rpc.GetVersion(); err != nil {
		s.log.WithError(err).Warn("solana rpc unreachable, continuing")
	} else {
		s.log.WithField("version", version.SolanaCore).Info("connected to solana rpc")
	}
	client := program.NewClient(
		&program.Config{
			CounterProgram:   programIds.Counter,
			RoundProgram:     programIds.Round,
			UsernameProgram:  programIds.Username,
			ConfirmTimeout:   conf.ConfirmTimeout.Get(ctx),
			SlotPollInterval: conf.SlotPollInterval.Get(ctx),
		},
		rpc,
		confirm.NewConfirmer(rpc, pubsub.New(conf.SolanaWsUrl.Get(ctx))),
	)

	limiter, err := newAirdropLimiter(ctx, conf, redisClient)
	if err != nil {
		return err
	}

	s.handler = api.NewHandler(api.Config{
		PostgresCoins:  coin_postgres.New(pgDB),
		SqliteCoins:    sqliteCoins,
		Favourites:     favourite_redis.New(redisClient),
		Keypairs:       keypairs,
		Program:        client,
		AirdropLimiter: limiter,
		Metrics:        metricsProvider,
	})

	s.log.WithFields(logrus.Fields{
		"solana_rpc":    conf.SolanaRpcUrl.Get(ctx),
		"keypair_store": conf.KeypairStore.Get(ctx),
		"rate_limiter":  conf.RateLimiter.Get(ctx),
	}).Info("fragments server initialized")
	return nil
}

// Handler implements app.App.Handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ShutdownChan implements app.App.ShutdownChan
func (s *Server) ShutdownChan() <-chan struct{} {
	return s.shutdownCh
}

// Stop implements app.App.Stop
func (s *Server) Stop() {
	s.shutdownOnce.Do(func() {
		close(s.shutdownCh)

		s.closersMu.Lock()
		defer s.closersMu.Unlock()

		for i := len(s.closers) - 1; i >= 0; i-- {
			if err := s.closers[i](); err != nil {
				s.log.WithError(err).Warn("failed to release resource")
			}
		}
		s.closers = nil
	})
}

func (s *Server) addCloser(closer func() error) {
	s.closersMu.Lock()
	defer s.closersMu.Unlock()
	s.closers = append(s.closers, closer)
}

func (s *Server) newKeypairStore(ctx context.Context, conf *config.Config) (keypair.Store, error) {
	switch kind := conf.KeypairStore.Get(ctx); kind {
	case config.KeypairStoreMemory:
		return keypair_memory.New(), nil
	case config.KeypairStoreLevelDB:
		store, err := keypair_leveldb.New(conf.KeypairStorePath.Get(ctx))
		if err != nil {
			return nil, err
		}
		s.addCloser(store.Close)
		return store, nil
	default:
		return nil, errors.Errorf("unknown keypair store %q", kind)
	}
}

// newAirdropLimiter allows AirdropRateLimit requests per client IP per second.
// A limit of zero disables limiting.
func newAirdropLimiter(ctx context.Context, conf *config.Config, client redis.UniversalClient) (rate.Limiter, error) {
	limit := conf.AirdropRateLimit.Get(ctx)
	if limit == 0 {
		return &rate.NoLimiter{}, nil
	}

	switch kind := conf.RateLimiter.Get(ctx); kind {
	case config.RateLimiterLocal:
		return rate.NewLocalRateLimiter(xrate.Limit(limit)), nil
	case config.RateLimiterRedis:
		return rate.NewRedisRateLimiter(client, int64(limit), time.Second), nil
	default:
		return nil, errors.Errorf("unknown rate limiter %q", kind)
	}
}

var _ app.App = (*Server)(nil)
