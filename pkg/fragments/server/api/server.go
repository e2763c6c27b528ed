// Package api serves the fragments HTTP routes: coin CRUD over postgres and
// sqlite, favourites over redis, and the Solana balance, airdrop and program
// routes.
package api

import (
	"net/http"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/fragments/pkg/fragments/data/coin"
	"github.com/code-payments/fragments/pkg/fragments/data/favourite"
	"github.com/code-payments/fragments/pkg/fragments/data/keypair"
	"github.com/code-payments/fragments/pkg/fragments/program"
	"github.com/code-payments/fragments/pkg/http/mid"
	"github.com/code-payments/fragments/pkg/http/web"
	"github.com/code-payments/fragments/pkg/rate"
)

// Config holds everything the routes depend on
type Config struct {
	PostgresCoins coin.Store
	SqliteCoins   coin.Store
	Favourites    favourite.Store

	// Keypairs holds the signing keys of every account created through the
	// API. Keyed routes look their signer up here.
	Keypairs keypair.Store
	Program  *program.Client

	// AirdropLimiter limits routes that request faucet funds, per client IP.
	// Optional.
	AirdropLimiter rate.Limiter

	// Optional
	Metrics *newrelic.Application
}

// NewHandler constructs an http.Handler with every route installed
func NewHandler(cfg Config) http.Handler {
	log := logrus.StandardLogger().WithField("type", "fragments/server/api")

	app := web.NewApp(
		mid.Logger(log),
		mid.Errors(log),
		mid.Metrics(cfg.Metrics),
		mid.Panics(),
	)

	limiter := cfg.AirdropLimiter
	if limiter == nil {
		limiter = &rate.NoLimiter{}
	}
	airdropLimit := mid.RateLimit(log, limiter)

	postgres := &coinHandlers{store: cfg.PostgresCoins}
	app.Handle(http.MethodGet, "postgres", "/ping", postgres.ping)
	postgres.register(app, "postgres")

	sqlite := &coinHandlers{store: cfg.SqliteCoins}
	sqlite.register(app, "sqlite")

	favourites := &favouriteHandlers{store: cfg.Favourites}
	app.Handle(http.MethodGet, "redis", "/ping", favourites.ping)
	app.Handle(http.MethodGet, "redis", "/favourites/:namespace", favourites.get)
	app.Handle(http.MethodPut, "redis", "/favourites/:namespace", favourites.put)
	app.Handle(http.MethodPatch, "redis", "/favourites/:namespace", favourites.put)
	app.Handle(http.MethodDelete, "redis", "/favourites/:namespace", favourites.delete)

	solana := &solanaHandlers{
		log:      log,
		keypairs: cfg.Keypairs,
		client:   cfg.Program,
	}
	app.Handle(http.MethodGet, "solana", "/balance/:address", solana.getBalance)
	app.Handle(http.MethodPost, "solana", "/airdrop/:address", solana.airdrop, airdropLimit)
	app.Handle(http.MethodPost, "solana", "/keypair", solana.createKeypair)

	app.Handle(http.MethodPost, "solana", "/counter/initialise", solana.initialiseCounter, airdropLimit)
	app.Handle(http.MethodGet, "solana", "/counter/:address", solana.getCounter)
	app.Handle(http.MethodPatch, "solana", "/counter/:address/increment", solana.incrementCounter)

	app.Handle(http.MethodPost, "solana", "/round/initialise", solana.initialiseRound, airdropLimit)
	app.Handle(http.MethodGet, "solana", "/round/:address", solana.getRound)
	app.Handle(http.MethodPatch, "solana", "/round/:address/activate", solana.activateRound, airdropLimit)
	app.Handle(http.MethodPatch, "solana", "/round/:address/complete", solana.completeRound)

	app.Handle(http.MethodPost, "solana", "/username/initialise", solana.initialiseUsername, airdropLimit)
	app.Handle(http.MethodGet, "solana", "/username/:address", solana.getUsername)
	app.Handle(http.MethodPatch, "solana", "/username/:address", solana.updateUsername)
	app.Handle(http.MethodGet, "solana", "/username/:address/record/:changeIndex", solana.getUsernameRecord)

	return app
}
