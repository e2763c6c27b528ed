// Package app runs an App behind an HTTP server for the lifetime of the
// process.
package app

import (
	"context"
	"crypto/tls"
	"expvar"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/code-payments/fragments/pkg/metrics"
	"github.com/code-payments/fragments/pkg/osutil"
)

// App is a long lived application that services HTTP requests.
//
// The lifecycle of the App is tied to the process. The app gets initialized
// before the HTTP server runs, and gets stopped after the HTTP server has
// stopped serving.
type App interface {
	// Init initializes the application in a blocking fashion. When Init
	// returns, it is expected that Handler is ready to serve requests.
	Init(config Config, metricsProvider *newrelic.Application) error

	// Handler returns the handler for every request to the server
	Handler() http.Handler

	// ShutdownChan returns a channel that is closed when the application is shutdown.
	//
	// If the channel is closed, the HTTP server will initiate a shutdown if it
	// has not already done so.
	ShutdownChan() <-chan struct{}

	// Stop stops the service, allowing for it to clean up any resources. When Stop()
	// returns, the process exits.
	//
	// Stop should be idempotent.
	Stop()
}

const defaultConfigPath = "config.yaml"

var osSigCh = make(chan os.Signal, 1)

func init() {
	signal.Notify(osSigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
}

// LoadConfig reads the base configuration from the config file at path, if
// present, on top of the defaults and environment
func LoadConfig(path string) (BaseConfig, error) {
	if path == "" {
		path = defaultConfigPath
	}

	// viper.ReadInConfig only returns ConfigFileNotFoundError if it has to search
	// for a default config file because one hasn't been explicitly set. That is,
	// if we explicitly set a config file, and it does not exist, viper will not
	// return a ConfigFileNotFoundError, so we do it ourselves.
	if _, err := os.Stat(path); err == nil {
		viper.SetConfigFile(path)
	} else if !os.IsNotExist(err) {
		return BaseConfig{}, errors.Wrap(err, "failed to check if config exists")
	}

	err := viper.ReadInConfig()
	_, isConfigNotFound := err.(viper.ConfigFileNotFoundError)
	if err != nil && !isConfigNotFound {
		return BaseConfig{}, errors.Wrap(err, "failed to load config")
	}

	config := defaultConfig
	if err := viper.Unmarshal(&config); err != nil {
		return BaseConfig{}, errors.Wrap(err, "failed to unmarshal config")
	}

	if len(config.AppName) == 0 {
		return BaseConfig{}, errors.New("must specify an application name")
	}
	return config, nil
}

func Run(app App, options ...Option) error {
	logger := logrus.StandardLogger().WithField("type", "http/app")

	var opts opts
	for _, o := range options {
		o(&opts)
	}

	config, err := LoadConfig(opts.configPath)
	if err != nil {
		logger.WithError(err).Error("failed to load config")
		return err
	}

	// todo: Better abstraction so we're not directly tied to NR
	var metricsProvider *newrelic.Application
	if len(config.NewRelicLicenseKey) > 0 {
		nr, err := newrelic.NewApplication(
			newrelic.ConfigFromEnvironment(),
			newrelic.ConfigAppName(config.AppName),
			newrelic.ConfigLicense(config.NewRelicLicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.WithError(err).Error("error connecting to new relic")
			return err
		}

		metricsProvider = nr
	}

	configureLogger(config, metricsProvider)

	// We don't want to expose pprof/expvar publically, so we reset the default
	// http ServeMux, which will have those installed due to the init() function
	// in those packages.
	http.DefaultServeMux = http.NewServeMux()

	if config.EnableExpvar || config.EnablePprof {
		debugHTTPMux := newDebugMux(config)

		go func() {
			for {
				if err := http.ListenAndServe(config.DebugListenAddress, debugHTTPMux); err != nil {
					logger.WithError(err).Warn("Debug HTTP server failed. Retrying in 5s...")
				}
				time.Sleep(5 * time.Second)
			}
		}()
	}

	var ballast []byte
	if config.EnableBallast {
		totalMemory := osutil.GetTotalMemory()
		ballastCapacity := config.BallastCapacity
		if ballastCapacity > 0.5 {
			ballastCapacity = 0.5
		}
		ballastSize := uint64(ballastCapacity * float32(totalMemory))
		ballast = make([]byte, ballastSize)
	}

	memoryLeakShutdownCh := make(chan struct{})
	if config.EnableMemoryLeakCron {
		cronJob := cron.New(cron.WithLocation(time.Local))
		_, err = cronJob.AddFunc(config.MemoryLeakCronSchedule, func() {
			close(memoryLeakShutdownCh)
		})
		if err != nil {
			logger.WithError(err).Error("failed to initialize memory leak cron")
			return err
		}
		cronJob.Start()
		defer cronJob.Stop()
	}

	lis, err := net.Listen("tcp", config.ListenAddress)
	if err != nil {
		logger.WithError(err).Errorf("failed to listen on %s", config.ListenAddress)
		return err
	}

	if config.TLSCertificate != "" {
		tlsConfig, err := loadTLSConfig(config)
		if err != nil {
			logger.WithError(err).Error("failed to configure tls")
			lis.Close()
			return err
		}
		lis = tls.NewListener(lis, tlsConfig)
	}

	if err := app.Init(config.AppConfig, metricsProvider); err != nil {
		logger.WithError(err).Error("failed to initialize application")
		lis.Close()
		return err
	}

	server := &http.Server{
		Handler:      buildHandler(app.Handler(), opts),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	serverShutdownCh := make(chan struct{})
	go func() {
		logger.WithField("address", lis.Addr().String()).Info("http server listening")

		if err := server.Serve(lis); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("http serve stopped")
		} else {
			logger.Info("http server stopped")
		}

		close(serverShutdownCh)
	}()

	// Wait for the following shutdown conditions:
	//    1. OS Signal telling us to shutdown
	//    2. The HTTP Server has shutdown (for whatever reason)
	//    3. The application has shutdown (for whatever reason)
	select {
	case <-osSigCh:
		logger.Info("interrupt received, shutting down")
	case <-serverShutdownCh:
		logger.Info("http server shutdown")
	case <-memoryLeakShutdownCh:
		logger.Info("shutdown to deal with memory leak")
	case <-app.ShutdownChan():
		logger.Info("app shutdown")
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownGracePeriod)
	defer cancel()

	shutdownCh := make(chan struct{})
	go func() {
		// Both the HTTP server and the application should have idempotent
		// shutdown methods, so it's fine call them both, regardless of the
		// shutdown condition.
		if err := server.Shutdown(ctx); err != nil {
			logger.WithError(err).Warn("http server did not shutdown gracefully")
		}
		app.Stop()

		close(shutdownCh)
	}()

	select {
	case <-shutdownCh:
		// Ensure the ballast is used to avoid any possible compiler optimizations
		// around unused variable.
		if len(ballast) > 0 {
			ballast[0] = 1
		}

		return nil
	case <-ctx.Done():
		return errors.Errorf("failed to stop the application within %v", config.ShutdownGracePeriod)
	}
}

func buildHandler(handler http.Handler, opts opts) http.Handler {
	for _, wrapper := range opts.wrappers {
		handler = wrapper(handler)
	}

	if opts.healthPath == "" {
		return handler
	}

	mux := http.NewServeMux()
	mux.HandleFunc(opts.healthPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/", handler)
	return mux
}

func newDebugMux(config BaseConfig) *http.ServeMux {
	debugHTTPMux := http.NewServeMux()
	if config.EnableExpvar {
		debugHTTPMux.Handle("/debug/vars", expvar.Handler())
	}
	if config.EnablePprof {
		debugHTTPMux.HandleFunc("/debug/pprof/", pprof.Index)
		debugHTTPMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		debugHTTPMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		debugHTTPMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		debugHTTPMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	return debugHTTPMux
}

func loadTLSConfig(config BaseConfig) (*tls.Config, error) {
	if config.TLSKey == "" {
		return nil, errors.New("tls key must be provided if certificate is specified")
	}

	certBytes, err := LoadFile(config.TLSCertificate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load tls certificate")
	}

	keyBytes, err := LoadFile(config.TLSKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load tls key")
	}

	cert, err := tls.X509KeyPair(certBytes, keyBytes)
	if err != nil {
		return nil, errors.Wrap(err, "invalid certificate/private key")
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

func configureLogger(config BaseConfig, metricsProvider *newrelic.Application) {
	if metricsProvider != nil {
		logrus.SetFormatter(metrics.NewCustomNewRelicLogFormatter(metricsProvider, &logrus.JSONFormatter{}))
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(strings.ToLower(config.LogLevel))
	if err != nil {
		logrus.StandardLogger().WithField("log_level", config.LogLevel).Warn("unknown log level, ignoring")
	} else {
		logrus.SetLevel(level)
	}

	logrus.SetOutput(os.Stdout)
}
