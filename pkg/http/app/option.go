package app

import (
	"net/http"
)

// Option configures the environment run by Run().
type Option func(o *opts)

type opts struct {
	configPath string
	healthPath string
	wrappers   []func(http.Handler) http.Handler
}

// WithConfigPath sets the config file to load. The file is optional; a
// missing file leaves the defaults and environment in place.
func WithConfigPath(path string) Option {
	return func(o *opts) {
		o.configPath = path
	}
}

// WithHealthCheck serves a 200 at path, ahead of the app's handler
func WithHealthCheck(path string) Option {
	return func(o *opts) {
		o.healthPath = path
	}
}

// WithHandlerWrapper wraps the app's handler. Wrappers are applied in
// addition order, so the last one added sees requests first.
func WithHandlerWrapper(wrapper func(http.Handler) http.Handler) Option {
	return func(o *opts) {
		o.wrappers = append(o.wrappers, wrapper)
	}
}
