// Package web is a small framework over httptreemux. Handlers return errors
// instead of writing failures themselves, and middleware decides how those
// errors reach the client.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/dimfeld/httptreemux/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Handler handles a single request
type Handler func(ctx context.Context, w http.ResponseWriter, r *http.Request) error

// Middleware wraps a Handler to run code before and after it
type Middleware func(Handler) Handler

// App is the entrypoint into the HTTP server. It routes requests through the
// app wide middleware, then route specific middleware, then the handler.
type App struct {
	log *logrus.Entry
	mux *httptreemux.ContextMux
	mw  []Middleware
}

func NewApp(mw ...Middleware) *App {
	mux := httptreemux.NewContextMux()
	mux.NotFoundHandler = func(w http.ResponseWriter, r *http.Request) {
		_ = Respond(r.Context(), w, ErrorResponse{Error: http.StatusText(http.StatusNotFound)}, http.StatusNotFound)
	}

	return &App{
		log: logrus.StandardLogger().WithField("type", "http/web"),
		mux: mux,
		mw:  mw,
	}
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// Handle registers handler for method at group + path
func (a *App) Handle(method string, group string, path string, handler Handler, mw ...Middleware) {
	handler = wrapMiddleware(mw, handler)
	handler = wrapMiddleware(a.mw, handler)

	h := func(w http.ResponseWriter, r *http.Request) {
		v := Values{
			TraceID: uuid.NewString(),
			Now:     time.Now().UTC(),
		}
		ctx := context.WithValue(r.Context(), valuesKey, &v)

		if err := handler(ctx, w, r); err != nil {
			a.log.WithError(err).WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"request_id": v.TraceID,
			}).Warn("unhandled request error")
		}
	}

	finalPath := path
	if group != "" {
		finalPath = "/" + group + path
	}
	a.mux.Handle(method, finalPath, h)
}

// wrapMiddleware wraps handler so the first middleware in mw runs first
func wrapMiddleware(mw []Middleware, handler Handler) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		if mw[i] != nil {
			handler = mw[i](handler)
		}
	}
	return handler
}
