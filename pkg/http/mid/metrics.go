package mid

import (
	"context"
	"net/http"

	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/code-payments/fragments/pkg/http/web"
	"github.com/code-payments/fragments/pkg/metrics"
)

const (
	httpRequestRouteAttributeKey     = "http.request.route"
	httpRequestIDAttributeKey        = "http.request.id"
	httpResponseStatusLevelAttribute = "http.response.statusCodeLevel"

	infoLevel    = "info"
	warningLevel = "warning"
	errorLevel   = "error"
)

// Metrics records a New Relic transaction per request, named after the
// matched route. A nil app disables it.
func Metrics(app *newrelic.Application) web.Middleware {
	return func(handler web.Handler) web.Handler {
		if app == nil {
			return handler
		}

		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			route := web.Route(r)

			// Inject the application to allow for any custom metrics, events, etc
			// in downstream code.
			ctx = metrics.NewContext(ctx, app)

			txn := app.StartTransaction(r.Method + " " + route)
			defer txn.End()

			txn.SetWebRequestHTTP(r)
			w = txn.SetWebResponse(w)
			txn.AddAttribute(httpRequestRouteAttributeKey, route)
			txn.AddAttribute(httpRequestIDAttributeKey, web.GetTraceID(ctx))

			ctx = newrelic.NewContext(ctx, txn)

			err := handler(ctx, w, r)

			if v, vErr := web.GetValues(ctx); vErr == nil {
				txn.AddAttribute(httpResponseStatusLevelAttribute, statusLevel(v.StatusCode))
			}
			if err != nil {
				txn.NoticeError(err)
			}
			return err
		}
	}
}

func statusLevel(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return errorLevel
	case status == http.StatusTooManyRequests:
		return warningLevel
	default:
		return infoLevel
	}
}
