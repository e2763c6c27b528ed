package metrics

import (
	"context"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
)

type newRelicContextKey struct{}

// NewRelicContextKey is the context key holding the *newrelic.Application
var NewRelicContextKey = newRelicContextKey{}

// NewContext returns a copy of ctx carrying app for the Record functions. A
// nil app returns ctx as is.
func NewContext(ctx context.Context, app *newrelic.Application) context.Context {
	if app == nil {
		return ctx
	}
	return context.WithValue(ctx, NewRelicContextKey, app)
}

func fromContext(ctx context.Context) *newrelic.Application {
	app, _ := ctx.Value(NewRelicContextKey).(*newrelic.Application)
	return app
}

// RecordCount records a count metric
func RecordCount(ctx context.Context, metricName string, count uint64) {
	if app := fromContext(ctx); app != nil {
		app.RecordCustomMetric(metricName, float64(count))
	}
}

// RecordDuration records a duration metric in milliseconds
func RecordDuration(ctx context.Context, metricName string, duration time.Duration) {
	if app := fromContext(ctx); app != nil {
		app.RecordCustomMetric(metricName, float64(duration/time.Millisecond))
	}
}

// RecordEvent records a custom event with a set of attributes
func RecordEvent(ctx context.Context, eventName string, attributes map[string]interface{}) {
	if app := fromContext(ctx); app != nil {
		app.RecordCustomEvent(eventName, attributes)
	}
}
