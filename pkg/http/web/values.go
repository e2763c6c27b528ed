package web

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

type ctxKey int

const valuesKey ctxKey = 1

// Values carries request scoped state through the middleware chain
type Values struct {
	TraceID    string
	Now        time.Time
	StatusCode int
}

func GetValues(ctx context.Context) (*Values, error) {
	v, ok := ctx.Value(valuesKey).(*Values)
	if !ok {
		return nil, errors.New("web values missing from context")
	}
	return v, nil
}

// GetTraceID returns the request id, or a placeholder outside of a request
func GetTraceID(ctx context.Context) string {
	v, ok := ctx.Value(valuesKey).(*Values)
	if !ok {
		return "00000000-0000-0000-0000-000000000000"
	}
	return v.TraceID
}

func setStatusCode(ctx context.Context, statusCode int) {
	if v, ok := ctx.Value(valuesKey).(*Values); ok {
		v.StatusCode = statusCode
	}
}
