package mid

import (
	"context"
	"net/http"
	"runtime/debug"

	"github.com/pkg/errors"

	"github.com/code-payments/fragments/pkg/http/web"
)

// Panics recovers from handler panics and returns them as errors, so they
// flow through the Errors middleware
func Panics() web.Middleware {
	return func(handler web.Handler) web.Handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = errors.Errorf("PANIC [%v] TRACE[%s]", rec, string(debug.Stack()))
				}
			}()

			return handler(ctx, w, r)
		}
	}
}
