package mid

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/code-payments/fragments/pkg/http/web"
)

// Errors turns handler errors into JSON error responses. Only RequestErrors
// and FieldErrors expose their message; anything else is a generic 500.
func Errors(log *logrus.Entry) web.Middleware {
	return func(handler web.Handler) web.Handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			err := handler(ctx, w, r)
			if err == nil {
				return nil
			}

			log := log.WithError(err).WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"request_id": web.GetTraceID(ctx),
			})

			var resp web.ErrorResponse
			var status int

			switch {
			case web.IsFieldErrors(err):
				resp = web.ErrorResponse{
					Error:  "data validation error",
					Fields: web.GetFieldErrors(err).Fields(),
				}
				status = http.StatusBadRequest
			case web.IsRequestError(err):
				reqErr := web.GetRequestError(err)
				resp = web.ErrorResponse{Error: reqErr.Error()}
				status = reqErr.Status
			default:
				resp = web.ErrorResponse{Error: http.StatusText(http.StatusInternalServerError)}
				status = http.StatusInternalServerError
			}

			if status >= http.StatusInternalServerError {
				log.Warn("request failed")
			} else {
				log.Info("request rejected")
			}

			return web.Respond(ctx, w, resp, status)
		}
	}
}
