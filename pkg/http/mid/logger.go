package mid

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/code-payments/fragments/pkg/http/web"
)

// Logger logs the start and end of every request
func Logger(log *logrus.Entry) web.Middleware {
	return func(handler web.Handler) web.Handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			v, err := web.GetValues(ctx)
			if err != nil {
				return err
			}

			log := log.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"request_id": v.TraceID,
			})
			log.Debug("request started")

			err = handler(ctx, w, r)

			log.WithFields(logrus.Fields{
				"status":   v.StatusCode,
				"duration": time.Since(v.Now).String(),
			}).Info("request completed")

			return err
		}
	}
}
