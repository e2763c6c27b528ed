package mid

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/fragments/pkg/http/client"
	"github.com/code-payments/fragments/pkg/http/web"
	"github.com/code-payments/fragments/pkg/metrics"
	"github.com/code-payments/fragments/pkg/rate"
)

const rateLimitedMetricName = "RateLimitedRequests"

var ErrRateLimited = errors.New("Too Many Requests")

// RateLimit rejects requests with 429 once the client IP exceeds limiter.
// Limiter failures let the request through.
func RateLimit(log *logrus.Entry, limiter rate.Limiter) web.Middleware {
	return func(handler web.Handler) web.Handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			ip, err := client.GetIPAddr(r)
			if err != nil {
				return handler(ctx, w, r)
			}

			allowed, err := limiter.Allow(ctx, ip)
			if err != nil {
				log.WithError(err).WithField("ip", ip).Warn("failed to check rate limit")
				return handler(ctx, w, r)
			}
			if !allowed {
				metrics.RecordCount(ctx, rateLimitedMetricName, 1)
				return web.NewRequestError(ErrRateLimited, http.StatusTooManyRequests)
			}

			return handler(ctx, w, r)
		}
	}
}
