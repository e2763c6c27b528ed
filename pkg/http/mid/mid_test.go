package mid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	xrate "golang.org/x/time/rate"

	"github.com/code-payments/fragments/pkg/http/web"
	"github.com/code-payments/fragments/pkg/rate"
)

func serve(t *testing.T, handler web.Handler, mw ...web.Middleware) *httptest.ResponseRecorder {
	log := logrus.StandardLogger().WithField("type", "http/mid/test")

	app := web.NewApp(append([]web.Middleware{Logger(log), Errors(log), Metrics(nil), Panics()}, mw...)...)
	app.Handle(http.MethodGet, "", "/test", handler)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	return rec
}

func TestErrors(t *testing.T) {
	for _, tc := range []struct {
		err      error
		status   int
		expected string
	}{
		{
			err:      web.NewRequestError(errors.New("not here"), http.StatusNotFound),
			status:   http.StatusNotFound,
			expected: `{"error":"not here"}`,
		},
		{
			err:      web.FieldErrors{{Field: "name", Err: "name is a required field"}},
			status:   http.StatusBadRequest,
			expected: `{"error":"data validation error","fields":{"name":"name is a required field"}}`,
		},
		{
			err:      errors.New("database exploded"),
			status:   http.StatusInternalServerError,
			expected: `{"error":"Internal Server Error"}`,
		},
	} {
		rec := serve(t, func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			return tc.err
		})

		assert.Equal(t, tc.status, rec.Code)
		assert.JSONEq(t, tc.expected, rec.Body.String())
	}
}

func TestPanics(t *testing.T) {
	rec := serve(t, func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		panic("unexpected")
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	log := logrus.StandardLogger().WithField("type", "http/mid/test")
	limiter := RateLimit(log, rate.NewLocalRateLimiter(xrate.Limit(2)))

	var calls int
	handler := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		calls++
		return web.Respond(ctx, w, nil, http.StatusOK)
	}

	var codes []int
	for i := 0; i < 3; i++ {
		codes = append(codes, serve(t, handler, limiter).Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 2, calls)
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("unavailable")
}

func TestRateLimit_FailsOpen(t *testing.T) {
	log := logrus.StandardLogger().WithField("type", "http/mid/test")

	rec := serve(t, func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Respond(ctx, w, nil, http.StatusOK)
	}, RateLimit(log, failingLimiter{}))

	assert.Equal(t, http.StatusOK, rec.Code)
}
