package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRequest struct {
	Name  string `json:"name" validate:"required,max=5"`
	Count *int   `json:"count" validate:"required,gte=0"`
}

func TestApp_RoutesAndParams(t *testing.T) {
	var order []string
	trace := func(name string) Middleware {
		return func(handler Handler) Handler {
			return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				order = append(order, name)
				return handler(ctx, w, r)
			}
		}
	}

	app := NewApp(trace("app"))
	app.Handle(http.MethodGet, "group", "/items/:id", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		order = append(order, "handler")

		assert.NotEmpty(t, GetTraceID(ctx))
		assert.Equal(t, "/group/items/:id", Route(r))
		return Respond(ctx, w, map[string]string{"id": Param(r, "id")}, http.StatusOK)
	}, trace("route"))

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/group/items/abc", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"abc"}`, rec.Body.String())
	assert.Equal(t, []string{"app", "route", "handler"}, order)
}

func TestApp_NotFound(t *testing.T) {
	app := NewApp()

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())
}

func TestRespond_NoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, Respond(context.Background(), rec, map[string]string{"ignored": "yes"}, http.StatusNoContent))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())

	rec = httptest.NewRecorder()
	require.NoError(t, Respond(context.Background(), rec, nil, http.StatusOK))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestDecode(t *testing.T) {
	for _, tc := range []struct {
		body   string
		fields []string
	}{
		{body: `{"name":"abc","count":0}`},
		{body: `{}`, fields: []string{"name", "count"}},
		{body: `{"name":"toolong","count":1}`, fields: []string{"name"}},
		{body: `{"name":"abc","count":-1}`, fields: []string{"count"}},
	} {
		var req testRequest
		err := Decode(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body)), &req)
		if len(tc.fields) == 0 {
			assert.NoError(t, err, tc.body)
			continue
		}

		require.True(t, IsFieldErrors(err), tc.body)
		fields := GetFieldErrors(err).Fields()
		assert.Len(t, fields, len(tc.fields), tc.body)
		for _, field := range tc.fields {
			assert.Contains(t, fields, field, tc.body)
		}
	}
}

func TestDecode_Malformed(t *testing.T) {
	var req testRequest
	err := Decode(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`)), &req)

	reqErr := GetRequestError(err)
	require.NotNil(t, reqErr)
	assert.Equal(t, http.StatusBadRequest, reqErr.Status)
}

func TestRequestError_Wrapping(t *testing.T) {
	cause := errors.New("boom")
	err := errors.Wrap(NewRequestError(cause, http.StatusConflict), "context")

	assert.True(t, IsRequestError(err))
	assert.Equal(t, http.StatusConflict, GetRequestError(err).Status)
	assert.True(t, errors.Is(err, cause))
	assert.False(t, IsRequestError(cause))
	assert.Nil(t, GetRequestError(cause))
}
