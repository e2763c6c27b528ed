package web

import (
	"encoding/json"
	"net/http"

	"github.com/dimfeld/httptreemux/v5"
	"github.com/pkg/errors"
)

// Param returns the named route parameter of the request
func Param(r *http.Request, key string) string {
	return httptreemux.ContextParams(r.Context())[key]
}

// Route returns the route pattern the request matched, eg. /solana/counter/:address
func Route(r *http.Request) string {
	if data := httptreemux.ContextData(r.Context()); data != nil {
		return data.Route()
	}
	return r.URL.Path
}

// Decode reads a JSON body into val and validates it. Malformed bodies are
// returned as a 400 RequestError and rule violations as FieldErrors.
func Decode(r *http.Request, val interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(val); err != nil {
		return NewRequestError(errors.Wrap(err, "invalid request body"), http.StatusBadRequest)
	}
	return Check(val)
}
