package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

// Respond writes data as JSON with statusCode. No body is written for 204 or
// nil data.
func Respond(ctx context.Context, w http.ResponseWriter, data interface{}, statusCode int) error {
	setStatusCode(ctx, statusCode)

	if statusCode == http.StatusNoContent || data == nil {
		w.WriteHeader(statusCode)
		return nil
	}

	body, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "error marshalling response")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if _, err := w.Write(body); err != nil {
		return errors.Wrap(err, "error writing response")
	}
	return nil
}
