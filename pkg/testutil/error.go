package testutil

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorResponse verifies that the recorded response has the provided
// status code and a JSON body of the form {"error": message}.
func AssertErrorResponse(t *testing.T, rec *httptest.ResponseRecorder, code int, message string) {
	require.Equal(t, code, rec.Code, rec.Body.String())

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, message, body.Error)
}
