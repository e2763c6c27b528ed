package client

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetIPAddr(t *testing.T) {
	tt := map[string]struct {
		remoteAddr string
		forwarded  string
		hasIP      bool
		expectedIP string
	}{
		"noAddress": {
			hasIP: false,
		},
		"remoteAddrOnly": {
			remoteAddr: "10.0.0.1:5432",
			hasIP:      true,
			expectedIP: "10.0.0.1",
		},
		"remoteAddrWithoutPort": {
			remoteAddr: "10.0.0.1",
			hasIP:      true,
			expectedIP: "10.0.0.1",
		},
		"forwarded": {
			remoteAddr: "10.0.0.1:5432",
			forwarded:  "127.0.0.1, 10.0.0.2",
			hasIP:      true,
			expectedIP: "127.0.0.1",
		},
	}

	for name, tc := range tt {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tc.remoteAddr
			if len(tc.forwarded) > 0 {
				r.Header.Set(clientIPHeader, tc.forwarded)
			}

			actual, err := GetIPAddr(r)
			assert.Equal(t, tc.hasIP, err == nil)
			assert.Equal(t, tc.expectedIP, actual)
		})
	}
}
