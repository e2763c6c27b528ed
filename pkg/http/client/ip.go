package client

import (
	"net"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

const (
	clientIPHeader = "X-Forwarded-For"
)

// GetIPAddr gets the client's IP address, preferring the first hop recorded
// by a proxy over the connection's remote address
func GetIPAddr(r *http.Request) (string, error) {
	if forwarded := r.Header.Get(clientIPHeader); len(forwarded) > 0 {
		first := strings.TrimSpace(strings.SplitN(forwarded, ",", 2)[0])
		if len(first) > 0 {
			return first, nil
		}
	}

	if len(r.RemoteAddr) == 0 {
		return "", errors.New("remote address not set")
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr, nil
	}
	return host, nil
}
