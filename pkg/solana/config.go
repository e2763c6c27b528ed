package solana

import "fmt"

const (
	DefaultHost    = "127.0.0.1"
	DefaultCIHost  = "solana"
	DefaultRPCPort = 8899
	DefaultWSPort  = 8900
)

// Endpoints are the RPC and websocket URLs of a validator
type Endpoints struct {
	RPC       string
	WebSocket string
}

// LocalEndpoints returns the endpoints of a validator running on host with
// the default ports
func LocalEndpoints(host string) Endpoints {
	if len(host) == 0 {
		host = DefaultHost
	}

	return Endpoints{
		RPC:       fmt.Sprintf("http://%s:%d", host, DefaultRPCPort),
		WebSocket: fmt.Sprintf("ws://%s:%d", host, DefaultWSPort),
	}
}
