package env

import (
	"context"
	"os"
	"time"

	"github.com/code-payments/fragments/pkg/config"
	"github.com/code-payments/fragments/pkg/config/wrapper"
)

type conf struct {
	val string
}

// NewConfig reads the first non-empty variable among key and its aliases.
// Names are used as given since some deployments export lowercase variants.
func NewConfig(key string, aliases ...string) config.Config {
	client := &conf{}
	for _, name := range append([]string{key}, aliases...) {
		if val := os.Getenv(name); len(val) > 0 {
			client.val = val
			break
		}
	}
	return client
}

// Get implements Config.Get
func (c *conf) Get(ctx context.Context) (interface{}, error) {
	if len(c.val) == 0 {
		return nil, config.ErrNoValue
	}

	return []byte(c.val), nil
}

// Shutdown implements Config.Shutdown
func (c *conf) Shutdown() {
}

// NewInt64Config creates a env-based int64 config
func NewInt64Config(key string, defaultValue int64, aliases ...string) config.Int64 {
	return wrapper.NewInt64Config(NewConfig(key, aliases...), defaultValue)
}

// NewUint64Config creates a env-based uint64 config
func NewUint64Config(key string, defaultValue uint64, aliases ...string) config.Uint64 {
	return wrapper.NewUint64Config(NewConfig(key, aliases...), defaultValue)
}

// NewStringConfig creates a env-based string config
func NewStringConfig(key string, defaultValue string, aliases ...string) config.String {
	return wrapper.NewStringConfig(NewConfig(key, aliases...), defaultValue)
}

// NewBoolConfig creates a env-based bool config
func NewBoolConfig(key string, defaultValue bool, aliases ...string) config.Bool {
	return wrapper.NewBoolConfig(NewConfig(key, aliases...), defaultValue)
}

// NewDurationConfig creates a env-based duration config
func NewDurationConfig(key string, defaultValue time.Duration, aliases ...string) config.Duration {
	return wrapper.NewDurationConfig(NewConfig(key, aliases...), defaultValue)
}
