package wrapper

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/code-payments/fragments/pkg/config"
)

// ErrUnsuportedConversion indicates the wrapper does not implement conversion from the source type
var ErrUnsuportedConversion = errors.New("config: wrapper conversion from source type not implemented")

// ParseFunc converts the raw bytes of an override, as produced by the env
// provider, into T
type ParseFunc[T any] func(raw string) (T, error)

// TypedConfig wraps an untyped config with a default value. Overrides are
// accepted either as T directly or as raw bytes run through the parser.
type TypedConfig[T any] struct {
	override     config.Config
	defaultValue T
	parse        ParseFunc[T]

	stateMu   sync.RWMutex
	lastValue T
}

func NewTypedConfig[T any](override config.Config, defaultValue T, parse ParseFunc[T]) *TypedConfig[T] {
	return &TypedConfig[T]{
		override:     override,
		defaultValue: defaultValue,
		parse:        parse,
		lastValue:    defaultValue,
	}
}

// GetSafe gets a config value and propagates any errors that arise. A best-effort
// attempt is made to return the last known value
func (c *TypedConfig[T]) GetSafe(ctx context.Context) (T, error) {
	override, err := c.override.Get(ctx)

	c.stateMu.RLock()
	lastValue := c.lastValue
	c.stateMu.RUnlock()

	if err == config.ErrNoValue {
		c.set(c.defaultValue)
		return c.defaultValue, nil
	} else if err != nil {
		return lastValue, err
	}

	var newValue T
	switch override := override.(type) {
	case T:
		newValue = override
	case []byte:
		if c.parse == nil {
			return lastValue, ErrUnsuportedConversion
		}

		newValue, err = c.parse(string(override))
		if err != nil {
			return lastValue, err
		}
	default:
		return lastValue, ErrUnsuportedConversion
	}

	c.set(newValue)
	return newValue, nil
}

// Get is a wrapper for GetSafe that ignores the returned error
func (c *TypedConfig[T]) Get(ctx context.Context) T {
	val, _ := c.GetSafe(ctx)
	return val
}

// Shutdown signals the config to stop all underlying resources
func (c *TypedConfig[T]) Shutdown() {
	c.override.Shutdown()
}

func (c *TypedConfig[T]) set(value T) {
	c.stateMu.Lock()
	c.lastValue = value
	c.stateMu.Unlock()
}

func NewBoolConfig(override config.Config, defaultValue bool) config.Bool {
	return NewTypedConfig(override, defaultValue, strconv.ParseBool)
}

func NewInt64Config(override config.Config, defaultValue int64) config.Int64 {
	return NewTypedConfig(override, defaultValue, func(raw string) (int64, error) {
		return strconv.ParseInt(raw, 10, 64)
	})
}

func NewUint64Config(override config.Config, defaultValue uint64) config.Uint64 {
	return NewTypedConfig(override, defaultValue, func(raw string) (uint64, error) {
		return strconv.ParseUint(raw, 10, 64)
	})
}

func NewStringConfig(override config.Config, defaultValue string) config.String {
	return NewTypedConfig(override, defaultValue, func(raw string) (string, error) {
		return raw, nil
	})
}

// NewDurationConfig accepts Go duration strings ("5s") as well as a plain
// number of milliseconds
func NewDurationConfig(override config.Config, defaultValue time.Duration) config.Duration {
	return NewTypedConfig(override, defaultValue, func(raw string) (time.Duration, error) {
		if millis, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return time.Duration(millis) * time.Millisecond, nil
		}
		return time.ParseDuration(raw)
	})
}
