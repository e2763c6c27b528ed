// Package memory provides a config.Config whose value is held in process,
// used for values read from the app config file and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/code-payments/fragments/pkg/config"
)

// Config holds a single mutable value. A nil value reports config.ErrNoValue.
type Config struct {
	mu       sync.RWMutex
	value    interface{}
	err      error
	shutdown bool
}

func NewConfig(value interface{}) *Config {
	return &Config{value: value}
}

// Get implements config.Config.Get
func (c *Config) Get(_ context.Context) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch {
	case c.shutdown:
		return nil, config.ErrShutdown
	case c.err != nil:
		return nil, c.err
	case c.value == nil:
		return nil, config.ErrNoValue
	}
	return c.value, nil
}

// Shutdown implements config.Config.Shutdown
func (c *Config) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shutdown = true
}

// Set replaces the value. Passing nil unsets it.
func (c *Config) Set(value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
}

// Fail makes Get return err until Fail(nil) is called
func (c *Config) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}
