package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/code-payments/fragments/pkg/config"
	"github.com/code-payments/fragments/pkg/config/env"
	"github.com/code-payments/fragments/pkg/config/memory"
	"github.com/code-payments/fragments/pkg/config/wrapper"
)

// WithAppConfigs returns configuration backed by environment variables, then
// by values, then by defaults. Keys in values are the snake case form of the
// variable name without the FRAGMENTS_ prefix, eg. confirm_timeout.
func WithAppConfigs(values map[string]interface{}) ConfigProvider {
	return func() *Config {
		defaults := WithEnvConfigs()()

		return &Config{
			CounterProgram:  layeredString(values, CounterProgramIdEnvName, defaults.CounterProgram, lowercasePrefixed(CounterProgramIdEnvName)),
			RoundProgram:    layeredString(values, RoundProgramIdEnvName, defaults.RoundProgram, lowercasePrefixed(RoundProgramIdEnvName)),
			UsernameProgram: layeredString(values, UsernameProgramIdEnvName, defaults.UsernameProgram, lowercasePrefixed(UsernameProgramIdEnvName)),

			SolanaRpcUrl: layeredString(values, SolanaRpcUrlConfigEnvName, defaults.SolanaRpcUrl),
			SolanaWsUrl:  layeredString(values, SolanaWsUrlConfigEnvName, defaults.SolanaWsUrl),
			PostgresUrl:  layeredString(values, PostgresUrlConfigEnvName, defaults.PostgresUrl),
			RedisUrl:     layeredString(values, RedisUrlConfigEnvName, defaults.RedisUrl),
			SqlitePath:   layeredString(values, SqlitePathConfigEnvName, defaults.SqlitePath),

			ConfirmTimeout: wrapper.NewDurationConfig(
				layered(values, ConfirmTimeoutConfigEnvName),
				defaults.ConfirmTimeout.Get(context.Background()),
			),
			SlotPollInterval: wrapper.NewDurationConfig(
				layered(values, SlotPollIntervalConfigEnvName),
				defaults.SlotPollInterval.Get(context.Background()),
			),

			KeypairStore:     layeredString(values, KeypairStoreConfigEnvName, defaults.KeypairStore),
			KeypairStorePath: layeredString(values, KeypairStorePathConfigEnvName, defaults.KeypairStorePath),

			AirdropRateLimit: wrapper.NewUint64Config(
				layered(values, AirdropRateLimitConfigEnvName),
				defaults.AirdropRateLimit.Get(context.Background()),
			),
			RateLimiter: layeredString(values, RateLimiterConfigEnvName, defaults.RateLimiter),
		}
	}
}

// AppConfigKey is the key under app: for the named environment variable
func AppConfigKey(envName string) string {
	return strings.ToLower(strings.TrimPrefix(envName, envConfigPrefix))
}

func layeredString(values map[string]interface{}, envName string, defaults config.String, aliases ...string) config.String {
	return wrapper.NewStringConfig(layered(values, envName, aliases...), defaults.Get(context.Background()))
}

// layered reads the environment first, then the app value
func layered(values map[string]interface{}, envName string, aliases ...string) config.Config {
	fileValue := memory.NewConfig(nil)
	if v, ok := values[AppConfigKey(envName)]; ok && v != nil {
		fileValue.Set([]byte(fmt.Sprint(v)))
	}

	return &layeredConfig{
		layers: []config.Config{
			env.NewConfig(envName, aliases...),
			fileValue,
		},
	}
}

type layeredConfig struct {
	layers []config.Config
}

// Get implements config.Config.Get
func (c *layeredConfig) Get(ctx context.Context) (interface{}, error) {
	for _, layer := range c.layers {
		val, err := layer.Get(ctx)
		if err == config.ErrNoValue {
			continue
		}
		return val, err
	}
	return nil, config.ErrNoValue
}

// Shutdown implements config.Config.Shutdown
func (c *layeredConfig) Shutdown() {
	for _, layer := range c.layers {
		layer.Shutdown()
	}
}
