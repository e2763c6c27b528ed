package config

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppConfigKey(t *testing.T) {
	assert.Equal(t, "confirm_timeout", AppConfigKey(ConfirmTimeoutConfigEnvName))
	assert.Equal(t, "counter_program_id", AppConfigKey(CounterProgramIdEnvName))
}

func TestWithAppConfigs(t *testing.T) {
	clearEnv(t)
	for _, name := range []string{ConfirmTimeoutConfigEnvName, KeypairStoreConfigEnvName, AirdropRateLimitConfigEnvName} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}

	ctx := context.Background()
	values := map[string]interface{}{
		"confirm_timeout":    "2s",
		"keypair_store":      KeypairStoreLevelDB,
		"airdrop_rate_limit": 3,
		"counter_program_id": "11111111111111111111111111111111",
	}

	conf := WithAppConfigs(values)()
	assert.Equal(t, 2*time.Second, conf.ConfirmTimeout.Get(ctx))
	assert.Equal(t, KeypairStoreLevelDB, conf.KeypairStore.Get(ctx))
	assert.EqualValues(t, 3, conf.AirdropRateLimit.Get(ctx))
	assert.Equal(t, "11111111111111111111111111111111", conf.CounterProgram.Get(ctx))

	// Unset values fall back to the defaults
	assert.Equal(t, defaultSlotPollInterval, conf.SlotPollInterval.Get(ctx))
	assert.Equal(t, defaultSqlitePath, conf.SqlitePath.Get(ctx))
	assert.Equal(t, "", conf.RoundProgram.Get(ctx))

	// The environment wins over app values
	t.Setenv(ConfirmTimeoutConfigEnvName, "750")
	t.Setenv(KeypairStoreConfigEnvName, KeypairStoreMemory)

	conf = WithAppConfigs(values)()
	assert.Equal(t, 750*time.Millisecond, conf.ConfirmTimeout.Get(ctx))
	assert.Equal(t, KeypairStoreMemory, conf.KeypairStore.Get(ctx))
}
