package env

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/code-payments/fragments/pkg/config"
)

func TestConfigDoesntExist(t *testing.T) {
	const env = "ENV_CONFIG_TEST_VAR"
	t.Setenv(env, "default")

	v, err := NewConfig(env).Get(context.Background())
	assert.Equal(t, []byte("default"), v)
	assert.Nil(t, err)

	t.Setenv(env, "")

	v, err = NewConfig(env).Get(context.Background())
	assert.Nil(t, v)
	assert.Equal(t, config.ErrNoValue, err)
}

func TestConfigAliases(t *testing.T) {
	t.Setenv("env_alias_test_var", "lower")

	v, err := NewConfig("ENV_ALIAS_TEST_VAR", "env_alias_test_var").Get(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, []byte("lower"), v)

	// The primary name wins when both are set
	t.Setenv("ENV_ALIAS_TEST_VAR", "upper")
	v, err = NewConfig("ENV_ALIAS_TEST_VAR", "env_alias_test_var").Get(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, []byte("upper"), v)
}

func TestTypedConfigs(t *testing.T) {
	t.Setenv("ENV_TYPED_TEST_TIMEOUT", "250")
	t.Setenv("ENV_TYPED_TEST_LIMIT", "7")

	assert.Equal(t, 250*time.Millisecond, NewDurationConfig("ENV_TYPED_TEST_TIMEOUT", time.Second).Get(context.Background()))
	assert.EqualValues(t, 7, NewUint64Config("ENV_TYPED_TEST_LIMIT", 1).Get(context.Background()))
	assert.Equal(t, "fallback", NewStringConfig("ENV_TYPED_TEST_MISSING", "fallback").Get(context.Background()))
}
