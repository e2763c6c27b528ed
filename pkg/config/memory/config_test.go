package memory

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/fragments/pkg/config"
)

func TestConfig(t *testing.T) {
	ctx := context.Background()

	c := NewConfig(nil)
	_, err := c.Get(ctx)
	assert.Equal(t, config.ErrNoValue, err)

	c.Set([]byte("value"))
	val, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), val)

	failure := errors.New("unavailable")
	c.Fail(failure)
	_, err = c.Get(ctx)
	assert.Equal(t, failure, err)

	c.Fail(nil)
	c.Set(nil)
	_, err = c.Get(ctx)
	assert.Equal(t, config.ErrNoValue, err)

	c.Set("value")
	c.Shutdown()
	_, err = c.Get(ctx)
	assert.Equal(t, config.ErrShutdown, err)
}
