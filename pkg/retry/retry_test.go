package retry

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/code-payments/fragments/pkg/retry/backoff"
)

func TestRetry_SucceedsEventually(t *testing.T) {
	var calls int
	attempts, err := Retry(func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.EqualValues(t, 3, attempts)
}

func TestRetry_RealSleep(t *testing.T) {
	start := time.Now()
	attempts, err := Retry(
		func() error { return errors.New("err") },
		Limit(2),
		Backoff(backoff.Constant(200*time.Millisecond), time.Second),
	)
	assert.Error(t, err)
	assert.EqualValues(t, 2, attempts)
	assert.True(t, time.Since(start) >= 200*time.Millisecond)
	assert.True(t, time.Since(start) < time.Second)
}

func TestRetrier(t *testing.T) {
	retriable := errors.New("retriable")
	r := NewRetrier(Limit(5), RetriableErrors(retriable))

	attempts, err := r.Retry(func() error { return nil })
	assert.NoError(t, err)
	assert.EqualValues(t, 1, attempts)

	attempts, err = r.Retry(func() error { return errors.New("unknown") })
	assert.EqualError(t, err, "unknown")
	assert.EqualValues(t, 1, attempts)

	attempts, err = r.Retry(func() error { return errors.Wrap(retriable, "wrapped") })
	assert.True(t, errors.Is(err, retriable))
	assert.EqualValues(t, 5, attempts)
}
