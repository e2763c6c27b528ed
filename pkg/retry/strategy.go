package retry

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/code-payments/fragments/pkg/retry/backoff"
)

// Strategy decides whether another attempt follows a failure. Strategies may
// block, which is how delays between attempts are introduced.
type Strategy func(attempts uint, err error) bool

// Limit caps the total number of attempts, including the first
func Limit(maxAttempts uint) Strategy {
	return func(attempts uint, _ error) bool {
		return attempts < maxAttempts
	}
}

// RetriableErrors only allows another attempt when the failure matches one
// of errs
func RetriableErrors(errs ...error) Strategy {
	return func(_ uint, err error) bool {
		for _, target := range errs {
			if errors.Is(err, target) {
				return true
			}
		}
		return false
	}
}

// Context stops retrying once ctx is done
func Context(ctx context.Context) Strategy {
	return func(_ uint, _ error) bool {
		return ctx.Err() == nil
	}
}

// Backoff sleeps for the delay given by strategy, capped at maxDelay
func Backoff(strategy backoff.Strategy, maxDelay time.Duration) Strategy {
	return BackoffWithJitter(strategy, maxDelay, 0)
}

// BackoffWithJitter behaves like Backoff, but spreads the capped delay by up
// to +/- jitter of itself. A jitter of 0.1 turns 100ms into 90ms to 110ms.
func BackoffWithJitter(strategy backoff.Strategy, maxDelay time.Duration, jitter float64) Strategy {
	return func(attempts uint, _ error) bool {
		delay := strategy(attempts)
		if delay > maxDelay {
			delay = maxDelay
		}

		if jitter > 0 {
			spread := rand.Float64()*2*jitter - jitter
			delay = time.Duration(float64(delay) * (1 + spread))
		}

		sleep(delay)
		return true
	}
}

// Overridden in tests
var sleep = time.Sleep
