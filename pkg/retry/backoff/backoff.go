// Package backoff computes the delay between retry attempts.
package backoff

import (
	"math"
	"time"
)

// Strategy maps an attempt number, starting at 1, to a delay
type Strategy func(attempts uint) time.Duration

// Constant always waits interval
func Constant(interval time.Duration) Strategy {
	return func(uint) time.Duration {
		return interval
	}
}

// BinaryExponential doubles the delay after every attempt, starting at
// baseDelay. Overflow saturates at the largest duration.
func BinaryExponential(baseDelay time.Duration) Strategy {
	return func(attempts uint) time.Duration {
		if attempts == 0 {
			attempts = 1
		}

		delay := float64(baseDelay) * math.Pow(2, float64(attempts-1))
		if delay >= math.MaxInt64 {
			return math.MaxInt64
		}
		return time.Duration(delay)
	}
}
