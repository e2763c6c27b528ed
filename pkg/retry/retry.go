// Package retry runs actions until they succeed or a Strategy gives up.
package retry

// Action is a unit of work that may be attempted more than once
type Action func() error

// Retrier runs actions against a fixed set of strategies
type Retrier interface {
	Retry(action Action) (uint, error)
}

type retrier []Strategy

// NewRetrier binds strategies so they can be shared by many calls. With no
// strategies the action is attempted until it succeeds.
func NewRetrier(strategies ...Strategy) Retrier {
	return retrier(strategies)
}

func (r retrier) Retry(action Action) (uint, error) {
	return Retry(action, r...)
}

// Retry attempts action until it returns nil or a strategy rejects the
// latest error, and reports the number of attempts made.
//
// Strategies run in order after every failed attempt and evaluation stops at
// the first rejection, so strategies that sleep belong last.
func Retry(action Action, strategies ...Strategy) (uint, error) {
	var attempts uint
	for {
		attempts++

		err := action()
		if err == nil {
			return attempts, nil
		}

		if !shouldRetry(strategies, attempts, err) {
			return attempts, err
		}
	}
}

func shouldRetry(strategies []Strategy, attempts uint, err error) bool {
	for _, strategy := range strategies {
		if !strategy(attempts, err) {
			return false
		}
	}
	return true
}
