package confirm

import "fmt"

// Reason explains why a transaction or slot wasn't confirmed
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonTimedOut
	ReasonErrored
	ReasonCanceled
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonTimedOut:
		return "timed_out"
	case ReasonErrored:
		return "errored"
	case ReasonCanceled:
		return "canceled"
	}
	return fmt.Sprintf("unknown(%d)", r)
}

// Result is either Confirmed, or NotConfirmed with a Reason. Failures are
// carried for logging only; callers branch on Ok and Reason.
type Result struct {
	reason Reason
	err    error
}

func Confirmed() Result {
	return Result{}
}

func NotConfirmed(reason Reason, err error) Result {
	return Result{reason: reason, err: err}
}

func (r Result) Ok() bool {
	return r.reason == ReasonNone
}

func (r Result) Reason() Reason {
	return r.reason
}

// Err is the underlying failure, if any
func (r Result) Err() error {
	return r.err
}

func (r Result) String() string {
	if r.Ok() {
		return "confirmed"
	}
	if r.err != nil {
		return fmt.Sprintf("not confirmed (%s): %v", r.reason, r.err)
	}
	return fmt.Sprintf("not confirmed (%s)", r.reason)
}
