package program

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/code-payments/fragments/pkg/solana"
	"github.com/code-payments/fragments/pkg/solana/confirm"
)

var (
	// ErrAccountNotFound indicates a program account has not been created
	ErrAccountNotFound = errors.New("program account not found")

	// ErrNotConfirmed indicates a transaction was submitted, but wasn't seen
	// at the confirmed commitment in time. Its outcome is unknown.
	ErrNotConfirmed = errors.New("transaction sent but not confirmed")

	// ErrSlotNotReached indicates the ledger didn't reach a slot in time
	ErrSlotNotReached = errors.New("slot not reached")
)

// NotConfirmedError carries the confirmation result of a submitted
// transaction. It matches ErrNotConfirmed with errors.Is.
type NotConfirmedError struct {
	Signature solana.Signature
	Result    confirm.Result
}

func (e *NotConfirmedError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", ErrNotConfirmed.Error(), e.Signature.String(), e.Result.String())
}

func (e *NotConfirmedError) Is(target error) bool {
	return target == ErrNotConfirmed
}

// IsTimeout reports whether confirmation gave up waiting, as opposed to
// the transaction landing with an error
func (e *NotConfirmedError) IsTimeout() bool {
	return e.Result.Reason() == confirm.ReasonTimedOut
}

// CustomErrorCode extracts the custom program error code from a rejected or
// failed transaction
func CustomErrorCode(err error) (solana.CustomError, bool) {
	var txErr *solana.TransactionError
	if !errors.As(err, &txErr) {
		var notConfirmed *NotConfirmedError
		if !errors.As(err, &notConfirmed) || !errors.As(notConfirmed.Result.Err(), &txErr) {
			return 0, false
		}
	}

	instructionErr := txErr.InstructionError()
	if instructionErr == nil {
		return 0, false
	}

	code := instructionErr.CustomError()
	if code == nil {
		return 0, false
	}
	return *code, true
}
