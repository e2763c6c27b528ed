package api

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/code-payments/fragments/pkg/fragments/data/keypair"
	"github.com/code-payments/fragments/pkg/fragments/program"
	"github.com/code-payments/fragments/pkg/http/web"
	"github.com/code-payments/fragments/pkg/solana/username"
)

var (
	errInvalidAddress       = errors.New("Invalid Solana address")
	errConfirmationTimedOut = errors.New("Transaction sent but confirmation timed out")
)

// programError translates program client failures into responses. A timed
// out confirmation leaves the outcome unknown, so it's a server error with a
// message that says so. Transactions that landed with an error are plain
// server errors.
func programError(err error) error {
	var notConfirmed *program.NotConfirmedError
	if errors.As(err, &notConfirmed) {
		if notConfirmed.IsTimeout() {
			return web.NewRequestError(errConfirmationTimedOut, http.StatusInternalServerError)
		}
		return err
	}

	switch {
	case errors.Is(err, program.ErrAccountNotFound), errors.Is(err, keypair.ErrKeypairNotFound):
		return web.NewRequestError(err, http.StatusNotFound)
	}

	switch err {
	case username.ErrUsernameTooLong,
		username.ErrUsernameTooShort,
		username.ErrUsernameInvalidCharacters,
		username.ErrUsernameAlreadyAssigned:
		return web.NewRequestError(err, http.StatusBadRequest)
	}
	return err
}
