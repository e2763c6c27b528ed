package counter

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/fragments/pkg/solana"
)

var (
	ErrInvalidAccountData = errors.New("unexpected account data")
)

var (
	CounterPrefix = []byte("counter")
)

type GetCounterAddressArgs struct {
	Program ed25519.PublicKey
	User    ed25519.PublicKey
}

func GetCounterAddress(args *GetCounterAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		args.Program,
		CounterPrefix,
		args.User,
	)
}
