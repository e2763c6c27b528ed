package round

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/fragments/pkg/solana"
)

var (
	ErrInvalidAccountData = errors.New("unexpected account data")
)

var (
	RoundPrefix = []byte("round")
)

// Custom program errors, in declaration order starting at the Anchor offset
const (
	ErrorCodeInvalidStartSlot solana.CustomError = 6000 + iota
	ErrorCodeRoundAlreadyActive
	ErrorCodeRoundNotYetActive
	ErrorCodeRoundAlreadyComplete
	ErrorCodeInvalidRoundActivationSlot
)

type GetRoundAddressArgs struct {
	Program   ed25519.PublicKey
	Authority ed25519.PublicKey
}

func GetRoundAddress(args *GetRoundAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		args.Program,
		RoundPrefix,
		args.Authority,
	)
}
