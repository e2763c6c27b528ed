package round

import (
	"crypto/ed25519"

	"github.com/code-payments/fragments/pkg/solana"
	"github.com/code-payments/fragments/pkg/solana/anchor"
)

var CompleteRoundInstructionDiscriminator = anchor.InstructionDiscriminator("complete_round")

type CompleteRoundInstructionAccounts struct {
	Round     ed25519.PublicKey
	Authority ed25519.PublicKey
}

func NewCompleteRoundInstruction(
	program ed25519.PublicKey,
	accounts *CompleteRoundInstructionAccounts,
) solana.Instruction {
	data := append([]byte(nil), CompleteRoundInstructionDiscriminator...)

	return solana.NewInstruction(
		program,
		data,
		solana.NewAccountMeta(accounts.Round, false),
		solana.NewAccountMeta(accounts.Authority, true),
	)
}
