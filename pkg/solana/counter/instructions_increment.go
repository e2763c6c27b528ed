package counter

import (
	"crypto/ed25519"

	"github.com/code-payments/fragments/pkg/solana"
	"github.com/code-payments/fragments/pkg/solana/anchor"
)

var IncrementInstructionDiscriminator = anchor.InstructionDiscriminator("increment")

type IncrementInstructionAccounts struct {
	Counter ed25519.PublicKey
	User    ed25519.PublicKey
}

func NewIncrementInstruction(
	program ed25519.PublicKey,
	accounts *IncrementInstructionAccounts,
) solana.Instruction {
	data := append([]byte(nil), IncrementInstructionDiscriminator...)

	return solana.NewInstruction(
		program,
		data,
		solana.NewAccountMeta(accounts.Counter, false),
		solana.NewAccountMeta(accounts.User, true),
	)
}
