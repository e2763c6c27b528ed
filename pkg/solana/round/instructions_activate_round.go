package round

import (
	"crypto/ed25519"

	"github.com/code-payments/fragments/pkg/solana"
	"github.com/code-payments/fragments/pkg/solana/anchor"
)

var ActivateRoundInstructionDiscriminator = anchor.InstructionDiscriminator("activate_round")

type ActivateRoundInstructionAccounts struct {
	Round ed25519.PublicKey

	// Payer signs and is recorded as the activator
	Payer ed25519.PublicKey
}

func NewActivateRoundInstruction(
	program ed25519.PublicKey,
	accounts *ActivateRoundInstructionAccounts,
) solana.Instruction {
	data := append([]byte(nil), ActivateRoundInstructionDiscriminator...)

	return solana.NewInstruction(
		program,
		data,
		solana.NewAccountMeta(accounts.Round, false),
		solana.NewAccountMeta(accounts.Payer, true),
	)
}
