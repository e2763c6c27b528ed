package counter

import (
	"crypto/ed25519"

	"github.com/code-payments/fragments/pkg/solana"
	"github.com/code-payments/fragments/pkg/solana/anchor"
	"github.com/code-payments/fragments/pkg/solana/system"
)

var InitializeInstructionDiscriminator = anchor.InstructionDiscriminator("initialize")

type InitializeInstructionAccounts struct {
	User    ed25519.PublicKey
	Counter ed25519.PublicKey
}

func NewInitializeInstruction(
	program ed25519.PublicKey,
	accounts *InitializeInstructionAccounts,
) solana.Instruction {
	data := append([]byte(nil), InitializeInstructionDiscriminator...)

	return solana.NewInstruction(
		program,
		data,
		solana.NewAccountMeta(accounts.User, true),
		solana.NewAccountMeta(accounts.Counter, false),
		system.AccountMeta(),
	)
}
