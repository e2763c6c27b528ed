package username

import (
	"crypto/ed25519"

	"github.com/code-payments/fragments/pkg/solana"
	"github.com/code-payments/fragments/pkg/solana/anchor"
	"github.com/code-payments/fragments/pkg/solana/system"
)

var UpdateUsernameInstructionDiscriminator = anchor.InstructionDiscriminator("update_username")

type UpdateUsernameInstructionArgs struct {
	Username string
}

type UpdateUsernameInstructionAccounts struct {
	Authority   ed25519.PublicKey
	UserAccount ed25519.PublicKey

	// UsernameRecord must be derived with the account's current change count
	UsernameRecord ed25519.PublicKey
}

func NewUpdateUsernameInstruction(
	program ed25519.PublicKey,
	accounts *UpdateUsernameInstructionAccounts,
	args *UpdateUsernameInstructionArgs,
) solana.Instruction {
	return solana.NewInstruction(
		program,
		usernameInstructionData(UpdateUsernameInstructionDiscriminator, args.Username),
		solana.NewAccountMeta(accounts.Authority, true),
		solana.NewAccountMeta(accounts.UserAccount, false),
		solana.NewAccountMeta(accounts.UsernameRecord, false),
		system.AccountMeta(),
	)
}
