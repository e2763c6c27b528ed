package username

import (
	"crypto/ed25519"

	"github.com/code-payments/fragments/pkg/solana"
	"github.com/code-payments/fragments/pkg/solana/anchor"
	"github.com/code-payments/fragments/pkg/solana/binary"
	"github.com/code-payments/fragments/pkg/solana/system"
)

var InitializeUsernameInstructionDiscriminator = anchor.InstructionDiscriminator("initialize_username")

type InitializeUsernameInstructionArgs struct {
	Username string
}

type InitializeUsernameInstructionAccounts struct {
	Authority   ed25519.PublicKey
	UserAccount ed25519.PublicKey
}

func NewInitializeUsernameInstruction(
	program ed25519.PublicKey,
	accounts *InitializeUsernameInstructionAccounts,
	args *InitializeUsernameInstructionArgs,
) solana.Instruction {
	return solana.NewInstruction(
		program,
		usernameInstructionData(InitializeUsernameInstructionDiscriminator, args.Username),
		solana.NewAccountMeta(accounts.Authority, true),
		solana.NewAccountMeta(accounts.UserAccount, false),
		system.AccountMeta(),
	)
}

// The username argument is a struct with a single string field, which
// serializes identically to the bare string.
func usernameInstructionData(discriminator []byte, username string) []byte {
	data := make([]byte, binary.DiscriminatorSize+binary.StringSize(username))

	offset := copy(data, discriminator)
	binary.PutString(data, username, &offset)

	return data
}
