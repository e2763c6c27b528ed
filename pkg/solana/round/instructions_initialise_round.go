package round

import (
	"crypto/ed25519"

	"github.com/code-payments/fragments/pkg/solana"
	"github.com/code-payments/fragments/pkg/solana/anchor"
	"github.com/code-payments/fragments/pkg/solana/binary"
	"github.com/code-payments/fragments/pkg/solana/system"
)

var InitialiseRoundInstructionDiscriminator = anchor.InstructionDiscriminator("initialise_round")

const (
	InitialiseRoundInstructionArgsSize = 8 // start_slot
)

type InitialiseRoundInstructionArgs struct {
	StartSlot uint64
}

type InitialiseRoundInstructionAccounts struct {
	Round     ed25519.PublicKey
	Authority ed25519.PublicKey
}

func NewInitialiseRoundInstruction(
	program ed25519.PublicKey,
	accounts *InitialiseRoundInstructionAccounts,
	args *InitialiseRoundInstructionArgs,
) solana.Instruction {
	data := make([]byte, binary.DiscriminatorSize+InitialiseRoundInstructionArgsSize)

	offset := copy(data, InitialiseRoundInstructionDiscriminator)
	binary.PutUint64(data, args.StartSlot, &offset)

	return solana.NewInstruction(
		program,
		data,
		solana.NewAccountMeta(accounts.Round, false),
		solana.NewAccountMeta(accounts.Authority, true),
		system.AccountMeta(),
	)
}
