package round

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/fragments/pkg/solana"
	"github.com/code-payments/fragments/pkg/solana/anchor"
	"github.com/code-payments/fragments/pkg/solana/binary"
	"github.com/code-payments/fragments/pkg/solana/system"
	"github.com/code-payments/fragments/pkg/testutil"
)

func TestGetRoundAddress(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 2)
	program, authority := keys[0], keys[1]

	address, bump, err := GetRoundAddress(&GetRoundAddressArgs{Program: program, Authority: authority})
	require.NoError(t, err)

	expected, err := solana.CreateProgramAddress(program, RoundPrefix, authority, []byte{bump})
	require.NoError(t, err)
	assert.Equal(t, expected, address)
}

func TestRoundAccount_Lifecycle(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 2)
	authority, activator := keys[0], keys[1]

	account := &RoundAccount{
		StartSlot: 103,
		Authority: authority,
	}
	assert.Equal(t, StatePending, account.State())

	var decoded RoundAccount
	require.NoError(t, decoded.Unmarshal(account.Marshal()))
	assert.EqualValues(t, 103, decoded.StartSlot)
	assert.Equal(t, authority, decoded.Authority)
	assert.Nil(t, decoded.ActivatedAt)
	assert.Nil(t, decoded.ActivatedBy)
	assert.Nil(t, decoded.CompletedAt)
	assert.Equal(t, StatePending, decoded.State())

	activatedAt := uint64(105)
	account.ActivatedAt = &activatedAt
	account.ActivatedBy = activator
	require.NoError(t, decoded.Unmarshal(account.Marshal()))
	require.NotNil(t, decoded.ActivatedAt)
	assert.EqualValues(t, 105, *decoded.ActivatedAt)
	assert.Equal(t, activator, decoded.ActivatedBy)
	assert.Nil(t, decoded.CompletedAt)
	assert.Equal(t, StateActive, decoded.State())

	completedAt := uint64(110)
	account.CompletedAt = &completedAt
	require.NoError(t, decoded.Unmarshal(account.Marshal()))
	require.NotNil(t, decoded.CompletedAt)
	assert.EqualValues(t, 110, *decoded.CompletedAt)
	assert.Equal(t, StateCompleted, decoded.State())
	assert.Contains(t, decoded.String(), "state=completed")
}

func TestRoundAccount_AbsentOptionIgnoresFollowingBytes(t *testing.T) {
	authority := testutil.GenerateSolanaKeys(t, 1)[0]

	data := (&RoundAccount{StartSlot: 1, Authority: authority}).Marshal()

	// Garbage after the unset activated_at flag is interpreted as the next
	// field's flag, so only trailing padding may change freely
	for i := 8 + 8 + 32 + 3; i < len(data); i++ {
		data[i] = 0xff
	}

	var decoded RoundAccount
	require.NoError(t, decoded.Unmarshal(data))
	assert.Nil(t, decoded.ActivatedAt)
	assert.Nil(t, decoded.ActivatedBy)
	assert.Nil(t, decoded.CompletedAt)
}

func TestRoundAccount_UnmarshalInvalid(t *testing.T) {
	authority := testutil.GenerateSolanaKeys(t, 1)[0]
	data := (&RoundAccount{StartSlot: 1, Authority: authority}).Marshal()

	var decoded RoundAccount
	assert.True(t, errors.Is(decoded.Unmarshal(data[:20]), binary.ErrTruncatedBuffer))

	invalidFlag := append([]byte(nil), data...)
	invalidFlag[8+8+32] = 2
	assert.True(t, errors.Is(decoded.Unmarshal(invalidFlag), binary.ErrInvalidOptionFlag))

	wrong := append([]byte(nil), data...)
	copy(wrong, anchor.AccountDiscriminator("Counter"))
	assert.True(t, errors.Is(decoded.Unmarshal(wrong), ErrInvalidAccountData))
}

func TestInstructions(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 4)
	program, round, authority, payer := keys[0], keys[1], keys[2], keys[3]

	initialise := NewInitialiseRoundInstruction(
		program,
		&InitialiseRoundInstructionAccounts{Round: round, Authority: authority},
		&InitialiseRoundInstructionArgs{StartSlot: 0x0102030405060708},
	)
	assert.Equal(t, InitialiseRoundInstructionDiscriminator, initialise.Data[:8])
	assert.Equal(t, []byte{8, 7, 6, 5, 4, 3, 2, 1}, initialise.Data[8:])
	require.Len(t, initialise.Accounts, 3)
	assert.Equal(t, round, initialise.Accounts[0].PublicKey)
	assert.True(t, initialise.Accounts[0].IsWritable)
	assert.False(t, initialise.Accounts[0].IsSigner)
	assert.Equal(t, authority, initialise.Accounts[1].PublicKey)
	assert.True(t, initialise.Accounts[1].IsSigner)
	assert.True(t, system.IsSystemProgram(initialise.Accounts[2].PublicKey))

	activate := NewActivateRoundInstruction(program, &ActivateRoundInstructionAccounts{Round: round, Payer: payer})
	assert.Equal(t, anchor.InstructionDiscriminator("activate_round"), activate.Data)
	require.Len(t, activate.Accounts, 2)
	assert.Equal(t, round, activate.Accounts[0].PublicKey)
	assert.Equal(t, payer, activate.Accounts[1].PublicKey)
	assert.True(t, activate.Accounts[1].IsSigner)

	complete := NewCompleteRoundInstruction(program, &CompleteRoundInstructionAccounts{Round: round, Authority: authority})
	assert.Equal(t, anchor.InstructionDiscriminator("complete_round"), complete.Data)
	require.Len(t, complete.Accounts, 2)
	assert.Equal(t, authority, complete.Accounts[1].PublicKey)
	assert.True(t, complete.Accounts[1].IsSigner)
}

func TestErrorCodes(t *testing.T) {
	assert.EqualValues(t, 6000, ErrorCodeInvalidStartSlot)
	assert.EqualValues(t, 6004, ErrorCodeInvalidRoundActivationSlot)
}
