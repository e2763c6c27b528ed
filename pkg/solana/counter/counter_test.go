package counter

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

func TestGetCounterAddress(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 3)
	program, user, other := keys[0], keys[1], keys[2]

	address, bump, err := GetCounterAddress(&GetCounterAddressArgs{Program: program, User: user})
	require.NoError(t, err)

	expected, err := solana.CreateProgramAddress(program, CounterPrefix, user, []byte{bump})
	require.NoError(t, err)
	assert.Equal(t, expected, address)

	again, _, err := GetCounterAddress(&GetCounterAddressArgs{Program: program, User: user})
	require.NoError(t, err)
	assert.Equal(t, address, again)

	different, _, err := GetCounterAddress(&GetCounterAddressArgs{Program: program, User: other})
	require.NoError(t, err)
	assert.NotEqual(t, address, different)
}

func TestCounterAccount_Unmarshal(t *testing.T) {
	expected := &CounterAccount{Count: 42}
	data := expected.Marshal()
	assert.Len(t, data, 16)

	var actual CounterAccount
	require.NoError(t, actual.Unmarshal(data))
	assert.Equal(t, *expected, actual)
	assert.Equal(t, "Counter{count=42}", actual.String())

	// Trailing bytes are ignored
	require.NoError(t, actual.Unmarshal(append(data, 1, 2, 3)))
	assert.EqualValues(t, 42, actual.Count)
}

func TestCounterAccount_UnmarshalInvalid(t *testing.T) {
	data := (&CounterAccount{Count: 1}).Marshal()

	var actual CounterAccount
	assert.True(t, errors.Is(actual.Unmarshal(data[:12]), binary.ErrTruncatedBuffer))

	wrong := append([]byte(nil), data...)
	copy(wrong, anchor.AccountDiscriminator("Round"))
	assert.True(t, errors.Is(actual.Unmarshal(wrong), ErrInvalidAccountData))

	assert.True(t, errors.Is(actual.Unmarshal(nil), ErrInvalidAccountData))
}

func TestInstructions(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 3)
	program, user, counter := keys[0], keys[1], keys[2]

	initialize := NewInitializeInstruction(program, &InitializeInstructionAccounts{User: user, Counter: counter})
	assert.Equal(t, program, initialize.Program)
	assert.Equal(t, []byte{175, 175, 109, 31, 13, 152, 155, 237}, initialize.Data)
	require.Len(t, initialize.Accounts, 3)
	assert.Equal(t, user, initialize.Accounts[0].PublicKey)
	assert.True(t, initialize.Accounts[0].IsSigner)
	assert.True(t, initialize.Accounts[0].IsWritable)
	assert.Equal(t, counter, initialize.Accounts[1].PublicKey)
	assert.False(t, initialize.Accounts[1].IsSigner)
	assert.True(t, initialize.Accounts[1].IsWritable)
	assert.True(t, system.IsSystemProgram(initialize.Accounts[2].PublicKey))
	assert.False(t, initialize.Accounts[2].IsWritable)

	increment := NewIncrementInstruction(program, &IncrementInstructionAccounts{Counter: counter, User: user})
	assert.Equal(t, anchor.InstructionDiscriminator("increment"), increment.Data)
	require.Len(t, increment.Accounts, 2)
	assert.Equal(t, counter, increment.Accounts[0].PublicKey)
	assert.True(t, increment.Accounts[0].IsWritable)
	assert.False(t, increment.Accounts[0].IsSigner)
	assert.Equal(t, user, increment.Accounts[1].PublicKey)
	assert.True(t, increment.Accounts[1].IsSigner)
	assert.True(t, increment.Accounts[1].IsWritable)

	// Builders never share the discriminator backing array
	initialize.Data[0] = 0
	assert.Equal(t, byte(175), InitializeInstructionDiscriminator[0])
}
