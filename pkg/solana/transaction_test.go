package solana

import (
	"crypto/ed25519"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Taken from: https://github.com/solana-labs/solana/blob/14339dec0a960e8161d1165b6a8e5cfb73e78f23/sdk/src/transaction.rs#L523
// with the keypair regenerated so the encoded public key matches the signer.
const rustGeneratedAdjusted = "ATMfBMZ8phHEheLph8K9TJhRKhnE4qNZvWiXdUdJRmlTCRsQjWmW2CkQJeRHBCcsqFm2gynjL40M9mTe0Dxp4QIBAAEDfEya6wnC7f3Cv53qnOEywwIJ928rIdqAlfXYI1adXroBAQEEBQYHCAkJCQkJCQkJCQkJCQkJCQkIBwYFBAEBAQICAgQFBgcICQEBAQEBAQEBAQEBAQEBCQgHBgUEAgICAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAABAgIAAQMBAgM="

func TestTransaction_CrossImpl(t *testing.T) {
	keypair := ed25519.NewKeyFromSeed([]byte{48, 83, 2, 1, 1, 48, 5, 6, 3, 43, 101, 112, 4, 34, 4, 32, 255, 101, 36, 24, 124, 23,
		167, 21, 132, 204, 155, 5, 185, 58, 121, 75})
	programID := ed25519.PublicKey{2, 2, 2, 4, 5, 6, 7, 8, 9, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 9, 8, 7, 6, 5, 4,
		2, 2, 2}
	to := ed25519.PublicKey{1, 1, 1, 4, 5, 6, 7, 8, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 8, 7, 6, 5, 4, 1, 1, 1}

	tx := NewTransaction(
		keypair.Public().(ed25519.PublicKey),
		NewInstruction(
			programID,
			[]byte{1, 2, 3},
			NewAccountMeta(keypair.Public().(ed25519.PublicKey), true),
			NewAccountMeta(to, false),
		),
	)
	require.NoError(t, tx.Sign(keypair))
	assert.Equal(t, rustGeneratedAdjusted, base64.StdEncoding.EncodeToString(tx.Marshal()))

	var decoded Transaction
	require.NoError(t, decoded.Unmarshal(tx.Marshal()))
	assert.Equal(t, tx.Marshal(), decoded.Marshal())
}

func TestTransaction_AccountOrdering(t *testing.T) {
	keys := generateKeys(t, 6)
	payer, program := keys[0], keys[1]
	readonlySigner, readonly, writable, writableSigner := keys[2], keys[3], keys[4], keys[5]

	tx := NewTransaction(
		public(payer),
		NewInstruction(
			public(program),
			[]byte{9},
			NewReadonlyAccountMeta(public(readonlySigner), true),
			NewReadonlyAccountMeta(public(readonly), false),
			NewAccountMeta(public(writable), false),
			NewAccountMeta(public(writableSigner), true),
		),
	)

	// Signing order doesn't matter
	require.NoError(t, tx.Sign(readonlySigner, writableSigner, payer))

	require.Len(t, tx.Signatures, 3)
	require.Len(t, tx.Message.Accounts, 6)
	assert.EqualValues(t, 3, tx.Message.Header.NumSignatures)
	assert.EqualValues(t, 1, tx.Message.Header.NumReadonlySigned)
	assert.EqualValues(t, 2, tx.Message.Header.NumReadOnly)

	assert.Equal(t, public(payer), tx.Message.Accounts[0])
	assert.Equal(t, public(writableSigner), tx.Message.Accounts[1])
	assert.Equal(t, public(readonlySigner), tx.Message.Accounts[2])
	assert.Equal(t, public(writable), tx.Message.Accounts[3])
	assert.Equal(t, public(readonly), tx.Message.Accounts[4])
	assert.Equal(t, public(program), tx.Message.Accounts[5])

	assert.Equal(t, byte(5), tx.Message.Instructions[0].ProgramIndex)
	assert.Equal(t, []byte{2, 4, 3, 1}, tx.Message.Instructions[0].Accounts)

	message := tx.Message.Marshal()
	assert.True(t, ed25519.Verify(public(payer), message, tx.Signatures[0][:]))
	assert.True(t, ed25519.Verify(public(writableSigner), message, tx.Signatures[1][:]))
	assert.True(t, ed25519.Verify(public(readonlySigner), message, tx.Signatures[2][:]))
}

func TestTransaction_DuplicateKeysPromotePermissions(t *testing.T) {
	keys := generateKeys(t, 3)
	payer, program, account := keys[0], keys[1], keys[2]

	tx := NewTransaction(
		public(payer),
		NewInstruction(
			public(program),
			nil,
			NewReadonlyAccountMeta(public(account), false),
			NewAccountMeta(public(account), true),
		),
	)

	require.Len(t, tx.Message.Accounts, 3)
	assert.EqualValues(t, 2, tx.Message.Header.NumSignatures)
	assert.EqualValues(t, 0, tx.Message.Header.NumReadonlySigned)
	assert.EqualValues(t, 1, tx.Message.Header.NumReadOnly)
	assert.Equal(t, []byte{1, 1}, tx.Message.Instructions[0].Accounts)
}

func TestTransaction_SignUnknownAccount(t *testing.T) {
	keys := generateKeys(t, 4)

	tx := NewTransaction(
		public(keys[0]),
		NewInstruction(
			public(keys[1]),
			nil,
			NewAccountMeta(public(keys[2]), false),
		),
	)

	assert.Error(t, tx.Sign(keys[3]))
	assert.Error(t, tx.Sign(keys[2]))
	assert.NoError(t, tx.Sign(keys[0]))
}

func TestTransaction_BlockhashRoundTrip(t *testing.T) {
	keys := generateKeys(t, 2)

	tx := NewTransaction(public(keys[0]), NewInstruction(public(keys[1]), []byte{1}))

	var bh Blockhash
	for i := range bh {
		bh[i] = byte(i)
	}
	tx.SetBlockhash(bh)
	require.NoError(t, tx.Sign(keys[0]))

	var decoded Transaction
	require.NoError(t, decoded.Unmarshal(tx.Marshal()))
	assert.Equal(t, bh, decoded.Message.RecentBlockhash)
	assert.Equal(t, tx.Signatures, decoded.Signatures)
	assert.Equal(t, bh.String(), decoded.Message.RecentBlockhash.String())
}

func TestTransaction_InvalidIndexes(t *testing.T) {
	keys := generateKeys(t, 2)

	tx := NewTransaction(
		public(keys[0]),
		NewInstruction(
			public(keys[1]),
			nil,
			NewAccountMeta(public(keys[0]), true),
		),
	)
	tx.Message.Instructions[0].ProgramIndex = 2
	assert.Error(t, tx.Unmarshal(tx.Marshal()))

	tx = NewTransaction(
		public(keys[0]),
		NewInstruction(
			public(keys[1]),
			nil,
			NewAccountMeta(public(keys[0]), true),
		),
	)
	tx.Message.Instructions[0].Accounts = []byte{2}
	assert.Error(t, tx.Unmarshal(tx.Marshal()))
}

func TestMessage_RejectsVersioned(t *testing.T) {
	var m Message
	assert.Error(t, m.Unmarshal([]byte{0x80, 1, 0, 0}))
	assert.Error(t, m.Unmarshal(nil))
}

func public(priv ed25519.PrivateKey) ed25519.PublicKey {
	return priv.Public().(ed25519.PublicKey)
}

func generateKeys(t *testing.T, amount int) []ed25519.PrivateKey {
	keys := make([]ed25519.PrivateKey, amount)

	for i := 0; i < amount; i++ {
		_, priv, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)

		keys[i] = priv
	}

	return keys
}
