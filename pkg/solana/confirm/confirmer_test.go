package confirm

import (
	"context"
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/fragments/pkg/solana"
	"github.com/code-payments/fragments/pkg/testutil"
)

func submitTestTransaction(t *testing.T, node *testutil.SolanaNode) solana.Signature {
	payer := testutil.GenerateSolanaKeypair(t)
	program := testutil.GenerateSolanaKeys(t, 1)[0]

	txn := solana.NewTransaction(payer.Public().(ed25519.PublicKey), solana.NewInstruction(program, []byte{1}))
	require.NoError(t, txn.Sign(payer))

	sig, err := node.SubmitTransaction(txn, solana.CommitmentConfirmed)
	require.NoError(t, err)
	return sig
}

func TestResult(t *testing.T) {
	assert.True(t, Confirmed().Ok())
	assert.Equal(t, ReasonNone, Confirmed().Reason())
	assert.Equal(t, "confirmed", Confirmed().String())

	result := NotConfirmed(ReasonTimedOut, nil)
	assert.False(t, result.Ok())
	assert.Equal(t, ReasonTimedOut, result.Reason())
	assert.Equal(t, "not confirmed (timed_out)", result.String())

	result = NotConfirmed(ReasonErrored, errors.New("boom"))
	assert.Equal(t, "not confirmed (errored): boom", result.String())
	assert.EqualError(t, result.Err(), "boom")
}

func TestConfirm_NotificationWins(t *testing.T) {
	node := testutil.NewSolanaNode()
	confirmer := NewConfirmer(node, node)

	sig := submitTestTransaction(t, node)

	result := confirmer.Confirm(context.Background(), sig, time.Second)
	assert.True(t, result.Ok())
}

func TestConfirm_TimerWins(t *testing.T) {
	node := testutil.NewSolanaNode()
	confirmer := NewConfirmer(node, node)

	sig := submitTestTransaction(t, node)
	node.DropSignature(sig)

	start := time.Now()
	result := confirmer.Confirm(context.Background(), sig, 100*time.Millisecond)
	assert.False(t, result.Ok())
	assert.Equal(t, ReasonTimedOut, result.Reason())
	assert.True(t, time.Since(start) >= 100*time.Millisecond)
	assert.True(t, time.Since(start) < 2*time.Second)
}

func TestConfirm_NeverSubmitted(t *testing.T) {
	node := testutil.NewSolanaNode()
	confirmer := NewConfirmer(node, node)

	var sig solana.Signature
	sig[0] = 1

	start := time.Now()
	result := confirmer.Confirm(context.Background(), sig, 100*time.Millisecond)
	assert.False(t, result.Ok())
	assert.Equal(t, ReasonTimedOut, result.Reason())
	assert.True(t, time.Since(start) < 2*time.Second)
}

func TestConfirm_TransactionFailed(t *testing.T) {
	node := testutil.NewSolanaNode()
	confirmer := NewConfirmer(node, node)

	sig := submitTestTransaction(t, node)
	node.FailSignature(sig, solana.NewTransactionError(solana.TransactionErrorInstructionError))

	result := confirmer.Confirm(context.Background(), sig, time.Second)
	assert.False(t, result.Ok())
	assert.Equal(t, ReasonErrored, result.Reason())
	assert.Error(t, result.Err())
}

func TestConfirm_Canceled(t *testing.T) {
	node := testutil.NewSolanaNode()
	confirmer := NewConfirmer(node, node)

	sig := submitTestTransaction(t, node)
	node.DropSignature(sig)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	result := confirmer.Confirm(ctx, sig, 5*time.Second)
	assert.Equal(t, ReasonCanceled, result.Reason())
}

func TestWaitForSlot_AlreadyReached(t *testing.T) {
	node := testutil.NewSolanaNode()
	node.SetSlot(100)
	confirmer := NewConfirmer(node, node)

	assert.True(t, confirmer.WaitForSlot(context.Background(), 100, time.Second, 10*time.Millisecond).Ok())
	assert.True(t, confirmer.WaitForSlot(context.Background(), 50, time.Second, 10*time.Millisecond).Ok())
}

func TestWaitForSlot_EventuallyReached(t *testing.T) {
	node := testutil.NewSolanaNode()
	node.SetSlot(10)
	confirmer := NewConfirmer(node, node)

	go func() {
		for i := 0; i < 5; i++ {
			time.Sleep(20 * time.Millisecond)
			node.AdvanceSlot(1)
		}
	}()

	result := confirmer.WaitForSlot(context.Background(), 13, 2*time.Second, 10*time.Millisecond)
	assert.True(t, result.Ok())

	slot, err := node.GetSlot(solana.CommitmentConfirmed)
	require.NoError(t, err)
	assert.True(t, slot >= 13)
}

func TestWaitForSlot_TimedOut(t *testing.T) {
	node := testutil.NewSolanaNode()
	node.SetSlot(10)
	confirmer := NewConfirmer(node, node)

	start := time.Now()
	result := confirmer.WaitForSlot(context.Background(), 1000, 100*time.Millisecond, 20*time.Millisecond)
	assert.Equal(t, ReasonTimedOut, result.Reason())
	assert.True(t, time.Since(start) < 2*time.Second)
}

func TestWaitForSlot_RPCErrorsKeepPolling(t *testing.T) {
	node := testutil.NewSolanaNode()
	node.SetSlot(10)
	node.SetGetSlotError(errors.New("unavailable"))
	confirmer := NewConfirmer(node, node)

	go func() {
		time.Sleep(50 * time.Millisecond)
		node.SetGetSlotError(nil)
	}()

	result := confirmer.WaitForSlot(context.Background(), 10, time.Second, 10*time.Millisecond)
	assert.True(t, result.Ok())
}
