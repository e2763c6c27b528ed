package testutil

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"sync"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/fragments/pkg/solana"
	"github.com/code-payments/fragments/pkg/solana/pubsub"
)

func GenerateSolanaKeypair(t *testing.T) ed25519.PrivateKey {
	_, p, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return p
}

func GenerateSolanaKeys(t *testing.T, n int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, n)
	for i := 0; i < n; i++ {
		p, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = p
	}
	return keys
}

// SolanaNode is an in-memory stand-in for a validator. It implements both
// solana.Client and pubsub.Client.
//
// Submitted transactions are handed to Executor, which may mutate accounts
// through the node. A signature is only ever processed once. Unless it is
// marked as dropped, the notification for a submitted or airdrop signature is
// delivered as soon as it is awaited. Unknown signatures never confirm.
//
// The blockhash only changes with the slot or on RefreshLatestBlockhash, so
// GetLatestBlockhash behaves like a cached value.
type SolanaNode struct {
	sync.Mutex

	Executor func(node *SolanaNode, txn solana.Transaction) error

	slot      uint64
	hashEpoch uint64
	accounts  map[string]solana.AccountInfo
	balances  map[string]uint64
	submitted []solana.Transaction
	processed map[solana.Signature]struct{}
	failed    map[solana.Signature]*solana.TransactionError
	dropped   map[solana.Signature]struct{}
	dropAll   bool
	airdrops  int

	getSlotErr error
	submitErr  error
	airdropErr error
}

func NewSolanaNode() *SolanaNode {
	return &SolanaNode{
		slot:      1,
		accounts:  make(map[string]solana.AccountInfo),
		balances:  make(map[string]uint64),
		failed:    make(map[solana.Signature]*solana.TransactionError),
		processed: make(map[solana.Signature]struct{}),
		dropped:   make(map[solana.Signature]struct{}),
	}
}

// SetAccount stores raw account data. Passing nil data removes the account.
func (n *SolanaNode) SetAccount(address ed25519.PublicKey, owner ed25519.PublicKey, data []byte) {
	n.Lock()
	defer n.Unlock()
	n.setAccountLocked(address, owner, data)
}

func (n *SolanaNode) setAccountLocked(address ed25519.PublicKey, owner ed25519.PublicKey, data []byte) {
	key := base58.Encode(address)
	if data == nil {
		delete(n.accounts, key)
		return
	}

	n.accounts[key] = solana.AccountInfo{
		Data:  append([]byte(nil), data...),
		Owner: owner,
	}
}

// AccountData returns the stored data of an account, if it exists
func (n *SolanaNode) AccountData(address ed25519.PublicKey) ([]byte, bool) {
	n.Lock()
	defer n.Unlock()

	info, ok := n.accounts[base58.Encode(address)]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), info.Data...), true
}

func (n *SolanaNode) SetSlot(slot uint64) {
	n.Lock()
	defer n.Unlock()
	n.slot = slot
}

func (n *SolanaNode) AdvanceSlot(delta uint64) uint64 {
	n.Lock()
	defer n.Unlock()
	n.slot += delta
	return n.slot
}

func (n *SolanaNode) SetBalance(address ed25519.PublicKey, lamports uint64) {
	n.Lock()
	defer n.Unlock()
	n.balances[base58.Encode(address)] = lamports
}

// DropNotifications causes every subsequently awaited signature to never be
// confirmed.
func (n *SolanaNode) DropNotifications(drop bool) {
	n.Lock()
	defer n.Unlock()
	n.dropAll = drop
}

// FailSignature causes the notification for sig to carry txErr, as if the
// transaction landed but failed
func (n *SolanaNode) FailSignature(sig solana.Signature, txErr *solana.TransactionError) {
	n.Lock()
	defer n.Unlock()
	n.failed[sig] = txErr
}

// DropSignature causes a single signature to never be confirmed
func (n *SolanaNode) DropSignature(sig solana.Signature) {
	n.Lock()
	defer n.Unlock()
	n.dropped[sig] = struct{}{}
}

func (n *SolanaNode) SetGetSlotError(err error) {
	n.Lock()
	defer n.Unlock()
	n.getSlotErr = err
}

func (n *SolanaNode) SetSubmitError(err error) {
	n.Lock()
	defer n.Unlock()
	n.submitErr = err
}

func (n *SolanaNode) SetAirdropError(err error) {
	n.Lock()
	defer n.Unlock()
	n.airdropErr = err
}

// Submitted returns every transaction accepted by the node
func (n *SolanaNode) Submitted() []solana.Transaction {
	n.Lock()
	defer n.Unlock()
	return append([]solana.Transaction(nil), n.submitted...)
}

func (n *SolanaNode) AirdropCount() int {
	n.Lock()
	defer n.Unlock()
	return n.airdrops
}

func (n *SolanaNode) GetAccountInfo(account ed25519.PublicKey, _ solana.Commitment) (solana.AccountInfo, error) {
	n.Lock()
	defer n.Unlock()

	info, ok := n.accounts[base58.Encode(account)]
	if !ok {
		return solana.AccountInfo{}, solana.ErrNoAccountInfo
	}

	info.Data = append([]byte(nil), info.Data...)
	return info, nil
}

func (n *SolanaNode) GetBalance(account ed25519.PublicKey, _ solana.Commitment) (uint64, error) {
	n.Lock()
	defer n.Unlock()
	return n.balances[base58.Encode(account)], nil
}

func (n *SolanaNode) GetLatestBlockhash() (solana.Blockhash, error) {
	n.Lock()
	defer n.Unlock()

	return n.blockhashLocked(), nil
}

// RefreshLatestBlockhash moves the node on to a new blockhash
func (n *SolanaNode) RefreshLatestBlockhash() (solana.Blockhash, error) {
	n.Lock()
	defer n.Unlock()

	n.hashEpoch++
	return n.blockhashLocked(), nil
}

func (n *SolanaNode) blockhashLocked() solana.Blockhash {
	var hash solana.Blockhash
	copy(hash[:], sha256Slot(n.slot^(n.hashEpoch<<32)))
	return hash
}

func (n *SolanaNode) GetSlot(_ solana.Commitment) (uint64, error) {
	n.Lock()
	defer n.Unlock()

	if n.getSlotErr != nil {
		return 0, n.getSlotErr
	}
	return n.slot, nil
}

func (n *SolanaNode) GetVersion() (solana.Version, error) {
	return solana.Version{SolanaCore: "test"}, nil
}

func (n *SolanaNode) RequestAirdrop(account ed25519.PublicKey, lamports uint64, _ solana.Commitment) (solana.Signature, error) {
	n.Lock()
	defer n.Unlock()

	if n.airdropErr != nil {
		return solana.Signature{}, n.airdropErr
	}

	n.airdrops++
	n.balances[base58.Encode(account)] += lamports

	var sig solana.Signature
	copy(sig[:], sha256Slot(uint64(n.airdrops)))
	sig[63] = 0xff
	n.processed[sig] = struct{}{}
	return sig, nil
}

func (n *SolanaNode) SubmitTransaction(txn solana.Transaction, _ solana.Commitment) (solana.Signature, error) {
	n.Lock()
	defer n.Unlock()

	if len(txn.Signatures) == 0 {
		return solana.Signature{}, errors.New("transaction has no signatures")
	}
	sig := txn.Signatures[0]

	if n.submitErr != nil {
		return sig, n.submitErr
	}
	if _, ok := n.processed[sig]; ok {
		return sig, solana.NewTransactionError(solana.TransactionErrorAlreadyProcessed)
	}

	message := txn.Message.Marshal()
	for i := range txn.Signatures {
		if !ed25519.Verify(txn.Message.Accounts[i], message, txn.Signatures[i][:]) {
			return sig, solana.NewTransactionError(solana.TransactionErrorSignatureFailure)
		}
	}

	// Executor failures behave like a failed preflight simulation
	if n.Executor != nil {
		executor := n.Executor

		n.Unlock()
		err := executor(n, txn)
		n.Lock()

		if err != nil {
			return sig, err
		}
	}

	n.submitted = append(n.submitted, txn)
	n.processed[sig] = struct{}{}
	return sig, nil
}

func (n *SolanaNode) WaitForSignature(ctx context.Context, sig solana.Signature, _ solana.Commitment) (*pubsub.SignatureNotification, error) {
	n.Lock()
	_, dropped := n.dropped[sig]
	_, processed := n.processed[sig]
	dropped = dropped || n.dropAll || !processed
	txErr := n.failed[sig]
	slot := n.slot
	n.Unlock()

	if dropped {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	return &pubsub.SignatureNotification{Slot: slot, Err: txErr}, nil
}

func sha256Slot(v uint64) []byte {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	h := sha256.Sum256(buf[:])
	return h[:]
}

// PublicKey returns the public half of key
func PublicKey(key ed25519.PrivateKey) ed25519.PublicKey {
	return key.Public().(ed25519.PublicKey)
}
