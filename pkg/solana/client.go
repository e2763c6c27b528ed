package solana

import (
	"crypto/ed25519"
	"encoding/base64"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ybbus/jsonrpc"
	"golang.org/x/sync/singleflight"

	"github.com/code-payments/fragments/pkg/retry"
	"github.com/code-payments/fragments/pkg/retry/backoff"
)

// LamportsPerSol is the number of lamports in one SOL
const LamportsPerSol = 1_000_000_000

const (
	// Returned by nodes that are behind the cluster
	rpcNodeUnhealthyCode = -32005

	blockhashCacheWindow = 2 * time.Second
)

type Commitment struct {
	Commitment string `json:"commitment"`
}

var (
	CommitmentProcessed = Commitment{Commitment: "processed"}
	CommitmentConfirmed = Commitment{Commitment: "confirmed"}
	CommitmentFinalized = Commitment{Commitment: "finalized"}
)

var ErrNoAccountInfo = errors.New("no account info")

// AccountInfo is the state of an on-chain account
type AccountInfo struct {
	Data       []byte
	Owner      ed25519.PublicKey
	Lamports   uint64
	Executable bool
}

// Version is the software version reported by the RPC node
type Version struct {
	SolanaCore string `json:"solana-core"`
	FeatureSet uint32 `json:"feature-set"`
}

// Client is the subset of the Solana JSON RPC API used by the server
//
// Reference: https://solana.com/docs/rpc/http
type Client interface {
	GetAccountInfo(ed25519.PublicKey, Commitment) (AccountInfo, error)
	GetBalance(ed25519.PublicKey, Commitment) (uint64, error)
	GetLatestBlockhash() (Blockhash, error)
	RefreshLatestBlockhash() (Blockhash, error)
	GetSlot(Commitment) (uint64, error)
	GetVersion() (Version, error)
	RequestAirdrop(ed25519.PublicKey, uint64, Commitment) (Signature, error)
	SubmitTransaction(Transaction, Commitment) (Signature, error)
}

var (
	errRateLimited  = errors.New("rate limited")
	errServiceError = errors.New("service error")
)

// withContext is the envelope of RPC results that report the slot they were
// evaluated at
type withContext[T any] struct {
	Context struct {
		Slot uint64 `json:"slot"`
	} `json:"context"`
	Value T `json:"value"`
}

type encodedConfig struct {
	Commitment string `json:"commitment,omitempty"`
	Encoding   string `json:"encoding"`
}

type sendConfig struct {
	Encoding            string `json:"encoding"`
	SkipPreflight       bool   `json:"skipPreflight"`
	PreflightCommitment string `json:"preflightCommitment"`
}

type client struct {
	log     *logrus.Entry
	rpc     jsonrpc.RPCClient
	retrier retry.Retrier

	blockhashGroup singleflight.Group
	blockhashMu    sync.RWMutex
	blockhash      Blockhash
	blockhashAt    time.Time
}

// New returns a client for the JSON RPC endpoint. Rate limited and
// unhealthy node responses are retried with backoff.
func New(endpoint string) Client {
	return &client{
		log: logrus.StandardLogger().WithField("type", "solana/client"),
		rpc: jsonrpc.NewClient(endpoint),
		retrier: retry.NewRetrier(
			retry.RetriableErrors(errRateLimited, errServiceError),
			retry.Limit(3),
			retry.BackoffWithJitter(backoff.BinaryExponential(time.Second), 10*time.Second, 0.1),
		),
	}
}

// call invokes method and decodes its result into out. Errors that are worth
// retrying are replaced by errRateLimited or errServiceError, anything else
// is returned as is so callers can inspect a *jsonrpc.RPCError.
func (c *client) call(out interface{}, method string, params ...interface{}) error {
	_, err := c.retrier.Retry(func() error {
		err := c.rpc.CallFor(out, method, params...)
		if err == nil {
			return nil
		}

		var code int
		var httpErr *jsonrpc.HTTPError
		var rpcErr *jsonrpc.RPCError
		switch {
		case errors.As(err, &rpcErr):
			code = rpcErr.Code
		case errors.As(err, &httpErr):
			code = httpErr.Code
		default:
			return err
		}

		switch {
		case code == http.StatusTooManyRequests:
			c.log.WithField("method", method).Warn("rate limited")
			return errRateLimited
		case code >= http.StatusInternalServerError, code == rpcNodeUnhealthyCode:
			c.log.WithError(err).WithField("method", method).Warn("node unavailable")
			return errServiceError
		}
		return err
	})
	return err
}

func (c *client) GetSlot(commitment Commitment) (uint64, error) {
	// A lone struct param would be sent as an object, which nodes reject
	var slot uint64
	if err := c.call(&slot, "getSlot", []interface{}{commitment}); err != nil {
		return 0, errors.Wrap(err, "getSlot() failed")
	}
	return slot, nil
}

func (c *client) GetVersion() (Version, error) {
	var version Version
	if err := c.call(&version, "getVersion"); err != nil {
		return version, errors.Wrap(err, "getVersion() failed")
	}
	return version, nil
}

// GetLatestBlockhash returns a recent confirmed blockhash. Results are shared
// for a couple of seconds, and concurrent misses share a single request.
func (c *client) GetLatestBlockhash() (Blockhash, error) {
	// Jitter the window so callers don't all refresh at the same instant
	window := time.Duration(float64(blockhashCacheWindow) * (0.8 + 0.4*rand.Float64()))

	c.blockhashMu.RLock()
	cached, at := c.blockhash, c.blockhashAt
	c.blockhashMu.RUnlock()

	if cached != (Blockhash{}) && time.Since(at) < window {
		return cached, nil
	}

	res, err, _ := c.blockhashGroup.Do("getLatestBlockhash", func() (interface{}, error) {
		return c.fetchLatestBlockhash()
	})
	if err != nil {
		return Blockhash{}, err
	}
	return res.(Blockhash), nil
}

// RefreshLatestBlockhash skips the shared blockhash and asks the node
// directly. The result replaces the shared value.
func (c *client) RefreshLatestBlockhash() (Blockhash, error) {
	return c.fetchLatestBlockhash()
}

func (c *client) fetchLatestBlockhash() (Blockhash, error) {
	var resp withContext[struct {
		Blockhash string `json:"blockhash"`
	}]
	if err := c.call(&resp, "getLatestBlockhash", []interface{}{CommitmentConfirmed}); err != nil {
		return Blockhash{}, errors.Wrap(err, "getLatestBlockhash() failed")
	}

	var hash Blockhash
	if err := decodeBase58Into(hash[:], resp.Value.Blockhash); err != nil {
		return Blockhash{}, errors.Wrap(err, "invalid blockhash in response")
	}

	c.blockhashMu.Lock()
	c.blockhash = hash
	c.blockhashAt = time.Now()
	c.blockhashMu.Unlock()

	return hash, nil
}

func (c *client) GetBalance(account ed25519.PublicKey, commitment Commitment) (uint64, error) {
	var resp withContext[uint64]
	if err := c.call(&resp, "getBalance", base58.Encode(account), commitment); err != nil {
		return 0, errors.Wrap(err, "getBalance() failed")
	}
	return resp.Value, nil
}

func (c *client) GetAccountInfo(account ed25519.PublicKey, commitment Commitment) (AccountInfo, error) {
	var resp withContext[*struct {
		Lamports   uint64   `json:"lamports"`
		Owner      string   `json:"owner"`
		Data       []string `json:"data"`
		Executable bool     `json:"executable"`
	}]

	config := encodedConfig{Commitment: commitment.Commitment, Encoding: "base64"}
	if err := c.call(&resp, "getAccountInfo", base58.Encode(account), config); err != nil {
		return AccountInfo{}, errors.Wrap(err, "getAccountInfo() failed")
	}

	value := resp.Value
	if value == nil {
		return AccountInfo{}, ErrNoAccountInfo
	}
	if len(value.Data) == 0 {
		return AccountInfo{}, errors.New("missing account data in response")
	}

	owner, err := base58.Decode(value.Owner)
	if err != nil {
		return AccountInfo{}, errors.Wrap(err, "invalid owner in response")
	}
	data, err := base64.StdEncoding.DecodeString(value.Data[0])
	if err != nil {
		return AccountInfo{}, errors.Wrap(err, "invalid account data in response")
	}

	return AccountInfo{
		Data:       data,
		Owner:      owner,
		Lamports:   value.Lamports,
		Executable: value.Executable,
	}, nil
}

func (c *client) RequestAirdrop(account ed25519.PublicKey, lamports uint64, commitment Commitment) (Signature, error) {
	var encoded string
	if err := c.call(&encoded, "requestAirdrop", base58.Encode(account), lamports, commitment); err != nil {
		return Signature{}, errors.Wrap(err, "requestAirdrop() failed")
	}

	var sig Signature
	if err := decodeBase58Into(sig[:], encoded); err != nil {
		return Signature{}, errors.Wrap(err, "invalid signature in response")
	}
	return sig, nil
}

// SubmitTransaction sends the transaction and returns its signature without
// waiting for it to land. Preflight runs at the provided commitment, and a
// rejection from the node is returned as a *TransactionError whenever the
// error payload can be parsed.
func (c *client) SubmitTransaction(txn Transaction, commitment Commitment) (Signature, error) {
	if len(txn.Signatures) == 0 {
		return Signature{}, errors.New("transaction has no signatures")
	}
	sig := txn.Signatures[0]

	config := sendConfig{
		Encoding:            "base64",
		PreflightCommitment: commitment.Commitment,
	}

	var encoded string
	err := c.call(&encoded, "sendTransaction", base64.StdEncoding.EncodeToString(txn.Marshal()), config)
	if err == nil {
		return sig, nil
	}

	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) {
		return sig, errors.Wrap(err, "sendTransaction() failed")
	}

	txErr, parseErr := ParseRPCError(rpcErr)
	if parseErr != nil || txErr == nil {
		return sig, errors.Wrap(err, "sendTransaction() rejected")
	}
	return sig, txErr
}

// decodeBase58Into decodes s into dst, which it must fill exactly
func decodeBase58Into(dst []byte, s string) error {
	decoded, err := base58.Decode(s)
	if err != nil {
		return err
	}
	if len(decoded) != len(dst) {
		return errors.Errorf("expected %d bytes, got %d", len(dst), len(decoded))
	}

	copy(dst, decoded)
	return nil
}
