package program

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/fragments/pkg/cache"
	"github.com/code-payments/fragments/pkg/metrics"
	"github.com/code-payments/fragments/pkg/retry"
	"github.com/code-payments/fragments/pkg/retry/backoff"
	"github.com/code-payments/fragments/pkg/solana"
	"github.com/code-payments/fragments/pkg/solana/confirm"
	"github.com/code-payments/fragments/pkg/sync"
)

const (
	metricsStructName             = "program.client"
	confirmationLatencyMetricName = "TransactionConfirmationLatency"

	signerLockStripes = 64

	// Each cached address has a weight of one
	addressCacheSize = 10_000

	recentSignatureCacheSize = 10_000
)

var errBlockhashUnchanged = errors.New("blockhash unchanged")

type Config struct {
	CounterProgram  ed25519.PublicKey
	RoundProgram    ed25519.PublicKey
	UsernameProgram ed25519.PublicKey

	ConfirmTimeout   time.Duration
	SlotPollInterval time.Duration
}

// Client builds, signs and submits transactions against the counter, round
// and username programs, and reads back their accounts. Every transaction is
// confirmed before its method returns.
type Client struct {
	log       *logrus.Entry
	conf      *Config
	rpc       solana.Client
	confirmer *confirm.Confirmer

	// Serialises transactions per signer so concurrent requests for the
	// same account don't race on account state
	signerLocks *sync.StripedLock

	// Derived program addresses, keyed by seed prefix and owner
	addresses *cache.Cache[string, ed25519.PublicKey]

	// Signatures of submitted transactions. Signing is deterministic, so a
	// repeated instruction under the same blockhash yields one of these.
	recentSignatures *cache.Cache[solana.Signature, struct{}]
}

func NewClient(conf *Config, rpc solana.Client, confirmer *confirm.Confirmer) *Client {
	return &Client{
		log:         logrus.StandardLogger().WithField("type", "fragments/program"),
		conf:        conf,
		rpc:         rpc,
		confirmer:   confirmer,
		signerLocks: sync.NewStripedLock(signerLockStripes),
		addresses:   cache.New[string, ed25519.PublicKey](addressCacheSize),

		recentSignatures: cache.New[solana.Signature, struct{}](recentSignatureCacheSize),
	}
}

func addressCacheKey(prefix string, owner ed25519.PublicKey) string {
	return prefix + ":" + base58.Encode(owner)
}

// GenerateKeypair creates a new random signing key
func GenerateKeypair() (ed25519.PrivateKey, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "error generating keypair")
	}
	return key, nil
}

// GetSlot returns the latest slot at the confirmed commitment
func (c *Client) GetSlot(ctx context.Context) (uint64, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetSlot")
	defer tracer.End()

	slot, err := c.rpc.GetSlot(solana.CommitmentConfirmed)
	if err != nil {
		tracer.OnError(err)
		return 0, errors.Wrap(err, "error getting slot")
	}
	return slot, nil
}

// WaitForSlot blocks until the confirmed slot reaches slot. ErrSlotNotReached
// is returned if it doesn't within the configured timeout.
func (c *Client) WaitForSlot(ctx context.Context, slot uint64) error {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "WaitForSlot")
	tracer.AddAttribute("slot", slot)
	defer tracer.End()

	result := c.confirmer.WaitForSlot(ctx, slot, c.conf.ConfirmTimeout, c.conf.SlotPollInterval)
	if !result.Ok() {
		err := errors.Wrapf(ErrSlotNotReached, "slot %d: %s", slot, result.String())
		tracer.OnError(err)
		return err
	}
	return nil
}

// submitAndConfirm signs a transaction paid for by signer and waits for its
// confirmation. Rejections by the node are returned as is, wrapping a
// *solana.TransactionError when the node reports one.
func (c *Client) submitAndConfirm(ctx context.Context, method string, signer ed25519.PrivateKey, instructions ...solana.Instruction) (solana.Signature, error) {
	payer := signer.Public().(ed25519.PublicKey)

	log := c.log.WithFields(logrus.Fields{
		"method": method,
		"signer": base58.Encode(payer),
	})

	lock := c.signerLocks.Get(payer)
	lock.Lock()
	defer lock.Unlock()

	blockhash, err := c.rpc.GetLatestBlockhash()
	if err != nil {
		return solana.Signature{}, errors.Wrap(err, "error getting latest blockhash")
	}

	txn, err := signTransaction(signer, blockhash, instructions)
	if err != nil {
		return solana.Signature{}, err
	}

	if _, submitted := c.recentSignatures.Retrieve(txn.Signatures[0]); submitted {
		log.WithField("blockhash", blockhash.String()).Debug("identical transaction already submitted, waiting for a new blockhash")

		blockhash, err = c.awaitNewBlockhash(ctx, blockhash)
		if err != nil {
			return solana.Signature{}, err
		}

		txn, err = signTransaction(signer, blockhash, instructions)
		if err != nil {
			return solana.Signature{}, err
		}
	}

	sig, err := c.rpc.SubmitTransaction(txn, solana.CommitmentConfirmed)
	if err != nil {
		log.WithError(err).Info("transaction rejected")
		return sig, errors.Wrap(err, "error submitting transaction")
	}

	if err := c.recentSignatures.Insert(sig, struct{}{}, 1); err != nil && err != cache.ErrKeyExists {
		log.WithError(err).Warn("failed to remember submitted signature")
	}

	log = log.WithField("signature", sig.String())

	start := time.Now()
	result := c.confirmer.Confirm(ctx, sig, c.conf.ConfirmTimeout)
	metrics.RecordDuration(ctx, confirmationLatencyMetricName, time.Since(start))
	if !result.Ok() {
		log.WithError(result.Err()).Warnf("transaction %s", result.String())
		return sig, &NotConfirmedError{Signature: sig, Result: result}
	}

	log.Debug("transaction confirmed")
	return sig, nil
}

func signTransaction(signer ed25519.PrivateKey, blockhash solana.Blockhash, instructions []solana.Instruction) (solana.Transaction, error) {
	txn := solana.NewTransaction(signer.Public().(ed25519.PublicKey), instructions...)
	txn.SetBlockhash(blockhash)
	if err := txn.Sign(signer); err != nil {
		return solana.Transaction{}, errors.Wrap(err, "error signing transaction")
	}
	return txn, nil
}

// awaitNewBlockhash polls the node, bypassing any shared blockhash, until it
// reports one other than previous
func (c *Client) awaitNewBlockhash(ctx context.Context, previous solana.Blockhash) (solana.Blockhash, error) {
	timeout := c.conf.ConfirmTimeout
	if timeout <= 0 {
		timeout = confirm.DefaultTimeout
	}
	interval := c.conf.SlotPollInterval
	if interval <= 0 {
		interval = confirm.DefaultPollInterval
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var latest solana.Blockhash
	_, err := retry.Retry(
		func() error {
			hash, err := c.rpc.RefreshLatestBlockhash()
			if err != nil {
				return err
			}
			if hash == previous {
				return errBlockhashUnchanged
			}

			latest = hash
			return nil
		},
		retry.Context(timeoutCtx),
		retry.Backoff(backoff.Constant(interval), interval),
	)
	if err != nil {
		return solana.Blockhash{}, errors.Wrap(err, "error getting a new blockhash")
	}
	return latest, nil
}

// getAccountData fetches the raw data of a program account at the confirmed
// commitment
func (c *Client) getAccountData(address ed25519.PublicKey) ([]byte, error) {
	info, err := c.rpc.GetAccountInfo(address, solana.CommitmentConfirmed)
	if err == solana.ErrNoAccountInfo {
		return nil, ErrAccountNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "error getting account info")
	}
	return info.Data, nil
}
