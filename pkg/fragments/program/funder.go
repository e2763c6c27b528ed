package program

import (
	"context"
	"crypto/ed25519"

	"github.com/dustin/go-humanize"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/fragments/pkg/metrics"
	"github.com/code-payments/fragments/pkg/solana"
)

const (
	// DefaultAirdropAmount funds an account for a handful of transactions
	// and rent
	DefaultAirdropAmount = solana.LamportsPerSol

	airdropEventName = "Airdrop"
)

// Airdrop requests lamports for address from the faucet and waits for the
// airdrop to be confirmed
func (c *Client) Airdrop(ctx context.Context, address ed25519.PublicKey, lamports uint64) (solana.Signature, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Airdrop")
	defer tracer.End()

	log := c.log.WithFields(logrus.Fields{
		"method":  "Airdrop",
		"address": base58.Encode(address),
		"amount":  humanize.Comma(int64(lamports)),
	})

	sig, err := c.rpc.RequestAirdrop(address, lamports, solana.CommitmentConfirmed)
	if err != nil {
		tracer.OnError(err)
		log.WithError(err).Warn("airdrop request failed")
		return sig, errors.Wrap(err, "error requesting airdrop")
	}

	result := c.confirmer.Confirm(ctx, sig, c.conf.ConfirmTimeout)
	if !result.Ok() {
		err := &NotConfirmedError{Signature: sig, Result: result}
		tracer.OnError(err)
		log.WithError(result.Err()).Warnf("airdrop %s", result.String())
		return sig, err
	}

	log.Infof("airdropped %s SOL", humanize.CommafWithDigits(float64(lamports)/float64(solana.LamportsPerSol), 9))
	metrics.RecordEvent(ctx, airdropEventName, map[string]interface{}{
		"lamports": lamports,
	})
	return sig, nil
}

// GetBalance returns the balance of address in lamports at the confirmed
// commitment. Unfunded addresses have a zero balance.
func (c *Client) GetBalance(ctx context.Context, address ed25519.PublicKey) (uint64, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetBalance")
	defer tracer.End()

	balance, err := c.rpc.GetBalance(address, solana.CommitmentConfirmed)
	if err != nil {
		tracer.OnError(err)
		return 0, errors.Wrap(err, "error getting balance")
	}
	return balance, nil
}
