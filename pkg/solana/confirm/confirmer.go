package confirm

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/fragments/pkg/retry"
	"github.com/code-payments/fragments/pkg/retry/backoff"
	"github.com/code-payments/fragments/pkg/solana"
	"github.com/code-payments/fragments/pkg/solana/pubsub"
)

const (
	DefaultTimeout      = 5 * time.Second
	DefaultPollInterval = 200 * time.Millisecond
)

var errSlotNotReached = errors.New("slot not reached")

// Confirmer waits for transactions and slots to reach the confirmed
// commitment level. A timeout is final: nothing is retried afterwards.
type Confirmer struct {
	log    *logrus.Entry
	rpc    solana.Client
	pubsub pubsub.Client
}

func NewConfirmer(rpc solana.Client, pubsub pubsub.Client) *Confirmer {
	return &Confirmer{
		log:    logrus.StandardLogger().WithField("type", "solana/confirm"),
		rpc:    rpc,
		pubsub: pubsub,
	}
}

// Confirm races a signature notification against a timer. Only the
// notification arriving first, without a transaction error, is a
// confirmation. A timeout <= 0 uses DefaultTimeout.
func (c *Confirmer) Confirm(ctx context.Context, sig solana.Signature, timeout time.Duration) Result {
	log := c.log.WithFields(logrus.Fields{
		"method":    "Confirm",
		"signature": sig.String(),
	})

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	notification, err := c.pubsub.WaitForSignature(timeoutCtx, sig, solana.CommitmentConfirmed)
	if err != nil {
		result := fromContextError(ctx, timeoutCtx, err)
		log.WithError(err).Warnf("transaction not confirmed: %s", result.Reason())
		return result
	}

	if notification.Err != nil {
		log.WithError(notification.Err).WithField("slot", notification.Slot).Warn("transaction failed")
		return NotConfirmed(ReasonErrored, notification.Err)
	}

	log.WithField("slot", notification.Slot).Debug("transaction confirmed")
	return Confirmed()
}

// WaitForSlot polls the confirmed slot every pollInterval until it reaches
// slot or the timeout elapses. Non-positive durations use the defaults.
func (c *Confirmer) WaitForSlot(ctx context.Context, slot uint64, timeout, pollInterval time.Duration) Result {
	log := c.log.WithFields(logrus.Fields{
		"method": "WaitForSlot",
		"slot":   slot,
	})

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var current uint64
	_, err := retry.Retry(
		func() error {
			latest, err := c.rpc.GetSlot(solana.CommitmentConfirmed)
			if err != nil {
				log.WithError(err).Debug("failed to get slot")
				return err
			}

			current = latest
			if current < slot {
				return errSlotNotReached
			}
			return nil
		},
		retry.Context(timeoutCtx),
		retry.Backoff(backoff.Constant(pollInterval), pollInterval),
	)
	if err == nil {
		return Confirmed()
	}

	result := fromContextError(ctx, timeoutCtx, err)
	log.WithError(err).WithField("current_slot", current).Warnf("slot not reached: %s", result.Reason())
	return result
}

func fromContextError(parent, timeoutCtx context.Context, err error) Result {
	switch {
	case parent.Err() != nil:
		return NotConfirmed(ReasonCanceled, parent.Err())
	case timeoutCtx.Err() != nil:
		return NotConfirmed(ReasonTimedOut, err)
	default:
		return NotConfirmed(ReasonErrored, err)
	}
}
