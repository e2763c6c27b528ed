package program

import (
	"context"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/fragments/pkg/metrics"
	"github.com/code-payments/fragments/pkg/solana"
	"github.com/code-payments/fragments/pkg/solana/counter"
)

func (c *Client) getCounterAddress(user ed25519.PublicKey) (ed25519.PublicKey, error) {
	address, err := c.addresses.GetOrCompute(addressCacheKey("counter", user), 1, func() (ed25519.PublicKey, error) {
		address, _, err := counter.GetCounterAddress(&counter.GetCounterAddressArgs{
			Program: c.conf.CounterProgram,
			User:    user,
		})
		return address, err
	})
	if err != nil {
		return nil, errors.Wrap(err, "error deriving counter address")
	}
	return address, nil
}

// InitializeCounter creates the counter account owned by user, starting at
// zero. The user pays for the account and must be funded.
func (c *Client) InitializeCounter(ctx context.Context, user ed25519.PrivateKey) (solana.Signature, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "InitializeCounter")
	defer tracer.End()

	userAddress := user.Public().(ed25519.PublicKey)

	counterAddress, err := c.getCounterAddress(userAddress)
	if err != nil {
		tracer.OnError(err)
		return solana.Signature{}, err
	}

	sig, err := c.submitAndConfirm(
		ctx,
		"InitializeCounter",
		user,
		counter.NewInitializeInstruction(c.conf.CounterProgram, &counter.InitializeInstructionAccounts{
			User:    userAddress,
			Counter: counterAddress,
		}),
	)
	tracer.OnError(err)
	return sig, err
}

// IncrementCounter adds one to the user's counter
func (c *Client) IncrementCounter(ctx context.Context, user ed25519.PrivateKey) (solana.Signature, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "IncrementCounter")
	defer tracer.End()

	userAddress := user.Public().(ed25519.PublicKey)

	counterAddress, err := c.getCounterAddress(userAddress)
	if err != nil {
		tracer.OnError(err)
		return solana.Signature{}, err
	}

	sig, err := c.submitAndConfirm(
		ctx,
		"IncrementCounter",
		user,
		counter.NewIncrementInstruction(c.conf.CounterProgram, &counter.IncrementInstructionAccounts{
			Counter: counterAddress,
			User:    userAddress,
		}),
	)
	tracer.OnError(err)
	return sig, err
}

// GetCounter fetches the user's counter. ErrAccountNotFound is returned if it
// hasn't been initialized.
func (c *Client) GetCounter(ctx context.Context, user ed25519.PublicKey) (*counter.CounterAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetCounter")
	defer tracer.End()

	counterAddress, err := c.getCounterAddress(user)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	data, err := c.getAccountData(counterAddress)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	var account counter.CounterAccount
	if err := account.Unmarshal(data); err != nil {
		tracer.OnError(err)
		return nil, errors.Wrap(err, "error decoding counter account")
	}
	return &account, nil
}
