package program

import (
	"context"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/fragments/pkg/metrics"
	"github.com/code-payments/fragments/pkg/solana"
	"github.com/code-payments/fragments/pkg/solana/round"
)

// RoundStartSlotOffset is how far ahead of the current slot new rounds start
const RoundStartSlotOffset = 3

func (c *Client) getRoundAddress(authority ed25519.PublicKey) (ed25519.PublicKey, error) {
	address, err := c.addresses.GetOrCompute(addressCacheKey("round", authority), 1, func() (ed25519.PublicKey, error) {
		address, _, err := round.GetRoundAddress(&round.GetRoundAddressArgs{
			Program:   c.conf.RoundProgram,
			Authority: authority,
		})
		return address, err
	})
	if err != nil {
		return nil, errors.Wrap(err, "error deriving round address")
	}
	return address, nil
}

// InitialiseRound creates a pending round owned by authority that can be
// activated from startSlot onwards. The program rejects start slots that
// aren't in the future.
func (c *Client) InitialiseRound(ctx context.Context, authority ed25519.PrivateKey, startSlot uint64) (solana.Signature, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "InitialiseRound")
	tracer.AddAttribute("start_slot", startSlot)
	defer tracer.End()

	authorityAddress := authority.Public().(ed25519.PublicKey)

	roundAddress, err := c.getRoundAddress(authorityAddress)
	if err != nil {
		tracer.OnError(err)
		return solana.Signature{}, err
	}

	sig, err := c.submitAndConfirm(
		ctx,
		"InitialiseRound",
		authority,
		round.NewInitialiseRoundInstruction(
			c.conf.RoundProgram,
			&round.InitialiseRoundInstructionAccounts{
				Round:     roundAddress,
				Authority: authorityAddress,
			},
			&round.InitialiseRoundInstructionArgs{
				StartSlot: startSlot,
			},
		),
	)
	tracer.OnError(err)
	return sig, err
}

// ActivateRound activates the round owned by authority. The payer signs,
// pays, and is recorded as the activator. The program rejects activation
// before the start slot or of an already active round.
func (c *Client) ActivateRound(ctx context.Context, authority ed25519.PublicKey, payer ed25519.PrivateKey) (solana.Signature, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "ActivateRound")
	defer tracer.End()

	roundAddress, err := c.getRoundAddress(authority)
	if err != nil {
		tracer.OnError(err)
		return solana.Signature{}, err
	}

	sig, err := c.submitAndConfirm(
		ctx,
		"ActivateRound",
		payer,
		round.NewActivateRoundInstruction(c.conf.RoundProgram, &round.ActivateRoundInstructionAccounts{
			Round: roundAddress,
			Payer: payer.Public().(ed25519.PublicKey),
		}),
	)
	tracer.OnError(err)
	return sig, err
}

// CompleteRound completes the active round owned by authority
func (c *Client) CompleteRound(ctx context.Context, authority ed25519.PrivateKey) (solana.Signature, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "CompleteRound")
	defer tracer.End()

	authorityAddress := authority.Public().(ed25519.PublicKey)

	roundAddress, err := c.getRoundAddress(authorityAddress)
	if err != nil {
		tracer.OnError(err)
		return solana.Signature{}, err
	}

	sig, err := c.submitAndConfirm(
		ctx,
		"CompleteRound",
		authority,
		round.NewCompleteRoundInstruction(c.conf.RoundProgram, &round.CompleteRoundInstructionAccounts{
			Round:     roundAddress,
			Authority: authorityAddress,
		}),
	)
	tracer.OnError(err)
	return sig, err
}

// GetRound fetches the round owned by authority. ErrAccountNotFound is
// returned if it hasn't been initialised.
func (c *Client) GetRound(ctx context.Context, authority ed25519.PublicKey) (*round.RoundAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetRound")
	defer tracer.End()

	roundAddress, err := c.getRoundAddress(authority)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	data, err := c.getAccountData(roundAddress)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	var account round.RoundAccount
	if err := account.Unmarshal(data); err != nil {
		tracer.OnError(err)
		return nil, errors.Wrap(err, "error decoding round account")
	}
	return &account, nil
}

// WaitForRoundStart blocks until the round owned by authority can be
// activated
func (c *Client) WaitForRoundStart(ctx context.Context, authority ed25519.PublicKey) error {
	account, err := c.GetRound(ctx, authority)
	if err != nil {
		return err
	}
	return c.WaitForSlot(ctx, account.StartSlot)
}
