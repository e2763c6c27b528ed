package program

import (
	"context"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/fragments/pkg/metrics"
	"github.com/code-payments/fragments/pkg/solana"
	"github.com/code-payments/fragments/pkg/solana/username"
)

func (c *Client) getUserAccountAddress(authority ed25519.PublicKey) (ed25519.PublicKey, error) {
	address, err := c.addresses.GetOrCompute(addressCacheKey("user_account", authority), 1, func() (ed25519.PublicKey, error) {
		address, _, err := username.GetUserAccountAddress(&username.GetUserAccountAddressArgs{
			Program:   c.conf.UsernameProgram,
			Authority: authority,
		})
		return address, err
	})
	if err != nil {
		return nil, errors.Wrap(err, "error deriving user account address")
	}
	return address, nil
}

// InitializeUsername creates the user account of authority holding name.
// Invalid names are rejected by the program and surface as one of the
// username.ErrUsername* errors.
func (c *Client) InitializeUsername(ctx context.Context, authority ed25519.PrivateKey, name string) (solana.Signature, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "InitializeUsername")
	defer tracer.End()

	authorityAddress := authority.Public().(ed25519.PublicKey)

	userAccountAddress, err := c.getUserAccountAddress(authorityAddress)
	if err != nil {
		tracer.OnError(err)
		return solana.Signature{}, err
	}

	sig, err := c.submitAndConfirm(
		ctx,
		"InitializeUsername",
		authority,
		username.NewInitializeUsernameInstruction(
			c.conf.UsernameProgram,
			&username.InitializeUsernameInstructionAccounts{
				Authority:   authorityAddress,
				UserAccount: userAccountAddress,
			},
			&username.InitializeUsernameInstructionArgs{
				Username: name,
			},
		),
	)
	err = toUsernameError(err)
	tracer.OnError(err)
	return sig, err
}

// UpdateUsername changes the username of authority, archiving the current
// one in a record at the current change count. Name rules are enforced by the
// program.
func (c *Client) UpdateUsername(ctx context.Context, authority ed25519.PrivateKey, name string) (solana.Signature, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "UpdateUsername")
	defer tracer.End()

	authorityAddress := authority.Public().(ed25519.PublicKey)

	account, err := c.GetUserAccount(ctx, authorityAddress)
	if err != nil {
		tracer.OnError(err)
		return solana.Signature{}, err
	}

	userAccountAddress, err := c.getUserAccountAddress(authorityAddress)
	if err != nil {
		tracer.OnError(err)
		return solana.Signature{}, err
	}

	recordAddress, _, err := username.GetUsernameRecordAddress(&username.GetUsernameRecordAddressArgs{
		Program:     c.conf.UsernameProgram,
		Authority:   authorityAddress,
		ChangeIndex: account.ChangeCount,
	})
	if err != nil {
		tracer.OnError(err)
		return solana.Signature{}, errors.Wrap(err, "error deriving username record address")
	}

	sig, err := c.submitAndConfirm(
		ctx,
		"UpdateUsername",
		authority,
		username.NewUpdateUsernameInstruction(
			c.conf.UsernameProgram,
			&username.UpdateUsernameInstructionAccounts{
				Authority:      authorityAddress,
				UserAccount:    userAccountAddress,
				UsernameRecord: recordAddress,
			},
			&username.UpdateUsernameInstructionArgs{
				Username: name,
			},
		),
	)
	err = toUsernameError(err)
	tracer.OnError(err)
	return sig, err
}

// GetUserAccount fetches the user account of authority. ErrAccountNotFound is
// returned if it hasn't been initialized.
func (c *Client) GetUserAccount(ctx context.Context, authority ed25519.PublicKey) (*username.UserAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetUserAccount")
	defer tracer.End()

	address, err := c.getUserAccountAddress(authority)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	data, err := c.getAccountData(address)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	var account username.UserAccount
	if err := account.Unmarshal(data); err != nil {
		tracer.OnError(err)
		return nil, errors.Wrap(err, "error decoding user account")
	}
	return &account, nil
}

// GetUsernameRecord fetches the username archived by the update at
// changeIndex. ErrAccountNotFound is returned if no such update happened.
func (c *Client) GetUsernameRecord(ctx context.Context, authority ed25519.PublicKey, changeIndex uint64) (*username.UsernameRecordAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetUsernameRecord")
	tracer.AddAttribute("change_index", changeIndex)
	defer tracer.End()

	address, _, err := username.GetUsernameRecordAddress(&username.GetUsernameRecordAddressArgs{
		Program:     c.conf.UsernameProgram,
		Authority:   authority,
		ChangeIndex: changeIndex,
	})
	if err != nil {
		tracer.OnError(err)
		return nil, errors.Wrap(err, "error deriving username record address")
	}

	data, err := c.getAccountData(address)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	var account username.UsernameRecordAccount
	if err := account.Unmarshal(data); err != nil {
		tracer.OnError(err)
		return nil, errors.Wrap(err, "error decoding username record")
	}
	return &account, nil
}

// toUsernameError replaces program rejections with the matching username
// validation error
func toUsernameError(err error) error {
	if err == nil {
		return nil
	}

	code, ok := CustomErrorCode(err)
	if !ok {
		return err
	}

	if validationErr := username.ErrorFromCode(int(code)); validationErr != nil {
		return validationErr
	}
	return err
}
