// Package simulator executes counter, round and username instructions
// against a testutil.SolanaNode, so program clients can be exercised without
// a validator.
package simulator

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/fragments/pkg/solana"
	"github.com/code-payments/fragments/pkg/solana/binary"
	"github.com/code-payments/fragments/pkg/solana/counter"
	"github.com/code-payments/fragments/pkg/solana/round"
	"github.com/code-payments/fragments/pkg/solana/username"
	"github.com/code-payments/fragments/pkg/testutil"
)

var usernameArgsSchema = binary.Schema{
	{Name: "username", Type: binary.String},
}

var startSlotArgsSchema = binary.Schema{
	{Name: "start_slot", Type: binary.U64},
}

type Programs struct {
	Counter  ed25519.PublicKey
	Round    ed25519.PublicKey
	Username ed25519.PublicKey
}

// Simulator mirrors the on-chain rules of the programs closely enough for
// client tests. Failures are reported like a failed preflight simulation.
type Simulator struct {
	programs Programs
}

func New(programs Programs) *Simulator {
	return &Simulator{programs: programs}
}

// Install makes node run every submitted transaction through the simulator
func (s *Simulator) Install(node *testutil.SolanaNode) {
	node.Lock()
	node.Executor = s.Execute
	node.Unlock()
}

func (s *Simulator) Execute(node *testutil.SolanaNode, txn solana.Transaction) error {
	for i, ix := range txn.Message.Instructions {
		if int(ix.ProgramIndex) >= len(txn.Message.Accounts) {
			return instructionError(i, errors.New(string(solana.InstructionErrorMissingAccount)))
		}

		accounts := make([]ed25519.PublicKey, len(ix.Accounts))
		for j, index := range ix.Accounts {
			if int(index) >= len(txn.Message.Accounts) {
				return instructionError(i, errors.New(string(solana.InstructionErrorMissingAccount)))
			}
			accounts[j] = txn.Message.Accounts[index]
		}

		ctx := &instructionContext{
			node:     node,
			index:    i,
			program:  txn.Message.Accounts[ix.ProgramIndex],
			accounts: accounts,
			data:     ix.Data,
		}

		var err error
		switch {
		case bytes.Equal(ctx.program, s.programs.Counter):
			err = executeCounter(ctx)
		case bytes.Equal(ctx.program, s.programs.Round):
			err = executeRound(ctx)
		case bytes.Equal(ctx.program, s.programs.Username):
			err = executeUsername(ctx)
		default:
			err = ctx.fail(errors.New(string(solana.InstructionErrorIncorrectProgramID)))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

type instructionContext struct {
	node     *testutil.SolanaNode
	index    int
	program  ed25519.PublicKey
	accounts []ed25519.PublicKey
	data     []byte
}

func (c *instructionContext) is(discriminator []byte) bool {
	return bytes.HasPrefix(c.data, discriminator)
}

func (c *instructionContext) account(i int) (ed25519.PublicKey, error) {
	if i >= len(c.accounts) {
		return nil, c.fail(errors.New(string(solana.InstructionErrorNotEnoughAccountKeys)))
	}
	return c.accounts[i], nil
}

func (c *instructionContext) slot() uint64 {
	slot, _ := c.node.GetSlot(solana.CommitmentConfirmed)
	return slot
}

func (c *instructionContext) store(address ed25519.PublicKey, data []byte) {
	c.node.SetAccount(address, c.program, data)
}

func (c *instructionContext) custom(code solana.CustomError) error {
	return c.fail(code)
}

func (c *instructionContext) fail(err error) error {
	return instructionError(c.index, err)
}

func instructionError(index int, err error) error {
	txErr, convErr := solana.TransactionErrorFromInstructionError(&solana.InstructionError{
		Index: index,
		Err:   err,
	})
	if convErr != nil {
		return convErr
	}
	return txErr
}

func executeCounter(c *instructionContext) error {
	switch {
	case c.is(counter.InitializeInstructionDiscriminator):
		address, err := c.account(1)
		if err != nil {
			return err
		}
		if _, exists := c.node.AccountData(address); exists {
			return c.fail(errors.New(string(solana.InstructionErrorAccountAlreadyInitialized)))
		}

		c.store(address, (&counter.CounterAccount{}).Marshal())
		return nil
	case c.is(counter.IncrementInstructionDiscriminator):
		address, err := c.account(0)
		if err != nil {
			return err
		}

		var account counter.CounterAccount
		if err := loadAccount(c, address, &account); err != nil {
			return err
		}

		account.Count++
		c.store(address, account.Marshal())
		return nil
	}
	return c.fail(errors.New(string(solana.InstructionErrorInvalidInstructionData)))
}

func executeRound(c *instructionContext) error {
	address, err := c.account(0)
	if err != nil {
		return err
	}
	signer, err := c.account(1)
	if err != nil {
		return err
	}

	current := c.slot()

	switch {
	case c.is(round.InitialiseRoundInstructionDiscriminator):
		if _, exists := c.node.AccountData(address); exists {
			return c.fail(errors.New(string(solana.InstructionErrorAccountAlreadyInitialized)))
		}

		args, err := binary.DecodeAccount(c.data, startSlotArgsSchema)
		if err != nil {
			return c.fail(errors.New(string(solana.InstructionErrorInvalidInstructionData)))
		}
		startSlot, _ := args.Uint64("start_slot")
		if startSlot <= current {
			return c.custom(round.ErrorCodeInvalidStartSlot)
		}

		c.store(address, (&round.RoundAccount{StartSlot: startSlot, Authority: signer}).Marshal())
		return nil
	case c.is(round.ActivateRoundInstructionDiscriminator):
		var account round.RoundAccount
		if err := loadAccount(c, address, &account); err != nil {
			return err
		}

		if account.ActivatedAt != nil {
			return c.custom(round.ErrorCodeRoundAlreadyActive)
		}
		if current < account.StartSlot {
			return c.custom(round.ErrorCodeInvalidRoundActivationSlot)
		}

		account.ActivatedAt = &current
		account.ActivatedBy = signer
		c.store(address, account.Marshal())
		return nil
	case c.is(round.CompleteRoundInstructionDiscriminator):
		var account round.RoundAccount
		if err := loadAccount(c, address, &account); err != nil {
			return err
		}

		if !bytes.Equal(account.Authority, signer) {
			return c.fail(errors.New(string(solana.InstructionErrorMissingRequiredSignature)))
		}
		if account.ActivatedAt == nil {
			return c.custom(round.ErrorCodeRoundNotYetActive)
		}
		if account.CompletedAt != nil {
			return c.custom(round.ErrorCodeRoundAlreadyComplete)
		}

		account.CompletedAt = &current
		c.store(address, account.Marshal())
		return nil
	}
	return c.fail(errors.New(string(solana.InstructionErrorInvalidInstructionData)))
}

func executeUsername(c *instructionContext) error {
	authority, err := c.account(0)
	if err != nil {
		return err
	}
	address, err := c.account(1)
	if err != nil {
		return err
	}

	args, err := binary.DecodeAccount(c.data, usernameArgsSchema)
	if err != nil {
		return c.fail(errors.New(string(solana.InstructionErrorInvalidInstructionData)))
	}
	requested, _ := args.String("username")

	switch {
	case c.is(username.InitializeUsernameInstructionDiscriminator):
		if _, exists := c.node.AccountData(address); exists {
			return c.fail(errors.New(string(solana.InstructionErrorAccountAlreadyInitialized)))
		}

		name, err := username.Validate(requested, "")
		if err != nil {
			return c.custom(codeFromUsernameError(err))
		}

		c.store(address, (&username.UserAccount{
			Authority:     authority,
			Username:      name,
			RecentHistory: []string{},
		}).Marshal())
		return nil
	case c.is(username.UpdateUsernameInstructionDiscriminator):
		recordAddress, err := c.account(2)
		if err != nil {
			return err
		}

		var account username.UserAccount
		if err := loadAccount(c, address, &account); err != nil {
			return err
		}

		name, err := username.Validate(requested, account.Username)
		if err != nil {
			return c.custom(codeFromUsernameError(err))
		}

		if _, exists := c.node.AccountData(recordAddress); exists {
			return c.fail(errors.New(string(solana.InstructionErrorAccountAlreadyInitialized)))
		}
		c.store(recordAddress, (&username.UsernameRecordAccount{
			Authority:   authority,
			OldUsername: account.Username,
			ChangeIndex: account.ChangeCount,
		}).Marshal())

		if len(account.RecentHistory) >= username.MaxUsernameHistory {
			account.RecentHistory = account.RecentHistory[1:]
		}
		account.RecentHistory = append(account.RecentHistory, account.Username)
		account.Username = name
		account.ChangeCount++

		c.store(address, account.Marshal())
		return nil
	}
	return c.fail(errors.New(string(solana.InstructionErrorInvalidInstructionData)))
}

type unmarshaler interface {
	Unmarshal(data []byte) error
}

func loadAccount(c *instructionContext, address ed25519.PublicKey, dst unmarshaler) error {
	data, exists := c.node.AccountData(address)
	if !exists {
		return c.fail(errors.New(string(solana.InstructionErrorUninitializedAccount)))
	}
	if err := dst.Unmarshal(data); err != nil {
		return c.fail(errors.New(string(solana.InstructionErrorInvalidAccountData)))
	}
	return nil
}

func codeFromUsernameError(err error) solana.CustomError {
	switch err {
	case username.ErrUsernameTooLong:
		return username.ErrorCodeUsernameTooLong
	case username.ErrUsernameTooShort:
		return username.ErrorCodeUsernameTooShort
	case username.ErrUsernameInvalidCharacters:
		return username.ErrorCodeUsernameInvalidCharacters
	default:
		return username.ErrorCodeUsernameAlreadyAssigned
	}
}
