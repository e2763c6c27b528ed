package round

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/fragments/pkg/solana/anchor"
	"github.com/code-payments/fragments/pkg/solana/binary"
)

var RoundAccountDiscriminator = anchor.AccountDiscriminator("Round")

var RoundAccountSchema = binary.Schema{
	{Name: "start_slot", Type: binary.U64},
	{Name: "authority", Type: binary.Key32},
	{Name: "activated_at", Type: binary.Option(binary.U64)},
	{Name: "activated_by", Type: binary.Option(binary.Key32)},
	{Name: "completed_at", Type: binary.Option(binary.U64)},
}

const (
	RoundAccountMaxSize = (8 + // discriminator
		8 + // start_slot
		32 + // authority
		1 + 8 + // activated_at
		1 + 32 + // activated_by
		1 + 8) // completed_at
)

type State uint8

const (
	StatePending State = iota
	StateActive
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateActive:
		return "active"
	case StateCompleted:
		return "completed"
	}
	return "unknown"
}

type RoundAccount struct {
	StartSlot   uint64
	Authority   ed25519.PublicKey
	ActivatedAt *uint64
	ActivatedBy ed25519.PublicKey
	CompletedAt *uint64
}

// State derives the lifecycle position from the optional fields
func (obj *RoundAccount) State() State {
	if obj.CompletedAt != nil {
		return StateCompleted
	}
	if obj.ActivatedAt != nil {
		return StateActive
	}
	return StatePending
}

func (obj *RoundAccount) Unmarshal(data []byte) error {
	if err := anchor.CheckAccountDiscriminator(data, RoundAccountDiscriminator); err != nil {
		return errors.Wrap(ErrInvalidAccountData, err.Error())
	}

	record, err := binary.DecodeAccount(data, RoundAccountSchema)
	if err != nil {
		return err
	}

	if obj.StartSlot, err = record.Uint64("start_slot"); err != nil {
		return err
	}
	if obj.Authority, err = record.Key("authority"); err != nil {
		return err
	}
	if obj.ActivatedAt, err = record.OptionalUint64("activated_at"); err != nil {
		return err
	}
	if obj.ActivatedBy, err = record.OptionalKey("activated_by"); err != nil {
		return err
	}
	if obj.CompletedAt, err = record.OptionalUint64("completed_at"); err != nil {
		return err
	}
	return nil
}

// Marshal encodes the account the way the program stores it, padded to the
// allocated size
func (obj *RoundAccount) Marshal() []byte {
	data := make([]byte, RoundAccountMaxSize)

	offset := copy(data, RoundAccountDiscriminator)
	binary.PutUint64(data, obj.StartSlot, &offset)
	binary.PutKey32(data, obj.Authority, &offset)
	binary.PutOptionalUint64(data, obj.ActivatedAt, &offset)
	binary.PutOptionalKey32(data, obj.ActivatedBy, &offset)
	binary.PutOptionalUint64(data, obj.CompletedAt, &offset)

	return data
}

func (obj *RoundAccount) String() string {
	return fmt.Sprintf(
		"Round{start_slot=%d,authority=%s,activated_at=%s,activated_by=%s,completed_at=%s,state=%s}",
		obj.StartSlot,
		base58.Encode(obj.Authority),
		formatOptionalUint64(obj.ActivatedAt),
		formatOptionalKey(obj.ActivatedBy),
		formatOptionalUint64(obj.CompletedAt),
		obj.State(),
	)
}

func formatOptionalUint64(v *uint64) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%d", *v)
}

func formatOptionalKey(v ed25519.PublicKey) string {
	if v == nil {
		return "<nil>"
	}
	return base58.Encode(v)
}
