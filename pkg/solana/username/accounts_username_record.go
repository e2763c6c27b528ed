package username

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/fragments/pkg/solana/anchor"
	"github.com/code-payments/fragments/pkg/solana/binary"
)

var UsernameRecordDiscriminator = anchor.AccountDiscriminator("UsernameRecord")

var UsernameRecordSchema = binary.Schema{
	{Name: "authority", Type: binary.Key32},
	{Name: "old_username", Type: binary.String},
	{Name: "change_index", Type: binary.U64},
}

type UsernameRecordAccount struct {
	Authority   ed25519.PublicKey
	OldUsername string
	ChangeIndex uint64
}

func (obj *UsernameRecordAccount) Unmarshal(data []byte) error {
	if err := anchor.CheckAccountDiscriminator(data, UsernameRecordDiscriminator); err != nil {
		return errors.Wrap(ErrInvalidAccountData, err.Error())
	}

	record, err := binary.DecodeAccount(data, UsernameRecordSchema)
	if err != nil {
		return err
	}

	if obj.Authority, err = record.Key("authority"); err != nil {
		return err
	}
	if obj.OldUsername, err = record.String("old_username"); err != nil {
		return err
	}
	if obj.ChangeIndex, err = record.Uint64("change_index"); err != nil {
		return err
	}
	return nil
}

func (obj *UsernameRecordAccount) Marshal() []byte {
	data := make([]byte, binary.DiscriminatorSize+ed25519.PublicKeySize+binary.StringSize(obj.OldUsername)+8)

	offset := copy(data, UsernameRecordDiscriminator)
	binary.PutKey32(data, obj.Authority, &offset)
	binary.PutString(data, obj.OldUsername, &offset)
	binary.PutUint64(data, obj.ChangeIndex, &offset)

	return data
}

func (obj *UsernameRecordAccount) String() string {
	return fmt.Sprintf(
		"UsernameRecord{authority=%s,old_username=%s,change_index=%d}",
		base58.Encode(obj.Authority),
		obj.OldUsername,
		obj.ChangeIndex,
	)
}
