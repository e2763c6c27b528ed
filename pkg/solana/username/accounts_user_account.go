package username

import (
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/fragments/pkg/solana/anchor"
	"github.com/code-payments/fragments/pkg/solana/binary"
)

var UserAccountDiscriminator = anchor.AccountDiscriminator("UserAccount")

var UserAccountSchema = binary.Schema{
	{Name: "authority", Type: binary.Key32},
	{Name: "username", Type: binary.String},
	{Name: "change_count", Type: binary.U64},
	{Name: "username_recent_history", Type: binary.Vec(binary.String)},
}

type UserAccount struct {
	Authority ed25519.PublicKey
	Username  string

	// ChangeCount is also the index of the next username record
	ChangeCount uint64

	// RecentHistory holds the last MaxUsernameHistory names, oldest first
	RecentHistory []string
}

func (obj *UserAccount) Unmarshal(data []byte) error {
	if err := anchor.CheckAccountDiscriminator(data, UserAccountDiscriminator); err != nil {
		return errors.Wrap(ErrInvalidAccountData, err.Error())
	}

	record, err := binary.DecodeAccount(data, UserAccountSchema)
	if err != nil {
		return err
	}

	if obj.Authority, err = record.Key("authority"); err != nil {
		return err
	}
	if obj.Username, err = record.String("username"); err != nil {
		return err
	}
	if obj.ChangeCount, err = record.Uint64("change_count"); err != nil {
		return err
	}
	if obj.RecentHistory, err = record.Strings("username_recent_history"); err != nil {
		return err
	}
	return nil
}

func (obj *UserAccount) Marshal() []byte {
	size := binary.DiscriminatorSize +
		ed25519.PublicKeySize +
		binary.StringSize(obj.Username) +
		8 +
		binary.StringsSize(obj.RecentHistory)
	data := make([]byte, size)

	offset := copy(data, UserAccountDiscriminator)
	binary.PutKey32(data, obj.Authority, &offset)
	binary.PutString(data, obj.Username, &offset)
	binary.PutUint64(data, obj.ChangeCount, &offset)
	binary.PutStrings(data, obj.RecentHistory, &offset)

	return data
}

func (obj *UserAccount) String() string {
	return fmt.Sprintf(
		"UserAccount{authority=%s,username=%s,change_count=%d,username_recent_history=[%s]}",
		base58.Encode(obj.Authority),
		obj.Username,
		obj.ChangeCount,
		strings.Join(obj.RecentHistory, ","),
	)
}
