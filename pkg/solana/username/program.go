package username

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/code-payments/fragments/pkg/solana"
)

var (
	ErrInvalidAccountData = errors.New("unexpected account data")
)

var (
	UserAccountPrefix    = []byte("user_account")
	UsernameRecordPrefix = []byte("username_record")
)

const (
	ErrorCodeUsernameTooLong solana.CustomError = 6000 + iota
	ErrorCodeUsernameTooShort
	ErrorCodeUsernameInvalidCharacters
	ErrorCodeUsernameAlreadyAssigned
)

type GetUserAccountAddressArgs struct {
	Program   ed25519.PublicKey
	Authority ed25519.PublicKey
}

func GetUserAccountAddress(args *GetUserAccountAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		args.Program,
		UserAccountPrefix,
		args.Authority,
	)
}

type GetUsernameRecordAddressArgs struct {
	Program     ed25519.PublicKey
	Authority   ed25519.PublicKey
	ChangeIndex uint64
}

func GetUsernameRecordAddress(args *GetUsernameRecordAddressArgs) (ed25519.PublicKey, uint8, error) {
	changeIndex := make([]byte, 8)
	binary.LittleEndian.PutUint64(changeIndex, args.ChangeIndex)

	return solana.FindProgramAddressAndBump(
		args.Program,
		UsernameRecordPrefix,
		args.Authority,
		changeIndex,
	)
}
