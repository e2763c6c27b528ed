package system

import (
	"crypto/ed25519"

	"github.com/code-payments/fragments/pkg/solana"
)

// ProgramKey is the address of the native system program, which owns every
// freshly created account. It is referenced by instructions that allocate
// program accounts.
var ProgramKey [32]byte

// AccountMeta returns the readonly account entry for the system program
func AccountMeta() solana.AccountMeta {
	return solana.NewReadonlyAccountMeta(ProgramKey[:], false)
}

// IsSystemProgram reports whether key is the system program
func IsSystemProgram(key ed25519.PublicKey) bool {
	if len(key) != len(ProgramKey) {
		return false
	}
	for i := range ProgramKey {
		if key[i] != ProgramKey[i] {
			return false
		}
	}
	return true
}
