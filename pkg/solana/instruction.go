package solana

import (
	"bytes"
	"crypto/ed25519"
)

// AccountMeta is an account referenced by an instruction, along with the
// permissions the instruction needs on it
type AccountMeta struct {
	PublicKey  ed25519.PublicKey
	IsSigner   bool
	IsWritable bool

	isPayer   bool
	isProgram bool
}

func NewAccountMeta(pub ed25519.PublicKey, isSigner bool) AccountMeta {
	return AccountMeta{
		PublicKey:  pub,
		IsSigner:   isSigner,
		IsWritable: true,
	}
}

func NewReadonlyAccountMeta(pub ed25519.PublicKey, isSigner bool) AccountMeta {
	return AccountMeta{
		PublicKey: pub,
		IsSigner:  isSigner,
	}
}

// accountsBefore orders the message account list: the fee payer first, then
// writable signers, readonly signers, writable non-signers and readonly
// non-signers, with invoked programs last. Ties sort by key.
func accountsBefore(a, b AccountMeta) bool {
	if a.isPayer != b.isPayer {
		return a.isPayer
	}
	if a.isProgram != b.isProgram {
		return b.isProgram
	}
	if a.IsSigner != b.IsSigner {
		return a.IsSigner
	}
	if a.IsWritable != b.IsWritable {
		return a.IsWritable
	}
	return bytes.Compare(a.PublicKey, b.PublicKey) < 0
}

// mergeAccounts collapses duplicate keys, keeping the union of their
// permissions
func mergeAccounts(accounts []AccountMeta) []AccountMeta {
	merged := make([]AccountMeta, 0, len(accounts))
	index := make(map[string]int, len(accounts))

	for _, account := range accounts {
		i, ok := index[string(account.PublicKey)]
		if !ok {
			index[string(account.PublicKey)] = len(merged)
			merged = append(merged, account)
			continue
		}

		merged[i].IsSigner = merged[i].IsSigner || account.IsSigner
		merged[i].IsWritable = merged[i].IsWritable || account.IsWritable
		merged[i].isPayer = merged[i].isPayer || account.isPayer
	}

	return merged
}

// Instruction invokes Program with Data over Accounts
type Instruction struct {
	Program  ed25519.PublicKey
	Accounts []AccountMeta
	Data     []byte
}

func NewInstruction(program ed25519.PublicKey, data []byte, accounts ...AccountMeta) Instruction {
	return Instruction{
		Program:  program,
		Data:     data,
		Accounts: accounts,
	}
}

// CompiledInstruction is an Instruction with its program and accounts
// replaced by indexes into the message account list
type CompiledInstruction struct {
	ProgramIndex byte
	Accounts     []byte
	Data         []byte
}
