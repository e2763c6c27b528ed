package solana

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"sort"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// MaxTransactionSize is the largest serialized transaction a node accepts
const MaxTransactionSize = 1232

type Signature [ed25519.SignatureSize]byte
type Blockhash [sha256.Size]byte

func (s Signature) String() string {
	return base58.Encode(s[:])
}

func (b Blockhash) String() string {
	return base58.Encode(b[:])
}

// Header describes how the message account list splits into signers and
// readonly accounts
type Header struct {
	NumSignatures     byte
	NumReadonlySigned byte
	NumReadOnly       byte
}

// Message is a legacy transaction message. Address lookup tables aren't
// supported.
type Message struct {
	Header          Header
	Accounts        []ed25519.PublicKey
	RecentBlockhash Blockhash
	Instructions    []CompiledInstruction
}

type Transaction struct {
	Signatures []Signature
	Message    Message
}

// NewTransaction compiles instructions into an unsigned transaction paid for
// by payer. The blockhash must be set before signing.
func NewTransaction(payer ed25519.PublicKey, instructions ...Instruction) Transaction {
	metas := []AccountMeta{{PublicKey: payer, IsSigner: true, IsWritable: true, isPayer: true}}
	for _, instruction := range instructions {
		metas = append(metas, AccountMeta{PublicKey: instruction.Program, isProgram: true})
		metas = append(metas, instruction.Accounts...)
	}

	metas = mergeAccounts(metas)
	sort.SliceStable(metas, func(i, j int) bool {
		return accountsBefore(metas[i], metas[j])
	})

	var m Message
	for _, meta := range metas {
		m.Accounts = append(m.Accounts, meta.PublicKey)

		switch {
		case meta.IsSigner:
			m.Header.NumSignatures++
			if !meta.IsWritable {
				m.Header.NumReadonlySigned++
			}
		case !meta.IsWritable:
			m.Header.NumReadOnly++
		}
	}

	for _, instruction := range instructions {
		compiled := CompiledInstruction{
			ProgramIndex: byte(m.accountIndex(instruction.Program)),
			Data:         instruction.Data,
		}
		for _, account := range instruction.Accounts {
			compiled.Accounts = append(compiled.Accounts, byte(m.accountIndex(account.PublicKey)))
		}
		m.Instructions = append(m.Instructions, compiled)
	}

	return Transaction{
		Signatures: make([]Signature, m.Header.NumSignatures),
		Message:    m,
	}
}

func (t *Transaction) SetBlockhash(hash Blockhash) {
	t.Message.RecentBlockhash = hash
}

// Sign adds a signature for every signer. Each must be one of the message's
// signing accounts.
func (t *Transaction) Sign(signers ...ed25519.PrivateKey) error {
	message := t.Message.Marshal()

	for _, signer := range signers {
		pub := signer.Public().(ed25519.PublicKey)

		index := t.Message.accountIndex(pub)
		if index < 0 || index >= len(t.Signatures) {
			return errors.Errorf("%s is not a signer of the transaction", base58.Encode(pub))
		}

		copy(t.Signatures[index][:], ed25519.Sign(signer, message))
	}

	return nil
}

func (m *Message) accountIndex(key ed25519.PublicKey) int {
	for i, account := range m.Accounts {
		if bytes.Equal(account, key) {
			return i
		}
	}
	return -1
}
