package solana

import (
	"bytes"
	"crypto/ed25519"
	"io"

	"github.com/pkg/errors"

	"github.com/code-payments/fragments/pkg/solana/shortvec"
)

// Marshal encodes the transaction in the wire format accepted by
// sendTransaction
func (t Transaction) Marshal() []byte {
	var buf bytes.Buffer

	_, _ = shortvec.EncodeLen(&buf, len(t.Signatures))
	for _, sig := range t.Signatures {
		buf.Write(sig[:])
	}
	buf.Write(t.Message.Marshal())

	return buf.Bytes()
}

// Marshal encodes the message. These are the bytes covered by signatures.
func (m Message) Marshal() []byte {
	var buf bytes.Buffer

	buf.Write([]byte{m.Header.NumSignatures, m.Header.NumReadonlySigned, m.Header.NumReadOnly})

	_, _ = shortvec.EncodeLen(&buf, len(m.Accounts))
	for _, account := range m.Accounts {
		buf.Write(account)
	}

	buf.Write(m.RecentBlockhash[:])

	_, _ = shortvec.EncodeLen(&buf, len(m.Instructions))
	for _, instruction := range m.Instructions {
		buf.WriteByte(instruction.ProgramIndex)
		writeCompact(&buf, instruction.Accounts)
		writeCompact(&buf, instruction.Data)
	}

	return buf.Bytes()
}

func writeCompact(buf *bytes.Buffer, b []byte) {
	_, _ = shortvec.EncodeLen(buf, len(b))
	buf.Write(b)
}

func (t *Transaction) Unmarshal(b []byte) error {
	r := &wireReader{r: bytes.NewReader(b)}

	count := r.length("signature count")
	t.Signatures = make([]Signature, count)
	for i := range t.Signatures {
		r.fill(t.Signatures[i][:], "signature")
	}
	if r.err != nil {
		return r.err
	}

	rest := make([]byte, r.r.Len())
	_, _ = r.r.Read(rest)
	return t.Message.Unmarshal(rest)
}

func (m *Message) Unmarshal(b []byte) error {
	if len(b) == 0 {
		return errors.New("empty message")
	}
	// The high bit marks a versioned message
	if b[0]&0x80 != 0 {
		return errors.New("versioned messages not supported")
	}

	r := &wireReader{r: bytes.NewReader(b)}

	m.Header = Header{
		NumSignatures:     r.byte("header"),
		NumReadonlySigned: r.byte("header"),
		NumReadOnly:       r.byte("header"),
	}

	m.Accounts = make([]ed25519.PublicKey, r.length("account count"))
	for i := range m.Accounts {
		m.Accounts[i] = make(ed25519.PublicKey, ed25519.PublicKeySize)
		r.fill(m.Accounts[i], "account")
	}

	r.fill(m.RecentBlockhash[:], "recent blockhash")

	m.Instructions = make([]CompiledInstruction, r.length("instruction count"))
	for i := range m.Instructions {
		instruction := CompiledInstruction{
			ProgramIndex: r.byte("program index"),
			Accounts:     r.compact("instruction accounts"),
			Data:         r.compact("instruction data"),
		}
		if r.err != nil {
			return r.err
		}

		if int(instruction.ProgramIndex) >= len(m.Accounts) {
			return errors.Errorf("instruction %d: program index %d out of range", i, instruction.ProgramIndex)
		}
		for _, index := range instruction.Accounts {
			if int(index) >= len(m.Accounts) {
				return errors.Errorf("instruction %d: account index %d out of range", i, index)
			}
		}

		m.Instructions[i] = instruction
	}

	return r.err
}

// wireReader reads the fields of a message, remembering the first failure so
// that decoding reads linearly
type wireReader struct {
	r   *bytes.Reader
	err error
}

func (w *wireReader) byte(field string) byte {
	var b [1]byte
	w.fill(b[:], field)
	return b[0]
}

func (w *wireReader) fill(dst []byte, field string) {
	if w.err != nil {
		return
	}
	if _, err := io.ReadFull(w.r, dst); err != nil {
		w.err = errors.Wrapf(err, "failed to read %s", field)
	}
}

func (w *wireReader) length(field string) int {
	if w.err != nil {
		return 0
	}

	n, err := shortvec.DecodeLen(w.r)
	if err != nil {
		w.err = errors.Wrapf(err, "failed to read %s", field)
		return 0
	}
	return n
}

func (w *wireReader) compact(field string) []byte {
	b := make([]byte, w.length(field))
	w.fill(b, field)
	return b
}
