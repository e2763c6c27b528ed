package anchor

import (
	"bytes"
	"crypto/sha256"

	"github.com/pkg/errors"

	"github.com/code-payments/fragments/pkg/solana/binary"
)

var ErrInvalidDiscriminator = errors.New("invalid account discriminator")

// InstructionDiscriminator returns the 8 byte prefix Anchor programs use to
// dispatch an instruction, given its snake_case name.
func InstructionDiscriminator(name string) []byte {
	return discriminator("global", name)
}

// AccountDiscriminator returns the 8 byte prefix Anchor programs write at the
// start of an account, given its type name.
func AccountDiscriminator(name string) []byte {
	return discriminator("account", name)
}

// CheckAccountDiscriminator verifies raw account data starts with the expected
// discriminator
func CheckAccountDiscriminator(data, expected []byte) error {
	if len(data) < binary.DiscriminatorSize {
		return errors.Wrap(binary.ErrTruncatedBuffer, "discriminator")
	}
	if !bytes.Equal(data[:binary.DiscriminatorSize], expected) {
		return ErrInvalidDiscriminator
	}
	return nil
}

func discriminator(namespace, name string) []byte {
	h := sha256.Sum256([]byte(namespace + ":" + name))
	return h[:binary.DiscriminatorSize]
}
