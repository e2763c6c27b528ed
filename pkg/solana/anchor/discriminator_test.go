package anchor

import (
	"crypto/sha256"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/code-payments/fragments/pkg/solana/binary"
)

func TestInstructionDiscriminator(t *testing.T) {
	// Anchor's "initialize" discriminator, as found in generated IDLs
	assert.Equal(t, []byte{175, 175, 109, 31, 13, 152, 155, 237}, InstructionDiscriminator("initialize"))

	expected := sha256.Sum256([]byte("global:increment"))
	assert.Equal(t, expected[:8], InstructionDiscriminator("increment"))
	assert.NotEqual(t, InstructionDiscriminator("increment"), InstructionDiscriminator("initialize"))
}

func TestAccountDiscriminator(t *testing.T) {
	expected := sha256.Sum256([]byte("account:Counter"))
	assert.Equal(t, expected[:8], AccountDiscriminator("Counter"))
	assert.Len(t, AccountDiscriminator("Round"), binary.DiscriminatorSize)
}

func TestCheckAccountDiscriminator(t *testing.T) {
	expected := AccountDiscriminator("Counter")

	data := append(append([]byte{}, expected...), 1, 2, 3)
	assert.NoError(t, CheckAccountDiscriminator(data, expected))

	assert.Equal(t, ErrInvalidDiscriminator, CheckAccountDiscriminator(data, AccountDiscriminator("Round")))
	assert.True(t, errors.Is(CheckAccountDiscriminator(data[:3], expected), binary.ErrTruncatedBuffer))
}
