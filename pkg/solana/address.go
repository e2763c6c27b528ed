package solana

import (
	"crypto/ed25519"
	"crypto/sha256"

	"github.com/jdgcs/ed25519/edwards25519"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const (
	maxSeeds      = 16
	maxSeedLength = 32

	pdaMarker = "ProgramDerivedAddress"
)

var (
	ErrTooManySeeds          = errors.New("too many seeds")
	ErrMaxSeedLengthExceeded = errors.New("max seed length exceeded")
	ErrInvalidPublicKey      = errors.New("invalid public key")
	ErrNoProgramAddress      = errors.New("unable to find a viable program address")
	ErrInvalidAddress        = errors.New("invalid address")
)

// CreateProgramAddress derives the program derived address (PDA) of program
// for seeds: sha256(seeds || program || "ProgramDerivedAddress").
//
// A PDA must not be a valid ed25519 point so that no private key can sign
// for it. ErrInvalidPublicKey is returned when the hash lands on the curve.
func CreateProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, error) {
	if len(seeds) > maxSeeds {
		return nil, ErrTooManySeeds
	}

	h := sha256.New()
	for _, seed := range seeds {
		if len(seed) > maxSeedLength {
			return nil, ErrMaxSeedLengthExceeded
		}
		h.Write(seed)
	}
	h.Write(program)
	h.Write([]byte(pdaMarker))

	var candidate [ed25519.PublicKeySize]byte
	copy(candidate[:], h.Sum(nil))

	if onCurve(&candidate) {
		return nil, ErrInvalidPublicKey
	}
	return candidate[:], nil
}

// onCurve reports whether key decodes to an ed25519 point. The standard
// library keeps its point type internal, hence the edwards25519 fork.
var onCurve = isPoint

func isPoint(key *[ed25519.PublicKeySize]byte) bool {
	var point edwards25519.ExtendedGroupElement
	return point.FromBytes(key)
}

// FindProgramAddressAndBump searches bump seeds from 255 downwards and
// returns the first off curve address, along with the bump that produced it
func FindProgramAddressAndBump(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, uint8, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)

	for bump := 255; bump > 0; bump-- {
		withBump[len(seeds)] = []byte{byte(bump)}

		address, err := CreateProgramAddress(program, withBump...)
		switch err {
		case nil:
			return address, byte(bump), nil
		case ErrInvalidPublicKey:
		default:
			return nil, 0, err
		}
	}

	return nil, 0, ErrNoProgramAddress
}

// FindProgramAddress is FindProgramAddressAndBump without the bump
func FindProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, error) {
	address, _, err := FindProgramAddressAndBump(program, seeds...)
	return address, err
}

// ParseAddress decodes a base58 encoded account address. Anything that
// doesn't decode to exactly 32 bytes is rejected with ErrInvalidAddress.
func ParseAddress(s string) (ed25519.PublicKey, error) {
	if len(s) == 0 {
		return nil, ErrInvalidAddress
	}

	decoded, err := base58.Decode(s)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidAddress, err.Error())
	}
	if len(decoded) != ed25519.PublicKeySize {
		return nil, errors.Wrapf(ErrInvalidAddress, "expected %d bytes, got %d", ed25519.PublicKeySize, len(decoded))
	}

	return decoded, nil
}
