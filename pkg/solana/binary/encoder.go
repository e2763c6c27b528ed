package binary

import (
	"crypto/ed25519"
	"encoding/binary"
)

// Encoding helpers for instruction arguments. Each writes at *offset and
// advances it, so dst must be sized up front (see StringSize).

func PutKey32(dst []byte, v ed25519.PublicKey, offset *int) {
	copy(dst[*offset:], v)
	*offset += ed25519.PublicKeySize
}

func PutUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst[*offset:], v)
	*offset += uint64Size
}

func PutUint32(dst []byte, v uint32, offset *int) {
	binary.LittleEndian.PutUint32(dst[*offset:], v)
	*offset += lengthSize
}

func PutOptionalUint64(dst []byte, v *uint64, offset *int) {
	if v == nil {
		dst[*offset] = 0
		*offset += optionFlagSize
		return
	}

	dst[*offset] = 1
	*offset += optionFlagSize
	PutUint64(dst, *v, offset)
}

func PutOptionalKey32(dst []byte, v ed25519.PublicKey, offset *int) {
	if len(v) == 0 {
		dst[*offset] = 0
		*offset += optionFlagSize
		return
	}

	dst[*offset] = 1
	*offset += optionFlagSize
	PutKey32(dst, v, offset)
}

func PutString(dst []byte, v string, offset *int) {
	PutUint32(dst, uint32(len(v)), offset)
	copy(dst[*offset:], v)
	*offset += len(v)
}

func PutStrings(dst []byte, v []string, offset *int) {
	PutUint32(dst, uint32(len(v)), offset)
	for _, s := range v {
		PutString(dst, s, offset)
	}
}

// StringSize is the encoded size of a length prefixed string
func StringSize(v string) int {
	return lengthSize + len(v)
}

// StringsSize is the encoded size of a length prefixed vector of strings
func StringsSize(v []string) int {
	size := lengthSize
	for _, s := range v {
		size += StringSize(s)
	}
	return size
}

// OptionalUint64Size is the encoded size of an Option<u64>
func OptionalUint64Size(v *uint64) int {
	if v == nil {
		return optionFlagSize
	}
	return optionFlagSize + uint64Size
}

// OptionalKey32Size is the encoded size of an Option<Pubkey>
func OptionalKey32Size(v ed25519.PublicKey) int {
	if len(v) == 0 {
		return optionFlagSize
	}
	return optionFlagSize + ed25519.PublicKeySize
}
