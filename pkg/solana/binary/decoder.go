package binary

import (
	"crypto/ed25519"
	"encoding/binary"
	"unicode/utf8"

	"github.com/pkg/errors"
)

var (
	ErrTruncatedBuffer   = errors.New("truncated buffer")
	ErrInvalidOptionFlag = errors.New("invalid option flag")
	ErrInvalidUTF8       = errors.New("invalid utf-8 string")
	ErrUnknownKind       = errors.New("unknown field kind")
)

// Decode interprets data according to schema. Decoding always starts at the
// first byte of data, so any account discriminator must already be removed.
//
// Decoded values are uint64 for U64, ed25519.PublicKey for Key32, string for
// String, []interface{} for Vec, and either nil or the element value for
// Option. Trailing bytes beyond the schema are ignored.
func Decode(data []byte, schema Schema) (Record, error) {
	d := &decoder{data: data}

	record := Record{
		values: make(map[string]interface{}, len(schema)),
	}
	for _, field := range schema {
		value, err := d.decode(field.Type)
		if err != nil {
			return Record{}, errors.Wrapf(err, "field %s (%s)", field.Name, field.Type)
		}

		record.names = append(record.names, field.Name)
		record.values[field.Name] = value
	}
	record.size = d.offset

	return record, nil
}

// DecodeAccount skips the 8 byte discriminator at the start of raw account
// data before decoding the remainder with schema.
func DecodeAccount(data []byte, schema Schema) (Record, error) {
	if len(data) < DiscriminatorSize {
		return Record{}, errors.Wrapf(ErrTruncatedBuffer, "discriminator: need %d bytes, have %d", DiscriminatorSize, len(data))
	}

	return Decode(data[DiscriminatorSize:], schema)
}

type decoder struct {
	data   []byte
	offset int
}

func (d *decoder) decode(t Type) (interface{}, error) {
	switch t.Kind {
	case KindU64:
		return d.uint64()
	case KindKey32:
		return d.key()
	case KindString:
		return d.string()
	case KindOption:
		if t.Elem == nil {
			return nil, ErrUnknownKind
		}

		flag, err := d.take(optionFlagSize)
		if err != nil {
			return nil, err
		}

		switch flag[0] {
		case 0:
			return nil, nil
		case 1:
			return d.decode(*t.Elem)
		default:
			return nil, errors.Wrapf(ErrInvalidOptionFlag, "flag %d at offset %d", flag[0], d.offset-optionFlagSize)
		}
	case KindVec:
		if t.Elem == nil {
			return nil, ErrUnknownKind
		}

		count, err := d.uint32()
		if err != nil {
			return nil, err
		}

		// Each element occupies at least its minimum size, so a count that
		// can't possibly fit is rejected before allocating.
		if minElemSize := t.Elem.minSize(); minElemSize > 0 && uint64(count)*uint64(minElemSize) > uint64(d.remaining()) {
			return nil, errors.Wrapf(ErrTruncatedBuffer, "vec of %d elements at offset %d", count, d.offset)
		}

		values := make([]interface{}, 0, count)
		for i := uint32(0); i < count; i++ {
			value, err := d.decode(*t.Elem)
			if err != nil {
				return nil, errors.Wrapf(err, "element %d", i)
			}
			values = append(values, value)
		}
		return values, nil
	}

	return nil, errors.Wrapf(ErrUnknownKind, "kind %d", t.Kind)
}

func (d *decoder) remaining() int {
	return len(d.data) - d.offset
}

func (d *decoder) take(n int) ([]byte, error) {
	if n < 0 || d.remaining() < n {
		return nil, errors.Wrapf(ErrTruncatedBuffer, "need %d bytes at offset %d, have %d", n, d.offset, d.remaining())
	}

	b := d.data[d.offset : d.offset+n]
	d.offset += n
	return b, nil
}

func (d *decoder) uint64() (uint64, error) {
	b, err := d.take(uint64Size)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (d *decoder) uint32() (uint32, error) {
	b, err := d.take(lengthSize)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *decoder) key() (ed25519.PublicKey, error) {
	b, err := d.take(ed25519.PublicKeySize)
	if err != nil {
		return nil, err
	}

	key := make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(key, b)
	return key, nil
}

func (d *decoder) string() (string, error) {
	length, err := d.uint32()
	if err != nil {
		return "", err
	}

	if uint64(length) > uint64(d.remaining()) {
		return "", errors.Wrapf(ErrTruncatedBuffer, "string of %d bytes at offset %d, have %d", length, d.offset, d.remaining())
	}

	b, err := d.take(int(length))
	if err != nil {
		return "", err
	}

	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}
