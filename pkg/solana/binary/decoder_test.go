package binary

import (
	"crypto/ed25519"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = Schema{
	{Name: "start_slot", Type: U64},
	{Name: "authority", Type: Key32},
	{Name: "activated_at", Type: Option(U64)},
	{Name: "activated_by", Type: Option(Key32)},
	{Name: "name", Type: String},
	{Name: "history", Type: Vec(String)},
}

func encodeTestRecord(startSlot uint64, authority ed25519.PublicKey, activatedAt *uint64, activatedBy ed25519.PublicKey, name string, history []string) []byte {
	size := 8 + 32 + OptionalUint64Size(activatedAt) + OptionalKey32Size(activatedBy) + StringSize(name) + StringsSize(history)
	data := make([]byte, size)

	var offset int
	PutUint64(data, startSlot, &offset)
	PutKey32(data, authority, &offset)
	PutOptionalUint64(data, activatedAt, &offset)
	PutOptionalKey32(data, activatedBy, &offset)
	PutString(data, name, &offset)
	PutStrings(data, history, &offset)
	return data
}

func newTestKey(t *testing.T) ed25519.PublicKey {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return pub
}

func TestDecode_HappyPath(t *testing.T) {
	authority := newTestKey(t)
	activatedBy := newTestKey(t)
	activatedAt := uint64(1234)

	data := encodeTestRecord(42, authority, &activatedAt, activatedBy, "satoshi", []string{"a1", "b22", "c333"})

	record, err := Decode(data, testSchema)
	require.NoError(t, err)
	assert.Equal(t, len(data), record.Size())
	assert.Equal(t, []string{"start_slot", "authority", "activated_at", "activated_by", "name", "history"}, record.Names())

	startSlot, err := record.Uint64("start_slot")
	require.NoError(t, err)
	assert.EqualValues(t, 42, startSlot)

	actualAuthority, err := record.Key("authority")
	require.NoError(t, err)
	assert.Equal(t, authority, actualAuthority)

	actualActivatedAt, err := record.OptionalUint64("activated_at")
	require.NoError(t, err)
	require.NotNil(t, actualActivatedAt)
	assert.Equal(t, activatedAt, *actualActivatedAt)

	actualActivatedBy, err := record.OptionalKey("activated_by")
	require.NoError(t, err)
	assert.Equal(t, activatedBy, actualActivatedBy)

	name, err := record.String("name")
	require.NoError(t, err)
	assert.Equal(t, "satoshi", name)

	history, err := record.Strings("history")
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "b22", "c333"}, history)
}

func TestDecode_Deterministic(t *testing.T) {
	data := encodeTestRecord(7, newTestKey(t), nil, nil, "x", nil)

	first, err := Decode(data, testSchema)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		next, err := Decode(data, testSchema)
		require.NoError(t, err)
		assert.Equal(t, first, next)
	}
}

func TestDecode_OptionalFlag(t *testing.T) {
	schema := Schema{
		{Name: "value", Type: Option(U64)},
	}

	// An unset flag yields an absent value regardless of what follows
	record, err := Decode([]byte{0, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, schema)
	require.NoError(t, err)
	value, err := record.OptionalUint64("value")
	require.NoError(t, err)
	assert.Nil(t, value)
	assert.Equal(t, 1, record.Size())

	record, err = Decode([]byte{1, 5, 0, 0, 0, 0, 0, 0, 0}, schema)
	require.NoError(t, err)
	value, err = record.OptionalUint64("value")
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.EqualValues(t, 5, *value)

	_, err = Decode([]byte{2, 5, 0, 0, 0, 0, 0, 0, 0}, schema)
	assert.True(t, errors.Is(err, ErrInvalidOptionFlag))
}

func TestDecode_EmptyVec(t *testing.T) {
	data := encodeTestRecord(1, newTestKey(t), nil, nil, "", nil)

	record, err := Decode(data, testSchema)
	require.NoError(t, err)

	history, err := record.Strings("history")
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestDecode_TruncatedBuffer(t *testing.T) {
	activatedAt := uint64(99)
	data := encodeTestRecord(1, newTestKey(t), &activatedAt, newTestKey(t), "name", []string{"old"})

	for i := 0; i < len(data); i++ {
		_, err := Decode(data[:i], testSchema)
		assert.True(t, errors.Is(err, ErrTruncatedBuffer), "length %d", i)
	}

	_, err := Decode(nil, testSchema)
	assert.True(t, errors.Is(err, ErrTruncatedBuffer))
}

func TestDecode_OversizedLengthPrefix(t *testing.T) {
	schema := Schema{
		{Name: "name", Type: String},
	}
	_, err := Decode([]byte{0xff, 0xff, 0xff, 0xff, 'a'}, schema)
	assert.True(t, errors.Is(err, ErrTruncatedBuffer))

	schema = Schema{
		{Name: "values", Type: Vec(U64)},
	}
	_, err = Decode([]byte{0xff, 0xff, 0xff, 0x0f, 1, 2, 3}, schema)
	assert.True(t, errors.Is(err, ErrTruncatedBuffer))
}

func TestDecode_InvalidUTF8(t *testing.T) {
	schema := Schema{
		{Name: "name", Type: String},
	}
	_, err := Decode([]byte{2, 0, 0, 0, 0xc3, 0x28}, schema)
	assert.True(t, errors.Is(err, ErrInvalidUTF8))
}

func TestDecodeAccount_SkipsDiscriminator(t *testing.T) {
	schema := Schema{
		{Name: "count", Type: U64},
	}

	data := []byte{
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, // discriminator
		3, 0, 0, 0, 0, 0, 0, 0,
	}
	record, err := DecodeAccount(data, schema)
	require.NoError(t, err)

	count, err := record.Uint64("count")
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	_, err = DecodeAccount(data[:4], schema)
	assert.True(t, errors.Is(err, ErrTruncatedBuffer))

	_, err = DecodeAccount(data[:12], schema)
	assert.True(t, errors.Is(err, ErrTruncatedBuffer))
}

func TestRecord_TypeMismatch(t *testing.T) {
	schema := Schema{
		{Name: "count", Type: U64},
	}
	record, err := Decode(make([]byte, 8), schema)
	require.NoError(t, err)

	_, err = record.String("count")
	assert.True(t, errors.Is(err, ErrFieldType))

	_, err = record.Uint64("missing")
	assert.True(t, errors.Is(err, ErrFieldNotFound))
}

func TestSchema_MinSize(t *testing.T) {
	assert.Equal(t, 8+32+1+1+4+4, testSchema.MinSize())
	assert.Equal(t, 0, Schema{}.MinSize())
}
