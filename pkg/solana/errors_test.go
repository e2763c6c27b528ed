package solana

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeJSON(t *testing.T, s string) interface{} {
	var raw interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &raw))
	return raw
}

func TestParseTransactionError(t *testing.T) {
	e, err := ParseTransactionError(decodeJSON(t, `{"InstructionError":[2,{"Custom":6001}]}`))
	require.NoError(t, err)
	assert.Equal(t, TransactionErrorInstructionError, e.ErrorKey())
	require.NotNil(t, e.InstructionError())
	assert.Equal(t, 2, e.InstructionError().Index)
	assert.Equal(t, InstructionErrorCustom, e.InstructionError().ErrorKey())
	require.NotNil(t, e.InstructionError().CustomError())
	assert.Equal(t, CustomError(6001), *e.InstructionError().CustomError())
	assert.Equal(t, "instruction 2 failed: custom program error: 0x1771", e.Error())

	e, err = ParseTransactionError(decodeJSON(t, `{"InstructionError":[0,"InvalidArgument"]}`))
	require.NoError(t, err)
	assert.Equal(t, InstructionErrorInvalidArgument, e.InstructionError().ErrorKey())
	assert.Nil(t, e.InstructionError().CustomError())

	e, err = ParseTransactionError(decodeJSON(t, `"BlockhashNotFound"`))
	require.NoError(t, err)
	assert.Equal(t, TransactionErrorBlockhashNotFound, e.ErrorKey())
	assert.Nil(t, e.InstructionError())

	e, err = ParseTransactionError(decodeJSON(t, `{"InsufficientFundsForRent":{"account_index":1}}`))
	require.NoError(t, err)
	assert.EqualValues(t, "InsufficientFundsForRent", e.ErrorKey())

	e, err = ParseTransactionError(nil)
	assert.NoError(t, err)
	assert.Nil(t, e)

	_, err = ParseTransactionError(decodeJSON(t, `{"InstructionError":[0]}`))
	assert.Error(t, err)

	_, err = ParseTransactionError(decodeJSON(t, `{"a":1,"b":2}`))
	assert.Error(t, err)

	_, err = ParseTransactionError(42.0)
	assert.Error(t, err)
}

func TestTransactionErrorRoundTrip(t *testing.T) {
	for _, instructionErr := range []*InstructionError{
		{Index: 0, Err: errors.New(string(InstructionErrorInvalidArgument))},
		{Index: 3, Err: CustomError(6000)},
	} {
		txErr, err := TransactionErrorFromInstructionError(instructionErr)
		require.NoError(t, err)

		encoded, err := txErr.JSONString()
		require.NoError(t, err)

		parsed, err := ParseTransactionError(decodeJSON(t, encoded))
		require.NoError(t, err)
		assert.Equal(t, txErr.raw, parsed.raw)
		assert.Equal(t, instructionErr.ErrorKey(), parsed.InstructionError().ErrorKey())
		assert.Equal(t, instructionErr.Index, parsed.InstructionError().Index)
	}

	_, err := TransactionErrorFromInstructionError(nil)
	assert.Error(t, err)
}

func TestNewTransactionError(t *testing.T) {
	e := NewTransactionError(TransactionErrorDuplicateSignature)
	assert.Equal(t, "DuplicateSignature", e.Error())

	encoded, err := e.JSONString()
	require.NoError(t, err)
	assert.Equal(t, `"DuplicateSignature"`, encoded)
}

func TestParseJSONNumber(t *testing.T) {
	for _, v := range []interface{}{"1", 1.0, json.Number("1")} {
		n, err := parseJSONNumber(v)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	}

	_, err := parseJSONNumber(true)
	assert.Error(t, err)
}

func TestKnownErrorKeys(t *testing.T) {
	for _, key := range []TransactionErrorKey{
		TransactionErrorAccountInUse,
		TransactionErrorAccountNotFound,
		TransactionErrorProgramAccountNotFound,
		TransactionErrorInsufficientFundsForFee,
	} {
		e, err := ParseTransactionError(decodeJSON(t, `"`+string(key)+`"`))
		require.NoError(t, err)
		assert.Equal(t, key, e.ErrorKey())
	}

	for _, key := range []InstructionErrorKey{
		InstructionErrorGenericError,
		InstructionErrorInsufficientFunds,
	} {
		e, err := ParseTransactionError(decodeJSON(t, `{"InstructionError":[1,"`+string(key)+`"]}`))
		require.NoError(t, err)
		assert.Equal(t, key, e.InstructionError().ErrorKey())
	}
}
