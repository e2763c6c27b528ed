package solana

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/ybbus/jsonrpc"
)

// TransactionErrorKey names a transaction level failure as reported in the
// "err" field of RPC responses and notifications
type TransactionErrorKey string

const (
	TransactionErrorAccountInUse            TransactionErrorKey = "AccountInUse"
	TransactionErrorAlreadyProcessed        TransactionErrorKey = "AlreadyProcessed"
	TransactionErrorAccountNotFound         TransactionErrorKey = "AccountNotFound"
	TransactionErrorProgramAccountNotFound  TransactionErrorKey = "ProgramAccountNotFound"
	TransactionErrorInsufficientFundsForFee TransactionErrorKey = "InsufficientFundsForFee"
	TransactionErrorDuplicateSignature      TransactionErrorKey = "DuplicateSignature"
	TransactionErrorBlockhashNotFound       TransactionErrorKey = "BlockhashNotFound"
	TransactionErrorInstructionError        TransactionErrorKey = "InstructionError"
	TransactionErrorSignatureFailure        TransactionErrorKey = "SignatureFailure"
)

// InstructionErrorKey names the failure of a single instruction. Only the
// keys produced by the system and Anchor programs used here are listed.
type InstructionErrorKey string

const (
	InstructionErrorGenericError              InstructionErrorKey = "GenericError"
	InstructionErrorInvalidArgument           InstructionErrorKey = "InvalidArgument"
	InstructionErrorInvalidInstructionData    InstructionErrorKey = "InvalidInstructionData"
	InstructionErrorInvalidAccountData        InstructionErrorKey = "InvalidAccountData"
	InstructionErrorInsufficientFunds         InstructionErrorKey = "InsufficientFunds"
	InstructionErrorIncorrectProgramID        InstructionErrorKey = "IncorrectProgramId"
	InstructionErrorMissingRequiredSignature  InstructionErrorKey = "MissingRequiredSignature"
	InstructionErrorAccountAlreadyInitialized InstructionErrorKey = "AccountAlreadyInitialized"
	InstructionErrorUninitializedAccount      InstructionErrorKey = "UninitializedAccount"
	InstructionErrorNotEnoughAccountKeys      InstructionErrorKey = "NotEnoughAccountKeys"
	InstructionErrorMissingAccount            InstructionErrorKey = "MissingAccount"
	InstructionErrorCustom                    InstructionErrorKey = "Custom"
)

// CustomError is a program specific error code. Anchor programs start their
// own codes at 6000.
type CustomError int

func (c CustomError) Error() string {
	return fmt.Sprintf("custom program error: 0x%x", int(c))
}

// InstructionError is the failure of the instruction at Index
type InstructionError struct {
	Index int
	Err   error
}

func (i InstructionError) Error() string {
	return fmt.Sprintf("instruction %d failed: %v", i.Index, i.Err)
}

func (i InstructionError) ErrorKey() InstructionErrorKey {
	switch i.Err.(type) {
	case nil:
		return ""
	case CustomError:
		return InstructionErrorCustom
	}
	return InstructionErrorKey(i.Err.Error())
}

// CustomError returns the program error code, if the instruction failed with one
func (i InstructionError) CustomError() *CustomError {
	if code, ok := i.Err.(CustomError); ok {
		return &code
	}
	return nil
}

// raw renders the error the way the RPC encodes it: [index, "Key"] or
// [index, {"Custom": code}]
func (i InstructionError) raw() []interface{} {
	if code, ok := i.Err.(CustomError); ok {
		return []interface{}{float64(i.Index), map[string]interface{}{string(InstructionErrorCustom): float64(code)}}
	}
	return []interface{}{float64(i.Index), i.Err.Error()}
}

// TransactionError is a failed transaction, optionally caused by one of its
// instructions
type TransactionError struct {
	key              TransactionErrorKey
	instructionError *InstructionError
	raw              interface{}
}

func NewTransactionError(key TransactionErrorKey) *TransactionError {
	return &TransactionError{
		key: key,
		raw: string(key),
	}
}

func TransactionErrorFromInstructionError(err *InstructionError) (*TransactionError, error) {
	if err == nil || err.Err == nil {
		return nil, errors.New("instruction error is required")
	}

	return &TransactionError{
		key:              TransactionErrorInstructionError,
		instructionError: err,
		raw: map[string]interface{}{
			string(TransactionErrorInstructionError): err.raw(),
		},
	}, nil
}

// ParseRPCError extracts the transaction error carried by a failed
// sendTransaction preflight, if any
func ParseRPCError(err *jsonrpc.RPCError) (*TransactionError, error) {
	if err == nil {
		return nil, nil
	}

	data, ok := err.Data.(map[string]interface{})
	if !ok {
		return nil, errors.New("expected map type")
	}

	if txErr, ok := data["err"]; ok && txErr != nil {
		return ParseTransactionError(txErr)
	}
	return nil, nil
}

// ParseTransactionError parses the decoded JSON of an "err" field. A nil raw
// value means the transaction succeeded.
func ParseTransactionError(raw interface{}) (*TransactionError, error) {
	switch t := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return &TransactionError{key: TransactionErrorKey(t), raw: raw}, nil
	case map[string]interface{}:
		key, value, err := singleEntry(t)
		if err != nil {
			return &TransactionError{key: "Unknown", raw: raw}, errors.Wrap(err, "invalid transaction error")
		}

		txErr := &TransactionError{key: TransactionErrorKey(key), raw: raw}
		if txErr.key != TransactionErrorInstructionError {
			return txErr, nil
		}

		instructionErr, err := parseInstructionError(value)
		if err != nil {
			return txErr, errors.Wrap(err, "invalid instruction error")
		}
		txErr.instructionError = instructionErr
		return txErr, nil
	}
	return nil, errors.Errorf("unhandled error type %T", raw)
}

func parseInstructionError(v interface{}) (*InstructionError, error) {
	tuple, ok := v.([]interface{})
	if !ok || len(tuple) != 2 {
		return nil, errors.Errorf("expected an [index, error] tuple, got %v", v)
	}

	index, err := parseJSONNumber(tuple[0])
	if err != nil {
		return nil, err
	}

	switch t := tuple[1].(type) {
	case string:
		return &InstructionError{Index: index, Err: errors.New(t)}, nil
	case map[string]interface{}:
		key, value, err := singleEntry(t)
		if err != nil {
			return nil, err
		}
		if key != string(InstructionErrorCustom) {
			return &InstructionError{Index: index, Err: errors.New(key)}, nil
		}

		code, err := parseJSONNumber(value)
		if err != nil {
			return nil, err
		}
		return &InstructionError{Index: index, Err: CustomError(code)}, nil
	}
	return nil, errors.Errorf("unexpected instruction error %v", tuple[1])
}

func (t TransactionError) Error() string {
	if t.instructionError != nil {
		return t.instructionError.Error()
	}
	return string(t.key)
}

func (t TransactionError) ErrorKey() TransactionErrorKey {
	return t.key
}

func (t TransactionError) InstructionError() *InstructionError {
	return t.instructionError
}

// JSONString encodes the error as the RPC would
func (t TransactionError) JSONString() (string, error) {
	b, err := json.Marshal(t.raw)
	return string(b), err
}

// singleEntry unpacks the {"Key": value} objects used for enum variants
func singleEntry(m map[string]interface{}) (string, interface{}, error) {
	if len(m) != 1 {
		return "", nil, errors.Errorf("expected a single entry, got %d", len(m))
	}
	for k, v := range m {
		return k, v, nil
	}
	return "", nil, nil
}

func parseJSONNumber(v interface{}) (int, error) {
	switch t := v.(type) {
	case json.Number:
		n, err := t.Int64()
		return int(n), err
	case float64:
		return int(t), nil
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		return int(n), err
	}
	return 0, errors.Errorf("non numeric value %v", v)
}
