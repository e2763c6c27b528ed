package username

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	MinUsernameLength  = 2
	MaxUsernameLength  = 32
	MaxUsernameHistory = 3
)

var (
	ErrUsernameTooLong           = errors.New("Username is too long (maximum length is 32 characters)")
	ErrUsernameTooShort          = errors.New("Username is too short (minimum length is 2 characters)")
	ErrUsernameInvalidCharacters = errors.New("Username contains invalid characters (only ascii alphanumeric, underscores, and hyphens are allowed)")
	ErrUsernameAlreadyAssigned   = errors.New("Username is already assigned")
)

// Validate applies the program's username rules client side and returns the
// trimmed name. The program remains the authority; this only avoids sending
// transactions that are certain to fail. Pass an empty current name when
// there's no existing assignment.
func Validate(username, current string) (string, error) {
	username = strings.TrimSpace(username)

	if len(username) > MaxUsernameLength {
		return "", ErrUsernameTooLong
	}
	if len(username) < MinUsernameLength {
		return "", ErrUsernameTooShort
	}
	for _, c := range username {
		if !isAllowed(c) {
			return "", ErrUsernameInvalidCharacters
		}
	}
	if len(current) > 0 && username == current {
		return "", ErrUsernameAlreadyAssigned
	}

	return username, nil
}

// ErrorFromCode maps a program error code to its error, if it's one of ours
func ErrorFromCode(code int) error {
	switch code {
	case int(ErrorCodeUsernameTooLong):
		return ErrUsernameTooLong
	case int(ErrorCodeUsernameTooShort):
		return ErrUsernameTooShort
	case int(ErrorCodeUsernameInvalidCharacters):
		return ErrUsernameInvalidCharacters
	case int(ErrorCodeUsernameAlreadyAssigned):
		return ErrUsernameAlreadyAssigned
	}
	return nil
}

func isAllowed(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z':
	case c >= 'A' && c <= 'Z':
	case c >= '0' && c <= '9':
	case c == '_' || c == '-':
	default:
		return false
	}
	return true
}
