package auth

import (
	"errors"
	"fmt"
)

// ErrorKind enumerates the ways an authentication attempt can fail.
type ErrorKind int

const (
	Other ErrorKind = iota
	GenericError
	MaxPasswordExceededCanReset
	UserCanceled
	PasscodeNotSet
	TermsAndConditionsFailed
)

var kindCodes = map[ErrorKind]string{
	Other:                       "other",
	GenericError:                "generic_error",
	MaxPasswordExceededCanReset: "max_password_exceeded_can_reset",
	UserCanceled:                "user_canceled",
	PasscodeNotSet:              "passcode_not_set",
	TermsAndConditionsFailed:    "terms_and_conditions_failed",
}

func (k ErrorKind) String() string {
	if s, ok := kindCodes[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// KindFromCode maps a backend wire code to a kind. Unknown codes are Other.
func KindFromCode(code string) ErrorKind {
	for k, c := range kindCodes {
		if c == code {
			return k
		}
	}
	return Other
}

// Error is a failed authentication attempt.
type Error struct {
	Kind    ErrorKind
	Code    string // backend code, empty for locally produced errors
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Kind {
	case GenericError:
		return "The username or password is incorrect."
	case MaxPasswordExceededCanReset:
		return "Too many sign in attempts. Reset your password to continue."
	case UserCanceled:
		return "Sign in canceled."
	case PasscodeNotSet:
		return "A passcode has not been set up on this device."
	case TermsAndConditionsFailed:
		return "The terms and conditions were not accepted."
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "Sign in failed."
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, or Other if err is not an *Error.
func KindOf(err error) ErrorKind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Other
}

// ErrBiometricCanceled is returned by Biometrics when the user dismisses the prompt.
var ErrBiometricCanceled = errors.New("biometric prompt canceled")

// ErrInvalidPasscode is returned by SetPasscode for malformed codes.
var ErrInvalidPasscode = errors.New("passcode must be 4 to 8 digits")
