// Package auth authenticates the user against the portal backend and manages
// the local passcode and biometric shortcuts.
package auth

import "context"

// Status is the current authentication state.
type Status int

const (
	NotAuthenticated Status = iota
	Authenticated
)

func (s Status) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "notAuthenticated"
}

// BiometryType is the kind of biometric sensor available.
type BiometryType int

const (
	BiometryNone BiometryType = iota
	BiometryTouchID
	BiometryFaceID
)

// DeepLink points at an in-app destination to open after sign in.
type DeepLink struct {
	Target string            `json:"target"`
	Params map[string]string `json:"params,omitempty"`
}

// Result is a successful authentication.
type Result struct {
	DeepLink *DeepLink
}

// Provider is what the login screen needs from an authentication backend.
// Failed logins return an *Error.
type Provider interface {
	Login(ctx context.Context, username, password string) (Result, error)
	LoginWithPasscode(ctx context.Context, passcode string) (Result, error)
	LoginWithBiometrics(ctx context.Context) (Result, error)
	Logout(ctx context.Context) error
	IsBiometricEnabled() bool
	IsPasscodeEnabled() bool
	Status() Status
	Biometry() BiometryType
}

// Biometrics abstracts the platform's biometric prompt.
type Biometrics interface {
	Type() BiometryType
	// CanEvaluate reports whether a prompt can currently be shown.
	CanEvaluate() bool
	// Authenticate shows the prompt. It returns ErrBiometricCanceled when the
	// user dismisses it.
	Authenticate(ctx context.Context, reason string) error
}

// NoBiometrics is the terminal implementation: no sensor.
type NoBiometrics struct{}

func (NoBiometrics) Type() BiometryType { return BiometryNone }
func (NoBiometrics) CanEvaluate() bool  { return false }
func (NoBiometrics) Authenticate(context.Context, string) error {
	return &Error{Kind: Other, Message: "Biometric sign in is not available on this device."}
}
