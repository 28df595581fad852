package login

import "github.com/matheus3301/portal/internal/auth"

// Action is what the screen does with a failed login.
type Action int

const (
	// ShowMessage puts the error text in the banner, or in the passcode
	// dialog when that dialog is the active presentation.
	ShowMessage Action = iota
	// HighlightFields marks both fields with CheckEntry.
	HighlightFields
	// ResetPassword opens the password-reset flow.
	ResetPassword
	// HideFieldErrors hides any field error text.
	HideFieldErrors
	// ShowInPasscode shows the error in the passcode dialog if it is open.
	ShowInPasscode
	// ClearErrors clears all error state.
	ClearErrors
)

func (a Action) String() string {
	switch a {
	case HighlightFields:
		return "highlight_fields"
	case ResetPassword:
		return "reset_password"
	case HideFieldErrors:
		return "hide_field_errors"
	case ShowInPasscode:
		return "show_in_passcode"
	case ClearErrors:
		return "clear_errors"
	}
	return "show_message"
}

// ActionFor maps an error kind to the screen action.
func ActionFor(kind auth.ErrorKind) Action {
	switch kind {
	case auth.GenericError:
		return HighlightFields
	case auth.MaxPasswordExceededCanReset:
		return ResetPassword
	case auth.UserCanceled:
		return HideFieldErrors
	case auth.PasscodeNotSet:
		return ShowInPasscode
	case auth.TermsAndConditionsFailed:
		return ClearErrors
	}
	return ShowMessage
}
