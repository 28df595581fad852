package login

import (
	"context"

	"github.com/matheus3301/portal/internal/auth"
)

// View is the login screen as the presenter sees it. All methods are called
// on the UI goroutine.
type View interface {
	Username() string
	Password() string
	SetUsername(string)
	SetPassword(string)

	// SetFieldError shows msg under f with an error border. An empty msg
	// restores the normal border and hides the text.
	SetFieldError(f Field, msg string)
	SetSubmitEnabled(bool)
	// SetInputsEnabled toggles every input, link and button of the form.
	SetInputsEnabled(bool)
	ShowLoading(text string)
	HideLoading()
	ShowBanner(msg string)
	HideBanner()
	// SetAltLogin sets the alternate-login button label; "" hides it.
	SetAltLogin(label string)

	ShowPasscodeDialog()
	// PasscodeDialogActive reports whether the passcode dialog is the
	// front-most presentation.
	PasscodeDialogActive() bool
	// PasscodeDialogDismissing reports whether the dialog is closing.
	PasscodeDialogDismissing() bool
	ShowPasscodeError(msg string)
	DismissPasscodeDialog()
}

// Navigator leaves the login screen.
type Navigator interface {
	ShowHome(link *auth.DeepLink)
	ShowPasswordReset(url string)
	OpenURL(url string)
	Dial(phone string)
	Email(address string)
}

// Notifier asks the user for notification permission.
type Notifier interface {
	RequestPermission(ctx context.Context) (bool, error)
}
