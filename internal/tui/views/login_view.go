package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/portal/internal/login"
	"github.com/matheus3301/portal/internal/tui/ui"
	"github.com/rivo/tview"
)

const passcodeModal = "passcode"

// LoginHandlers are the user events of the login page.
type LoginHandlers struct {
	Appear         func()
	Submit         func()
	AltLogin       func()
	PasscodeSubmit func(code string)
	PasscodeCancel func()
}

// LoginView is the login form. It implements login.View.
type LoginView struct {
	*tview.Flex
	theme  *ui.Theme
	modals Modals
	focus  Focuser

	form         *tview.Flex
	banner       *tview.TextView
	announcement *tview.TextView
	username     *tview.InputField
	password     *tview.InputField
	userErr      *tview.TextView
	passErr      *tview.TextView
	submit       *tview.Button
	alt          *tview.Button
	buttons      *tview.Flex
	loading      *tview.TextView
	passcode     *PasscodeDialog

	h             LoginHandlers
	inputsEnabled bool
	submitEnabled bool
	altLabel      string
	bannerText    string
}

var _ login.View = (*LoginView)(nil)

// NewLoginView builds the login form.
func NewLoginView(theme *ui.Theme, modals Modals, focus Focuser) *LoginView {
	v := &LoginView{
		theme:         theme,
		modals:        modals,
		focus:         focus,
		inputsEnabled: true,
		submitEnabled: true,
	}

	v.banner = tview.NewTextView().SetWordWrap(true).SetTextAlign(tview.AlignCenter)
	v.banner.SetBackgroundColor(theme.BannerBg)
	v.banner.SetTextColor(theme.BannerFg)

	v.username = v.newField(" Username ")
	v.password = v.newField(" Password ").SetMaskCharacter('*')
	v.userErr = v.newErrorText()
	v.passErr = v.newErrorText()

	v.submit = tview.NewButton("Sign In").SetSelectedFunc(func() { v.call(v.h.Submit) })
	v.alt = tview.NewButton("").SetSelectedFunc(func() { v.call(v.h.AltLogin) })
	for _, b := range []*tview.Button{v.submit, v.alt} {
		b.SetStyle(tcell.StyleDefault.Background(theme.ButtonBg).Foreground(theme.ButtonFg))
		b.SetActivatedStyle(tcell.StyleDefault.Background(theme.BorderFocusColor).Foreground(theme.BgColor))
	}
	v.buttons = tview.NewFlex().
		AddItem(v.submit, 0, 1, false).
		AddItem(nil, 2, 0, false).
		AddItem(v.alt, 0, 0, false)

	v.loading = tview.NewTextView().SetTextAlign(tview.AlignCenter)
	v.loading.SetTextColor(theme.MutedColor)
	v.loading.SetBackgroundColor(theme.BgColor)

	v.announcement = tview.NewTextView().SetWordWrap(true).SetDynamicColors(true)
	v.announcement.SetTextColor(theme.FgColor)
	v.announcement.SetBackgroundColor(theme.BgColor)

	v.passcode = NewPasscodeDialog(theme)
	v.passcode.SetHandlers(func(code string) {
		if v.h.PasscodeSubmit != nil {
			v.h.PasscodeSubmit(code)
		}
	}, func() { v.call(v.h.PasscodeCancel) })

	v.username.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter || key == tcell.KeyTab {
			v.focus.focus(v.password)
		}
	})
	v.password.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			v.call(v.h.Submit)
		case tcell.KeyTab:
			v.focus.focus(v.submit)
		case tcell.KeyBacktab:
			v.focus.focus(v.username)
		}
	})

	v.form = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ui.NewLogo(theme), 4, 0, false).
		AddItem(v.banner, 0, 0, false).
		AddItem(v.username, 3, 0, true).
		AddItem(v.userErr, 1, 0, false).
		AddItem(v.password, 3, 0, false).
		AddItem(v.passErr, 1, 0, false).
		AddItem(v.buttons, 1, 0, false).
		AddItem(v.loading, 1, 0, false).
		AddItem(v.announcement, 0, 1, false)
	v.Flex = tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(v.form, 48, 0, true).
		AddItem(nil, 0, 1, false)
	v.Flex.SetBackgroundColor(theme.BgColor)
	return v
}

func (v *LoginView) newField(title string) *tview.InputField {
	f := tview.NewInputField().SetFieldWidth(0)
	f.SetBorder(true)
	f.SetTitle(title)
	f.SetTitleAlign(tview.AlignLeft)
	f.SetBorderColor(v.theme.BorderColor)
	f.SetBackgroundColor(v.theme.BgColor)
	f.SetFieldBackgroundColor(v.theme.BgColor)
	f.SetFieldTextColor(v.theme.FgColor)
	return f
}

func (v *LoginView) newErrorText() *tview.TextView {
	t := tview.NewTextView()
	t.SetTextColor(v.theme.ErrorColor)
	t.SetBackgroundColor(v.theme.BgColor)
	return t
}

func (v *LoginView) call(fn func()) {
	if fn != nil {
		fn()
	}
}

// SetHandlers binds the form to its presenter.
func (v *LoginView) SetHandlers(h LoginHandlers) { v.h = h }

// SetAnnouncement shows the configured banner text under the form.
func (v *LoginView) SetAnnouncement(text string) {
	v.announcement.SetText(tview.Escape(text))
}

func (v *LoginView) Name() string { return "Login" }

// Start runs the presenter's appear logic each time the page is shown.
func (v *LoginView) Start() {
	v.call(v.h.Appear)
	if v.modals.Modal() != passcodeModal {
		v.focus.focus(v.username)
	}
}

func (v *LoginView) Stop() {}

func (v *LoginView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Sign in"},
		{Key: "Tab", Description: "Next"},
		{Key: "Ctrl-A", Description: "Alt login"},
	}
}

// Username implements login.View.
func (v *LoginView) Username() string { return v.username.GetText() }

func (v *LoginView) Password() string { return v.password.GetText() }

func (v *LoginView) SetUsername(s string) { v.username.SetText(s) }

func (v *LoginView) SetPassword(s string) { v.password.SetText(s) }

// SetFieldError colors the field border and shows msg below it.
func (v *LoginView) SetFieldError(f login.Field, msg string) {
	field, text := v.username, v.userErr
	if f == login.PasswordField {
		field, text = v.password, v.passErr
	}
	text.SetText(msg)
	if msg == "" {
		field.SetBorderColor(v.theme.BorderColor)
	} else {
		field.SetBorderColor(v.theme.ErrorColor)
	}
}

// FieldError returns the message shown under f.
func (v *LoginView) FieldError(f login.Field) string {
	if f == login.PasswordField {
		return v.passErr.GetText(true)
	}
	return v.userErr.GetText(true)
}

func (v *LoginView) SetSubmitEnabled(b bool) {
	v.submitEnabled = b
	v.submit.SetDisabled(!b || !v.inputsEnabled)
}

// SubmitEnabled reports whether the sign-in button accepts presses.
func (v *LoginView) SubmitEnabled() bool { return v.submitEnabled && v.inputsEnabled }

func (v *LoginView) SetInputsEnabled(b bool) {
	v.inputsEnabled = b
	v.username.SetDisabled(!b)
	v.password.SetDisabled(!b)
	v.alt.SetDisabled(!b)
	v.submit.SetDisabled(!b || !v.submitEnabled)
}

// InputsEnabled reports whether the form accepts input.
func (v *LoginView) InputsEnabled() bool { return v.inputsEnabled }

func (v *LoginView) ShowLoading(text string) { v.loading.SetText(text) }

func (v *LoginView) HideLoading() { v.loading.SetText("") }

func (v *LoginView) ShowBanner(msg string) {
	v.bannerText = msg
	v.banner.SetText(msg)
	v.resizeForm(v.banner, 2)
}

func (v *LoginView) HideBanner() {
	v.bannerText = ""
	v.banner.SetText("")
	v.resizeForm(v.banner, 0)
}

// Banner returns the error banner text.
func (v *LoginView) Banner() string { return v.bannerText }

func (v *LoginView) resizeForm(p tview.Primitive, size int) {
	v.form.ResizeItem(p, size, 0)
}

// SetAltLogin shows the alternate login button with label, or hides it.
func (v *LoginView) SetAltLogin(label string) {
	v.altLabel = label
	v.alt.SetLabel(label)
	if label == "" {
		v.buttons.ResizeItem(v.alt, 0, 0)
	} else {
		v.buttons.ResizeItem(v.alt, 0, 1)
	}
}

// AltLabel returns the alternate login label, "" when hidden.
func (v *LoginView) AltLabel() string { return v.altLabel }

func (v *LoginView) ShowPasscodeDialog() {
	v.passcode.Reset()
	v.modals.ShowModal(passcodeModal, v.passcode, 40, 9)
	v.focus.focus(v.passcode.Input())
}

func (v *LoginView) PasscodeDialogActive() bool { return v.modals.Modal() == passcodeModal }

// PasscodeDialogDismissing is always false: the overlay is removed at once.
func (v *LoginView) PasscodeDialogDismissing() bool { return false }

func (v *LoginView) ShowPasscodeError(msg string) { v.passcode.SetError(msg) }

func (v *LoginView) DismissPasscodeDialog() {
	if v.PasscodeDialogActive() {
		v.modals.HideModal()
		v.focus.focus(v.username)
	}
}
