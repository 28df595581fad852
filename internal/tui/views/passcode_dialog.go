package views

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/portal/internal/tui/ui"
	"github.com/rivo/tview"
)

const maxPasscodeLen = 8

// PasscodeDialog asks for the local passcode.
type PasscodeDialog struct {
	*tview.Flex
	input    *tview.InputField
	errText  *tview.TextView
	onSubmit func(code string)
	onCancel func()
}

// NewPasscodeDialog creates the dialog body.
func NewPasscodeDialog(theme *ui.Theme) *PasscodeDialog {
	d := &PasscodeDialog{}

	d.input = tview.NewInputField().
		SetLabel("Passcode: ").
		SetMaskCharacter('*').
		SetFieldWidth(maxPasscodeLen + 1).
		SetAcceptanceFunc(func(text string, last rune) bool {
			return len(text) <= maxPasscodeLen && unicode.IsDigit(last)
		})
	d.input.SetFieldBackgroundColor(theme.BgColor)
	d.input.SetFieldTextColor(theme.FgColor)
	d.input.SetLabelColor(theme.MenuKeyColor)
	d.input.SetBackgroundColor(theme.BgColor)
	d.input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			if d.onSubmit != nil && d.input.GetText() != "" {
				d.onSubmit(d.input.GetText())
			}
		case tcell.KeyEscape:
			if d.onCancel != nil {
				d.onCancel()
			}
		}
	})

	d.errText = tview.NewTextView().SetWordWrap(true)
	d.errText.SetTextColor(theme.ErrorColor)
	d.errText.SetBackgroundColor(theme.BgColor)

	hint := tview.NewTextView().SetText("Enter to sign in, Esc to cancel")
	hint.SetTextColor(theme.MutedColor)
	hint.SetBackgroundColor(theme.BgColor)

	d.Flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(d.input, 1, 0, true).
		AddItem(d.errText, 0, 1, false).
		AddItem(hint, 1, 0, false)
	d.Flex.SetBorder(true)
	d.Flex.SetTitle(" Sign in with passcode ")
	d.Flex.SetTitleColor(theme.TitleColor)
	d.Flex.SetBorderColor(theme.BorderFocusColor)
	d.Flex.SetBackgroundColor(theme.BgColor)
	d.Flex.SetBorderPadding(1, 0, 1, 1)
	return d
}

// SetHandlers sets the submit and cancel callbacks.
func (d *PasscodeDialog) SetHandlers(submit func(code string), cancel func()) {
	d.onSubmit, d.onCancel = submit, cancel
}

// Input returns the passcode field.
func (d *PasscodeDialog) Input() *tview.InputField { return d.input }

// Reset clears the code and any error.
func (d *PasscodeDialog) Reset() {
	d.input.SetText("")
	d.errText.SetText("")
}

// SetError shows msg and clears the code for another try.
func (d *PasscodeDialog) SetError(msg string) {
	d.errText.SetText(msg)
	d.input.SetText("")
}

// ErrorText returns the message shown in the dialog.
func (d *PasscodeDialog) ErrorText() string { return d.errText.GetText(true) }
