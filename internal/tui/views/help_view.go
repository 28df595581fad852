package views

import (
	"fmt"

	"github.com/matheus3301/portal/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpView displays key binding reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
	}
	hv.render()
	return hv
}

func (hv *HelpView) Name() string { return "Help" }

func (hv *HelpView) Start() {}

func (hv *HelpView) Stop() {}

func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (hv *HelpView) render() {
	kc := ui.ColorTag(hv.theme.MenuKeyColor)
	key := func(k string) string { return fmt.Sprintf("[%s]%s[-:-:-]", kc, k) }

	_, _ = fmt.Fprintf(hv, `
  [::b]Global[-:-:-]

  %-22s Command mode        %-22s Back / cancel
  %-22s Help                %-22s Quit

  [::b]Sign in[-:-:-]

  %-22s Next field          %-22s Sign in
  %-22s Face ID / passcode  %-22s Create an account
  %-22s Forgot username     %-22s Forgot password
  %-22s Call the help line  %-22s Email the help desk
  %-22s Help FAQ            %-22s Open the announcement

  [::b]Search[-:-:-]

  %-22s Move to results     %-22s Clear the field
  %-22s Open the result     %-22s Cancel the search

  [::b]Commands[-:-:-]

  %s  Search for text
  %s        Hospitals and clinics
  %s           Urgent care
  %s    Mark this device shared or personal
  %s           Sign out
  %s           Quit
`,
		key(":"), key("Esc"), key("?"), key("q"),
		key("Tab"), key("Enter"),
		key("Ctrl-A"), key("F2"),
		key("F3"), key("F4"),
		key("F5"), key("F6"),
		key("F7"), key("F8"),
		key("Enter/Down"), key("Ctrl-U"),
		key("Enter"), key("Esc"),
		key(":search <text>"),
		key(":locations"),
		key(":urgent"),
		key(":shared on|off"),
		key(":logout"),
		key(":quit"),
	)
}
