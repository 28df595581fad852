package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// ProfileData is the header summary of the running profile.
type ProfileData struct {
	Profile  string
	User     string
	Status   string
	Language string
	Shared   bool
}

// ProfileInfo renders ProfileData in the header.
type ProfileInfo struct {
	*tview.TextView
	theme *Theme
}

// NewProfileInfo creates a new profile info panel.
func NewProfileInfo(theme *Theme) *ProfileInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignRight)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &ProfileInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders data.
func (pi *ProfileInfo) Update(data ProfileData) {
	pi.Clear()

	fg := colorName(pi.theme.FgColor)
	val := colorName(pi.theme.CounterColor)

	user := data.User
	if user == "" {
		user = "-"
	}
	text := fmt.Sprintf("[%s::b]Profile[-:-:-] [%s]%s[-]  [%s::b]User[-:-:-] [%s]%s[-]  [%s::b]Status[-:-:-] [%s]%s[-]  [%s::b]Lang[-:-:-] [%s]%s[-]",
		fg, val, tview.Escape(data.Profile),
		fg, val, tview.Escape(user),
		fg, val, data.Status,
		fg, val, data.Language,
	)
	if data.Shared {
		text += fmt.Sprintf("  [%s::b]SHARED[-:-:-]", colorName(pi.theme.FlashWarnColor))
	}
	_, _ = fmt.Fprint(pi, text)
}
