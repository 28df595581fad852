package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// Logo is the small banner shown above the login form.
type Logo struct {
	*tview.TextView
	theme *Theme
}

// NewLogo creates a new logo component.
func NewLogo(theme *Theme) *Logo {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	tv.SetBackgroundColor(theme.BgColor)

	l := &Logo{
		TextView: tv,
		theme:    theme,
	}
	l.render()
	return l
}

func (l *Logo) render() {
	title := colorName(l.theme.TitleColor)
	muted := colorName(l.theme.MutedColor)

	_, _ = fmt.Fprintf(l,
		"[%s::b]  +  [-:-:-]\n"+
			"[%s::b]+++ MyChart[-:-:-]\n"+
			"[%s::b]  +  [-:-:-]\n"+
			"[%s]patient portal[-]",
		title, title, title, muted,
	)
}
