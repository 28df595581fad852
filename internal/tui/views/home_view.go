package views

import (
	"fmt"

	"github.com/matheus3301/portal/internal/auth"
	"github.com/matheus3301/portal/internal/tui/ui"
	"github.com/rivo/tview"
)

// HomeActions are the entries of the home menu.
type HomeActions struct {
	Search     func()
	Locations  func()
	UrgentCare func()
	Help       func()
	SignOut    func()
}

// HomeView is the signed-in landing page.
type HomeView struct {
	*tview.Flex
	theme *ui.Theme
	note  *tview.TextView
	menu  *tview.List
	link  *auth.DeepLink
}

// NewHomeView creates the home page.
func NewHomeView(theme *ui.Theme, actions HomeActions) *HomeView {
	note := tview.NewTextView().SetDynamicColors(true).SetWordWrap(true)
	note.SetBackgroundColor(theme.BgColor)
	note.SetTextColor(theme.FgColor)
	note.SetBorderPadding(0, 0, 1, 1)

	menu := tview.NewList().
		SetHighlightFullLine(true).
		SetShortcutColor(theme.MenuKeyColor)
	menu.SetBackgroundColor(theme.BgColor)
	menu.SetMainTextColor(theme.FgColor)
	menu.SetSecondaryTextColor(theme.MutedColor)
	menu.SetSelectedBackgroundColor(theme.TableCursorBg)
	menu.SetSelectedTextColor(theme.TableCursorFg)
	menu.AddItem("Search", "Doctors, clinics, services and places", 's', actions.Search)
	menu.AddItem("Locations", "Hospitals and clinics", 'l', actions.Locations)
	menu.AddItem("Urgent Care", "Where to go right now", 'u', actions.UrgentCare)
	menu.AddItem("Help", "Keys and commands", '?', actions.Help)
	menu.AddItem("Sign Out", "", 'o', actions.SignOut)

	hv := &HomeView{
		Flex: tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(note, 2, 0, false).
			AddItem(menu, 0, 1, true),
		theme: theme,
		note:  note,
		menu:  menu,
	}
	hv.Flex.SetBorder(true)
	hv.Flex.SetTitle(" MyChart ")
	hv.Flex.SetTitleColor(theme.TitleColor)
	hv.Flex.SetBorderColor(theme.BorderColor)
	hv.Flex.SetBackgroundColor(theme.BgColor)
	return hv
}

func (hv *HomeView) Name() string { return "Home" }

func (hv *HomeView) Start() {}

func (hv *HomeView) Stop() {}

func (hv *HomeView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Open"},
		{Key: ":", Description: "Command"},
		{Key: "q", Description: "Quit"},
	}
}

// DeepLink returns the link the last sign-in asked to open.
func (hv *HomeView) DeepLink() *auth.DeepLink { return hv.link }

// SetDeepLink shows where the sign-in wants to go next.
func (hv *HomeView) SetDeepLink(link *auth.DeepLink) {
	hv.link = link
	hv.note.Clear()
	if link == nil || link.Target == "" {
		_, _ = fmt.Fprint(hv.note, "Welcome back.")
		return
	}
	_, _ = fmt.Fprintf(hv.note, "Welcome back. [%s]Continue to %s[-]", ui.ColorTag(hv.theme.CounterColor), tview.Escape(link.Target))
}
