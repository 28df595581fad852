package views

import (
	"fmt"

	"github.com/matheus3301/portal/internal/tui/ui"
	"github.com/rivo/tview"
)

// UrgentCareView tells the user where to go for urgent care.
type UrgentCareView struct {
	*tview.TextView
}

// NewUrgentCareView creates the page. phone is the help line, if any.
func NewUrgentCareView(theme *ui.Theme, phone string) *UrgentCareView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true)
	tv.SetBorder(true)
	tv.SetTitle(" Urgent Care ")
	tv.SetTitleColor(theme.TitleColor)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetBorderPadding(1, 1, 2, 2)

	kc := ui.ColorTag(theme.FlashErrColor)
	_, _ = fmt.Fprintf(tv, "[%s::b]If this is an emergency, call 911.[-:-:-]\n\n", kc)
	_, _ = fmt.Fprint(tv, "Urgent care clinics treat illnesses and injuries that need attention today but are not life threatening. Use Locations to find the nearest one.\n")
	if phone != "" {
		_, _ = fmt.Fprintf(tv, "\nQuestions? Call [%s]%s[-].", ui.ColorTag(theme.MenuKeyColor), tview.Escape(phone))
	}
	return &UrgentCareView{TextView: tv}
}

func (uv *UrgentCareView) Name() string { return "Urgent Care" }

func (uv *UrgentCareView) Start() {}

func (uv *UrgentCareView) Stop() {}

func (uv *UrgentCareView) Hints() []ui.MenuHint {
	return []ui.MenuHint{{Key: "Esc", Description: "Back"}}
}
