package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/portal/internal/amenity"
	"github.com/matheus3301/portal/internal/tui/ui"
	"github.com/rivo/tview"
)

// AmenityView shows one amenity page.
type AmenityView struct {
	*tview.TextView
	theme   *ui.Theme
	current *amenity.Amenity
}

// NewAmenityView creates the detail page.
func NewAmenityView(theme *ui.Theme) *AmenityView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitleColor(theme.TitleColor)
	tv.SetBorderPadding(1, 1, 2, 2)

	return &AmenityView{TextView: tv, theme: theme}
}

func (av *AmenityView) Name() string { return "Amenity" }

func (av *AmenityView) Start() {}

func (av *AmenityView) Stop() {}

func (av *AmenityView) Hints() []ui.MenuHint {
	hints := []ui.MenuHint{{Key: "Esc", Description: "Back"}}
	if av.current != nil && av.current.Phone != "" {
		hints = append(hints, ui.MenuHint{Key: "c", Description: "Call"})
	}
	if av.current != nil && av.current.URL != "" {
		hints = append(hints, ui.MenuHint{Key: "o", Description: "Open link"})
	}
	return hints
}

// Current returns the shown amenity.
func (av *AmenityView) Current() *amenity.Amenity { return av.current }

// Show renders a.
func (av *AmenityView) Show(a *amenity.Amenity) {
	av.current = a
	av.Clear()
	av.SetTitle(" " + tview.Escape(a.Title) + " ")

	label := ui.ColorTag(av.theme.MenuKeyColor)
	var b strings.Builder
	if a.Category != "" {
		fmt.Fprintf(&b, "[%s::d]%s[-:-:-]\n\n", ui.ColorTag(av.theme.MutedColor), tview.Escape(a.Category))
	}
	if a.Body != "" {
		b.WriteString(tview.Escape(sanitizeForTerminal(a.Body)))
		b.WriteString("\n\n")
	}
	if a.Phone != "" {
		fmt.Fprintf(&b, "[%s::b]Phone[-:-:-]  %s\n", label, tview.Escape(a.Phone))
	}
	if a.URL != "" {
		fmt.Fprintf(&b, "[%s::b]Link[-:-:-]   %s\n", label, tview.Escape(a.URL))
	}
	if a.Parent != "" {
		fmt.Fprintf(&b, "[%s::b]Where[-:-:-]  %s\n", label, tview.Escape(a.Parent))
	}
	_, _ = fmt.Fprint(av, b.String())
	av.ScrollToBeginning()
}

// AmenityTable lists the nested amenities of a category page.
type AmenityTable struct {
	*tview.List
	theme    *ui.Theme
	current  *amenity.Amenity
	onSelect func(a *amenity.Amenity)
}

// NewAmenityTable creates the category page.
func NewAmenityTable(theme *ui.Theme) *AmenityTable {
	l := tview.NewList().
		ShowSecondaryText(true).
		SetHighlightFullLine(true)
	l.SetBorder(true)
	l.SetBorderColor(theme.BorderColor)
	l.SetBackgroundColor(theme.BgColor)
	l.SetTitleColor(theme.TitleColor)
	l.SetMainTextColor(theme.FgColor)
	l.SetSecondaryTextColor(theme.MutedColor)
	l.SetSelectedBackgroundColor(theme.TableCursorBg)
	l.SetSelectedTextColor(theme.TableCursorFg)

	return &AmenityTable{List: l, theme: theme}
}

func (at *AmenityTable) Name() string { return "Services" }

func (at *AmenityTable) Start() {}

func (at *AmenityTable) Stop() {}

func (at *AmenityTable) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Open"},
		{Key: "Esc", Description: "Back"},
	}
}

// SetOnSelect sets the handler for a chosen nested amenity.
func (at *AmenityTable) SetOnSelect(fn func(a *amenity.Amenity)) { at.onSelect = fn }

// Show lists the nested amenities of a.
func (at *AmenityTable) Show(a *amenity.Amenity) {
	at.current = a
	at.Clear()
	at.SetTitle(" " + tview.Escape(a.Title) + " ")
	for i := range a.Nested {
		n := &a.Nested[i]
		at.AddItem(tview.Escape(n.Title), tview.Escape(n.Category), 0, func() {
			if at.onSelect != nil {
				at.onSelect(n)
			}
		})
	}
}
