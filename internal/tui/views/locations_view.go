package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/portal/internal/mapping"
	"github.com/matheus3301/portal/internal/tui/ui"
	"github.com/rivo/tview"
)

// LocationsView lists the cached facilities.
type LocationsView struct {
	*tview.Table
	theme      *ui.Theme
	facilities []mapping.Facility
	onSelect   func(f mapping.Facility)
	onStart    func()
}

// NewLocationsView creates the locations page.
func NewLocationsView(theme *ui.Theme) *LocationsView {
	t := tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0)
	t.SetBorder(true)
	t.SetTitle(" Locations ")
	t.SetTitleColor(theme.TitleColor)
	t.SetBorderColor(theme.BorderColor)
	t.SetBackgroundColor(theme.BgColor)
	t.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))

	lv := &LocationsView{Table: t, theme: theme}
	t.SetSelectedFunc(func(row, _ int) {
		if i := row - 1; lv.onSelect != nil && i >= 0 && i < len(lv.facilities) {
			lv.onSelect(lv.facilities[i])
		}
	})
	lv.Update(nil)
	return lv
}

func (lv *LocationsView) Name() string { return "Locations" }

// Start asks for a refresh each time the page is shown.
func (lv *LocationsView) Start() {
	if lv.onStart != nil {
		lv.onStart()
	}
}

func (lv *LocationsView) Stop() {}

func (lv *LocationsView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Open map"},
		{Key: "Esc", Description: "Back"},
	}
}

// SetHandlers sets the refresh and selection callbacks.
func (lv *LocationsView) SetHandlers(start func(), selected func(f mapping.Facility)) {
	lv.onStart, lv.onSelect = start, selected
}

// Update renders facilities.
func (lv *LocationsView) Update(facilities []mapping.Facility) {
	lv.facilities = facilities
	lv.Clear()
	for col, h := range []string{" NAME", " SHORT", " MAP"} {
		lv.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(lv.theme.TableHeaderFg).
			SetBackgroundColor(lv.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold))
	}
	for i, f := range facilities {
		lv.SetCell(i+1, 0, tview.NewTableCell(" "+tview.Escape(f.Name)).SetExpansion(1).SetTextColor(lv.theme.FgColor))
		lv.SetCell(i+1, 1, tview.NewTableCell(" "+tview.Escape(f.ShortName)).SetTextColor(lv.theme.MutedColor))
		lv.SetCell(i+1, 2, tview.NewTableCell(" "+tview.Escape(f.MapKey)).SetTextColor(lv.theme.MutedColor))
	}
}
