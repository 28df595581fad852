package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/portal/internal/amenity"
	"github.com/matheus3301/portal/internal/mapping"
	"github.com/matheus3301/portal/internal/tui/ui"
	"github.com/rivo/tview"
)

// MapView is the indoor-map page. Rendering the map itself is left to the
// map service; the page shows which map is open, the focused placemark or
// the sheet of candidates.
type MapView struct {
	*tview.Flex
	theme  *ui.Theme
	header *tview.TextView
	sheet  *tview.Table

	key        mapping.MapKey
	placemarks []mapping.Placemark
	focused    int
}

// NewMapView creates the map page.
func NewMapView(theme *ui.Theme) *MapView {
	header := tview.NewTextView().SetDynamicColors(true).SetWordWrap(true)
	header.SetBackgroundColor(theme.BgColor)
	header.SetTextColor(theme.FgColor)
	header.SetBorderPadding(1, 1, 2, 2)

	sheet := tview.NewTable().SetSelectable(true, false)
	sheet.SetBorder(true)
	sheet.SetTitle(" Locations ")
	sheet.SetTitleColor(theme.TitleColor)
	sheet.SetBorderColor(theme.BorderColor)
	sheet.SetBackgroundColor(theme.BgColor)
	sheet.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))

	mv := &MapView{
		theme:   theme,
		header:  header,
		sheet:   sheet,
		focused: -1,
	}
	mv.Flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(header, 0, 1, false).
		AddItem(sheet, 0, 0, true)
	mv.Flex.SetBorder(true)
	mv.Flex.SetTitle(" Map ")
	mv.Flex.SetTitleColor(theme.TitleColor)
	mv.Flex.SetBorderColor(theme.BorderColor)
	mv.Flex.SetBackgroundColor(theme.BgColor)

	sheet.SetSelectedFunc(func(row, _ int) { mv.focus(row) })
	return mv
}

func (mv *MapView) Name() string { return "Map" }

func (mv *MapView) Start() {}

func (mv *MapView) Stop() {}

func (mv *MapView) Hints() []ui.MenuHint {
	if len(mv.placemarks) > 1 {
		return []ui.MenuHint{{Key: "Enter", Description: "Focus"}, {Key: "Esc", Description: "Back"}}
	}
	return []ui.MenuHint{{Key: "Esc", Description: "Back"}}
}

// Sheet returns the candidate list, shown for more than one placemark.
func (mv *MapView) Sheet() *tview.Table { return mv.sheet }

// Focused returns the focused placemark, if any.
func (mv *MapView) Focused() (mapping.Placemark, bool) {
	if mv.focused < 0 || mv.focused >= len(mv.placemarks) {
		return mapping.Placemark{}, false
	}
	return mv.placemarks[mv.focused], true
}

// SheetVisible reports whether the candidate list is shown.
func (mv *MapView) SheetVisible() bool { return len(mv.placemarks) > 1 }

// ShowPlacemarks opens key with placemarks: one is focused directly, more
// are listed in the sheet.
func (mv *MapView) ShowPlacemarks(key mapping.MapKey, placemarks []mapping.Placemark) {
	mv.key = key
	mv.placemarks = placemarks
	mv.focused = -1
	mv.sheet.Clear()

	if len(placemarks) == 1 {
		mv.Flex.ResizeItem(mv.sheet, 0, 0)
		mv.focus(0)
		return
	}
	for i, p := range placemarks {
		mv.sheet.SetCell(i, 0, tview.NewTableCell(" "+tview.Escape(p.Name)).SetExpansion(1).SetTextColor(mv.theme.FgColor))
		mv.sheet.SetCell(i, 1, tview.NewTableCell(" "+tview.Escape(p.Subtitle)).SetTextColor(mv.theme.MutedColor))
	}
	mv.Flex.ResizeItem(mv.sheet, 0, 1)
	mv.sheet.Select(0, 0)
	mv.renderHeader(fmt.Sprintf("%d locations, choose one to focus", len(placemarks)))
}

// ShowNearby opens the map around an amenity.
func (mv *MapView) ShowNearby(a *amenity.Amenity) {
	mv.key = mapping.MapKey{Map: a.Parent}
	mv.placemarks = nil
	mv.focused = -1
	mv.sheet.Clear()
	mv.Flex.ResizeItem(mv.sheet, 0, 0)

	text := fmt.Sprintf("[::b]Near %s[-:-:-]", tview.Escape(a.Title))
	if a.Body != "" {
		text += "\n\n" + tview.Escape(sanitizeForTerminal(a.Body))
	}
	mv.renderHeader(text)
}

// ShowFacility opens a facility's map with nothing focused.
func (mv *MapView) ShowFacility(f mapping.Facility) {
	mv.key = mapping.MapKey{Map: f.MapKey, App: f.AppKey}
	mv.placemarks = nil
	mv.focused = -1
	mv.sheet.Clear()
	mv.Flex.ResizeItem(mv.sheet, 0, 0)
	mv.renderHeader(fmt.Sprintf("[::b]%s[-:-:-]", tview.Escape(f.Name)))
}

func (mv *MapView) focus(i int) {
	if i < 0 || i >= len(mv.placemarks) {
		return
	}
	mv.focused = i
	p := mv.placemarks[i]
	text := fmt.Sprintf("[::b]%s[-:-:-]", tview.Escape(p.Name))
	if p.Subtitle != "" {
		text += "\n" + tview.Escape(p.Subtitle)
	}
	mv.renderHeader(text)
}

func (mv *MapView) renderHeader(body string) {
	mv.header.Clear()
	where := mv.key.Map
	if mv.key.App != "" {
		where = mv.key.String()
	}
	_, _ = fmt.Fprintf(mv.header, "[%s::d]map %s[-:-:-]\n\n%s", ui.ColorTag(mv.theme.MutedColor), tview.Escape(where), body)
}
