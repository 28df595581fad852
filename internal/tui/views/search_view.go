package views

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/portal/internal/search"
	"github.com/matheus3301/portal/internal/tui/ui"
	"github.com/rivo/tview"
)

// SearchHandlers are the user events of the search page.
type SearchHandlers struct {
	Changed func(text string)
	Cancel  func()
	Clear   func()
	Select  func(i int)
	Close   func()
}

// SearchView is the universal search page. It implements search.View.
type SearchView struct {
	*tview.Flex
	theme   *ui.Theme
	focus   Focuser
	input   *tview.InputField
	status  *tview.TextView
	results *tview.Table
	data    []search.Result

	h       SearchHandlers
	loading bool
	empty   bool
	cancel  bool
}

var _ search.View = (*SearchView)(nil)

// NewSearchView creates a new search view.
func NewSearchView(theme *ui.Theme, focus Focuser) *SearchView {
	input := tview.NewInputField().
		SetLabel(" Search: ").
		SetPlaceholder("doctors, clinics, parking, phone numbers").
		SetFieldWidth(0)
	input.SetBorder(true)
	input.SetBorderColor(theme.BorderColor)
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetLabelColor(theme.MenuKeyColor)

	status := tview.NewTextView().SetDynamicColors(true)
	status.SetBackgroundColor(theme.BgColor)
	status.SetTextColor(theme.MutedColor)

	results := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	results.SetBorder(true)
	results.SetBorderColor(theme.BorderColor)
	results.SetBackgroundColor(theme.BgColor)
	results.SetTitle(" Results ")
	results.SetTitleColor(theme.TitleColor)
	results.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))

	sv := &SearchView{
		Flex: tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(input, 3, 0, true).
			AddItem(status, 1, 0, false).
			AddItem(results, 0, 1, false),
		theme:   theme,
		focus:   focus,
		input:   input,
		status:  status,
		results: results,
	}

	input.SetChangedFunc(func(text string) {
		if sv.h.Changed != nil {
			sv.h.Changed(text)
		}
	})
	input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEscape:
			if sv.h.Cancel != nil {
				sv.h.Cancel()
			}
		case tcell.KeyEnter, tcell.KeyDown, tcell.KeyTab:
			if len(sv.data) > 0 {
				sv.focus.focus(sv.results)
			}
		}
	})
	input.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Key() == tcell.KeyCtrlU {
			if sv.h.Clear != nil {
				sv.h.Clear()
			}
			return nil
		}
		return ev
	})
	results.SetSelectedFunc(func(row, _ int) {
		if sv.h.Select != nil {
			sv.h.Select(row - 1)
		}
	})
	results.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape {
			sv.focus.focus(sv.input)
		}
	})

	sv.render()
	return sv
}

// SetHandlers binds the page to a presenter.
func (sv *SearchView) SetHandlers(h SearchHandlers) { sv.h = h }

// Reset empties the field without firing Changed.
func (sv *SearchView) Reset() {
	changed := sv.h.Changed
	sv.h.Changed = nil
	sv.input.SetText("")
	sv.h.Changed = changed
	sv.data = nil
	sv.loading, sv.empty, sv.cancel = false, false, false
	sv.render()
}

func (sv *SearchView) Name() string { return "Search" }

func (sv *SearchView) Start() { sv.focus.focus(sv.input) }

func (sv *SearchView) Stop() {}

func (sv *SearchView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Results/Open"},
		{Key: "Ctrl-U", Description: "Clear"},
		{Key: "Esc", Description: "Cancel"},
	}
}

// Input returns the search field.
func (sv *SearchView) Input() *tview.InputField { return sv.input }

// Results returns the results table.
func (sv *SearchView) Results() *tview.Table { return sv.results }

// SetResults replaces every row.
func (sv *SearchView) SetResults(results []search.Result) {
	sv.data = results
	sv.render()
	sv.results.Select(1, 0)
	sv.results.ScrollToBeginning()
}

// RefreshRow redraws row i; indexes outside the list are ignored.
func (sv *SearchView) RefreshRow(i int) {
	if i < 0 || i >= len(sv.data) {
		return
	}
	sv.renderRow(i)
}

func (sv *SearchView) SetLoading(b bool) {
	sv.loading = b
	sv.renderStatus()
}

func (sv *SearchView) SetCancelVisible(b bool) {
	sv.cancel = b
	sv.renderStatus()
}

func (sv *SearchView) SetEmptyState(b bool) {
	sv.empty = b
	sv.renderStatus()
}

// Close asks the app to leave the page.
func (sv *SearchView) Close() {
	if sv.h.Close != nil {
		sv.h.Close()
	}
}

// Status returns the status line without color tags.
func (sv *SearchView) Status() string { return sv.status.GetText(true) }

// Row returns the rendered title cell of result i.
func (sv *SearchView) Row(i int) string {
	c := sv.results.GetCell(i+1, 1)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text)
}

func (sv *SearchView) render() {
	sv.results.Clear()
	headers := []string{"  ", " NAME", " WHERE", " KIND"}
	for col, h := range headers {
		sv.results.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(sv.theme.TableHeaderFg).
			SetBackgroundColor(sv.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold))
	}
	for i := range sv.data {
		sv.renderRow(i)
	}
	sv.renderStatus()
}

func (sv *SearchView) renderRow(i int) {
	r := sv.data[i]
	row := i + 1
	mark := "  "
	if r.Thumbnail != "" {
		mark = " ▣"
	}
	kind := r.EntityType
	if kind == "" {
		kind = r.Category
	}
	fg := sv.theme.FgColor
	sv.results.SetCell(row, 0, tview.NewTableCell(mark).SetTextColor(sv.theme.CounterColor))
	sv.results.SetCell(row, 1, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(r.Title))).SetExpansion(2).SetTextColor(fg))
	sv.results.SetCell(row, 2, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(r.Subtitle()))).SetExpansion(1).SetTextColor(sv.theme.MutedColor))
	sv.results.SetCell(row, 3, tview.NewTableCell(" "+tview.Escape(kind)).SetMaxWidth(18).SetTextColor(sv.theme.MutedColor))
}

func (sv *SearchView) renderStatus() {
	var parts []string
	switch {
	case sv.loading:
		parts = append(parts, "Searching...")
	case sv.empty:
		parts = append(parts, "No results found.")
	}
	if sv.cancel {
		parts = append(parts, "[::d]Esc to cancel, Ctrl-U to clear[-:-:-]")
	}
	sv.status.SetText(" " + strings.Join(parts, "  "))
}

// NewPicker builds the location chooser: one button per choice plus cancel.
// done receives the choice index, or -1 for cancel.
func NewPicker(theme *ui.Theme, title string, choices []string, cancel string, done func(i int)) *tview.Modal {
	buttons := append(append([]string{}, choices...), cancel)
	m := tview.NewModal().
		SetText(tview.Escape(title) + "\n\nChoose a location").
		AddButtons(buttons).
		SetDoneFunc(func(i int, _ string) {
			if i < 0 || i >= len(choices) {
				done(-1)
				return
			}
			done(i)
		})
	m.SetBackgroundColor(theme.BgColor)
	m.SetTextColor(theme.FgColor)
	m.SetBorderColor(theme.BorderFocusColor)
	return m
}
