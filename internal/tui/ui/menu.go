package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

// Menu shows the shortcuts of the visible page on one line.
type Menu struct {
	*tview.TextView
	theme *Theme
}

// NewMenu creates a new menu hint bar.
func NewMenu(theme *Theme) *Menu {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)

	return &Menu{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders hints, page hints first.
func (m *Menu) Update(hints []MenuHint) {
	m.Clear()
	kc := colorName(m.theme.MenuKeyColor)
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, fmt.Sprintf("[%s::b]<%s>[-:-:-] %s", kc, tview.Escape(h.Key), h.Description))
	}
	_, _ = fmt.Fprint(m, " "+strings.Join(parts, "  "))
}
