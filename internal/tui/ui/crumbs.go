package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Crumbs shows the page stack, prefixed by the profile name.
type Crumbs struct {
	*tview.TextView
	theme   *Theme
	profile string
}

// NewCrumbs creates a breadcrumb bar for profile.
func NewCrumbs(theme *Theme, profile string) *Crumbs {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &Crumbs{
		TextView: tv,
		theme:    theme,
		profile:  profile,
	}
}

// Update renders the trail. The last entry is the active page.
func (c *Crumbs) Update(stack []string) {
	c.Clear()
	parts := []string{fmt.Sprintf("[%s::d]%s[-:-:-]", colorName(c.theme.MutedColor), tview.Escape(c.profile))}
	for i, name := range stack {
		fg, bg, attr := c.theme.CrumbInactiveFg, c.theme.CrumbInactiveBg, ""
		if i == len(stack)-1 {
			fg, bg, attr = c.theme.CrumbActiveFg, c.theme.CrumbActiveBg, "b"
		}
		parts = append(parts, fmt.Sprintf("[%s:%s:%s] %s [-:-:-]", colorName(fg), colorName(bg), attr, tview.Escape(name)))
	}
	_, _ = fmt.Fprint(c, strings.Join(parts, " "))
}

// colorName returns a tview-compatible color name string.
func colorName(c tcell.Color) string {
	for name, val := range tcell.ColorNames {
		if val == c {
			return name
		}
	}
	return fmt.Sprintf("#%06x", c.Hex())
}
