package ui

import "github.com/rivo/tview"

// MenuHint describes a keyboard shortcut for display in the menu bar.
type MenuHint struct {
	Key         string
	Description string
}

// Component is the lifecycle interface for full-screen pages.
type Component interface {
	tview.Primitive
	// Name is the page key and the crumb title.
	Name() string
	// Start runs when the page is pushed or revealed again.
	Start()
	// Stop runs when the page is hidden or popped.
	Stop()
	Hints() []MenuHint
}
