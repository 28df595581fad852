package views

import "github.com/rivo/tview"

// Modals shows one overlay at a time above the page stack.
type Modals interface {
	ShowModal(name string, item tview.Primitive, width, height int)
	HideModal()
	Modal() string
}

// Focuser moves keyboard focus.
type Focuser func(p tview.Primitive)

func (f Focuser) focus(p tview.Primitive) {
	if f != nil {
		f(p)
	}
}
