package ui

import "github.com/rivo/tview"

// Pages is a stack of Components plus at most one modal overlay.
type Pages struct {
	*tview.Pages
	stack    []Component
	modal    string
	onChange func(stack []string)
}

// NewPages creates a new stack-based page manager.
func NewPages() *Pages {
	return &Pages{Pages: tview.NewPages()}
}

// SetOnChange sets a callback that fires when the stack changes.
func (p *Pages) SetOnChange(fn func(stack []string)) {
	p.onChange = fn
}

// Push hides the current page and shows c on top. A page already on the
// stack is moved to the top instead of being added twice.
func (p *Pages) Push(c Component) {
	if top := p.Top(); top != nil {
		if top.Name() == c.Name() {
			return
		}
		top.Stop()
		p.HidePage(top.Name())
	}
	for i, s := range p.stack {
		if s.Name() == c.Name() {
			p.stack = append(p.stack[:i], p.stack[i+1:]...)
			break
		}
	}
	p.stack = append(p.stack, c)
	p.show(c)
	p.notify()
}

// Pop removes the top page and reveals the previous one. The root page is
// never popped. Returns the popped component or nil.
func (p *Pages) Pop() Component {
	if len(p.stack) < 2 {
		return nil
	}
	top := p.stack[len(p.stack)-1]
	top.Stop()
	p.HidePage(top.Name())
	p.stack = p.stack[:len(p.stack)-1]
	p.show(p.stack[len(p.stack)-1])
	p.notify()
	return top
}

// Reset clears the stack and shows only c.
func (p *Pages) Reset(c Component) {
	for _, s := range p.stack {
		s.Stop()
		p.HidePage(s.Name())
	}
	p.stack = []Component{c}
	p.show(c)
	p.notify()
}

// Top returns the visible page, or nil.
func (p *Pages) Top() Component {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

// Current returns the name of the visible page.
func (p *Pages) Current() string {
	if top := p.Top(); top != nil {
		return top.Name()
	}
	return ""
}

// Stack returns the page names, bottom first.
func (p *Pages) Stack() []string {
	s := make([]string, len(p.stack))
	for i, c := range p.stack {
		s[i] = c.Name()
	}
	return s
}

// Depth returns the current stack depth.
func (p *Pages) Depth() int {
	return len(p.stack)
}

// ShowModal overlays item centered on the current page, replacing any
// previous modal.
func (p *Pages) ShowModal(name string, item tview.Primitive, width, height int) {
	p.HideModal()
	p.modal = name
	p.AddPage(name, center(item, width, height), true, true)
	p.SendToFront(name)
}

// HideModal removes the overlay, if any.
func (p *Pages) HideModal() {
	if p.modal == "" {
		return
	}
	p.RemovePage(p.modal)
	p.modal = ""
}

// Modal returns the name of the shown overlay, or "".
func (p *Pages) Modal() string { return p.modal }

func (p *Pages) show(c Component) {
	if !p.HasPage(c.Name()) {
		p.AddPage(c.Name(), c, true, false)
	}
	p.ShowPage(c.Name())
	p.SendToFront(c.Name())
	if p.modal != "" {
		p.SendToFront(p.modal)
	}
	c.Start()
}

func (p *Pages) notify() {
	if p.onChange != nil {
		p.onChange(p.Stack())
	}
}

func center(item tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(item, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}
