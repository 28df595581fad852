// Package keys maps key presses to actions, globally or per page.
package keys

import (
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/portal/internal/tui/ui"
)

// Action represents a keybinding action.
type Action struct {
	Key         tcell.Key
	Rune        rune
	Label       string
	Description string
	Handler     func()
	Visible     bool
}

// Matches returns true if the event matches this action.
func (a *Action) Matches(ev *tcell.EventKey) bool {
	if a.Key != tcell.KeyRune {
		return ev.Key() == a.Key
	}
	return ev.Key() == tcell.KeyRune && ev.Rune() == a.Rune
}

// Registry holds keybindings organized by scope.
type Registry struct {
	global map[string]*Action
	views  map[string]map[string]*Action
}

// NewRegistry creates a new keybinding registry.
func NewRegistry() *Registry {
	return &Registry{
		global: make(map[string]*Action),
		views:  make(map[string]map[string]*Action),
	}
}

// AddGlobal registers a binding active on every page.
func (r *Registry) AddGlobal(name string, action *Action) {
	r.global[name] = action
}

// AddView registers a binding active only on page view.
func (r *Registry) AddView(view, name string, action *Action) {
	if r.views[view] == nil {
		r.views[view] = make(map[string]*Action)
	}
	r.views[view][name] = action
}

// Hints returns the visible bindings for view, page bindings first, each
// group ordered by name.
func (r *Registry) Hints(view string) []ui.MenuHint {
	hints := visible(r.views[view])
	return append(hints, visible(r.global)...)
}

func visible(m map[string]*Action) []ui.MenuHint {
	names := make([]string, 0, len(m))
	for name, a := range m {
		if a.Visible {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]ui.MenuHint, 0, len(names))
	for _, name := range names {
		a := m[name]
		out = append(out, ui.MenuHint{Key: a.Label, Description: a.Description})
	}
	return out
}

// HandleEvent dispatches a key event to a matching action of view, then to
// the global bindings. Returns true if a handler ran.
func (r *Registry) HandleEvent(view string, ev *tcell.EventKey) bool {
	for _, a := range r.views[view] {
		if a.Matches(ev) {
			a.Handler()
			return true
		}
	}
	for _, a := range r.global {
		if a.Matches(ev) {
			a.Handler()
			return true
		}
	}
	return false
}
