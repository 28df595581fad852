// Package sched moves work between the UI goroutine and background
// goroutines. Presenters never touch widgets directly from background work:
// they compute on Go and apply results with UI.
package sched

import (
	"sync"
	"time"
)

// Scheduler runs presenter work.
type Scheduler interface {
	// Go runs fn on a background goroutine.
	Go(fn func())
	// UI runs fn on the UI goroutine.
	UI(fn func())
	// After runs fn on a background goroutine once d has elapsed.
	After(d time.Duration, fn func())
}

// Async runs background work on new goroutines and hands UI work to queue,
// typically tview's Application.QueueUpdateDraw.
type Async struct {
	queue func(func())
}

// NewAsync creates a scheduler that marshals UI work through queue.
func NewAsync(queue func(func())) *Async {
	return &Async{queue: queue}
}

func (a *Async) Go(fn func()) { go fn() }

func (a *Async) UI(fn func()) { a.queue(fn) }

func (a *Async) After(d time.Duration, fn func()) {
	if d <= 0 {
		go fn()
		return
	}
	time.AfterFunc(d, fn)
}

// Sync runs everything inline on the caller's goroutine. After does not
// sleep; it records the requested delay. Used by presenter tests and by
// headless callers.
type Sync struct {
	mu     sync.Mutex
	Delays []time.Duration
}

func (s *Sync) Go(fn func()) { fn() }

func (s *Sync) UI(fn func()) { fn() }

func (s *Sync) After(d time.Duration, fn func()) {
	s.mu.Lock()
	s.Delays = append(s.Delays, d)
	s.mu.Unlock()
	fn()
}

// Manual queues background work until Run is called, so tests can observe
// intermediate UI state. UI work runs inline.
type Manual struct {
	mu      sync.Mutex
	pending []func()
}

func (m *Manual) Go(fn func()) {
	m.mu.Lock()
	m.pending = append(m.pending, fn)
	m.mu.Unlock()
}

func (m *Manual) UI(fn func()) { fn() }

func (m *Manual) After(_ time.Duration, fn func()) { m.Go(fn) }

// Pending returns the number of queued background tasks.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Run executes queued tasks, including any queued while running, in order.
func (m *Manual) Run() {
	for {
		m.mu.Lock()
		if len(m.pending) == 0 {
			m.mu.Unlock()
			return
		}
		fn := m.pending[0]
		m.pending = m.pending[1:]
		m.mu.Unlock()
		fn()
	}
}

// RunOne executes the oldest queued task. It reports false if none was queued.
func (m *Manual) RunOne() bool {
	m.mu.Lock()
	if len(m.pending) == 0 {
		m.mu.Unlock()
		return false
	}
	fn := m.pending[0]
	m.pending = m.pending[1:]
	m.mu.Unlock()
	fn()
	return true
}
