package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/rivo/tview"
)

// FlashLevel represents the severity of a flash message.
type FlashLevel int

const (
	FlashInfo FlashLevel = iota
	FlashWarn
	FlashErr
)

// How long each level stays on screen.
var flashTTL = map[FlashLevel]time.Duration{
	FlashInfo: 4 * time.Second,
	FlashWarn: 8 * time.Second,
	FlashErr:  10 * time.Second,
}

// FlashMessage is a flash notification with a level and expiry.
type FlashMessage struct {
	Text    string
	Level   FlashLevel
	Expires time.Time
}

// FlashModel holds the current transient message. It is safe for use from
// any goroutine; Watch delivers each new message.
type FlashModel struct {
	mu      sync.RWMutex
	current FlashMessage
	watchCh chan FlashMessage
}

// NewFlashModel creates a new flash model.
func NewFlashModel() *FlashModel {
	return &FlashModel{
		watchCh: make(chan FlashMessage, 8),
	}
}

func (f *FlashModel) Info(msg string) { f.set(msg, FlashInfo) }

func (f *FlashModel) Warn(msg string) { f.set(msg, FlashWarn) }

// Errf sets an error-level message built from format.
func (f *FlashModel) Errf(format string, args ...any) {
	f.set(fmt.Sprintf(format, args...), FlashErr)
}

// Clear expires the current message.
func (f *FlashModel) Clear() {
	f.mu.Lock()
	f.current = FlashMessage{}
	f.mu.Unlock()
	select {
	case f.watchCh <- FlashMessage{}:
	default:
	}
}

func (f *FlashModel) set(msg string, level FlashLevel) {
	fm := FlashMessage{
		Text:    msg,
		Level:   level,
		Expires: time.Now().Add(flashTTL[level]),
	}
	f.mu.Lock()
	f.current = fm
	f.mu.Unlock()
	select {
	case f.watchCh <- fm:
	default:
	}
}

// Current returns the live message, or nil once it expired.
func (f *FlashModel) Current() *FlashMessage {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.current.Text == "" || time.Now().After(f.current.Expires) {
		return nil
	}
	m := f.current
	return &m
}

// Watch returns a channel that receives flash messages.
func (f *FlashModel) Watch() <-chan FlashMessage {
	return f.watchCh
}

// FlashBar is the UI component that displays flash notifications.
type FlashBar struct {
	*tview.TextView
	theme *Theme
}

// NewFlashBar creates a new flash notification bar.
func NewFlashBar(theme *Theme) *FlashBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &FlashBar{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders a flash message on the bar.
func (fb *FlashBar) Update(msg *FlashMessage) {
	fb.Clear()
	if msg == nil {
		return
	}

	color, mark := colorName(fb.theme.FlashInfoColor), "i"
	switch msg.Level {
	case FlashWarn:
		color, mark = colorName(fb.theme.FlashWarnColor), "!"
	case FlashErr:
		color, mark = colorName(fb.theme.FlashErrColor), "x"
	}
	_, _ = fmt.Fprintf(fb, " [%s::b]%s[-:-:-] [%s]%s[-]", color, mark, color, tview.Escape(msg.Text))
}
