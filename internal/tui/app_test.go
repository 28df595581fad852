package tui

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/portal/internal/analytics"
	"github.com/matheus3301/portal/internal/auth"
	"github.com/matheus3301/portal/internal/bus"
	"github.com/matheus3301/portal/internal/opener"
	"github.com/matheus3301/portal/internal/prefs"
)

func newTestApp(t *testing.T) (*App, *opener.Recorder) {
	t.Helper()
	b := bus.New()
	p := prefs.New(prefs.NewMemoryBackend(), b, nil)
	op := &opener.Recorder{}
	a := NewApp(Deps{
		Profile:  "test",
		Prefs:    p,
		Provider: auth.NewClient("http://127.0.0.1:1/auth", &http.Client{}, p, auth.NoBiometrics{}, nil),
		Recorder: &analytics.Memory{},
		Opener:   op,
		Bus:      b,
		Language: "en",
	})
	a.pages.Reset(a.loginV)
	t.Cleanup(a.cancel)
	return a, op
}

func key(k tcell.Key) *tcell.EventKey { return tcell.NewEventKey(k, 0, tcell.ModNone) }

func TestCommandsNeedSignIn(t *testing.T) {
	a, _ := newTestApp(t)

	a.runCommand(ParseCommand("search cardiology"))
	if a.pages.Current() != "Login" {
		t.Fatalf("current = %q", a.pages.Current())
	}
	if m := a.flash.Current(); m == nil || !strings.Contains(m.Text, "Sign in") {
		t.Errorf("flash = %+v", m)
	}

	a.runCommand(ParseCommand("help"))
	if a.pages.Current() != "Help" {
		t.Errorf("current = %q", a.pages.Current())
	}
}

func TestSharedCommand(t *testing.T) {
	a, _ := newTestApp(t)

	a.runCommand(ParseCommand("shared on"))
	if !a.d.Prefs.Bool(prefs.SharedDevice) {
		t.Error("shared device not set")
	}
	a.runCommand(ParseCommand("shared OFF"))
	if a.d.Prefs.Bool(prefs.SharedDevice) {
		t.Error("shared device still set")
	}
	a.runCommand(ParseCommand("shared maybe"))
	if m := a.flash.Current(); m == nil || !strings.Contains(m.Text, "Usage") {
		t.Errorf("flash = %+v", m)
	}
}

func TestUnknownCommandWarns(t *testing.T) {
	a, _ := newTestApp(t)
	a.runCommand(ParseCommand("frobnicate"))
	if m := a.flash.Current(); m == nil || !strings.Contains(m.Text, "frobnicate") {
		t.Errorf("flash = %+v", m)
	}
}

func TestEmptyCommandIsIgnored(t *testing.T) {
	a, _ := newTestApp(t)
	a.runCommand(ParseCommand("   "))
	if m := a.flash.Current(); m != nil {
		t.Errorf("flash = %+v", m)
	}
}

func TestHomeAndBack(t *testing.T) {
	a, _ := newTestApp(t)
	loginNav{a}.ShowHome(&auth.DeepLink{Target: "messages"})

	if got := a.pages.Stack(); len(got) != 1 || got[0] != "Home" {
		t.Fatalf("stack = %v", got)
	}
	if a.home.DeepLink() == nil || a.home.DeepLink().Target != "messages" {
		t.Errorf("deep link = %+v", a.home.DeepLink())
	}

	a.runCommand(ParseCommand("urgent"))
	if a.pages.Current() != "Urgent Care" {
		t.Fatalf("current = %q", a.pages.Current())
	}

	capture := a.app.GetInputCapture()
	if capture(key(tcell.KeyEscape)) != nil {
		t.Error("escape not consumed")
	}
	if a.pages.Current() != "Home" {
		t.Errorf("current after escape = %q", a.pages.Current())
	}
	if capture(key(tcell.KeyEscape)) == nil {
		t.Error("escape consumed on the root page")
	}
}

func TestLoginKeysOpenHelpLinks(t *testing.T) {
	a, op := newTestApp(t)
	capture := a.app.GetInputCapture()

	capture(key(tcell.KeyF5))
	if len(op.Opened) != 1 || !strings.HasPrefix(op.Opened[0], "tel:") {
		t.Errorf("opened = %v", op.Opened)
	}

	capture(key(tcell.KeyF7))
	if a.pages.Current() != "Link" || a.linkV.URL() != a.d.Config.Help.FAQURL {
		t.Errorf("current = %q url = %q", a.pages.Current(), a.linkV.URL())
	}
}

func TestPickerModal(t *testing.T) {
	a, _ := newTestApp(t)
	a.Pick("Pharmacy", []string{"Main", "West"}, "Cancel", func(int) {})
	if a.pages.Modal() != "picker" {
		t.Fatalf("modal = %q", a.pages.Modal())
	}
	if capture := a.app.GetInputCapture(); capture(key(tcell.KeyEscape)) == nil {
		t.Error("app consumed a key meant for the modal")
	}
}
