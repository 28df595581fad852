package views

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/portal/internal/amenity"
	"github.com/matheus3301/portal/internal/login"
	"github.com/matheus3301/portal/internal/mapping"
	"github.com/matheus3301/portal/internal/search"
	"github.com/matheus3301/portal/internal/tui/ui"
	"github.com/rivo/tview"
)

type modals struct{ name string }

func (m *modals) ShowModal(name string, _ tview.Primitive, _, _ int) { m.name = name }
func (m *modals) HideModal()                                         { m.name = "" }
func (m *modals) Modal() string                                      { return m.name }

func TestSanitizeForTerminal(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"plain", "Main Campus", "Main Campus"},
		{"newlines", "Floor 2\nWest\twing", "Floor 2 West wing"},
		{"control", "a\x07b\x1bc", "abc"},
		{"skin tone", "\U0001F44D\U0001F3FD", "\U0001F44D"},
		{"zwj", "a\u200db", "ab"},
		{"variation selector", "\u2764\ufe0f", "\u2764"},
		{"invalid utf8", "ok\xff", "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeForTerminal(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderQR(t *testing.T) {
	out := renderQR("https://example.org/signup")
	if out == "" || !strings.ContainsAny(out, "▀▄█") {
		t.Fatalf("no QR blocks in output: %q", out)
	}
}

func TestSearchViewRows(t *testing.T) {
	sv := NewSearchView(ui.DefaultTheme(), nil)
	results := []search.Result{
		{ID: "1", Title: "Cardiology", EntityType: "amenity", ParentName: "Main Campus", Floor: "2"},
		{ID: "2", Title: "Parking\nGarage", Category: "parking"},
	}
	sv.SetResults(results)

	if got := sv.Row(0); got != "Cardiology" {
		t.Errorf("row 0 = %q", got)
	}
	if got := sv.Row(1); got != "Parking Garage" {
		t.Errorf("row 1 = %q", got)
	}
	if got := sv.Row(2); got != "" {
		t.Errorf("row 2 = %q, want empty", got)
	}

	results[0].Thumbnail = "/tmp/thumbnailcardio.png"
	sv.RefreshRow(0)
	if c := sv.Results().GetCell(1, 0); !strings.Contains(c.Text, "▣") {
		t.Errorf("thumbnail mark missing: %q", c.Text)
	}
	sv.RefreshRow(7)
	sv.RefreshRow(-1)
}

func TestSearchViewStatus(t *testing.T) {
	sv := NewSearchView(ui.DefaultTheme(), nil)
	sv.SetLoading(true)
	if !strings.Contains(sv.Status(), "Searching") {
		t.Errorf("status = %q", sv.Status())
	}
	sv.SetLoading(false)
	sv.SetEmptyState(true)
	if !strings.Contains(sv.Status(), "No results") {
		t.Errorf("status = %q", sv.Status())
	}
	sv.SetCancelVisible(true)
	if !strings.Contains(sv.Status(), "Esc to cancel") {
		t.Errorf("status = %q", sv.Status())
	}
	sv.Reset()
	if strings.TrimSpace(sv.Status()) != "" {
		t.Errorf("status after reset = %q", sv.Status())
	}
}

func TestSearchViewResetDoesNotFireChanged(t *testing.T) {
	sv := NewSearchView(ui.DefaultTheme(), nil)
	var changes []string
	sv.SetHandlers(SearchHandlers{Changed: func(s string) { changes = append(changes, s) }})
	sv.Input().SetText("card")
	sv.Reset()
	if len(changes) != 1 || changes[0] != "card" {
		t.Errorf("changes = %v", changes)
	}
	if sv.Input().GetText() != "" {
		t.Errorf("text = %q", sv.Input().GetText())
	}
}

func TestLoginViewState(t *testing.T) {
	m := &modals{}
	var focused tview.Primitive
	v := NewLoginView(ui.DefaultTheme(), m, func(p tview.Primitive) { focused = p })

	v.SetFieldError(login.UsernameField, "Please enter your username.")
	if got := v.FieldError(login.UsernameField); got != "Please enter your username." {
		t.Errorf("username error = %q", got)
	}
	if got := v.FieldError(login.PasswordField); got != "" {
		t.Errorf("password error = %q", got)
	}

	v.SetInputsEnabled(false)
	if v.InputsEnabled() || v.SubmitEnabled() {
		t.Error("form still enabled")
	}
	v.SetInputsEnabled(true)
	v.SetSubmitEnabled(false)
	if v.SubmitEnabled() {
		t.Error("submit enabled")
	}

	v.ShowBanner("Your account is locked.")
	if v.Banner() != "Your account is locked." {
		t.Errorf("banner = %q", v.Banner())
	}
	v.HideBanner()
	if v.Banner() != "" {
		t.Errorf("banner = %q", v.Banner())
	}

	v.SetAltLogin(login.PasscodeLabel)
	if v.AltLabel() != login.PasscodeLabel {
		t.Errorf("alt label = %q", v.AltLabel())
	}

	v.ShowPasscodeDialog()
	if !v.PasscodeDialogActive() || m.name != passcodeModal {
		t.Fatal("passcode dialog not shown")
	}
	if focused != v.passcode.Input() {
		t.Error("passcode input not focused")
	}
	v.ShowPasscodeError("Incorrect passcode.")
	if v.passcode.ErrorText() != "Incorrect passcode." {
		t.Errorf("passcode error = %q", v.passcode.ErrorText())
	}
	v.DismissPasscodeDialog()
	if v.PasscodeDialogActive() {
		t.Error("passcode dialog still shown")
	}
}

func TestLoginViewStartCallsAppear(t *testing.T) {
	v := NewLoginView(ui.DefaultTheme(), &modals{}, nil)
	appeared := 0
	v.SetHandlers(LoginHandlers{Appear: func() { appeared++ }})
	v.Start()
	v.Start()
	if appeared != 2 {
		t.Errorf("appear ran %d times, want 2", appeared)
	}
}

func TestMapViewPlacemarks(t *testing.T) {
	mv := NewMapView(ui.DefaultTheme())
	key := mapping.MapKey{Map: "main", App: "hosp"}

	mv.ShowPlacemarks(key, []mapping.Placemark{{ID: "p1", Name: "Pharmacy"}})
	if p, ok := mv.Focused(); !ok || p.ID != "p1" {
		t.Errorf("focused = %+v %v", p, ok)
	}
	if mv.SheetVisible() {
		t.Error("sheet shown for a single placemark")
	}

	mv.ShowPlacemarks(key, []mapping.Placemark{{ID: "p1"}, {ID: "p2"}})
	if _, ok := mv.Focused(); ok {
		t.Error("placemark focused before choosing")
	}
	if !mv.SheetVisible() || mv.Sheet().GetRowCount() != 2 {
		t.Errorf("sheet rows = %d", mv.Sheet().GetRowCount())
	}

	mv.ShowNearby(&amenity.Amenity{Title: "Cafe", Parent: "main"})
	if mv.SheetVisible() {
		t.Error("sheet shown for nearby")
	}
}

func TestLinkViewOpen(t *testing.T) {
	lv := NewLinkView(ui.DefaultTheme())
	var opened []string
	lv.SetOnOpen(func(url string) { opened = append(opened, url) })

	lv.Open()
	lv.Show("FAQ", "https://example.org/faq")
	lv.Open()
	if len(opened) != 1 || opened[0] != "https://example.org/faq" {
		t.Errorf("opened = %v", opened)
	}
}

func TestAmenityTableSelect(t *testing.T) {
	at := NewAmenityTable(ui.DefaultTheme())
	var chosen *amenity.Amenity
	at.SetOnSelect(func(a *amenity.Amenity) { chosen = a })
	at.Show(&amenity.Amenity{Title: "Services", Nested: []amenity.Amenity{{ID: "n1", Title: "Lab"}}})
	if at.GetItemCount() != 1 {
		t.Fatalf("items = %d", at.GetItemCount())
	}
	at.InputHandler()(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), func(tview.Primitive) {})
	if chosen == nil || chosen.ID != "n1" {
		t.Errorf("chosen = %+v", chosen)
	}
}
