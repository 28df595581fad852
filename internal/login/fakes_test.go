package login

import (
	"context"

	"github.com/matheus3301/portal/internal/analytics"
	"github.com/matheus3301/portal/internal/auth"
	"github.com/matheus3301/portal/internal/config"
	"github.com/matheus3301/portal/internal/netx"
	"github.com/matheus3301/portal/internal/prefs"
	"github.com/matheus3301/portal/internal/sched"
)

type fakeView struct {
	username, password string
	fieldErrors        map[Field]string
	submitEnabled      bool
	inputsEnabled      bool
	loading            string
	banner             string
	altLabel           string

	passcodeShown      int
	passcodeActive     bool
	passcodeDismissing bool
	passcodeError      string
	passcodeDismissed  int
}

func newFakeView() *fakeView {
	return &fakeView{fieldErrors: map[Field]string{}, submitEnabled: true, inputsEnabled: true}
}

func (v *fakeView) Username() string         { return v.username }
func (v *fakeView) Password() string         { return v.password }
func (v *fakeView) SetUsername(s string)     { v.username = s }
func (v *fakeView) SetPassword(s string)     { v.password = s }
func (v *fakeView) SetSubmitEnabled(b bool)  { v.submitEnabled = b }
func (v *fakeView) SetInputsEnabled(b bool)  { v.inputsEnabled = b }
func (v *fakeView) ShowLoading(text string)  { v.loading = text }
func (v *fakeView) HideLoading()             { v.loading = "" }
func (v *fakeView) ShowBanner(msg string)    { v.banner = msg }
func (v *fakeView) HideBanner()              { v.banner = "" }
func (v *fakeView) SetAltLogin(label string) { v.altLabel = label }

func (v *fakeView) SetFieldError(f Field, msg string) {
	if msg == "" {
		delete(v.fieldErrors, f)
		return
	}
	v.fieldErrors[f] = msg
}

func (v *fakeView) ShowPasscodeDialog() {
	v.passcodeShown++
	v.passcodeActive = true
}
func (v *fakeView) PasscodeDialogActive() bool     { return v.passcodeActive }
func (v *fakeView) PasscodeDialogDismissing() bool { return v.passcodeDismissing }
func (v *fakeView) ShowPasscodeError(msg string)   { v.passcodeError = msg }
func (v *fakeView) DismissPasscodeDialog() {
	v.passcodeDismissed++
	v.passcodeActive = false
}

type fakeNav struct {
	home      []*auth.DeepLink
	homeCalls int
	reset     []string
	urls      []string
	dials     []string
	emails    []string
}

func (n *fakeNav) ShowHome(link *auth.DeepLink) {
	n.homeCalls++
	n.home = append(n.home, link)
}
func (n *fakeNav) ShowPasswordReset(url string) { n.reset = append(n.reset, url) }
func (n *fakeNav) OpenURL(url string)           { n.urls = append(n.urls, url) }
func (n *fakeNav) Dial(phone string)            { n.dials = append(n.dials, phone) }
func (n *fakeNav) Email(addr string)            { n.emails = append(n.emails, addr) }

type fakeProvider struct {
	view *fakeView

	loginCalls     int
	passcodeCalls  int
	biometricCalls int
	logoutCalls    int
	submitDuring   []bool

	result auth.Result
	err    error

	biometricEnabled bool
	passcodeEnabled  bool
	biometry         auth.BiometryType
}

func (p *fakeProvider) Login(_ context.Context, _, _ string) (auth.Result, error) {
	p.loginCalls++
	if p.view != nil {
		p.submitDuring = append(p.submitDuring, p.view.submitEnabled)
	}
	return p.result, p.err
}

func (p *fakeProvider) LoginWithPasscode(context.Context, string) (auth.Result, error) {
	p.passcodeCalls++
	return p.result, p.err
}

func (p *fakeProvider) LoginWithBiometrics(context.Context) (auth.Result, error) {
	p.biometricCalls++
	return p.result, p.err
}

func (p *fakeProvider) Logout(context.Context) error {
	p.logoutCalls++
	return nil
}

func (p *fakeProvider) IsBiometricEnabled() bool    { return p.biometricEnabled }
func (p *fakeProvider) IsPasscodeEnabled() bool     { return p.passcodeEnabled }
func (p *fakeProvider) Status() auth.Status         { return auth.NotAuthenticated }
func (p *fakeProvider) Biometry() auth.BiometryType { return p.biometry }

type fakeNotifier struct{ calls int }

func (n *fakeNotifier) RequestPermission(context.Context) (bool, error) {
	n.calls++
	return true, nil
}

type harness struct {
	flow     *Flow
	view     *fakeView
	nav      *fakeNav
	provider *fakeProvider
	prefs    *prefs.Service
	rec      *analytics.Memory
	sched    *sched.Sync
	notifier *fakeNotifier
}

func newHarness(opts ...func(*Deps)) *harness {
	view := newFakeView()
	h := &harness{
		view:     view,
		nav:      &fakeNav{},
		provider: &fakeProvider{view: view},
		prefs:    prefs.New(prefs.NewMemoryBackend(), nil, nil),
		rec:      &analytics.Memory{},
		sched:    &sched.Sync{},
		notifier: &fakeNotifier{},
	}
	d := Deps{
		View:      h.view,
		Navigator: h.nav,
		Provider:  h.provider,
		Prefs:     h.prefs,
		Recorder:  h.rec,
		Reach:     netx.Always(true),
		Notifier:  h.notifier,
		Scheduler: h.sched,
		Help: config.Help{
			Phone:              "555-987-4444",
			Email:              "mychart@example.org",
			FAQURL:             "https://help.example.org/faq",
			SignUpURL:          "https://help.example.org/signup",
			RecoverUsernameURL: "https://help.example.org/username",
			RecoverPasswordURL: "https://help.example.org/password",
			ResetPasswordURL:   "https://help.example.org/reset",
		},
	}
	for _, o := range opts {
		o(&d)
	}
	h.flow = New(d)
	return h
}

func (h *harness) eventNames(t analytics.Type) []string {
	var out []string
	for _, e := range h.rec.OfType(t) {
		out = append(out, e.Properties[analytics.PropName])
	}
	return out
}
