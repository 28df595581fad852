// Package login is the headless presenter of the login screen: credential
// validation, authentication dispatch, error routing, alternate login and the
// shared-device lockout.
package login

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/matheus3301/portal/internal/analytics"
	"github.com/matheus3301/portal/internal/auth"
	"github.com/matheus3301/portal/internal/bus"
	"github.com/matheus3301/portal/internal/config"
	"github.com/matheus3301/portal/internal/netx"
	"github.com/matheus3301/portal/internal/prefs"
	"github.com/matheus3301/portal/internal/sched"
	"go.uber.org/zap"
)

// OfflineDelay is how long a login waits when the network is down, so the
// attempt does not flash and fail while connectivity recovers.
const OfflineDelay = 2 * time.Second

// Deps are the collaborators of a Flow. Bus, Notifier and Logger may be nil.
type Deps struct {
	View      View
	Navigator Navigator
	Provider  auth.Provider
	Prefs     *prefs.Service
	Recorder  analytics.Recorder
	Reach     netx.Reachability
	Notifier  Notifier
	Scheduler sched.Scheduler
	Bus       *bus.Bus
	Logger    *zap.Logger
	Help      config.Help
	Banner    config.Banner
}

// Flow presents the login screen. Its exported methods are UI events and
// must be called on the UI goroutine; background work is routed through the
// Scheduler and comes back via Scheduler.UI.
type Flow struct {
	d       Deps
	machine *Machine
	log     *zap.Logger
	cancel  context.CancelFunc

	passcodeOpen  bool
	homeHandoff   bool
	pendingSignUp bool
}

// New creates a login flow.
func New(d Deps) *Flow {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Reach == nil {
		d.Reach = netx.Always(true)
	}
	return &Flow{
		d:       d,
		machine: NewMachine(d.Bus),
		log:     d.Logger.Named("login"),
	}
}

// State returns the submit state.
func (f *Flow) State() State { return f.machine.Current() }

// Start re-applies the shared-device lockout whenever that preference
// changes. It is a no-op without a bus.
func (f *Flow) Start(ctx context.Context) {
	if f.d.Bus == nil {
		return
	}
	ctx, f.cancel = context.WithCancel(ctx)
	ch, unsub := f.d.Bus.Subscribe(bus.KindPrefsChanged, 16)
	go func() {
		defer unsub()
		for {
			select {
			case evt := <-ch:
				if c, ok := evt.Payload.(prefs.Change); ok && c.Key == prefs.SharedDevice {
					f.d.Scheduler.UI(f.ApplySharedDevice)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the preference subscription.
func (f *Flow) Stop() {
	if f.cancel != nil {
		f.cancel()
	}
}

// Loaded runs once when the screen is built.
func (f *Flow) Loaded() {
	if err := f.d.Prefs.SetBool(prefs.LoggedIn, false); err != nil {
		f.log.Warn("reset loggedIn", zap.Error(err))
	}
	f.record(analytics.Screen, analytics.Props{analytics.PropName: screenName}, false)
}

// Appear runs every time the screen becomes visible.
func (f *Flow) Appear() {
	f.clearErrorState()

	label := f.updateAltLogin()
	if label != "" && !f.d.Prefs.Bool(prefs.LoggedIn) {
		if label != PasscodeLabel {
			f.AltLogin()
		} else if !f.d.View.PasscodeDialogDismissing() &&
			!f.homeHandoff &&
			f.d.Prefs.Bool(prefs.HasSignedIntoMychart) {
			f.AltLogin()
		}
	}

	f.d.View.SetUsername(f.d.Prefs.String(prefs.Username))
	f.d.View.SetPassword("")

	if f.pendingSignUp {
		f.pendingSignUp = false
		f.openURL(f.d.Help.SignUpURL)
	}
	f.homeHandoff = false

	f.record(analytics.Screen, analytics.Props{analytics.PropName: screenName}, false)
	f.ApplySharedDevice()
}

// QueueSignUp makes the next Appear open the sign-up page.
func (f *Flow) QueueSignUp() { f.pendingSignUp = true }

// AltLoginLabel returns the label for the alternate login button, or "" when
// no alternate method is available. Biometrics win over passcode.
func (f *Flow) AltLoginLabel() string {
	p := f.d.Provider
	if p.IsBiometricEnabled() {
		switch p.Biometry() {
		case auth.BiometryTouchID:
			return TouchIDLabel
		case auth.BiometryFaceID:
			return FaceIDLabel
		}
		return ""
	}
	if p.IsPasscodeEnabled() {
		return PasscodeLabel
	}
	return ""
}

func (f *Flow) updateAltLogin() string {
	label := f.AltLoginLabel()
	f.d.View.SetAltLogin(label)
	return label
}

// inputsLocked reports whether the form must ignore input: the device is
// shared or an attempt is already running.
func (f *Flow) inputsLocked() bool {
	return f.d.Prefs.Bool(prefs.SharedDevice) || f.machine.Current() == Authenticating
}

// Submit validates the fields and, if they pass, starts a password login.
// It reports whether an attempt was dispatched.
func (f *Flow) Submit() bool {
	if f.inputsLocked() {
		f.log.Debug("submit ignored", zap.String("state", string(f.machine.Current())))
		return false
	}
	f.d.View.HideBanner()
	f.clearErrorState()

	username, password := f.d.View.Username(), f.d.View.Password()
	v := Validate(username, password)
	if !v.OK() {
		for field, msg := range v.Errors {
			f.d.View.SetFieldError(field, msg)
		}
		return false
	}

	if err := f.machine.Transition(Authenticating); err != nil {
		f.log.Debug("submit ignored", zap.Error(err))
		return false
	}

	if err := f.d.Prefs.SetString(prefs.Username, username); err != nil {
		f.log.Warn("persist username", zap.Error(err))
	}
	f.d.View.SetSubmitEnabled(false)
	f.d.View.ShowLoading(SigningIn)
	f.record(analytics.SignIn, analytics.Props{analytics.PropName: "Username/Password Sign In", analytics.PropCurrentScreen: screenName}, true)

	f.d.Scheduler.Go(func() {
		ctx := context.Background()
		var delay time.Duration
		if !f.d.Reach.Online(ctx) {
			f.log.Info("offline, delaying login", zap.Duration("delay", OfflineDelay))
			delay = OfflineDelay
		}
		f.d.Scheduler.After(delay, func() {
			res, err := f.d.Provider.Login(ctx, username, password)
			f.deliver(res, err)
		})
	})
	return true
}

// AltLogin runs the alternate login method: biometrics immediately, or the
// passcode dialog.
func (f *Flow) AltLogin() {
	if f.inputsLocked() {
		f.log.Debug("alternate login ignored", zap.String("state", string(f.machine.Current())))
		return
	}
	p := f.d.Provider
	switch {
	case p.IsBiometricEnabled():
		switch f.AltLoginLabel() {
		case TouchIDLabel:
			f.record(analytics.SignIn, analytics.Props{analytics.PropName: "Touch ID Sign In", analytics.PropCurrentScreen: screenName}, true)
		case FaceIDLabel:
			f.record(analytics.SignIn, analytics.Props{analytics.PropName: "Face ID Sign In", analytics.PropCurrentScreen: screenName}, true)
		}
		if err := f.machine.Transition(Authenticating); err != nil {
			f.log.Debug("biometric login ignored", zap.Error(err))
			return
		}
		f.d.Scheduler.Go(func() {
			res, err := p.LoginWithBiometrics(context.Background())
			f.deliver(res, err)
		})
	case p.IsPasscodeEnabled():
		f.record(analytics.SignIn, analytics.Props{analytics.PropName: "Passcode Sign In", analytics.PropCurrentScreen: screenName}, false)
		f.passcodeOpen = true
		f.d.View.ShowPasscodeDialog()
	}
}

// SubmitPasscode logs in with the code typed into the passcode dialog.
func (f *Flow) SubmitPasscode(code string) bool {
	if f.d.Prefs.Bool(prefs.SharedDevice) {
		return false
	}
	if err := f.machine.Transition(Authenticating); err != nil {
		f.log.Debug("passcode submit ignored", zap.Error(err))
		return false
	}
	f.d.View.ShowLoading(SigningIn)
	f.d.Scheduler.Go(func() {
		res, err := f.d.Provider.LoginWithPasscode(context.Background(), code)
		f.deliver(res, err)
	})
	return true
}

// PasscodeCanceled handles the user closing the passcode dialog.
func (f *Flow) PasscodeCanceled() {
	f.passcodeOpen = false
	f.d.View.DismissPasscodeDialog()
	f.HandleFailure(&auth.Error{Kind: auth.UserCanceled})
}

func (f *Flow) deliver(res auth.Result, err error) {
	f.d.Scheduler.UI(func() {
		if err != nil {
			f.HandleFailure(err)
			return
		}
		f.HandleSuccess(res)
	})
}

// HandleSuccess finishes a successful login and hands off to home.
func (f *Flow) HandleSuccess(res auth.Result) {
	_ = f.machine.Transition(SignedIn)
	f.record(analytics.SignIn, analytics.Props{analytics.PropName: "Sign In Succeeded", analytics.PropCurrentScreen: screenName}, true)

	if f.d.Notifier != nil {
		f.d.Scheduler.Go(func() {
			if _, err := f.d.Notifier.RequestPermission(context.Background()); err != nil {
				f.log.Debug("notification permission", zap.Error(err))
			}
		})
	}

	if err := f.d.Prefs.SetBool(prefs.LoggedIn, true); err != nil {
		f.log.Warn("persist loggedIn", zap.Error(err))
	}
	if err := f.d.Prefs.SetBool(prefs.HasSignedIntoMychart, true); err != nil {
		f.log.Warn("persist hasSignedIntoMychart", zap.Error(err))
	}

	v := f.d.View
	v.SetUsername("")
	v.SetPassword("")
	v.SetSubmitEnabled(true)
	if f.passcodeOpen {
		f.passcodeOpen = false
		v.DismissPasscodeDialog()
	}
	f.homeHandoff = true
	f.d.Navigator.ShowHome(res.DeepLink)
	v.HideLoading()
}

// HandleFailure routes a failed login to the matching screen action.
func (f *Flow) HandleFailure(err error) {
	if f.machine.Current() == Authenticating {
		_ = f.machine.Transition(Idle)
	}
	v := f.d.View
	v.SetSubmitEnabled(true)
	f.updateAltLogin()
	v.HideLoading()

	kind := auth.KindOf(err)
	msg := err.Error()
	f.log.Info("login failed", zap.Stringer("kind", kind), zap.String("message", msg))

	switch ActionFor(kind) {
	case HighlightFields:
		v.SetFieldError(UsernameField, CheckEntry)
		v.SetFieldError(PasswordField, CheckEntry)
	case ResetPassword:
		f.d.Navigator.ShowPasswordReset(f.d.Help.ResetPasswordURL)
	case HideFieldErrors:
		v.SetFieldError(UsernameField, "")
		v.SetFieldError(PasswordField, "")
	case ShowInPasscode:
		if f.passcodeOpen {
			v.ShowPasscodeError(msg)
		}
	case ClearErrors:
		f.clearErrorState()
	case ShowMessage:
		if f.passcodeOpen && v.PasscodeDialogActive() {
			v.ShowPasscodeError(msg)
		} else {
			v.ShowBanner(msg)
		}
	}

	f.record(analytics.SignIn, analytics.Props{
		analytics.PropName:          "Sign In Failed",
		analytics.PropErrorMessage:  msg,
		analytics.PropErrorCode:     strconv.Itoa(int(kind)),
		analytics.PropCurrentScreen: screenName,
	}, false)
}

// ApplySharedDevice locks the form and explains why when the device is
// marked shared, and unlocks it otherwise.
func (f *Flow) ApplySharedDevice() {
	shared := f.d.Prefs.Bool(prefs.SharedDevice)
	f.d.View.SetInputsEnabled(!shared)
	if shared {
		f.d.View.ShowBanner(SharedDeviceExplanation)
	} else {
		f.d.View.HideBanner()
	}
}

// Logout ends the session in the background.
func (f *Flow) Logout() {
	if f.machine.Current() == SignedIn {
		_ = f.machine.Transition(Idle)
	}
	f.d.Scheduler.Go(func() {
		if err := f.d.Provider.Logout(context.Background()); err != nil {
			f.log.Warn("logout", zap.Error(err))
		}
	})
}

// SignUp opens the account sign-up page.
func (f *Flow) SignUp() {
	f.d.View.HideBanner()
	f.openURL(f.d.Help.SignUpURL)
	f.record(analytics.Click, analytics.Props{analytics.PropName: "Sign Up", analytics.PropCurrentScreen: screenName}, false)
}

// ForgotUsername opens username recovery.
func (f *Flow) ForgotUsername() {
	f.d.View.HideBanner()
	f.openURL(f.d.Help.RecoverUsernameURL)
	f.record(analytics.SignIn, analytics.Props{analytics.PropName: "Forgot Username", analytics.PropCurrentScreen: screenName}, false)
}

// ForgotPassword opens password recovery.
func (f *Flow) ForgotPassword() {
	f.d.View.HideBanner()
	f.openURL(f.d.Help.RecoverPasswordURL)
	f.record(analytics.SignIn, analytics.Props{analytics.PropName: "Forgot Password", analytics.PropCurrentScreen: screenName}, false)
}

// CallHelp dials the help line.
func (f *Flow) CallHelp() {
	if f.d.Help.Phone != "" {
		f.d.Navigator.Dial(f.d.Help.Phone)
	}
	f.record(analytics.Click, analytics.Props{analytics.PropName: "MyChart Help Call", analytics.PropCurrentScreen: screenName}, false)
}

// EmailHelp starts an email to the help desk.
func (f *Flow) EmailHelp() {
	if f.d.Help.Email != "" {
		f.d.Navigator.Email(f.d.Help.Email)
	}
	f.record(analytics.Click, analytics.Props{analytics.PropName: "MyChart Help Email", analytics.PropCurrentScreen: screenName}, false)
}

// FAQ opens the help FAQ.
func (f *Flow) FAQ() {
	f.openURL(f.d.Help.FAQURL)
	f.record(analytics.Click, analytics.Props{analytics.PropName: "MyChart FAQ", analytics.PropCurrentScreen: screenName}, false)
}

// BannerTapped opens the announcement link, if any.
func (f *Flow) BannerTapped() {
	f.openURL(f.d.Banner.URL)
}

// BannerText renders the announcement. A "%s" in the body is replaced by the
// end date in long form, e.g. "March 31, 2027".
func (f *Flow) BannerText() string {
	return FormatBanner(f.d.Banner)
}

// FormatBanner renders b as shown under the login form.
func FormatBanner(b config.Banner) string {
	if b.Body == "" {
		return ""
	}
	if !strings.Contains(b.Body, "%s") {
		return b.Body
	}
	end, err := time.Parse("2006-01-02", b.EndDate)
	if err != nil {
		return strings.ReplaceAll(b.Body, "%s", "")
	}
	return strings.Replace(b.Body, "%s", end.Format("January 2, 2006"), 1)
}

func (f *Flow) openURL(url string) {
	if url == "" {
		return
	}
	f.d.Navigator.OpenURL(url)
}

func (f *Flow) clearErrorState() {
	f.d.View.SetFieldError(UsernameField, "")
	f.d.View.SetFieldError(PasswordField, "")
}

func (f *Flow) record(t analytics.Type, props analytics.Props, flush bool) {
	if f.d.Recorder == nil {
		return
	}
	e := analytics.New(t, props)
	e.Flush = flush
	f.d.Recorder.Record(e)
}
