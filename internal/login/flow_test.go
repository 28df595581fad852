package login

import (
	"context"
	"testing"
	"time"

	"github.com/matheus3301/portal/internal/analytics"
	"github.com/matheus3301/portal/internal/auth"
	"github.com/matheus3301/portal/internal/bus"
	"github.com/matheus3301/portal/internal/config"
	"github.com/matheus3301/portal/internal/netx"
	"github.com/matheus3301/portal/internal/prefs"
	"github.com/matheus3301/portal/internal/sched"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		pass     string
		wantErrs map[Field]string
	}{
		{"both empty", "", "", map[Field]string{UsernameField: UsernameRequired, PasswordField: PasswordRequired}},
		{"username empty", "", "secret", map[Field]string{UsernameField: UsernameRequired}},
		{"password empty", "alice", "", map[Field]string{PasswordField: PasswordRequired}},
		{"both present", "alice", "secret", map[Field]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Validate(tt.user, tt.pass)
			assert.Equal(t, tt.wantErrs, v.Errors)
			assert.Equal(t, len(tt.wantErrs) == 0, v.OK())
		})
	}
}

func TestSubmitInvalidMakesNoCall(t *testing.T) {
	tests := []struct {
		name       string
		user, pass string
		flagged    []Field
	}{
		{"empty username", "", "pw", []Field{UsernameField}},
		{"empty password", "alice", "", []Field{PasswordField}},
		{"both empty", "", "", []Field{UsernameField, PasswordField}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.view.username, h.view.password = tt.user, tt.pass

			assert.False(t, h.flow.Submit())
			assert.Zero(t, h.provider.loginCalls)
			assert.Len(t, h.view.fieldErrors, len(tt.flagged))
			for _, f := range tt.flagged {
				assert.NotEmpty(t, h.view.fieldErrors[f], f.String())
			}
			assert.True(t, h.view.submitEnabled)
			assert.Equal(t, Idle, h.flow.State())
		})
	}
}

func TestSubmitClearsPriorErrors(t *testing.T) {
	h := newHarness()
	h.flow.Submit()
	require.Len(t, h.view.fieldErrors, 2)

	h.view.username, h.view.password = "alice", "secret"
	h.provider.err = &auth.Error{Kind: auth.UserCanceled}
	h.flow.Submit()
	assert.Empty(t, h.view.fieldErrors)
}

func TestSubmitSuccess(t *testing.T) {
	h := newHarness()
	link := &auth.DeepLink{Target: "messages"}
	h.provider.result = auth.Result{DeepLink: link}
	h.view.username, h.view.password = "alice", "secret"

	require.True(t, h.flow.Submit())

	assert.Equal(t, 1, h.provider.loginCalls)
	assert.Equal(t, []bool{false}, h.provider.submitDuring, "submit disabled during the call")
	assert.True(t, h.view.submitEnabled)
	assert.Empty(t, h.view.username)
	assert.Empty(t, h.view.password)
	assert.Empty(t, h.view.loading)
	assert.Equal(t, "alice", h.prefs.String(prefs.Username))
	assert.True(t, h.prefs.Bool(prefs.LoggedIn))
	assert.True(t, h.prefs.Bool(prefs.HasSignedIntoMychart))
	assert.Equal(t, []*auth.DeepLink{link}, h.nav.home)
	assert.Equal(t, 1, h.notifier.calls)
	assert.Equal(t, SignedIn, h.flow.State())
	assert.Equal(t, []string{"Username/Password Sign In", "Sign In Succeeded"}, h.eventNames(analytics.SignIn))
	for _, e := range h.rec.OfType(analytics.SignIn) {
		assert.True(t, e.Flush, e.Properties[analytics.PropName])
	}
	assert.Equal(t, []time.Duration{0}, h.sched.Delays)
}

func TestSubmitExactlyOneCallPerPress(t *testing.T) {
	m := &sched.Manual{}
	h := newHarness(func(d *Deps) { d.Scheduler = m })
	h.view.username, h.view.password = "alice", "secret"

	require.True(t, h.flow.Submit())
	assert.False(t, h.view.submitEnabled)
	assert.Equal(t, SigningIn, h.view.loading)
	assert.Equal(t, Authenticating, h.flow.State())

	// A second press while the first is in flight is rejected and leaves
	// the view alone.
	h.view.banner = "Still working"
	h.view.fieldErrors[UsernameField] = CheckEntry
	assert.False(t, h.flow.Submit())
	h.flow.AltLogin()
	assert.Equal(t, "Still working", h.view.banner)
	assert.Equal(t, CheckEntry, h.view.fieldErrors[UsernameField])
	assert.Equal(t, SigningIn, h.view.loading)
	assert.Zero(t, h.view.passcodeShown)

	m.Run()
	assert.Equal(t, 1, h.provider.loginCalls)
	assert.True(t, h.view.submitEnabled)
}

func TestSubmitOfflineDelays(t *testing.T) {
	h := newHarness(func(d *Deps) { d.Reach = netx.Always(false) })
	h.view.username, h.view.password = "alice", "secret"

	h.flow.Submit()
	assert.Equal(t, []time.Duration{OfflineDelay}, h.sched.Delays)
	assert.Equal(t, 1, h.provider.loginCalls)
}

func TestHandleFailureActions(t *testing.T) {
	t.Run("generic error highlights both fields", func(t *testing.T) {
		h := newHarness()
		h.flow.HandleFailure(&auth.Error{Kind: auth.GenericError})
		assert.Equal(t, map[Field]string{UsernameField: CheckEntry, PasswordField: CheckEntry}, h.view.fieldErrors)
	})

	t.Run("max password opens reset", func(t *testing.T) {
		h := newHarness()
		h.flow.HandleFailure(&auth.Error{Kind: auth.MaxPasswordExceededCanReset})
		assert.Equal(t, []string{"https://help.example.org/reset"}, h.nav.reset)
	})

	t.Run("user canceled shows no field text", func(t *testing.T) {
		h := newHarness()
		h.view.fieldErrors[UsernameField] = CheckEntry
		h.view.fieldErrors[PasswordField] = PasswordRequired
		h.flow.HandleFailure(&auth.Error{Kind: auth.UserCanceled})
		assert.Empty(t, h.view.fieldErrors)
		assert.Empty(t, h.view.banner)
	})

	t.Run("passcode not set goes to open dialog only", func(t *testing.T) {
		h := newHarness()
		h.flow.HandleFailure(&auth.Error{Kind: auth.PasscodeNotSet})
		assert.Empty(t, h.view.passcodeError)
		assert.Empty(t, h.view.banner)

		h.provider.passcodeEnabled = true
		h.flow.AltLogin()
		h.flow.HandleFailure(&auth.Error{Kind: auth.PasscodeNotSet})
		assert.NotEmpty(t, h.view.passcodeError)
	})

	t.Run("terms failure clears errors", func(t *testing.T) {
		h := newHarness()
		h.view.fieldErrors[UsernameField] = CheckEntry
		h.flow.HandleFailure(&auth.Error{Kind: auth.TermsAndConditionsFailed})
		assert.Empty(t, h.view.fieldErrors)
	})

	t.Run("other goes to banner", func(t *testing.T) {
		h := newHarness()
		h.flow.HandleFailure(&auth.Error{Kind: auth.Other, Message: "Server on fire."})
		assert.Equal(t, "Server on fire.", h.view.banner)
	})

	t.Run("other goes to active passcode dialog", func(t *testing.T) {
		h := newHarness()
		h.provider.passcodeEnabled = true
		h.flow.AltLogin()
		h.flow.HandleFailure(&auth.Error{Kind: auth.Other, Message: "Incorrect passcode."})
		assert.Equal(t, "Incorrect passcode.", h.view.passcodeError)
		assert.Empty(t, h.view.banner)
	})
}

func TestHandleFailureRecordsEvent(t *testing.T) {
	h := newHarness()
	h.view.username, h.view.password = "alice", "wrong"
	h.provider.err = &auth.Error{Kind: auth.GenericError, Message: "The username or password is incorrect."}

	h.flow.Submit()

	failed := h.rec.OfType(analytics.SignIn)
	require.Len(t, failed, 2)
	last := failed[1]
	assert.Equal(t, "Sign In Failed", last.Properties[analytics.PropName])
	assert.Equal(t, "The username or password is incorrect.", last.Properties[analytics.PropErrorMessage])
	assert.Equal(t, "1", last.Properties[analytics.PropErrorCode])
	assert.Equal(t, Idle, h.flow.State())
	assert.Zero(t, h.nav.homeCalls)
}

func TestActionFor(t *testing.T) {
	assert.Equal(t, HighlightFields, ActionFor(auth.GenericError))
	assert.Equal(t, ResetPassword, ActionFor(auth.MaxPasswordExceededCanReset))
	assert.Equal(t, HideFieldErrors, ActionFor(auth.UserCanceled))
	assert.Equal(t, ShowInPasscode, ActionFor(auth.PasscodeNotSet))
	assert.Equal(t, ClearErrors, ActionFor(auth.TermsAndConditionsFailed))
	assert.Equal(t, ShowMessage, ActionFor(auth.Other))
}

func TestAltLoginLabel(t *testing.T) {
	tests := []struct {
		name      string
		bio, pass bool
		biometry  auth.BiometryType
		want      string
	}{
		{"face id", true, true, auth.BiometryFaceID, FaceIDLabel},
		{"touch id", true, false, auth.BiometryTouchID, TouchIDLabel},
		{"biometric enabled but unavailable", true, true, auth.BiometryNone, ""},
		{"passcode", false, true, auth.BiometryFaceID, PasscodeLabel},
		{"none", false, false, auth.BiometryNone, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.provider.biometricEnabled = tt.bio
			h.provider.passcodeEnabled = tt.pass
			h.provider.biometry = tt.biometry
			assert.Equal(t, tt.want, h.flow.AltLoginLabel())
		})
	}
}

func TestAppearTriggersBiometrics(t *testing.T) {
	h := newHarness()
	h.provider.biometricEnabled = true
	h.provider.biometry = auth.BiometryFaceID

	h.flow.Appear()

	assert.Equal(t, FaceIDLabel, h.view.altLabel)
	assert.Equal(t, 1, h.provider.biometricCalls)
	assert.Equal(t, []string{"Face ID Sign In", "Sign In Succeeded"}, h.eventNames(analytics.SignIn))
}

func TestAppearSkipsAltLoginWhenLoggedIn(t *testing.T) {
	h := newHarness()
	h.provider.biometricEnabled = true
	h.provider.biometry = auth.BiometryTouchID
	require.NoError(t, h.prefs.SetBool(prefs.LoggedIn, true))

	h.flow.Appear()
	assert.Zero(t, h.provider.biometricCalls)
	assert.Equal(t, TouchIDLabel, h.view.altLabel)
}

func TestAppearPasscodeConditions(t *testing.T) {
	t.Run("never signed in", func(t *testing.T) {
		h := newHarness()
		h.provider.passcodeEnabled = true
		h.flow.Appear()
		assert.Zero(t, h.view.passcodeShown)
	})

	t.Run("signed in before", func(t *testing.T) {
		h := newHarness()
		h.provider.passcodeEnabled = true
		require.NoError(t, h.prefs.SetBool(prefs.HasSignedIntoMychart, true))
		h.flow.Appear()
		assert.Equal(t, 1, h.view.passcodeShown)
		assert.Equal(t, []string{"Passcode Sign In"}, h.eventNames(analytics.SignIn))
	})

	t.Run("dialog dismissing", func(t *testing.T) {
		h := newHarness()
		h.provider.passcodeEnabled = true
		h.view.passcodeDismissing = true
		require.NoError(t, h.prefs.SetBool(prefs.HasSignedIntoMychart, true))
		h.flow.Appear()
		assert.Zero(t, h.view.passcodeShown)
	})

	t.Run("home handoff in progress", func(t *testing.T) {
		h := newHarness()
		require.NoError(t, h.prefs.SetBool(prefs.HasSignedIntoMychart, true))
		h.flow.HandleSuccess(auth.Result{})
		require.NoError(t, h.prefs.SetBool(prefs.LoggedIn, false))

		h.provider.passcodeEnabled = true
		h.flow.Appear()
		assert.Zero(t, h.view.passcodeShown)

		// The handoff flag is consumed by the first Appear.
		h.flow.Appear()
		assert.Equal(t, 1, h.view.passcodeShown)
	})
}

func TestAppearPrefillsAndRecords(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.prefs.SetString(prefs.Username, "alice"))
	h.view.password = "leftover"

	h.flow.QueueSignUp()
	h.flow.Appear()

	assert.Equal(t, "alice", h.view.username)
	assert.Empty(t, h.view.password)
	assert.Empty(t, h.view.altLabel)
	assert.Equal(t, []string{"https://help.example.org/signup"}, h.nav.urls)
	assert.Equal(t, []string{screenName}, h.eventNames(analytics.Screen))

	h.flow.Appear()
	assert.Len(t, h.nav.urls, 1, "pending sign-up is consumed")
}

func TestPasscodeSubmitAndCancel(t *testing.T) {
	h := newHarness()
	h.provider.passcodeEnabled = true
	h.flow.AltLogin()
	require.True(t, h.view.passcodeActive)

	require.True(t, h.flow.SubmitPasscode("1234"))
	assert.Equal(t, 1, h.provider.passcodeCalls)
	assert.Equal(t, 1, h.view.passcodeDismissed, "success closes the dialog")
	assert.Equal(t, 1, h.nav.homeCalls)

	h2 := newHarness()
	h2.provider.passcodeEnabled = true
	h2.flow.AltLogin()
	h2.flow.PasscodeCanceled()
	assert.Equal(t, 1, h2.view.passcodeDismissed)
	assert.Empty(t, h2.view.fieldErrors)
	assert.Empty(t, h2.view.banner)
}

func TestLoadedResetsLoggedIn(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.prefs.SetBool(prefs.LoggedIn, true))
	h.flow.Loaded()
	assert.False(t, h.prefs.Bool(prefs.LoggedIn))
	assert.Equal(t, []string{screenName}, h.eventNames(analytics.Screen))
}

func TestSharedDevice(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.prefs.SetBool(prefs.SharedDevice, true))
	h.flow.ApplySharedDevice()
	assert.False(t, h.view.inputsEnabled)
	assert.Equal(t, SharedDeviceExplanation, h.view.banner)

	require.NoError(t, h.prefs.SetBool(prefs.SharedDevice, false))
	h.flow.ApplySharedDevice()
	assert.True(t, h.view.inputsEnabled)
	assert.Empty(t, h.view.banner)
}

func TestSharedDeviceBlocksLogins(t *testing.T) {
	h := newHarness()
	h.provider.biometricEnabled = true
	h.provider.passcodeEnabled = true
	h.view.username, h.view.password = "alice", "secret"
	require.NoError(t, h.prefs.SetBool(prefs.SharedDevice, true))
	h.flow.ApplySharedDevice()

	assert.False(t, h.flow.Submit())
	h.flow.AltLogin()
	assert.False(t, h.flow.SubmitPasscode("1234"))

	assert.Zero(t, h.provider.loginCalls)
	assert.Zero(t, h.provider.biometricCalls)
	assert.Zero(t, h.view.passcodeShown)
	assert.Equal(t, SharedDeviceExplanation, h.view.banner)
	assert.Empty(t, h.rec.OfType(analytics.SignIn))
	assert.Equal(t, Idle, h.flow.State())
}

func TestSharedDeviceFollowsPrefChanges(t *testing.T) {
	b := bus.New()
	applied := make(chan struct{}, 4)
	queue := sched.NewAsync(func(fn func()) {
		fn()
		applied <- struct{}{}
	})
	p := prefs.New(prefs.NewMemoryBackend(), b, nil)
	view := newFakeView()
	f := New(Deps{View: view, Navigator: &fakeNav{}, Provider: &fakeProvider{}, Prefs: p, Scheduler: queue, Bus: b})
	f.Start(context.Background())
	defer f.Stop()

	require.NoError(t, p.SetString(prefs.Username, "ignored"))
	require.NoError(t, p.SetBool(prefs.SharedDevice, true))

	select {
	case <-applied:
	case <-time.After(2 * time.Second):
		t.Fatal("shared-device change was not applied")
	}
	assert.False(t, view.inputsEnabled)
	assert.Len(t, applied, 0, "unrelated keys do not re-apply")
}

func TestHelpActions(t *testing.T) {
	h := newHarness()
	h.flow.SignUp()
	h.flow.ForgotUsername()
	h.flow.ForgotPassword()
	h.flow.CallHelp()
	h.flow.EmailHelp()
	h.flow.FAQ()

	assert.Equal(t, []string{
		"https://help.example.org/signup",
		"https://help.example.org/username",
		"https://help.example.org/password",
		"https://help.example.org/faq",
	}, h.nav.urls)
	assert.Equal(t, []string{"555-987-4444"}, h.nav.dials)
	assert.Equal(t, []string{"mychart@example.org"}, h.nav.emails)
	assert.Equal(t, []string{"Sign Up", "MyChart Help Call", "MyChart Help Email", "MyChart FAQ"}, h.eventNames(analytics.Click))
	assert.Equal(t, []string{"Forgot Username", "Forgot Password"}, h.eventNames(analytics.SignIn))
}

func TestLogoutRunsInBackground(t *testing.T) {
	h := newHarness()
	h.flow.HandleSuccess(auth.Result{})
	h.flow.Logout()
	assert.Equal(t, 1, h.provider.logoutCalls)
	assert.Equal(t, Idle, h.flow.State())
}

func TestFormatBanner(t *testing.T) {
	tests := []struct {
		banner config.Banner
		want   string
	}{
		{config.Banner{}, ""},
		{config.Banner{Body: "Video visits are moving."}, "Video visits are moving."},
		{config.Banner{Body: "Zoom visits end %s. Get the app", EndDate: "2027-03-31"}, "Zoom visits end March 31, 2027. Get the app"},
		{config.Banner{Body: "Ends %s.", EndDate: "soon"}, "Ends ."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBanner(tt.banner))
	}
}

func TestMachineTransitions(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("login.", 4)
	defer unsub()

	m := NewMachine(b)
	require.NoError(t, m.Transition(Authenticating))
	assert.Error(t, m.Transition(Authenticating))
	require.NoError(t, m.Transition(SignedIn))
	assert.Error(t, m.Transition(Authenticating))
	require.NoError(t, m.Transition(Idle))

	select {
	case evt := <-ch:
		assert.Equal(t, bus.KindLoginState, evt.Kind)
		assert.Equal(t, StateChange{From: Idle, To: Authenticating}, evt.Payload)
	case <-time.After(time.Second):
		t.Fatal("no state event")
	}
}
