package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/matheus3301/portal/internal/prefs"
	"github.com/matheus3301/portal/internal/stub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBiometrics struct {
	typ      BiometryType
	err      error
	prompted int
}

func (f *fakeBiometrics) Type() BiometryType { return f.typ }
func (f *fakeBiometrics) CanEvaluate() bool  { return f.typ != BiometryNone }
func (f *fakeBiometrics) Authenticate(context.Context, string) error {
	f.prompted++
	return f.err
}

func newClient(t *testing.T, bio Biometrics) (*Client, *prefs.Service) {
	t.Helper()
	srv := httptest.NewServer(stub.New(stub.Options{}, nil).Handler())
	t.Cleanup(srv.Close)
	p := prefs.New(prefs.NewMemoryBackend(), nil, nil)
	return NewClient(srv.URL+"/auth", nil, p, bio, nil), p
}

func TestLoginSuccessStoresTokens(t *testing.T) {
	c, p := newClient(t, nil)

	res, err := c.Login(context.Background(), stub.UserOK, stub.Password)
	require.NoError(t, err)
	assert.Nil(t, res.DeepLink)
	assert.NotEmpty(t, p.String(prefs.SessionToken))
	assert.NotEmpty(t, p.String(prefs.RefreshToken))
	assert.Equal(t, Authenticated, c.Status())
}

func TestLoginDeepLink(t *testing.T) {
	c, _ := newClient(t, nil)

	res, err := c.Login(context.Background(), stub.UserDeep, stub.Password)
	require.NoError(t, err)
	require.NotNil(t, res.DeepLink)
	assert.Equal(t, "messages", res.DeepLink.Target)
	assert.Equal(t, "42", res.DeepLink.Params["id"])
}

func TestLoginErrorKinds(t *testing.T) {
	c, _ := newClient(t, nil)

	tests := []struct {
		user, pass string
		want       ErrorKind
	}{
		{stub.UserOK, "nope", GenericError},
		{stub.UserLocked, stub.Password, MaxPasswordExceededCanReset},
		{stub.UserTerms, stub.Password, TermsAndConditionsFailed},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			_, err := c.Login(context.Background(), tt.user, tt.pass)
			var ae *Error
			require.True(t, errors.As(err, &ae), "want *Error, got %T", err)
			assert.Equal(t, tt.want, ae.Kind)
			assert.Equal(t, tt.want.String(), ae.Code)
			assert.NotEmpty(t, ae.Error())
		})
	}
}

func TestLoginUnreachable(t *testing.T) {
	p := prefs.New(prefs.NewMemoryBackend(), nil, nil)
	c := NewClient("http://127.0.0.1:1", nil, p, nil, nil)

	_, err := c.Login(context.Background(), "a", "b")
	assert.Equal(t, Other, KindOf(err))
}

func TestPasscodeLogin(t *testing.T) {
	c, p := newClient(t, nil)
	ctx := context.Background()

	_, err := c.LoginWithPasscode(ctx, "1234")
	assert.Equal(t, PasscodeNotSet, KindOf(err))

	require.NoError(t, c.SetPasscode("1234"))
	assert.True(t, c.IsPasscodeEnabled())

	// No refresh token yet: a password login must come first.
	_, err = c.LoginWithPasscode(ctx, "1234")
	assert.Equal(t, Other, KindOf(err))

	_, err = c.Login(ctx, stub.UserOK, stub.Password)
	require.NoError(t, err)
	require.NoError(t, c.Logout(ctx))
	assert.Equal(t, NotAuthenticated, c.Status())
	assert.NotEmpty(t, p.String(prefs.RefreshToken), "refresh token kept for passcode login")

	_, err = c.LoginWithPasscode(ctx, "9999")
	assert.Equal(t, Other, KindOf(err))

	_, err = c.LoginWithPasscode(ctx, "1234")
	require.NoError(t, err)
	assert.Equal(t, Authenticated, c.Status())

	require.NoError(t, c.ClearPasscode())
	assert.False(t, c.IsPasscodeEnabled())
}

func TestLogoutDropsRefreshWithoutAltLogin(t *testing.T) {
	c, p := newClient(t, nil)
	ctx := context.Background()

	_, err := c.Login(ctx, stub.UserOK, stub.Password)
	require.NoError(t, err)
	require.NoError(t, c.Logout(ctx))
	assert.Empty(t, p.String(prefs.SessionToken))
	assert.Empty(t, p.String(prefs.RefreshToken))
}

func TestBiometricLogin(t *testing.T) {
	bio := &fakeBiometrics{typ: BiometryFaceID}
	c, _ := newClient(t, bio)
	ctx := context.Background()

	assert.Equal(t, BiometryFaceID, c.Biometry())
	_, err := c.LoginWithBiometrics(ctx)
	assert.Equal(t, Other, KindOf(err), "not enabled yet")
	assert.Zero(t, bio.prompted)

	require.NoError(t, c.SetBiometricEnabled(true))
	_, err = c.Login(ctx, stub.UserOK, stub.Password)
	require.NoError(t, err)

	bio.err = ErrBiometricCanceled
	_, err = c.LoginWithBiometrics(ctx)
	assert.Equal(t, UserCanceled, KindOf(err))

	bio.err = nil
	_, err = c.LoginWithBiometrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, bio.prompted)
}

func TestNoBiometrics(t *testing.T) {
	c, _ := newClient(t, nil)
	assert.Equal(t, BiometryNone, c.Biometry())
}

func TestTokenStatus(t *testing.T) {
	now := time.Now()
	sign := func(exp time.Time) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})
		s, err := tok.SignedString([]byte("k"))
		require.NoError(t, err)
		return s
	}

	assert.Equal(t, NotAuthenticated, TokenStatus("", now))
	assert.Equal(t, NotAuthenticated, TokenStatus("garbage", now))
	assert.Equal(t, Authenticated, TokenStatus(sign(now.Add(time.Hour)), now))
	assert.Equal(t, NotAuthenticated, TokenStatus(sign(now.Add(-time.Minute)), now))
	assert.WithinDuration(t, now.Add(time.Hour), TokenExpiry(sign(now.Add(time.Hour))), time.Second)
}

func TestPasscodeHashing(t *testing.T) {
	_, err := HashPasscode("12a4")
	assert.ErrorIs(t, err, ErrInvalidPasscode)
	_, err = HashPasscode("123")
	assert.ErrorIs(t, err, ErrInvalidPasscode)

	h, err := HashPasscode("24680")
	require.NoError(t, err)
	assert.True(t, CheckPasscode(h, "24680"))
	assert.False(t, CheckPasscode(h, "24681"))
}

func TestKindFromCode(t *testing.T) {
	assert.Equal(t, UserCanceled, KindFromCode("user_canceled"))
	assert.Equal(t, Other, KindFromCode("brand_new_code"))
	assert.Equal(t, Other, KindOf(errors.New("plain")))
}
