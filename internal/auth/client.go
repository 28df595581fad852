package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/matheus3301/portal/internal/httpx"
	"github.com/matheus3301/portal/internal/prefs"
	"go.uber.org/zap"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse is returned by /login and /refresh.
type TokenResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	DeepLink     *DeepLink `json:"deep_link,omitempty"`
}

// ErrorResponse is the 4xx body of the auth backend.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client is the HTTP implementation of Provider. Tokens and the passcode
// hash live in the preference service.
type Client struct {
	http   *httpx.Client
	prefs  *prefs.Service
	bio    Biometrics
	logger *zap.Logger
	now    func() time.Time
}

// NewClient creates an auth client for the backend at baseURL. bio may be
// nil for a device without biometrics.
func NewClient(baseURL string, hc *http.Client, p *prefs.Service, bio Biometrics, logger *zap.Logger) *Client {
	if bio == nil {
		bio = NoBiometrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:   httpx.NewClient(baseURL, hc),
		prefs:  p,
		bio:    bio,
		logger: logger,
		now:    time.Now,
	}
}

// Login exchanges a username and password for a session.
func (c *Client) Login(ctx context.Context, username, password string) (Result, error) {
	resp, err := httpx.PostJSON[TokenResponse](ctx, c.http, "/login", loginRequest{Username: username, Password: password}, "")
	if err != nil {
		return Result{}, c.wireError(err)
	}
	return c.accept(resp)
}

// LoginWithPasscode checks the local passcode and renews the session with
// the stored refresh token.
func (c *Client) LoginWithPasscode(ctx context.Context, passcode string) (Result, error) {
	hash := c.prefs.String(prefs.PasscodeHash)
	if hash == "" {
		return Result{}, &Error{Kind: PasscodeNotSet}
	}
	if !CheckPasscode(hash, passcode) {
		return Result{}, &Error{Kind: Other, Message: "Incorrect passcode."}
	}
	return c.refresh(ctx)
}

// LoginWithBiometrics prompts for biometrics and renews the session.
func (c *Client) LoginWithBiometrics(ctx context.Context) (Result, error) {
	if !c.IsBiometricEnabled() || !c.bio.CanEvaluate() {
		return Result{}, &Error{Kind: Other, Message: "Biometric sign in is not available on this device."}
	}
	if err := c.bio.Authenticate(ctx, "Sign in to MyChart"); err != nil {
		if errors.Is(err, ErrBiometricCanceled) {
			return Result{}, &Error{Kind: UserCanceled, Err: err}
		}
		var ae *Error
		if errors.As(err, &ae) {
			return Result{}, ae
		}
		return Result{}, &Error{Kind: Other, Err: err}
	}
	return c.refresh(ctx)
}

// Logout ends the session on the backend (best effort) and drops the local
// session token. The refresh token is kept only while an alternate login
// method still needs it.
func (c *Client) Logout(ctx context.Context) error {
	token := c.prefs.String(prefs.SessionToken)
	var remoteErr error
	if token != "" {
		if _, err := c.http.Do(ctx, http.MethodPost, "/logout", struct{}{}, token); err != nil {
			c.logger.Warn("remote logout failed", zap.Error(err))
			remoteErr = fmt.Errorf("logout: %w", err)
		}
	}
	if err := c.prefs.Delete(prefs.SessionToken); err != nil {
		return err
	}
	if !c.IsPasscodeEnabled() && !c.IsBiometricEnabled() {
		if err := c.prefs.Delete(prefs.RefreshToken); err != nil {
			return err
		}
	}
	return remoteErr
}

func (c *Client) IsBiometricEnabled() bool { return c.prefs.Bool(prefs.BiometricEnabled) }

func (c *Client) IsPasscodeEnabled() bool { return c.prefs.String(prefs.PasscodeHash) != "" }

func (c *Client) Status() Status { return TokenStatus(c.prefs.String(prefs.SessionToken), c.now()) }

func (c *Client) Biometry() BiometryType {
	if !c.bio.CanEvaluate() {
		return BiometryNone
	}
	return c.bio.Type()
}

// SetPasscode stores the bcrypt hash of code as the passcode login secret.
func (c *Client) SetPasscode(code string) error {
	hash, err := HashPasscode(code)
	if err != nil {
		return err
	}
	return c.prefs.SetString(prefs.PasscodeHash, hash)
}

// ClearPasscode disables passcode login.
func (c *Client) ClearPasscode() error {
	return c.prefs.Delete(prefs.PasscodeHash)
}

// SetBiometricEnabled toggles biometric login.
func (c *Client) SetBiometricEnabled(on bool) error {
	return c.prefs.SetBool(prefs.BiometricEnabled, on)
}

func (c *Client) refresh(ctx context.Context) (Result, error) {
	rt := c.prefs.String(prefs.RefreshToken)
	if rt == "" {
		return Result{}, &Error{Kind: Other, Message: "Sign in with your username and password first."}
	}
	resp, err := httpx.PostJSON[TokenResponse](ctx, c.http, "/refresh", refreshRequest{RefreshToken: rt}, "")
	if err != nil {
		return Result{}, c.wireError(err)
	}
	return c.accept(resp)
}

func (c *Client) accept(resp *TokenResponse) (Result, error) {
	if resp.Token == "" {
		return Result{}, &Error{Kind: Other, Message: "The server returned an empty session."}
	}
	if err := c.prefs.SetString(prefs.SessionToken, resp.Token); err != nil {
		return Result{}, &Error{Kind: Other, Err: err}
	}
	if resp.RefreshToken != "" {
		if err := c.prefs.SetString(prefs.RefreshToken, resp.RefreshToken); err != nil {
			return Result{}, &Error{Kind: Other, Err: err}
		}
	}
	return Result{DeepLink: resp.DeepLink}, nil
}

// wireError converts a transport failure into an *Error.
func (c *Client) wireError(err error) error {
	var se *httpx.StatusError
	if !errors.As(err, &se) {
		c.logger.Warn("auth request failed", zap.Error(err))
		return &Error{Kind: Other, Message: "Unable to reach MyChart. Check your connection and try again.", Err: err}
	}
	var body ErrorResponse
	if jerr := json.Unmarshal(se.Body, &body); jerr != nil || body.Code == "" {
		return &Error{Kind: Other, Message: fmt.Sprintf("Sign in failed (HTTP %d).", se.Status), Err: err}
	}
	return &Error{Kind: KindFromCode(body.Code), Code: body.Code, Message: body.Message, Err: err}
}
