package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenStatus derives the status from a session token's exp claim. The
// signature is not checked: the token is opaque to the client and verified by
// the backend on every call.
func TokenStatus(token string, now time.Time) Status {
	if token == "" {
		return NotAuthenticated
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return NotAuthenticated
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(now) {
		return NotAuthenticated
	}
	return Authenticated
}

// TokenExpiry returns the exp claim of token, or the zero time.
func TokenExpiry(token string) time.Time {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
