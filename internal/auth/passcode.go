package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// ValidPasscode reports whether code is 4 to 8 ASCII digits.
func ValidPasscode(code string) bool {
	if len(code) < 4 || len(code) > 8 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// HashPasscode returns the bcrypt hash of code.
func HashPasscode(code string) (string, error) {
	if !ValidPasscode(code) {
		return "", ErrInvalidPasscode
	}
	b, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPasscode reports whether code matches hash.
func CheckPasscode(hash, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
