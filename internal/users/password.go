package users

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const specialChars = `.*-/!@#$%^&(){}[]:;<>,?~_+=|\`

var (
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters")
	ErrPasswordNoDigit   = errors.New("password must contain at least one digit")
	ErrPasswordNoSpecial = errors.New("password must contain at least one special character")
)

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// ValidatePassword enforces the registration password policy.
func ValidatePassword(pw string) error {
	if len(pw) < 8 {
		return ErrPasswordTooShort
	}
	hasDigit := false
	for _, r := range pw {
		if unicode.IsDigit(r) {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		return ErrPasswordNoDigit
	}
	if !strings.ContainsAny(pw, specialChars) {
		return ErrPasswordNoSpecial
	}
	return nil
}
