package auth

import (
	"regexp"
	"unicode"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks basic address shape and the RFC 5321 length limit.
func ValidateEmail(email string) bool {
	return len(email) <= 254 && emailPattern.MatchString(email)
}

// ValidateUsername accepts 1-20 alphanumeric characters. Letters from any
// script count as alphanumeric.
func ValidateUsername(username string) bool {
	runes := []rune(username)
	if len(runes) == 0 || len(runes) > 20 {
		return false
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ValidatePasswordForm requires at least 8 characters with at least one
// lowercase letter, one uppercase letter and one ASCII digit. It checks the
// shape only; the password itself never leaves the auth service.
func ValidatePasswordForm(password string) bool {
	if len(password) < 8 {
		return false
	}

	var hasLower, hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	return hasLower && hasUpper && hasDigit
}
