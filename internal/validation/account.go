package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"finance-ledger/internal/apperr"
)

const (
	MsgCredentialsRequired = "Email and password required"
	MsgEmailInvalid        = "Email must be a valid address."
	MsgPasswordShort       = "Password must be at least 8 characters."
	MsgPasswordLong        = "Password must be at most 72 bytes."

	MinPasswordLength = 8
	// bcrypt ignores input past this length, so longer passwords are refused.
	MaxPasswordBytes = 72
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims surrounding whitespace and lowercases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Registration checks the credentials of a new account and returns the
// normalized email.
func Registration(email, password string) (string, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", apperr.InvalidInput(MsgCredentialsRequired)
	}
	if !emailPattern.MatchString(email) {
		return "", apperr.InvalidInput(MsgEmailInvalid)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return "", apperr.InvalidInput(MsgPasswordShort)
	}
	if len(password) > MaxPasswordBytes {
		return "", apperr.InvalidInput(MsgPasswordLong)
	}
	return email, nil
}
