package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Validity windows per token purpose. Distinct policies: proving control of
// an inbox can take a while, authorizing a password change should not.
const (
	EmailVerificationTokenTTL = 24 * time.Hour
	PasswordResetTokenTTL     = 30 * time.Minute
)

var (
	ErrTokenExpired     = errors.New("token has expired")
	ErrTokenFabricated  = errors.New("token created_at is in the future")
	ErrTokenAlreadyUsed = errors.New("token has already been used")
)

// IssuedToken is a freshly generated single-use token. The caller persists it
// through the token repository.
type IssuedToken struct {
	Value     uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IssueToken generates a cryptographically random token valid for validFor
// starting now.
func IssueToken(now time.Time, validFor time.Duration) IssuedToken {
	return IssuedToken{
		Value:     uuid.New(),
		CreatedAt: now,
		ExpiresAt: now.Add(validFor),
	}
}

// ValidateToken applies the token acceptance rules in fixed order:
// expiry, then fabrication (created in the future, which implies forged or
// tampered input), then reuse. A token failing several checks reports the
// first. Not-found is the caller's concern; this only judges a stored record.
//
// On success the caller must mark the token used in the same transaction
// that applies the token's side effect.
func ValidateToken(expiresAt, createdAt time.Time, usedAt *time.Time, now time.Time) error {
	if expiresAt.Before(now) {
		return ErrTokenExpired
	}
	if createdAt.After(now) {
		return ErrTokenFabricated
	}
	if usedAt != nil {
		return ErrTokenAlreadyUsed
	}
	return nil
}
