// Package codeerr defines the closed set of API error kinds. Every error a
// handler can return to a client is one of the constants below: a stable small
// error code, the HTTP status it maps to, the fixed client-facing message and
// the severity the logging middleware uses. Internal details are attached with
// WithDetail and travel to the logs only, never to the client.
package codeerr

import (
	"fmt"
	"log/slog"
	"net/http"
)

// Error is one kind from the closed error table. The zero value is not valid;
// use the package constants.
type Error struct {
	Code    uint8
	Status  int
	Message string
	Level   slog.Level

	// detail is the wrapped internal error, logged but never serialized to
	// the client.
	detail error
}

var (
	Pool              = &Error{Code: 0, Status: http.StatusInternalServerError, Message: "Could not get conn out of pool!", Level: slog.LevelError}
	DBQuery           = &Error{Code: 1, Status: http.StatusInternalServerError, Message: "Database query failed!", Level: slog.LevelError}
	EmailInvalid      = &Error{Code: 2, Status: http.StatusBadRequest, Message: "Invalid email address!", Level: slog.LevelInfo}
	UsernameInvalid   = &Error{Code: 3, Status: http.StatusBadRequest, Message: "Invalid username!", Level: slog.LevelInfo}
	Hashing           = &Error{Code: 4, Status: http.StatusInternalServerError, Message: "Failed to hash the password!", Level: slog.LevelError}
	DBInsertion       = &Error{Code: 5, Status: http.StatusInternalServerError, Message: "Database insertion failed!", Level: slog.LevelError}
	EmailMustBeUnique = &Error{Code: 6, Status: http.StatusBadRequest, Message: "Email address already exists!", Level: slog.LevelInfo}
	DBUpdate          = &Error{Code: 7, Status: http.StatusInternalServerError, Message: "Database update failed!", Level: slog.LevelError}

	EmailVerificationTokenInvalid     = &Error{Code: 8, Status: http.StatusBadRequest, Message: "Invalid email verification token!", Level: slog.LevelInfo}
	EmailVerificationTokenExpired     = &Error{Code: 9, Status: http.StatusBadRequest, Message: "Email verification token has expired!", Level: slog.LevelInfo}
	EmailVerificationTokenFabricated  = &Error{Code: 10, Status: http.StatusBadRequest, Message: "Email verification token was fabricated; created_at was in the future!", Level: slog.LevelError}
	EmailVerificationTokenAlreadyUsed = &Error{Code: 11, Status: http.StatusBadRequest, Message: "Email verification token has already been used!", Level: slog.LevelInfo}

	EmailAlreadyVerified = &Error{Code: 12, Status: http.StatusBadRequest, Message: "User email is already verified!", Level: slog.LevelInfo}
	PasswordInvalid      = &Error{Code: 13, Status: http.StatusBadRequest, Message: "Invalid password form! Must contain lower and uppercase characters and digits.", Level: slog.LevelInfo}
	UserNotFound         = &Error{Code: 14, Status: http.StatusNotFound, Message: "User not found!", Level: slog.LevelInfo}
	WrongPassword        = &Error{Code: 15, Status: http.StatusUnauthorized, Message: "Incorrect password!", Level: slog.LevelInfo}
	VerifyFailure        = &Error{Code: 16, Status: http.StatusInternalServerError, Message: "Could not verify the password!", Level: slog.LevelError}

	DuplicateSessionID       = &Error{Code: 17, Status: http.StatusInternalServerError, Message: "Session ID already exists!", Level: slog.LevelError}
	CouldNotRemoveOldSession = &Error{Code: 18, Status: http.StatusInternalServerError, Message: "Could not remove old session!", Level: slog.LevelError}

	PasswordResetTokenInvalid     = &Error{Code: 19, Status: http.StatusBadRequest, Message: "Invalid password reset token!", Level: slog.LevelInfo}
	PasswordResetTokenExpired     = &Error{Code: 20, Status: http.StatusBadRequest, Message: "Password reset token has expired!", Level: slog.LevelInfo}
	PasswordResetTokenFabricated  = &Error{Code: 21, Status: http.StatusBadRequest, Message: "Password reset token was fabricated; created_at was in the future!", Level: slog.LevelError}
	PasswordResetTokenAlreadyUsed = &Error{Code: 22, Status: http.StatusBadRequest, Message: "Password reset token has already been used!", Level: slog.LevelInfo}

	NotLoggedIn = &Error{Code: 23, Status: http.StatusUnauthorized, Message: "Not logged in!", Level: slog.LevelInfo}
	NotFound    = &Error{Code: 24, Status: http.StatusNotFound, Message: "Resource not found!", Level: slog.LevelInfo}

	PostInvalid    = &Error{Code: 25, Status: http.StatusBadRequest, Message: "Invalid post! Title must be 1-256 characters and body must not be empty.", Level: slog.LevelInfo}
	CommentInvalid = &Error{Code: 26, Status: http.StatusBadRequest, Message: "Invalid comment! Body must not be empty.", Level: slog.LevelInfo}
)

// WithDetail returns a copy of the kind carrying err as internal detail.
// The table constants themselves are never mutated.
func (e *Error) WithDetail(err error) *Error {
	c := *e
	c.detail = err
	return &c
}

// Detail returns the wrapped internal error, or nil.
func (e *Error) Detail() error {
	return e.detail
}

func (e *Error) Error() string {
	if e.detail != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.detail)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.detail
}

// Is matches by error code so WithDetail copies compare equal to their table
// constant under errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}
