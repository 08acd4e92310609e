package auth

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mikestefanello/backlite"
	"gorm.io/gorm"

	"github.com/cyhdev/forums/internal/codeerr"
	"github.com/cyhdev/forums/internal/database/users"
	"github.com/cyhdev/forums/internal/entities"
	"github.com/cyhdev/forums/internal/tasks"
)

// UserStore is the slice of the users repository the auth flows need.
type UserStore interface {
	Insert(user *entities.User) error
	ExistsByEmail(email string) (bool, error)
	FindByEmail(email string) (*entities.User, error)
	FindByID(id uuid.UUID) (*entities.User, error)
	IsEmailVerified(id uuid.UUID) (bool, error)
	VerifyEmail(userID, tokenID uuid.UUID, now time.Time) error
	ResetPassword(userID, tokenID uuid.UUID, passwordHash string, now time.Time) error
}

// TokenStore persists single-use email tokens.
type TokenStore interface {
	InsertEmailVerification(token *entities.EmailVerificationToken) error
	FindEmailVerification(value uuid.UUID) (*entities.EmailVerificationToken, error)
	InsertPasswordReset(token *entities.PasswordResetToken) error
	FindPasswordReset(value uuid.UUID) (*entities.PasswordResetToken, error)
}

// Enqueuer schedules background tasks. Satisfied by the tasks client.
type Enqueuer interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
}

// Auditor records auth flow outcomes. Satisfied by the audit service.
type Auditor interface {
	LogAuth(userID *uuid.UUID, action entities.AuthEventAction, email, ipAddr string, err error)
}

// Service implements the authentication flows. Every method returns either a
// payload or an error from the codeerr table; no other error types escape.
type Service struct {
	users      UserStore
	tokens     TokenStore
	sessions   *SessionStore
	queue      Enqueuer
	audit      Auditor
	sessionTTL time.Duration
}

// NewService wires the auth flows. A zero sessionTTL means DefaultSessionTTL.
func NewService(users UserStore, tokens TokenStore, sessions *SessionStore, queue Enqueuer, audit Auditor, sessionTTL time.Duration) *Service {
	if sessionTTL == 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		sessions:   sessions,
		queue:      queue,
		audit:      audit,
		sessionTTL: sessionTTL,
	}
}

// Sessions exposes the session store for middleware and the scheduler.
func (s *Service) Sessions() *SessionStore {
	return s.sessions
}

// SignupRequest carries the fields of a registration attempt.
type SignupRequest struct {
	Name     string `json:"user_name"`
	Email    string `json:"user_email"`
	Password string `json:"user_password"`
}

// SignupResult is the successful outcome of a registration: the stored user
// and the deadline for verifying the email address.
type SignupResult struct {
	User     *entities.User
	VerifyBy time.Time
}

// Signup registers a new user and queues the verification email. The
// password is hashed before any row is written; the email task failing is
// logged but never fails the signup.
func (s *Service) Signup(ctx context.Context, req SignupRequest, ipAddr string) (*SignupResult, *codeerr.Error) {
	if !ValidateUsername(req.Name) {
		return nil, codeerr.UsernameInvalid
	}
	if !ValidatePasswordForm(req.Password) {
		return nil, codeerr.PasswordInvalid
	}
	if !ValidateEmail(req.Email) {
		return nil, codeerr.EmailInvalid
	}

	taken, err := s.users.ExistsByEmail(req.Email)
	if err != nil {
		return nil, codeerr.DBQuery.WithDetail(err)
	}
	if taken {
		return nil, codeerr.EmailMustBeUnique
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, codeerr.Hashing.WithDetail(err)
	}

	user := &entities.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.users.Insert(user); err != nil {
		if errors.Is(err, users.ErrEmailTaken) || errors.Is(err, gorm.ErrDuplicatedKey) {
			s.audit.LogAuth(nil, entities.AuthEventSignup, req.Email, ipAddr, err)
			return nil, codeerr.EmailMustBeUnique
		}
		return nil, codeerr.DBInsertion.WithDetail(err)
	}

	now := time.Now().UTC()
	issued := IssueToken(now, EmailVerificationTokenTTL)
	token := &entities.EmailVerificationToken{
		UserID:    user.ID,
		Token:     issued.Value,
		CreatedAt: issued.CreatedAt,
		ExpiresAt: issued.ExpiresAt,
	}
	if err := s.tokens.InsertEmailVerification(token); err != nil {
		return nil, codeerr.DBInsertion.WithDetail(err)
	}

	s.enqueue(tasks.SendVerificationEmailTask{Email: user.Email, Token: issued.Value})
	s.audit.LogAuth(&user.ID, entities.AuthEventSignup, user.Email, ipAddr, nil)

	return &SignupResult{User: user, VerifyBy: issued.ExpiresAt}, nil
}

// LoginResult is the successful outcome of a login: the session to set as a
// cookie and the authenticated user.
type LoginResult struct {
	SessionID uuid.UUID
	User      *entities.User
}

// Login authenticates by email and password and opens a fresh session. When
// the client presented a previous session cookie it is removed first; a
// failure there blocks the login rather than leaking the stale session.
func (s *Service) Login(ctx context.Context, email, password, ipAddr string, oldSessionID *uuid.UUID) (*LoginResult, *codeerr.Error) {
	if !ValidateEmail(email) {
		return nil, codeerr.EmailInvalid
	}
	if !ValidatePasswordForm(password) {
		return nil, codeerr.PasswordInvalid
	}

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.audit.LogAuth(nil, entities.AuthEventLoginFailed, email, ipAddr, err)
			return nil, codeerr.UserNotFound
		}
		return nil, codeerr.DBQuery.WithDetail(err)
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, codeerr.VerifyFailure.WithDetail(err)
	}
	if !ok {
		s.audit.LogAuth(&user.ID, entities.AuthEventLoginFailed, email, ipAddr, errors.New("wrong password"))
		return nil, codeerr.WrongPassword
	}

	if oldSessionID != nil {
		if _, _, err := s.sessions.Remove(*oldSessionID); err != nil {
			return nil, codeerr.CouldNotRemoveOldSession.WithDetail(err)
		}
	}

	sessionID, err := s.sessions.Create(user.ID, s.sessionTTL)
	if err != nil {
		return nil, codeerr.DuplicateSessionID.WithDetail(err)
	}

	s.audit.LogAuth(&user.ID, entities.AuthEventLogin, email, ipAddr, nil)

	return &LoginResult{SessionID: sessionID, User: user}, nil
}

// Logout removes the session in the background. The client's cookie is
// cleared regardless, so a store inconsistency only gets logged; the pruner
// collects anything left behind.
func (s *Service) Logout(sessionID uuid.UUID, userID uuid.UUID, ipAddr string) {
	go func() {
		if _, _, err := s.sessions.Remove(sessionID); err != nil {
			log.Printf("Failed to remove session on logout: %v", err)
			s.audit.LogAuth(&userID, entities.AuthEventLogout, "", ipAddr, err)
			return
		}
		s.audit.LogAuth(&userID, entities.AuthEventLogout, "", ipAddr, nil)
	}()
}

// VerifyEmailResult reports which address was verified and when.
type VerifyEmailResult struct {
	Email      string
	VerifiedAt time.Time
}

// VerifyEmail consumes a verification token and marks the account verified.
func (s *Service) VerifyEmail(ctx context.Context, tokenValue uuid.UUID, ipAddr string) (*VerifyEmailResult, *codeerr.Error) {
	token, err := s.tokens.FindEmailVerification(tokenValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, codeerr.EmailVerificationTokenInvalid
		}
		return nil, codeerr.DBQuery.WithDetail(err)
	}

	now := time.Now().UTC()
	switch err := ValidateToken(token.ExpiresAt, token.CreatedAt, token.UsedAt, now); {
	case errors.Is(err, ErrTokenExpired):
		return nil, codeerr.EmailVerificationTokenExpired
	case errors.Is(err, ErrTokenFabricated):
		return nil, codeerr.EmailVerificationTokenFabricated
	case errors.Is(err, ErrTokenAlreadyUsed):
		return nil, codeerr.EmailVerificationTokenAlreadyUsed
	}

	verified, err := s.users.IsEmailVerified(token.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, codeerr.UserNotFound
		}
		return nil, codeerr.DBQuery.WithDetail(err)
	}
	if verified {
		return nil, codeerr.EmailAlreadyVerified
	}

	if err := s.users.VerifyEmail(token.UserID, token.ID, now); err != nil {
		return nil, codeerr.DBUpdate.WithDetail(err)
	}

	user, err := s.users.FindByID(token.UserID)
	if err != nil {
		return nil, codeerr.DBQuery.WithDetail(err)
	}

	s.audit.LogAuth(&user.ID, entities.AuthEventEmailVerified, user.Email, ipAddr, nil)

	return &VerifyEmailResult{Email: user.Email, VerifiedAt: now}, nil
}

// ResetRequestResult reports the address a reset email was queued for and
// the token's deadline.
type ResetRequestResult struct {
	Email    string
	VerifyBy time.Time
}

// RequestPasswordReset issues a reset token for the account and queues the
// email carrying it.
func (s *Service) RequestPasswordReset(ctx context.Context, email, ipAddr string) (*ResetRequestResult, *codeerr.Error) {
	if !ValidateEmail(email) {
		return nil, codeerr.EmailInvalid
	}

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, codeerr.UserNotFound
		}
		return nil, codeerr.DBQuery.WithDetail(err)
	}

	now := time.Now().UTC()
	issued := IssueToken(now, PasswordResetTokenTTL)
	token := &entities.PasswordResetToken{
		UserID:    user.ID,
		Token:     issued.Value,
		CreatedAt: issued.CreatedAt,
		ExpiresAt: issued.ExpiresAt,
	}
	if err := s.tokens.InsertPasswordReset(token); err != nil {
		return nil, codeerr.DBInsertion.WithDetail(err)
	}

	s.enqueue(tasks.SendPasswordResetEmailTask{Email: user.Email, Token: issued.Value})
	s.audit.LogAuth(&user.ID, entities.AuthEventResetRequest, user.Email, ipAddr, nil)

	return &ResetRequestResult{Email: user.Email, VerifyBy: issued.ExpiresAt}, nil
}

// ResetPassword consumes a reset token and stores the new password hash.
func (s *Service) ResetPassword(ctx context.Context, tokenValue uuid.UUID, newPassword, ipAddr string) *codeerr.Error {
	if !ValidatePasswordForm(newPassword) {
		return codeerr.PasswordInvalid
	}

	token, err := s.tokens.FindPasswordReset(tokenValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return codeerr.PasswordResetTokenInvalid
		}
		return codeerr.DBQuery.WithDetail(err)
	}

	now := time.Now().UTC()
	switch err := ValidateToken(token.ExpiresAt, token.CreatedAt, token.UsedAt, now); {
	case errors.Is(err, ErrTokenExpired):
		return codeerr.PasswordResetTokenExpired
	case errors.Is(err, ErrTokenFabricated):
		return codeerr.PasswordResetTokenFabricated
	case errors.Is(err, ErrTokenAlreadyUsed):
		return codeerr.PasswordResetTokenAlreadyUsed
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return codeerr.Hashing.WithDetail(err)
	}

	if err := s.users.ResetPassword(token.UserID, token.ID, hash, now); err != nil {
		return codeerr.DBUpdate.WithDetail(err)
	}

	s.audit.LogAuth(&token.UserID, entities.AuthEventResetDone, "", ipAddr, nil)

	return nil
}

// CheckEmailExists reports whether an account is registered under email.
func (s *Service) CheckEmailExists(ctx context.Context, email string) (bool, *codeerr.Error) {
	if !ValidateEmail(email) {
		return false, codeerr.EmailInvalid
	}

	exists, err := s.users.ExistsByEmail(email)
	if err != nil {
		return false, codeerr.DBQuery.WithDetail(err)
	}
	return exists, nil
}

// enqueue schedules a background task, logging instead of failing the
// calling flow when the queue is unavailable.
func (s *Service) enqueue(task backlite.Task) {
	if s.queue == nil {
		return
	}
	if _, err := s.queue.Add(task).Ctx(context.Background()).Save(); err != nil {
		log.Printf("Failed to enqueue task: %v", err)
	}
}
