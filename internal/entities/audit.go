package entities

import (
	"time"

	"github.com/google/uuid"
)

type AuthEventAction string

const (
	AuthEventSignup        AuthEventAction = "signup"
	AuthEventLogin         AuthEventAction = "login"
	AuthEventLoginFailed   AuthEventAction = "login_failed"
	AuthEventLogout        AuthEventAction = "logout"
	AuthEventEmailVerified AuthEventAction = "email_verified"
	AuthEventResetRequest  AuthEventAction = "password_reset_request"
	AuthEventResetDone     AuthEventAction = "password_reset"
)

type AuthEventStatus string

const (
	AuthEventStatusSuccess AuthEventStatus = "success"
	AuthEventStatusFailed  AuthEventStatus = "failed"
)

// AuthEvent is an audit record of an authentication flow outcome.
type AuthEvent struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    *uuid.UUID      `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    AuthEventAction `gorm:"index;size:50" json:"action"`
	Email     string          `gorm:"size:254" json:"email,omitempty"`
	IPAddress string          `gorm:"size:45" json:"ip_address,omitempty"`
	Status    AuthEventStatus `gorm:"size:20" json:"status"`
	ErrorMsg  string          `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt time.Time       `gorm:"index" json:"created_at"`
}

func (AuthEvent) TableName() string {
	return "auth_events"
}
