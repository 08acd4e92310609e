package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmailVerificationToken is a single-use token proving control of an email
// address. UsedAt stays NULL until the token is consumed; once set the token
// is permanently invalid.
type EmailVerificationToken struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"email_verification_token_id"`
	UserID    uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	Token     uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"email_verification_token"`
	ExpiresAt time.Time  `json:"email_verification_token_expires_at"`
	CreatedAt time.Time  `json:"email_verification_token_created_at"`
	UsedAt    *time.Time `json:"email_verification_token_used_at"`
}

func (t *EmailVerificationToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// PasswordResetToken authorizes a single password change within its validity
// window. Same lifecycle rules as EmailVerificationToken, shorter window.
type PasswordResetToken struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"password_reset_token_id"`
	UserID    uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	Token     uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"password_reset_token"`
	ExpiresAt time.Time  `json:"password_reset_token_expires_at"`
	CreatedAt time.Time  `json:"password_reset_token_created_at"`
	UsedAt    *time.Time `json:"password_reset_token_used_at"`
}

func (t *PasswordResetToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
