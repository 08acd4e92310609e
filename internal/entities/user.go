package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a registered account. The password is stored as a PHC-encoded
// argon2id hash, never in plaintext.
type User struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Name            string    `gorm:"size:20" json:"user_name"`
	Email           string    `gorm:"uniqueIndex;size:254" json:"user_email"`
	PasswordHash    string    `gorm:"size:255" json:"-"`
	IsEmailVerified bool      `gorm:"default:false" json:"user_is_email_verified"`
	CreatedAt       time.Time `json:"user_created_at"`
	UpdatedAt       time.Time `json:"user_updated_at"`
}

// BeforeCreate assigns a fresh UUID when none was set by the caller.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
