// Package tokens provides database operations for single-use tokens sent to
// users over email.
package tokens

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cyhdev/forums/internal/entities"
)

// Repository handles verification and reset token persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new tokens repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// InsertEmailVerification persists a freshly issued email verification token.
func (r *Repository) InsertEmailVerification(token *entities.EmailVerificationToken) error {
	return r.db.Create(token).Error
}

// FindEmailVerification retrieves a verification token by its value. Returns
// gorm.ErrRecordNotFound for unknown tokens.
func (r *Repository) FindEmailVerification(value uuid.UUID) (*entities.EmailVerificationToken, error) {
	var token entities.EmailVerificationToken
	err := r.db.Where("token = ?", value).First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// InsertPasswordReset persists a freshly issued password reset token.
func (r *Repository) InsertPasswordReset(token *entities.PasswordResetToken) error {
	return r.db.Create(token).Error
}

// FindPasswordReset retrieves a reset token by its value. Returns
// gorm.ErrRecordNotFound for unknown tokens.
func (r *Repository) FindPasswordReset(value uuid.UUID) (*entities.PasswordResetToken, error) {
	var token entities.PasswordResetToken
	err := r.db.Where("token = ?", value).First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}
