// Package users provides database operations for user accounts.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.FindByEmail(email)
package users

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cyhdev/forums/internal/entities"
)

// ErrEmailTaken reports a unique-constraint violation on the email column.
var ErrEmailTaken = errors.New("email already registered")

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert persists a new user. A duplicate email returns ErrEmailTaken.
func (r *Repository) Insert(user *entities.User) error {
	err := r.db.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}

// ExistsByEmail reports whether a user with the given email exists.
func (r *Repository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// FindByEmail retrieves a user by email. Returns gorm.ErrRecordNotFound when
// no such user exists.
func (r *Repository) FindByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID retrieves a user by primary key.
func (r *Repository) FindByID(id uuid.UUID) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// IsEmailVerified reports the verified flag for the given user.
func (r *Repository) IsEmailVerified(id uuid.UUID) (bool, error) {
	var user entities.User
	err := r.db.Select("is_email_verified").Where("id = ?", id).First(&user).Error
	if err != nil {
		return false, err
	}
	return user.IsEmailVerified, nil
}

// VerifyEmail marks the user verified and consumes the verification token in
// one transaction, so a crash can never leave a verified user with a reusable
// token or vice versa.
func (r *Repository) VerifyEmail(userID, tokenID uuid.UUID, now time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.User{}).
			Where("id = ?", userID).
			Updates(map[string]any{"is_email_verified": true, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&entities.EmailVerificationToken{}).
			Where("id = ?", tokenID).
			Update("used_at", now).Error
	})
}

// ResetPassword stores the new password hash and consumes the reset token in
// one transaction.
func (r *Repository) ResetPassword(userID, tokenID uuid.UUID, passwordHash string, now time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.User{}).
			Where("id = ?", userID).
			Updates(map[string]any{"password_hash": passwordHash, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&entities.PasswordResetToken{}).
			Where("id = ?", tokenID).
			Update("used_at", now).Error
	})
}

// PurgeNonVerified deletes users that never verified their email and were
// created before cutoff. Returns the number of deleted users.
func (r *Repository) PurgeNonVerified(cutoff time.Time) (int64, error) {
	result := r.db.Where("is_email_verified = ? AND created_at < ?", false, cutoff).
		Delete(&entities.User{})
	return result.RowsAffected, result.Error
}
