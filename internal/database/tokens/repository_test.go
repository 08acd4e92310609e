package tokens

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cyhdev/forums/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_tokens_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.EmailVerificationToken{}, &entities.PasswordResetToken{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_EmailVerificationRoundTrip(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now().UTC()
	token := &entities.EmailVerificationToken{
		UserID:    uuid.New(),
		Token:     uuid.New(),
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
	require.NoError(t, repo.InsertEmailVerification(token))

	stored, err := repo.FindEmailVerification(token.Token)
	require.NoError(t, err)
	assert.Equal(t, token.UserID, stored.UserID)
	assert.Nil(t, stored.UsedAt)
}

func TestRepository_FindEmailVerification_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.FindEmailVerification(uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_PasswordResetRoundTrip(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now().UTC()
	token := &entities.PasswordResetToken{
		UserID:    uuid.New(),
		Token:     uuid.New(),
		CreatedAt: now,
		ExpiresAt: now.Add(30 * time.Minute),
	}
	require.NoError(t, repo.InsertPasswordReset(token))

	stored, err := repo.FindPasswordReset(token.Token)
	require.NoError(t, err)
	assert.Equal(t, token.UserID, stored.UserID)

	_, err = repo.FindPasswordReset(uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
