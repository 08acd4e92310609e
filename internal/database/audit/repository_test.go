package audit

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
	dbPath := "./test_audit_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuthEvent{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_LogEvent(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	userID := uuid.New()
	err := repo.LogEvent(&entities.AuthEvent{
		UserID: &userID,
		Action: entities.AuthEventLogin,
		Email:  "alice@example.com",
		Status: entities.AuthEventStatusSuccess,
	})
	require.NoError(t, err)

	events, total, err := repo.GetEvents(&userID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, events, 1)
	assert.Equal(t, entities.AuthEventLogin, events[0].Action)
	assert.False(t, events[0].CreatedAt.IsZero())
}

func TestRepository_GetEventsByAction(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	for _, action := range []entities.AuthEventAction{
		entities.AuthEventLogin,
		entities.AuthEventLoginFailed,
		entities.AuthEventLoginFailed,
	} {
		require.NoError(t, repo.LogEvent(&entities.AuthEvent{
			Action: action,
			Status: entities.AuthEventStatusFailed,
		}))
	}

	events, total, err := repo.GetEventsByAction(entities.AuthEventLoginFailed, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, events, 2)
}

func TestRepository_DeleteOldEvents(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.LogEvent(&entities.AuthEvent{
		Action:    entities.AuthEventSignup,
		Status:    entities.AuthEventStatusSuccess,
		CreatedAt: time.Now().UTC().Add(-90 * 24 * time.Hour),
	}))
	require.NoError(t, repo.LogEvent(&entities.AuthEvent{
		Action: entities.AuthEventSignup,
		Status: entities.AuthEventStatusSuccess,
	}))

	deleted, err := repo.DeleteOldEvents(time.Now().UTC().Add(-30 * 24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, total, err := repo.GetEvents(nil, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
