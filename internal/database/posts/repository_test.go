package posts

import (
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cyhdev/forums/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_posts_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Post{}, &entities.Comment{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func createPost(t *testing.T, repo *Repository, userID uuid.UUID, title string) *entities.Post {
	t.Helper()
	post := &entities.Post{UserID: userID, Title: title, Body: "body of " + title}
	require.NoError(t, repo.CreatePost(post))
	return post
}

func TestRepository_CreateAndGetPost(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	userID := uuid.New()
	post := createPost(t, repo, userID, "hello")

	stored, err := repo.GetPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", stored.Title)
	assert.Equal(t, userID, stored.UserID)
	assert.Empty(t, stored.Comments)
}

func TestRepository_GetPost_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetPost(uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_ListPosts(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	userID := uuid.New()
	for _, title := range []string{"first", "second", "third"} {
		createPost(t, repo, userID, title)
	}

	posts, total, err := repo.ListPosts(2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, posts, 2)
}

func TestRepository_UpdatePost_OwnershipEnforced(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	owner := uuid.New()
	post := createPost(t, repo, owner, "original")

	err := repo.UpdatePost(post.ID, uuid.New(), "hijacked", "nope")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.UpdatePost(post.ID, owner, "edited", "new body")
	require.NoError(t, err)

	stored, err := repo.GetPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", stored.Title)
}

func TestRepository_DeletePost_RemovesComments(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	owner := uuid.New()
	post := createPost(t, repo, owner, "with comments")

	comment := &entities.Comment{PostID: post.ID, UserID: uuid.New(), Body: "nice"}
	require.NoError(t, repo.AddComment(comment))

	require.NoError(t, repo.DeletePost(post.ID, owner))

	_, err := repo.GetPost(post.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.DeleteComment(comment.ID, comment.UserID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_AddComment_UnknownPost(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.AddComment(&entities.Comment{PostID: uuid.New(), UserID: uuid.New(), Body: "orphan"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_CommentsOrderedOldestFirst(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	post := createPost(t, repo, uuid.New(), "threaded")

	for _, body := range []string{"one", "two", "three"} {
		require.NoError(t, repo.AddComment(&entities.Comment{PostID: post.ID, UserID: uuid.New(), Body: body}))
	}

	stored, err := repo.GetPost(post.ID)
	require.NoError(t, err)
	require.Len(t, stored.Comments, 3)
	assert.Equal(t, "one", stored.Comments[0].Body)
}
