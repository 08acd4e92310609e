// Package posts provides database operations for posts and their comments.
package posts

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cyhdev/forums/internal/entities"
)

// Repository handles post and comment persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new posts repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreatePost persists a new post.
func (r *Repository) CreatePost(post *entities.Post) error {
	return r.db.Create(post).Error
}

// GetPost retrieves a post with its comments, oldest comment first. Returns
// gorm.ErrRecordNotFound for unknown ids.
func (r *Repository) GetPost(id uuid.UUID) (*entities.Post, error) {
	var post entities.Post
	err := r.db.Preload("Comments", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPosts returns a page of posts ordered newest first, plus the total
// post count.
func (r *Repository) ListPosts(limit, offset int) ([]entities.Post, int64, error) {
	var posts []entities.Post
	var total int64

	if err := r.db.Model(&entities.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error
	return posts, total, err
}

// UpdatePost updates the title and body of a post owned by userID. Returns
// gorm.ErrRecordNotFound when the post does not exist or belongs to someone
// else.
func (r *Repository) UpdatePost(id, userID uuid.UUID, title, body string) error {
	res := r.db.Model(&entities.Post{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"title": title, "body": body})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeletePost removes a post owned by userID along with its comments.
func (r *Repository) DeletePost(id, userID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&entities.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("post_id = ?", id).Delete(&entities.Comment{}).Error
	})
}

// AddComment persists a comment after checking the post exists.
func (r *Repository) AddComment(comment *entities.Comment) error {
	var count int64
	if err := r.db.Model(&entities.Post{}).Where("id = ?", comment.PostID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return r.db.Create(comment).Error
}

// DeleteComment removes a comment owned by userID.
func (r *Repository) DeleteComment(id, userID uuid.UUID) error {
	res := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&entities.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
