package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"post_id"`
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Title     string    `gorm:"size:256" json:"post_title"`
	Body      string    `json:"post_body"`
	CreatedAt time.Time `json:"post_created_at"`
	UpdatedAt time.Time `json:"post_updated_at"`

	Comments []Comment `gorm:"constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"comment_id"`
	PostID    uuid.UUID `gorm:"type:uuid;index" json:"post_id"`
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Body      string    `json:"comment_body"`
	CreatedAt time.Time `json:"comment_created_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
