package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cyhdev/forums/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves an auth audit event to the database.
func (r *Repository) LogEvent(event *entities.AuthEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	return r.db.Create(event).Error
}

// GetEvents retrieves paginated audit events, most recent first. A nil userID
// returns events for all users.
func (r *Repository) GetEvents(userID *uuid.UUID, limit, offset int) ([]entities.AuthEvent, int64, error) {
	var events []entities.AuthEvent
	var total int64

	query := r.db.Model(&entities.AuthEvent{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}

// GetEventsByAction retrieves audit events filtered by action.
func (r *Repository) GetEventsByAction(action entities.AuthEventAction, limit, offset int) ([]entities.AuthEvent, int64, error) {
	var events []entities.AuthEvent
	var total int64

	query := r.db.Model(&entities.AuthEvent{}).Where("action = ?", action)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}

// DeleteOldEvents removes audit events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(olderThan time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", olderThan).Delete(&entities.AuthEvent{})
	return result.RowsAffected, result.Error
}
