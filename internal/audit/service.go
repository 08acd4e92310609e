// Package audit records the outcomes of authentication flows for later
// review. Writes happen in the background so a slow disk never delays a
// login response.
package audit

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/cyhdev/forums/internal/database/audit"
	"github.com/cyhdev/forums/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records an audit event synchronously.
func (s *Service) Log(event *entities.AuthEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuthEvent) {
	go func() {
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// LogAuth records an authentication flow outcome. userID may be nil when the
// flow failed before a user was identified.
func (s *Service) LogAuth(userID *uuid.UUID, action entities.AuthEventAction, email, ipAddr string, err error) {
	event := &entities.AuthEvent{
		UserID:    userID,
		Action:    action,
		Email:     email,
		IPAddress: ipAddr,
		Status:    entities.AuthEventStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuthEventStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(userID *uuid.UUID, limit, offset int) ([]entities.AuthEvent, int64, error) {
	return s.repo.GetEvents(userID, limit, offset)
}

// GetEventsByAction retrieves audit events filtered by action.
func (s *Service) GetEventsByAction(action entities.AuthEventAction, limit, offset int) ([]entities.AuthEvent, int64, error) {
	return s.repo.GetEventsByAction(action, limit, offset)
}

// DeleteOldEvents removes events older than the specified retention window.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
