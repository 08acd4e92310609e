package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mikestefanello/backlite"
)

// AuthEventCleaner provides the ability to delete old audit events.
type AuthEventCleaner interface {
	DeleteOldEvents(retention time.Duration) (int64, error)
}

// CleanupAuthEventsTask removes auth audit events older than the configured
// retention period.
type CleanupAuthEventsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for audit cleanup tasks.
func (t CleanupAuthEventsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_auth_events",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupAuthEventsProcessor creates a processor function for
// CleanupAuthEventsTask.
func CleanupAuthEventsProcessor(cleaner AuthEventCleaner) backlite.QueueProcessor[CleanupAuthEventsTask] {
	return func(ctx context.Context, task CleanupAuthEventsTask) error {
		if cleaner == nil {
			return fmt.Errorf("auth event cleaner not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 90
		}
		retention := time.Duration(retentionDays) * 24 * time.Hour

		deleted, err := cleaner.DeleteOldEvents(retention)
		if err != nil {
			return fmt.Errorf("cleanup auth events: %w", err)
		}

		slog.Info("cleaned up auth events", "deleted", deleted, "retention_days", retentionDays, "component", "tasks")
		return nil
	}
}

// NewCleanupAuthEventsQueue creates a backlite queue for audit cleanup tasks.
func NewCleanupAuthEventsQueue(cleaner AuthEventCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupAuthEventsProcessor(cleaner))
}
