package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mikestefanello/backlite"

	"github.com/cyhdev/forums/internal/mail"
)

// SendPasswordResetEmailTask delivers a password reset link. The validity
// window is short, so retries back off quickly.
type SendPasswordResetEmailTask struct {
	Email string    `json:"email"`
	Token uuid.UUID `json:"token"`
}

// Config returns the queue configuration for reset email tasks.
func (t SendPasswordResetEmailTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "send_password_reset_email",
		MaxAttempts: 3,
		Backoff:     10 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SendPasswordResetEmailProcessor creates a processor function for
// SendPasswordResetEmailTask.
func SendPasswordResetEmailProcessor(sender mail.Sender) backlite.QueueProcessor[SendPasswordResetEmailTask] {
	return func(ctx context.Context, task SendPasswordResetEmailTask) error {
		if sender == nil {
			return fmt.Errorf("mail sender not configured")
		}

		if err := sender.SendPasswordResetEmail(ctx, task.Email, task.Token); err != nil {
			return fmt.Errorf("send password reset email to %s: %w", task.Email, err)
		}

		slog.Info("sent password reset email", "email", task.Email, "component", "tasks")
		return nil
	}
}

// NewSendPasswordResetEmailQueue creates a backlite queue for reset email
// tasks.
func NewSendPasswordResetEmailQueue(sender mail.Sender) backlite.Queue {
	return backlite.NewQueue(SendPasswordResetEmailProcessor(sender))
}
