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

// SendVerificationEmailTask delivers an email verification link to a newly
// registered user.
type SendVerificationEmailTask struct {
	Email string    `json:"email"`
	Token uuid.UUID `json:"token"`
}

// Config returns the queue configuration for verification email tasks.
func (t SendVerificationEmailTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "send_verification_email",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SendVerificationEmailProcessor creates a processor function for
// SendVerificationEmailTask.
func SendVerificationEmailProcessor(sender mail.Sender) backlite.QueueProcessor[SendVerificationEmailTask] {
	return func(ctx context.Context, task SendVerificationEmailTask) error {
		if sender == nil {
			return fmt.Errorf("mail sender not configured")
		}

		if err := sender.SendVerificationEmail(ctx, task.Email, task.Token); err != nil {
			return fmt.Errorf("send verification email to %s: %w", task.Email, err)
		}

		slog.Info("sent verification email", "email", task.Email, "component", "tasks")
		return nil
	}
}

// NewSendVerificationEmailQueue creates a backlite queue for verification
// email tasks.
func NewSendVerificationEmailQueue(sender mail.Sender) backlite.Queue {
	return backlite.NewQueue(SendVerificationEmailProcessor(sender))
}
