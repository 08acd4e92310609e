// Package mail delivers transactional email for the auth flows. The SMTP
// sender is used in production; the log sender stands in during local
// development so flows work without a mail server.
package mail

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	gomail "github.com/wneessen/go-mail"
)

// Sender delivers auth-related email to a single recipient.
type Sender interface {
	SendVerificationEmail(ctx context.Context, to string, token uuid.UUID) error
	SendPasswordResetEmail(ctx context.Context, to string, token uuid.UUID) error
}

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	// BaseURL is the public address of the application, used to build the
	// links embedded in email bodies.
	BaseURL string
}

// SMTPSender delivers mail through an SMTP relay.
type SMTPSender struct {
	client  *gomail.Client
	from    string
	baseURL string
}

// NewSMTPSender connects the sender to the configured SMTP relay.
func NewSMTPSender(cfg Config) (*SMTPSender, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return &SMTPSender{client: client, from: cfg.From, baseURL: cfg.BaseURL}, nil
}

func (s *SMTPSender) SendVerificationEmail(ctx context.Context, to string, token uuid.UUID) error {
	body := fmt.Sprintf(
		"Welcome!\n\nPlease verify your email address by opening the link below:\n\n%s/auth/verify-email?token=%s\n\nThe link is valid for 24 hours.\n",
		s.baseURL, token,
	)
	return s.send(ctx, to, "Verify your email address", body)
}

func (s *SMTPSender) SendPasswordResetEmail(ctx context.Context, to string, token uuid.UUID) error {
	body := fmt.Sprintf(
		"A password reset was requested for your account.\n\nOpen the link below to choose a new password:\n\n%s/auth/reset-password?token=%s\n\nThe link is valid for 30 minutes. If you did not request this, ignore this email.\n",
		s.baseURL, token,
	)
	return s.send(ctx, to, "Reset your password", body)
}

func (s *SMTPSender) send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// LogSender writes would-be emails to the application log instead of
// delivering them. Used when no SMTP host is configured.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) SendVerificationEmail(_ context.Context, to string, token uuid.UUID) error {
	log.Printf("[MAIL] verification email for %s, token %s", to, token)
	return nil
}

func (s *LogSender) SendPasswordResetEmail(_ context.Context, to string, token uuid.UUID) error {
	log.Printf("[MAIL] password reset email for %s, token %s", to, token)
	return nil
}
