// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Auth Service Collaborators
//
//   - auth.UserStore: user persistence behind the auth flows (internal/auth/service.go)
//   - auth.TokenStore: email verification and password reset tokens (internal/auth/service.go)
//   - auth.Enqueuer: hands email delivery to the task queue (internal/auth/service.go)
//   - auth.Auditor: records auth flow outcomes (internal/auth/service.go)
//
// ## Email Delivery
//
//   - mail.Sender: sends verification and reset emails (internal/mail/mail.go).
//     SMTPSender delivers over SMTP; LogSender writes to the log for
//     development setups without a relay.
//
// ## Background Work
//
//   - tasks.AuthEventCleaner: deletes old audit events (internal/tasks/cleanup_audit.go)
//
// # Adding a New Database Domain
//
// To add a new data domain (e.g., moderation):
//
//  1. Create sub-package: internal/database/moderation/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Implement interface methods
//
//  4. Add compile-time check:
//
//     var _ ModerationStore = (*Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
