package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	auditsvc "github.com/cyhdev/forums/internal/audit"
	"github.com/cyhdev/forums/internal/auth"
	"github.com/cyhdev/forums/internal/database/tokens"
	"github.com/cyhdev/forums/internal/database/users"
	"github.com/cyhdev/forums/internal/mail"
	"github.com/cyhdev/forums/internal/tasks"
)

// Auth service collaborators
var _ auth.UserStore = (*users.Repository)(nil)
var _ auth.TokenStore = (*tokens.Repository)(nil)
var _ auth.Enqueuer = (*tasks.Client)(nil)
var _ auth.Auditor = (*auditsvc.Service)(nil)

// Mail senders
var _ mail.Sender = (*mail.SMTPSender)(nil)
var _ mail.Sender = (*mail.LogSender)(nil)

// Background cleanup
var _ tasks.AuthEventCleaner = (*auditsvc.Service)(nil)
