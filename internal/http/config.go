package http

import (
	"log/slog"

	"github.com/cyhdev/forums/internal/audit"
	"github.com/cyhdev/forums/internal/auth"
	"github.com/cyhdev/forums/internal/database"
	"github.com/cyhdev/forums/internal/database/posts"
)

// RouterConfig holds all dependencies needed to construct the router.
// Optional fields may be nil; the routes they power are simply not mounted.
type RouterConfig struct {
	Database    *database.Database
	AuthHandler *auth.Handler
	Sessions    *auth.SessionStore
	PostsRepo   *posts.Repository
	Audit       *audit.Service

	Logger *slog.Logger

	// CSRFSecret enables CSRF protection when non-empty. Must be 32 bytes.
	CSRFSecret    []byte
	SecureCookies bool

	Version string
}
