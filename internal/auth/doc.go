// Package auth implements the authentication and session lifecycle: password
// hashing and verification, single-use email tokens, the in-memory session
// store, and the signup/login/logout/verify/reset flows exposed over HTTP.
//
// # Usage
//
// Initialize in entrypoint:
//
//	sessions := auth.NewSessionStore()
//	service := auth.NewService(userRepo, tokenRepo, sessions, taskClient, auditService, cfg.SessionTTL)
//	handler := auth.NewHandler(service, cfg.SecureCookies)
//	handler.RegisterRoutes(router)
//
// Protect routes that require a logged-in user:
//
//	group.Use(auth.SessionMiddleware(sessions))
//
// Extract the user in handlers behind the middleware:
//
//	userID, ok := auth.GetUserID(c)
package auth
