// Package http assembles the gin router: middleware chain, auth routes,
// forum content routes and the operational endpoints.
package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/cyhdev/forums/internal/auth"
	"github.com/cyhdev/forums/internal/response"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	stats := NewStats()

	// TrackStart must run first so time_to_process covers the full chain.
	router.Use(response.TrackStart())
	router.Use(RequestLoggingMiddleware(logger, stats))
	router.Use(gin.Recovery())

	router.Use(auth.SecurityHeadersMiddleware())
	router.Use(auth.StrictTransportSecurityMiddleware())

	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	if cfg.AuthHandler != nil {
		cfg.AuthHandler.RegisterRoutes(router)
	}

	if cfg.Sessions != nil {
		authed := router.Group("/api")
		authed.Use(auth.SessionMiddleware(cfg.Sessions))

		if cfg.PostsRepo != nil {
			postsController := NewPostsController(cfg.PostsRepo)
			router.GET("/api/posts", postsController.ListPosts)
			router.GET("/api/posts/:id", postsController.GetPost)

			authed.POST("/posts", postsController.CreatePost)
			authed.PATCH("/posts/:id", postsController.UpdatePost)
			authed.DELETE("/posts/:id", postsController.DeletePost)
			authed.POST("/posts/:id/comments", postsController.AddComment)
			authed.DELETE("/comments/:id", postsController.DeleteComment)
		}

		if cfg.Audit != nil {
			auditController := NewAuditController(cfg.Audit)
			authed.GET("/audit/events", auditController.ListEvents)
		}
	}

	rootController := NewRootController(cfg.Database, stats)
	router.GET("/", rootController.Status)

	health := NewHealthController(cfg.Database, cfg.Sessions, cfg.Version)
	router.GET("/health", health.Status)

	// Everything else gets the same cheerful non-answer.
	router.NoRoute(Fallback)

	return router
}
