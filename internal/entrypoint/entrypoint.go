// Package entrypoint wires the application together and runs the HTTP server
// with graceful shutdown.
package entrypoint

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	auditsvc "github.com/cyhdev/forums/internal/audit"
	"github.com/cyhdev/forums/internal/auth"
	"github.com/cyhdev/forums/internal/config"
	"github.com/cyhdev/forums/internal/database"
	auditrepo "github.com/cyhdev/forums/internal/database/audit"
	"github.com/cyhdev/forums/internal/database/posts"
	"github.com/cyhdev/forums/internal/database/tokens"
	"github.com/cyhdev/forums/internal/database/users"
	http_controllers "github.com/cyhdev/forums/internal/http"
	"github.com/cyhdev/forums/internal/mail"
	"github.com/cyhdev/forums/internal/scheduler"
	"github.com/cyhdev/forums/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version, commit string) {
	log.Printf("Starting Forums v%s (commit %s)", version, commit)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	userRepo := users.NewRepository(db.DB)
	tokenRepo := tokens.NewRepository(db.DB)
	postsRepo := posts.NewRepository(db.DB)
	auditService := auditsvc.NewService(auditrepo.NewRepository(db.DB))

	sessions := auth.NewSessionStore()

	var sender mail.Sender
	if cfg.SMTP.Host != "" {
		smtpSender, err := mail.NewSMTPSender(mail.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			BaseURL:  cfg.SMTP.BaseURL,
		})
		if err != nil {
			log.Fatalf("Failed to initialize SMTP sender: %v", err)
		}
		sender = smtpSender
	} else {
		log.Printf("WARNING: SMTP host not configured, emails will be written to the log. Set 'SMTP_HOST' to enable delivery.")
		sender = mail.NewLogSender()
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, cfg.Tasks)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewSendVerificationEmailQueue(sender),
			tasks.NewSendPasswordResetEmailQueue(sender),
			tasks.NewCleanupAuthEventsQueue(auditService),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	} else {
		log.Printf("WARNING: Task queue disabled, verification and reset emails will not be sent.")
	}

	// A typed nil must not reach the service's interface field.
	var enqueuer auth.Enqueuer
	if taskClient != nil {
		enqueuer = taskClient
	}

	authService := auth.NewService(userRepo, tokenRepo, sessions, enqueuer, auditService, cfg.Auth.SessionLifetime)
	authHandler := auth.NewHandler(authService, cfg.Auth.SecureCookies)

	var csrfSecret []byte
	if cfg.Auth.CSRFSecret != "" {
		if len(cfg.Auth.CSRFSecret) != 32 {
			log.Fatalf("AUTH_CSRF_SECRET must be exactly 32 bytes, got %d", len(cfg.Auth.CSRFSecret))
		}
		csrfSecret = []byte(cfg.Auth.CSRFSecret)
	} else {
		log.Printf("WARNING: CSRF protection disabled. Set 'AUTH_CSRF_SECRET' to enable.")
	}

	maintenance := scheduler.NewMaintenanceScheduler(cfg.Scheduler, sessions, userRepo, taskClient, cfg.Audit.RetentionDays)
	if err := maintenance.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start maintenance scheduler: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:      db,
		AuthHandler:   authHandler,
		Sessions:      sessions,
		PostsRepo:     postsRepo,
		Audit:         auditService,
		Logger:        logger,
		CSRFSecret:    csrfSecret,
		SecureCookies: cfg.Auth.SecureCookies,
		Version:       version,
	})

	onShutdown := func(ctx context.Context) {
		maintenance.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
