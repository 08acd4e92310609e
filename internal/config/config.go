package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		Audit
		Scheduler
		Tasks
		SMTP
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Auth struct {
		SessionLifetime time.Duration
		CSRFSecret      string // Enables CSRF protection when set; must be 32 bytes
		SecureCookies   bool   // Set to false for local dev without HTTPS
	}
	Audit struct {
		RetentionDays int // Days to keep auth events (default: 90)
	}
	Scheduler struct {
		Enabled              bool
		SessionPruneSchedule string // Cron format: "45 * * * *" = hourly at :45
		UserPurgeSchedule    string // Cron format: "15 * * * *" = hourly at :15
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration // When stuck tasks are released back to the queue
		CleanupInterval time.Duration // How often completed tasks are swept
	}
	SMTP struct {
		Host     string // Empty disables SMTP; emails go to the log instead
		Port     int
		Username string
		Password string
		From     string
		BaseURL  string // Public base URL used in email links
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Auth defaults
	v.SetDefault("auth_session_lifetime", "1h")
	v.SetDefault("auth_csrf_secret", "") // CSRF disabled when empty
	v.SetDefault("auth_secure_cookies", true)

	v.SetDefault("audit_retention_days", 90)

	// Scheduler defaults
	v.SetDefault("scheduler_enabled", true)
	v.SetDefault("session_prune_schedule", "45 * * * *")
	v.SetDefault("user_purge_schedule", "15 * * * *")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// SMTP defaults
	v.SetDefault("smtp_host", "")
	v.SetDefault("smtp_port", 587)
	v.SetDefault("smtp_username", "")
	v.SetDefault("smtp_password", "")
	v.SetDefault("smtp_from", DefaultMailFrom)
	v.SetDefault("smtp_base_url", "http://localhost:8188")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Auth: Auth{
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			CSRFSecret:      v.GetString("AUTH_CSRF_SECRET"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Scheduler: Scheduler{
			Enabled:              v.GetBool("SCHEDULER_ENABLED"),
			SessionPruneSchedule: v.GetString("SESSION_PRUNE_SCHEDULE"),
			UserPurgeSchedule:    v.GetString("USER_PURGE_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		SMTP: SMTP{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
			BaseURL:  v.GetString("SMTP_BASE_URL"),
		},
	}
}
