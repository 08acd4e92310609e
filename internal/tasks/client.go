// Package tasks runs background work through a SQLite-backed queue. Email
// delivery and periodic cleanup happen here so HTTP handlers never wait on
// an SMTP relay.
package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"

	"github.com/cyhdev/forums/internal/config"
)

// Applied when the configuration leaves the matching field unset, so a
// zero-value config.Tasks still yields a working client.
const (
	defaultWorkers         = 2
	defaultReleaseAfter    = 15 * time.Minute
	defaultCleanupInterval = time.Hour
)

// Client owns the queue database and the backlite worker pool. Producers
// enqueue through Add; nothing runs until Start is called.
type Client struct {
	client *backlite.Client
	db     *sql.DB
	cfg    config.Tasks

	mu      sync.Mutex
	started bool
}

// NewClient opens the queue database and installs the backlite schema. The
// queue lives in its own file next to the main database (a "-tasks" suffix)
// so task churn never contends with the primary WAL.
func NewClient(mainDBPath string, cfg config.Tasks) (*Client, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.ReleaseAfter <= 0 {
		cfg.ReleaseAfter = defaultReleaseAfter
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaultCleanupInterval
	}

	db, err := sql.Open("sqlite3", queueDBPath(mainDBPath)+"?_journal=WAL&_timeout=5000&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open tasks database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Workers + 5)
	db.SetMaxIdleConns(cfg.Workers + 2)
	db.SetConnMaxLifetime(time.Hour)

	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          queueLogger{log: slog.Default()},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create backlite client: %w", err)
	}

	if err := client.Install(); err != nil {
		db.Close()
		return nil, fmt.Errorf("install backlite schema: %w", err)
	}

	return &Client{client: client, db: db, cfg: cfg}, nil
}

// queueDBPath derives the queue database path from the main one, e.g.
// ./forums.db becomes ./forums-tasks.db.
func queueDBPath(mainDBPath string) string {
	ext := filepath.Ext(mainDBPath)
	return strings.TrimSuffix(mainDBPath, ext) + "-tasks" + ext
}

// Register adds queues to the client. Every queue must be registered before
// Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.client.Register(q)
	}
}

// Start runs the worker pool until ctx is cancelled. It blocks, so callers
// run it in a goroutine; a second call is a no-op.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	slog.Info("task queue started", "workers", c.cfg.Workers)
	c.client.Start(ctx)
}

// Stop waits for in-flight tasks and reports whether they all finished
// before the context deadline.
func (c *Client) Stop(ctx context.Context) bool {
	c.mu.Lock()
	started := c.started
	c.mu.Unlock()
	if !started {
		return true
	}

	if ok := c.client.Stop(ctx); ok {
		slog.Info("task queue stopped")
		return true
	}
	slog.Warn("task queue stopped before all in-flight tasks completed")
	return false
}

// Close releases the queue database. Call after Stop.
func (c *Client) Close() error {
	return c.db.Close()
}

// Add begins an enqueue operation for one or more tasks; finish it with
// Save.
func (c *Client) Add(tasks ...backlite.Task) *backlite.TaskAddOp {
	return c.client.Add(tasks...)
}

// queueLogger adapts slog to backlite's printf-style logger.
type queueLogger struct {
	log *slog.Logger
}

func (l queueLogger) Info(message string, params ...any) {
	l.log.Info(fmt.Sprintf(message, params...), "component", "tasks")
}

func (l queueLogger) Error(message string, params ...any) {
	l.log.Error(fmt.Sprintf(message, params...), "component", "tasks")
}
