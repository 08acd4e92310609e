// Package scheduler runs the periodic maintenance jobs: pruning expired
// sessions, purging accounts that never verified their email and sweeping
// old audit events.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cyhdev/forums/internal/auth"
	"github.com/cyhdev/forums/internal/config"
	"github.com/cyhdev/forums/internal/database/users"
	"github.com/cyhdev/forums/internal/tasks"
)

// MaintenanceScheduler manages the recurring cleanup jobs.
type MaintenanceScheduler struct {
	cfg      config.Scheduler
	sessions *auth.SessionStore
	users    *users.Repository

	// taskClient may be nil; audit cleanup is skipped without a queue.
	taskClient    *tasks.Client
	retentionDays int

	cron       *cron.Cron
	mu         sync.Mutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewMaintenanceScheduler creates a scheduler instance. Jobs are registered
// on Start.
func NewMaintenanceScheduler(cfg config.Scheduler, sessions *auth.SessionStore, userRepo *users.Repository, taskClient *tasks.Client, retentionDays int) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		cfg:           cfg,
		sessions:      sessions,
		users:         userRepo,
		taskClient:    taskClient,
		retentionDays: retentionDays,
		cron:          cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start registers the jobs and begins the scheduler.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		log.Printf("Maintenance scheduler: disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.SessionPruneSchedule, s.pruneSessions); err != nil {
		return fmt.Errorf("invalid session prune schedule '%s': %w", s.cfg.SessionPruneSchedule, err)
	}
	if _, err := s.cron.AddFunc(s.cfg.UserPurgeSchedule, s.purgeUsers); err != nil {
		return fmt.Errorf("invalid user purge schedule '%s': %w", s.cfg.UserPurgeSchedule, err)
	}
	if s.taskClient != nil {
		// Daily sweep; the task queue handles retries.
		if _, err := s.cron.AddFunc("0 3 * * *", s.enqueueAuditCleanup); err != nil {
			return fmt.Errorf("failed to schedule audit cleanup: %w", err)
		}
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Maintenance scheduler: started (session prune '%s', user purge '%s')",
		s.cfg.SessionPruneSchedule, s.cfg.UserPurgeSchedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs to complete.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	log.Printf("Maintenance scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// pruneSessions drops every expired session from the in-memory store.
func (s *MaintenanceScheduler) pruneSessions() {
	pruned, remaining := s.sessions.PruneExpired(time.Now().UTC())
	log.Printf("Session prune: removed %d expired sessions, %d remaining", pruned, remaining)
}

// purgeUsers deletes accounts that never verified their email within the
// verification token lifetime. Their next signup starts from scratch.
func (s *MaintenanceScheduler) purgeUsers() {
	cutoff := time.Now().UTC().Add(-auth.EmailVerificationTokenTTL)
	purged, err := s.users.PurgeNonVerified(cutoff)
	if err != nil {
		log.Printf("User purge: failed: %v", err)
		return
	}
	log.Printf("User purge: removed %d non-verified users", purged)
}

// enqueueAuditCleanup hands the audit sweep to the task queue.
func (s *MaintenanceScheduler) enqueueAuditCleanup() {
	_, err := s.taskClient.Add(tasks.CleanupAuthEventsTask{RetentionDays: s.retentionDays}).
		Ctx(context.Background()).
		Save()
	if err != nil {
		log.Printf("Audit cleanup: failed to enqueue: %v", err)
	}
}
