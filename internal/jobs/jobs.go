// Package jobs runs the notification sweep and cleanup on a cron schedule
// inside the server process.
package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"alcyxob/plants-manager/internal/config"
	"alcyxob/plants-manager/internal/service"

	"github.com/robfig/cron/v3"
)

// jobTimeout bounds a single run so a stuck store call does not pile up runs.
const jobTimeout = 5 * time.Minute

type Scheduler struct {
	cron          *cron.Cron
	notifications service.NotificationService
	retentionDays int
	now           service.Clock
}

// NewScheduler registers the sweep and cleanup entries. Specs use the
// standard five-field cron format and are evaluated in UTC.
func NewScheduler(cfg config.JobsConfig, retentionDays int, notifications service.NotificationService, now service.Clock) (*Scheduler, error) {
	if now == nil {
		now = service.SystemClock
	}
	s := &Scheduler{
		cron:          cron.New(cron.WithLocation(time.UTC)),
		notifications: notifications,
		retentionDays: retentionDays,
		now:           now,
	}
	if _, err := s.cron.AddFunc(cfg.SweepCron, s.Sweep); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", cfg.SweepCron, err)
	}
	if _, err := s.cron.AddFunc(cfg.CleanupCron, s.Cleanup); err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", cfg.CleanupCron, err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	log.Printf("INFO: Job scheduler started with %d entries", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop prevents new runs and waits for running ones until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		log.Println("INFO: Job scheduler stopped")
	case <-ctx.Done():
		log.Println("WARN: Job scheduler stop timed out with jobs still running")
	}
}

// Sweep runs the notification sweep for the current day.
func (s *Scheduler) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.notifications.RunSweep(ctx, s.now()); err != nil {
		log.Printf("ERROR: Notification sweep failed: %v", err)
	}
}

// Cleanup removes read notifications past the retention window.
func (s *Scheduler) Cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.notifications.RunCleanup(ctx, s.retentionDays); err != nil {
		log.Printf("ERROR: Notification cleanup failed: %v", err)
	}
}
