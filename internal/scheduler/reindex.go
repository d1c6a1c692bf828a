package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/librarian/internal/config"
)

// TaskEnqueuer is the subset of the task client the scheduler needs.
type TaskEnqueuer interface {
	EnqueueReindex() error
	EnqueueActivityCleanup(retentionDays int) error
}

// ReindexScheduler periodically enqueues a full index rebuild. The rebuild
// itself runs on the task queue, so a slow rebuild never blocks the cron
// loop. The same tick also enqueues the activity log cleanup.
type ReindexScheduler struct {
	cfg      config.Reindex
	activity config.Activity
	enqueuer TaskEnqueuer

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewReindexScheduler creates a new scheduler instance.
func NewReindexScheduler(cfg config.Reindex, activity config.Activity, enqueuer TaskEnqueuer) *ReindexScheduler {
	return &ReindexScheduler{
		cfg:      cfg,
		activity: activity,
		enqueuer: enqueuer,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if scheduled reindexing is enabled.
func (s *ReindexScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		log.Printf("Reindex scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.runMaintenance()
	})
	if err != nil {
		return fmt.Errorf("invalid reindex schedule '%s': %w", s.cfg.Schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Reindex scheduler: started with schedule '%s'", s.cfg.Schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *ReindexScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Reindex scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *ReindexScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next scheduled reindex will occur.
func (s *ReindexScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runMaintenance enqueues the nightly maintenance tasks.
func (s *ReindexScheduler) runMaintenance() {
	if err := s.enqueuer.EnqueueReindex(); err != nil {
		log.Printf("Reindex scheduler: failed to enqueue reindex: %v", err)
	}
	if s.activity.RetentionDays > 0 {
		if err := s.enqueuer.EnqueueActivityCleanup(s.activity.RetentionDays); err != nil {
			log.Printf("Reindex scheduler: failed to enqueue activity cleanup: %v", err)
		}
	}
}
