package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"rulehub/models"
)

// Syncer runs one synchronization pass against the rule source.
type Syncer interface {
	Run(ctx context.Context, opts models.SyncOptions) (*models.SyncResult, error)
}

// Scheduler triggers periodic rule syncs on a fixed interval.
type Scheduler struct {
	syncer   Syncer
	interval time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(syncer Syncer, interval time.Duration) *Scheduler {
	return &Scheduler{syncer: syncer, interval: interval}
}

// Start launches the background loop. The first sync runs one full
// interval after start, not immediately.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx)

	slog.Info("Sync scheduler started", "interval", s.interval)
}

// Stop cancels the loop and waits for any in-flight sync to finish.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
	slog.Info("Sync scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	result, err := s.syncer.Run(ctx, models.SyncOptions{Trigger: models.SyncScheduled})
	if err != nil {
		slog.Error("Scheduled sync failed", "error", err)
		return
	}

	slog.Info("Scheduled sync completed",
		"added", result.Added,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"deleted", result.Deleted,
		"errors", len(result.Errors))
}
