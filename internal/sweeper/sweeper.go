package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/abdouthematrix/westcairostars/internal/directory"
)

// ExpiringCache drops entries whose TTL has elapsed and reports how many.
type ExpiringCache interface {
	Sweep() int
}

// DirectoryWarmer reloads the directory when its snapshot has gone stale.
type DirectoryWarmer interface {
	Snapshot(ctx context.Context) (*directory.Snapshot, error)
}

// Sweeper periodically evicts expired score cache entries and keeps the
// directory snapshot warm so leaderboard requests do not pay for a reload.
type Sweeper struct {
	scores    ExpiringCache
	directory DirectoryWarmer
	interval  time.Duration
}

// New creates a new Sweeper. directory may be nil.
func New(scores ExpiringCache, dir DirectoryWarmer, interval time.Duration) *Sweeper {
	return &Sweeper{
		scores:    scores,
		directory: dir,
		interval:  interval,
	}
}

// Start begins the sweep loop. It blocks until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	slog.Info("sweeper started", "interval", s.interval.String())
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if n := s.scores.Sweep(); n > 0 {
		slog.Debug("sweeper: evicted expired score entries", "count", n)
	}

	if s.directory == nil || ctx.Err() != nil {
		return
	}
	if _, err := s.directory.Snapshot(ctx); err != nil {
		slog.Warn("sweeper: failed to refresh directory", "error", err)
	}
}
