package core

// scheduler.go keeps the record cache fresh by reloading the feed on a fixed
// interval. A failed reload is logged and the previous records stay in use;
// the next tick simply tries again.

import (
	"context"
	"log/slog"
	"time"
)

// StartRefreshScheduler reloads the feed every interval until ctx is
// cancelled. It does not load immediately; callers do the first load
// themselves. A non-positive interval disables the scheduler.
func (s *Service) StartRefreshScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		slog.Info("refresh scheduler disabled")
		return
	}
	slog.Info("refresh scheduler started", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh scheduler stopped")
			return
		case <-ticker.C:
			s.runRefreshJob(ctx)
		}
	}
}

// runRefreshJob performs one scheduled reload.
func (s *Service) runRefreshJob(ctx context.Context) {
	slog.Debug("refresh job started")
	start := time.Now()

	n, err := s.Reload(ctx)
	if err != nil {
		// Reload already logged the failure with its details.
		slog.Warn("refresh job failed", "duration_ms", time.Since(start).Milliseconds())
		return
	}

	slog.Debug("refresh job completed",
		"records", n,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
