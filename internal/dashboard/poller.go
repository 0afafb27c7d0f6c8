package dashboard

import (
	"context"
	"log/slog"
	"time"
)

// StartAutoRefresh periodically reloads the active view so the dashboard
// stays current without manual refreshes. Blocks until ctx is cancelled;
// intended to be called with `go`. A non-positive interval disables it.
func StartAutoRefresh(ctx context.Context, s *Store, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Auto-refresh started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Reload(ctx); err != nil {
				logger.Warn("auto-refresh reload failed", "view", s.ActiveView(), "error", err)
			}
		case <-ctx.Done():
			logger.Info("Auto-refresh stopped")
			return
		}
	}
}
