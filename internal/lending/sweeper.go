package lending

import (
	"context"
	"log/slog"
	"time"
)

// RunOverdueSweeper periodically re-derives the overdue flag on every active
// loan. It blocks until the context is cancelled; run it on its own goroutine.
func RunOverdueSweeper(context context.Context, service *Service, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if changed := service.RecomputeOverdue(context); changed > 0 {
				logger.Info("overdue_sweep_completed", slog.Int("loans_flagged", changed))
			}
		case <-context.Done():
			logger.Info("overdue_sweeper_stopped")
			return
		}
	}
}
