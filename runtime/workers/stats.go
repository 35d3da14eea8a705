package workers

import (
	"churn-bot/observability"
	"context"
	"log/slog"
	"time"
)

// StatsWorker logs the session counters and process usage periodically.
type StatsWorker struct {
	log      *slog.Logger
	stats    *observability.SessionStats
	active   func() int
	interval time.Duration
}

func NewStatsWorker(log *slog.Logger, stats *observability.SessionStats, active func() int, interval time.Duration) *StatsWorker {
	return &StatsWorker{log: log, stats: stats, active: active, interval: interval}
}

func (w *StatsWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s := w.stats.Snapshot(w.active())
			w.log.Info("Session stats",
				"active", s.ActiveSessions,
				"started", s.Started,
				"completed", s.Completed,
				"cancelled", s.Cancelled,
				"failed", s.Failed,
				"ram_bytes", s.RamBytes,
				"cpu_percent", s.CpuPercent)
		}
	}
}
