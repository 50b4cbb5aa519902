package scheduling

import (
	"context"
	"log/slog"
	"time"
)

// Worker runs generation passes on a timer. Deployments that trigger
// generation externally (cron, operator button) disable it via config;
// the engine tolerates both firing.
//
// The engine generates one ticket per due schedule per pass and does
// not catch up skipped periods, so the interval should not exceed the
// shortest schedule frequency.
type Worker struct {
	engine    *Engine
	instances *InstanceStore
	cfg       *Config
	logger    *slog.Logger
}

// NewWorker creates a generation worker.
func NewWorker(engine *Engine, instances *InstanceStore, cfg *Config, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		engine:    engine,
		instances: instances,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run starts the worker loop. It blocks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if !w.cfg.Enabled {
		w.logger.Info("generation worker disabled")
		return
	}

	w.logger.Info("generation worker starting",
		"interval", w.cfg.Interval.String(),
		"runOnStart", w.cfg.RunOnStart)

	if w.cfg.RunOnStart {
		w.pass(ctx)
	}

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("generation worker stopped")
			return
		case <-ticker.C:
			w.pass(ctx)
		}
	}
}

// pass runs one generation pass followed by an instance status sync.
func (w *Worker) pass(ctx context.Context) {
	created, err := w.engine.GenerateDueTickets(ctx, time.Time{})
	if err != nil {
		w.logger.Error("generation pass failed", "error", err, "created", created)
	}

	synced, err := w.instances.SyncStatuses()
	if err != nil {
		w.logger.Error("instance status sync failed", "error", err)
	} else if synced > 0 {
		w.logger.Info("synced instance statuses", "updated", synced)
	}
}
