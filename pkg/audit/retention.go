package audit

import (
	"context"
	"log/slog"
	"time"
)

// RetentionWorker periodically deletes audit events older than the
// configured retention window. It runs daily.
type RetentionWorker struct {
	store     *Store
	retention time.Duration
	interval  time.Duration
	logger    *slog.Logger
}

// NewRetentionWorker creates a RetentionWorker keeping retentionDays of events.
func NewRetentionWorker(store *Store, retentionDays int, logger *slog.Logger) *RetentionWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetentionWorker{
		store:     store,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		interval:  24 * time.Hour,
		logger:    logger,
	}
}

// Run starts the retention worker. It runs until the context is cancelled.
func (w *RetentionWorker) Run(ctx context.Context) {
	if w.store == nil || w.retention <= 0 {
		w.logger.Info("audit retention worker disabled")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("audit retention worker started",
		"retentionDays", int(w.retention.Hours()/24))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("audit retention worker stopped")
			return
		case <-ticker.C:
			w.cleanup()
		}
	}
}

func (w *RetentionWorker) cleanup() {
	cutoff := time.Now().Add(-w.retention)
	deleted, err := w.store.DeleteOlderThan(cutoff)
	if err != nil {
		w.logger.Error("audit retention cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		w.logger.Info("deleted old audit events", "count", deleted)
	}
}
