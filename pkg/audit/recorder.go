package audit

import "log/slog"

// Recorder is the write-side facade handlers use. A nil Recorder (or a
// disabled config) records nothing, so callers never need to guard.
type Recorder struct {
	store  *Store
	cfg    *Config
	logger *slog.Logger
}

// NewRecorder creates a Recorder.
func NewRecorder(store *Store, cfg *Config, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: store, cfg: cfg, logger: logger}
}

// Record appends one audit event. Failures are logged, never surfaced:
// an audit hiccup must not fail the operation it describes.
func (r *Recorder) Record(actor, eventType, resourceID, detail string) {
	if r == nil || r.store == nil || (r.cfg != nil && !r.cfg.Enabled) {
		return
	}
	err := r.store.Append(&EventRecord{
		Actor:      actor,
		EventType:  eventType,
		ResourceID: resourceID,
		Detail:     detail,
	})
	if err != nil {
		r.logger.Error("failed to record audit event", "eventType", eventType, "error", err)
	}
}
