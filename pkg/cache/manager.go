package cache

import "net/http"

// Manager holds separate caches for the scheduling list endpoints and
// the ticket list endpoints, so a ticket status change does not have to
// clear cached template lists. All methods are safe on a nil Manager,
// which behaves as a disabled cache.
type Manager struct {
	scheduling *LRUCache
	tickets    *LRUCache
}

// NewManager creates a Manager from cfg. A nil or disabled config
// returns nil.
func NewManager(cfg *Config) *Manager {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	return &Manager{
		scheduling: NewLRUCache(cfg.MaxSize, cfg.TTL),
		tickets:    NewLRUCache(cfg.MaxSize, cfg.TTL),
	}
}

// SchedulingMiddleware caches template, schedule, and instance reads.
func (m *Manager) SchedulingMiddleware() func(http.Handler) http.Handler {
	if m == nil {
		return passthrough
	}
	return Middleware(m.scheduling)
}

// TicketsMiddleware caches ticket reads.
func (m *Manager) TicketsMiddleware() func(http.Handler) http.Handler {
	if m == nil {
		return passthrough
	}
	return Middleware(m.tickets)
}

// InvalidateScheduling clears the scheduling caches. Ticket caches are
// untouched.
func (m *Manager) InvalidateScheduling() {
	if m == nil {
		return
	}
	m.scheduling.InvalidateAll()
}

// InvalidateTickets clears the ticket caches and the scheduling caches,
// since instance listings embed ticket status.
func (m *Manager) InvalidateTickets() {
	if m == nil {
		return
	}
	m.tickets.InvalidateAll()
	m.scheduling.InvalidateAll()
}

func passthrough(next http.Handler) http.Handler { return next }
