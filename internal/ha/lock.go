// Package ha provides cross-replica serialization primitives. Schema
// migration and the ticket generation pass both run under a named lock
// so that multiple server replicas (or a timer racing a manual trigger)
// never execute the same critical section concurrently.
package ha

import (
	"context"
	"fmt"
	"hash/crc32"
	"os"
	"time"

	"gorm.io/gorm"
)

// Locker serializes a named critical section across replicas.
type Locker interface {
	// WithLock executes fn while holding the lock. It blocks until the
	// lock is acquired, then releases it after fn returns.
	WithLock(ctx context.Context, fn func() error) error
}

// NewLocker creates a Locker for the given lock name, appropriate for
// the database dialect. PostgreSQL uses advisory locks; other databases
// use a table-based fallback. The lock table is created immediately for
// the fallback strategy.
func NewLocker(db *gorm.DB, name string) Locker {
	if db == nil {
		return &noopLock{}
	}
	if db.Dialector.Name() == "postgres" {
		return &pgAdvisoryLock{
			db:     db,
			lockID: int64(crc32.ChecksumIEEE([]byte("boom-power-" + name))),
		}
	}
	lock := &fallbackLock{db: db, name: name}
	// Create the lock table immediately so that concurrent callers never
	// hit "no such table" errors on their first WithLock call.
	_ = db.AutoMigrate(&lockRecord{})
	return lock
}

// noopLock is used when no database is configured.
type noopLock struct{}

func (n *noopLock) WithLock(_ context.Context, fn func() error) error {
	return fn()
}

// pgAdvisoryLock uses PostgreSQL advisory locks.
type pgAdvisoryLock struct {
	db     *gorm.DB
	lockID int64
}

func (l *pgAdvisoryLock) WithLock(ctx context.Context, fn func() error) error {
	if err := l.db.WithContext(ctx).Exec("SELECT pg_advisory_lock(?)", l.lockID).Error; err != nil {
		return fmt.Errorf("failed to acquire advisory lock: %w", err)
	}

	defer func() {
		_ = l.db.Exec("SELECT pg_advisory_unlock(?)", l.lockID).Error
	}()

	return fn()
}

// lockRecord is the table-based lock row for non-PostgreSQL databases.
type lockRecord struct {
	Name     string    `gorm:"primaryKey;column:name"`
	LockedAt time.Time `gorm:"column:locked_at"`
	LockedBy string    `gorm:"column:locked_by"`
}

func (lockRecord) TableName() string { return "run_locks" }

// fallbackLock uses a database table for locking on non-PostgreSQL
// databases (SQLite, MySQL). It uses INSERT-or-fail semantics to ensure
// only one holder at a time, with stale lock cleanup for crash recovery.
type fallbackLock struct {
	db   *gorm.DB
	name string
}

func (l *fallbackLock) WithLock(ctx context.Context, fn func() error) error {
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}

	row := lockRecord{
		Name:     l.name,
		LockedBy: hostname,
	}

	const maxRetries = 30
	const retryInterval = 1 * time.Second
	const staleLockAge = 5 * time.Minute

	acquired := false
	for i := 0; i < maxRetries; i++ {
		// Delete stale locks (older than staleLockAge) to handle crash recovery.
		l.db.WithContext(ctx).Where("name = ? AND locked_at < ?", l.name, time.Now().Add(-staleLockAge)).Delete(&lockRecord{})

		row.LockedAt = time.Now()

		// Try to insert (fails if row already exists).
		result := l.db.WithContext(ctx).Create(&row)
		if result.Error == nil {
			acquired = true
			break
		}

		if i == maxRetries-1 {
			return fmt.Errorf("failed to acquire lock %q after %d retries: %w", l.name, maxRetries, result.Error)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}

	if !acquired {
		return fmt.Errorf("failed to acquire lock %q", l.name)
	}

	defer func() {
		l.db.Where("name = ?", l.name).Delete(&lockRecord{})
	}()

	return fn()
}
