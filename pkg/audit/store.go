package audit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store provides append-only operations for audit events.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new audit Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the audit_events table.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(&EventRecord{})
}

// Append creates a new immutable audit event record.
func (s *Store) Append(event *EventRecord) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if err := s.db.Create(event).Error; err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// List returns paginated audit events ordered by created_at DESC
// (newest first), optionally filtered by event type. pageToken is an
// RFC3339 timestamp; events with created_at < pageToken are returned.
func (s *Store) List(pageSize int, pageToken string, eventType string) ([]EventRecord, string, int, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	buildQuery := func() *gorm.DB {
		q := s.db.Model(&EventRecord{})
		if eventType != "" {
			q = q.Where("event_type = ?", eventType)
		}
		return q
	}

	var totalSize int64
	if err := buildQuery().Count(&totalSize).Error; err != nil {
		return nil, "", 0, fmt.Errorf("count audit events: %w", err)
	}

	query := buildQuery().Order("created_at DESC").Limit(pageSize + 1)
	if pageToken != "" {
		t, err := time.Parse(time.RFC3339Nano, pageToken)
		if err != nil {
			return nil, "", 0, fmt.Errorf("invalid page token: %w", err)
		}
		query = query.Where("created_at < ?", t)
	}

	var records []EventRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, "", 0, fmt.Errorf("list audit events: %w", err)
	}

	var nextToken string
	if len(records) > pageSize {
		nextToken = records[pageSize-1].CreatedAt.Format(time.RFC3339Nano)
		records = records[:pageSize]
	}

	return records, nextToken, int(totalSize), nil
}

// DeleteOlderThan deletes audit events created before the given cutoff.
// Returns the number of deleted records.
func (s *Store) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := s.db.Where("created_at < ?", cutoff).Delete(&EventRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete old audit events: %w", result.Error)
	}
	return result.RowsAffected, nil
}
