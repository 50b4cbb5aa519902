// Package audit records an append-only trail of the mutating
// operations administrators perform (template/schedule changes,
// generation triggers) for operator visibility.
package audit

import "time"

// Event kinds.
const (
	EventTemplateCreated  = "template.created"
	EventTemplateUpdated  = "template.updated"
	EventScheduleCreated  = "schedule.created"
	EventScheduleUpdated  = "schedule.updated"
	EventGenerationRun    = "generation.run"
	EventInstanceStatuses = "instances.synced"
)

// EventRecord is the GORM model for one audit event. Records are
// immutable once written.
type EventRecord struct {
	ID         string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	Actor      string    `gorm:"column:actor;index"`
	EventType  string    `gorm:"column:event_type;index;not null"`
	ResourceID string    `gorm:"column:resource_id;index"`
	Detail     string    `gorm:"column:detail"`
	CreatedAt  time.Time `gorm:"column:created_at;index;autoCreateTime"`
}

func (EventRecord) TableName() string { return "audit_events" }
