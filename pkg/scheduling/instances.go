package scheduling

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// InstanceStore provides database operations for scheduled job
// instances. Instances are append-only: they are created by the engine
// and never deleted; only their status moves.
type InstanceStore struct {
	db *gorm.DB
}

// NewInstanceStore creates a new InstanceStore.
func NewInstanceStore(db *gorm.DB) *InstanceStore {
	return &InstanceStore{db: db}
}

// AutoMigrate creates or updates the scheduled_job_instances table,
// including the unique (schedule id, due date) index.
func (s *InstanceStore) AutoMigrate() error {
	return s.db.AutoMigrate(&ScheduledJobInstance{})
}

// ExistsFor reports whether an instance already exists for the given
// schedule and due date. The engine uses this as its idempotence check;
// the unique index remains the authoritative guard under races.
func (s *InstanceStore) ExistsFor(scheduleID string, dueDate time.Time) (bool, error) {
	var count int64
	err := s.db.Model(&ScheduledJobInstance{}).
		Where("job_schedule_id = ? AND due_date = ?", scheduleID, dateOnly(dueDate)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check instance existence: %w", err)
	}
	return count > 0, nil
}

// List returns all instances joined with schedule name, template name,
// and linked ticket details, ordered by due date descending.
func (s *InstanceStore) List() ([]InstanceRow, error) {
	var rows []InstanceRow
	err := s.db.Table("scheduled_job_instances").
		Select(`scheduled_job_instances.*,
			job_schedules.name AS schedule_name,
			job_templates.name AS template_name,
			tickets.ticket_number AS ticket_number,
			tickets.subject AS ticket_subject,
			tickets.status AS ticket_status`).
		Joins("JOIN job_schedules ON job_schedules.id = scheduled_job_instances.job_schedule_id").
		Joins("JOIN job_templates ON job_templates.id = job_schedules.job_template_id").
		Joins("LEFT JOIN tickets ON tickets.id = scheduled_job_instances.ticket_id").
		Order("scheduled_job_instances.due_date DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list scheduled job instances: %w", err)
	}
	return rows, nil
}

// SyncStatuses mirrors terminal ticket states onto instances: a
// resolved or closed ticket completes its instance, a cancelled ticket
// cancels it. The engine never touches instance status after creation;
// this runs out-of-band (worker tick or on demand). Returns the number
// of instances updated.
func (s *InstanceStore) SyncStatuses() (int64, error) {
	var total int64

	done := s.db.Exec(`UPDATE scheduled_job_instances SET status = ?
		WHERE status = ? AND ticket_id IN (SELECT id FROM tickets WHERE status IN (?, ?))`,
		InstanceCompleted, InstanceCreated, "resolved", "closed")
	if done.Error != nil {
		return 0, fmt.Errorf("sync completed instances: %w", done.Error)
	}
	total += done.RowsAffected

	cancelled := s.db.Exec(`UPDATE scheduled_job_instances SET status = ?
		WHERE status = ? AND ticket_id IN (SELECT id FROM tickets WHERE status = ?)`,
		InstanceCancelled, InstanceCreated, "cancelled")
	if cancelled.Error != nil {
		return 0, fmt.Errorf("sync cancelled instances: %w", cancelled.Error)
	}
	total += cancelled.RowsAffected

	return total, nil
}

// insertInTx creates an instance inside the caller's transaction. The
// engine pairs this with the cursor advance so either both commit or
// neither does.
func insertInTx(tx *gorm.DB, inst *ScheduledJobInstance) error {
	if err := tx.Create(inst).Error; err != nil {
		return fmt.Errorf("insert scheduled job instance: %w", err)
	}
	return nil
}
