package scheduling

import "time"

// JobTemplate is the GORM model for a reusable ticket blueprint.
// Templates are never hard-deleted; retiring one sets active=false and
// deactivates every schedule that references it.
type JobTemplate struct {
	ID                    string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	Name                  string    `gorm:"column:name;not null"`
	Description           string    `gorm:"column:description"`
	SiteID                string    `gorm:"column:site_id;index;not null"`
	SiteOwnerCompanyID    string    `gorm:"column:site_owner_company_id;not null"`
	TicketType            string    `gorm:"column:ticket_type;not null;default:Job"`
	Priority              string    `gorm:"column:priority"`
	AssignedCompanyID     string    `gorm:"column:assigned_company_id;not null"`
	AssignedContactID     string    `gorm:"column:assigned_contact_id;not null"`
	SubjectTitle          string    `gorm:"column:subject_title;not null"`
	DescriptionTemplate   string    `gorm:"column:description_template"`
	EstimatedDurationDays int       `gorm:"column:estimated_duration_days;not null;default:0"`
	Active                bool      `gorm:"column:active;index;not null"`
	CreatedBy             string    `gorm:"column:created_by"`
	CreatedAt             time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (JobTemplate) TableName() string { return "job_templates" }

// JobSchedule is the GORM model for a recurrence rule bound to one
// template. NextDueDate is the schedule's cursor: only the generation
// engine advances it, and only after the corresponding ticket and
// instance have been committed.
type JobSchedule struct {
	ID                string        `gorm:"primaryKey;column:id;type:varchar(36)"`
	JobTemplateID     string        `gorm:"column:job_template_id;index;not null"`
	Name              string        `gorm:"column:name;not null"`
	FrequencyType     FrequencyType `gorm:"column:frequency_type;not null"`
	FrequencyValue    int           `gorm:"column:frequency_value"`
	StartDate         time.Time     `gorm:"column:start_date;not null"`
	EndDate           *time.Time    `gorm:"column:end_date"`
	AdvanceNoticeDays int           `gorm:"column:advance_notice_days;not null;default:0"`
	NextDueDate       time.Time     `gorm:"column:next_due_date;index;not null"`
	Active            bool          `gorm:"column:active;index;not null"`
	CreatedBy         string        `gorm:"column:created_by"`
	CreatedAt         time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

func (JobSchedule) TableName() string { return "job_schedules" }

// InstanceStatus tracks the lifecycle of a generated instance. The
// engine only ever writes "created"; completed and cancelled mirror the
// linked ticket and are written by the status sync, not the engine.
type InstanceStatus string

const (
	InstanceCreated   InstanceStatus = "created"
	InstanceCompleted InstanceStatus = "completed"
	InstanceCancelled InstanceStatus = "cancelled"
)

// ScheduledJobInstance records one firing of a schedule and the ticket
// it produced. The composite unique index on (schedule id, due date) is
// the authoritative duplicate-prevention mechanism: even if two
// generation passes race, only one insert per period can succeed.
type ScheduledJobInstance struct {
	ID            string         `gorm:"primaryKey;column:id;type:varchar(36)"`
	JobScheduleID string         `gorm:"column:job_schedule_id;uniqueIndex:idx_instance_schedule_due,priority:1;not null"`
	TicketID      string         `gorm:"column:ticket_id;index"`
	DueDate       time.Time      `gorm:"column:due_date;uniqueIndex:idx_instance_schedule_due,priority:2;not null"`
	CreatedDate   time.Time      `gorm:"column:created_date;not null"`
	Status        InstanceStatus `gorm:"column:status;not null;default:created"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (ScheduledJobInstance) TableName() string { return "scheduled_job_instances" }

// TemplateRow is a template joined with reference-data display names.
type TemplateRow struct {
	JobTemplate
	SiteName             string `gorm:"column:site_name"`
	SiteOwnerCompanyName string `gorm:"column:site_owner_company_name"`
	AssignedCompanyName  string `gorm:"column:assigned_company_name"`
	AssignedContactName  string `gorm:"column:assigned_contact_name"`
}

// ScheduleRow is a schedule joined with its template's name.
type ScheduleRow struct {
	JobSchedule
	TemplateName string `gorm:"column:template_name"`
}

// InstanceRow is an instance joined with schedule, template, and ticket
// details for reporting.
type InstanceRow struct {
	ScheduledJobInstance
	ScheduleName  string `gorm:"column:schedule_name"`
	TemplateName  string `gorm:"column:template_name"`
	TicketNumber  string `gorm:"column:ticket_number"`
	TicketSubject string `gorm:"column:ticket_subject"`
	TicketStatus  string `gorm:"column:ticket_status"`
}
