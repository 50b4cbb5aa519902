package scheduling

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScheduleStore provides database operations for job schedules.
type ScheduleStore struct {
	db        *gorm.DB
	templates *TemplateStore
}

// NewScheduleStore creates a new ScheduleStore.
func NewScheduleStore(db *gorm.DB, templates *TemplateStore) *ScheduleStore {
	return &ScheduleStore{db: db, templates: templates}
}

// AutoMigrate creates or updates the job_schedules table.
func (s *ScheduleStore) AutoMigrate() error {
	return s.db.AutoMigrate(&JobSchedule{})
}

// Create validates and inserts a schedule. The referenced template must
// exist and be active. When no next due date is supplied the initial
// cursor is computed from the start date with the frequency calculator;
// a supplied cursor must not precede the start date.
func (s *ScheduleStore) Create(sched *JobSchedule) (*JobSchedule, error) {
	if sched.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}
	if sched.StartDate.IsZero() {
		return nil, &ValidationError{Field: "startDate", Reason: "required"}
	}
	if !ValidFrequency(sched.FrequencyType) {
		return nil, &ValidationError{Field: "frequencyType", Reason: "unknown frequency type"}
	}
	if sched.FrequencyType == FrequencyCustom && sched.FrequencyValue < 1 {
		return nil, &ValidationError{Field: "frequencyValue", Reason: ErrInvalidFrequencyValue.Error()}
	}
	if sched.AdvanceNoticeDays < 0 {
		return nil, &ValidationError{Field: "advanceNoticeDays", Reason: "must not be negative"}
	}

	tmpl, err := s.templates.Get(sched.JobTemplateID)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			return nil, &ValidationError{Field: "jobTemplateId", Reason: "template does not exist"}
		}
		return nil, err
	}
	if !tmpl.Active {
		return nil, &ValidationError{Field: "jobTemplateId", Reason: "template is inactive"}
	}

	sched.StartDate = dateOnly(sched.StartDate)
	if sched.EndDate != nil {
		end := dateOnly(*sched.EndDate)
		sched.EndDate = &end
		if !end.After(sched.StartDate) {
			return nil, &ValidationError{Field: "endDate", Reason: "must be after start date"}
		}
	}

	if sched.NextDueDate.IsZero() {
		next, err := NextDueDate(sched.StartDate, sched.FrequencyType, sched.FrequencyValue)
		if err != nil {
			return nil, &ValidationError{Field: "frequencyValue", Reason: err.Error()}
		}
		sched.NextDueDate = next
	} else {
		sched.NextDueDate = dateOnly(sched.NextDueDate)
		if sched.NextDueDate.Before(sched.StartDate) {
			return nil, &ValidationError{Field: "nextDueDate", Reason: "must not precede start date"}
		}
	}

	if sched.ID == "" {
		sched.ID = uuid.New().String()
	}

	if err := s.db.Create(sched).Error; err != nil {
		return nil, fmt.Errorf("create job schedule: %w", err)
	}
	return sched, nil
}

// ScheduleUpdate is a partial update. Nil fields are left unchanged;
// ClearEndDate removes the end date entirely (a form submitting an
// empty end date means "no end date", never an invalid date).
//
// Changing frequency fields does NOT recompute the next due date: the
// cursor only moves when the engine fires the schedule. Operators who
// need the cursor moved set NextDueDate explicitly.
type ScheduleUpdate struct {
	Name              *string
	FrequencyType     *FrequencyType
	FrequencyValue    *int
	StartDate         *time.Time
	EndDate           *time.Time
	ClearEndDate      bool
	AdvanceNoticeDays *int
	NextDueDate       *time.Time
	Active            *bool
}

// Update merges the partial update onto the stored schedule.
func (s *ScheduleStore) Update(id string, upd ScheduleUpdate) (*JobSchedule, error) {
	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		if *upd.Name == "" {
			return nil, &ValidationError{Field: "name", Reason: "required"}
		}
		existing.Name = *upd.Name
	}
	if upd.FrequencyType != nil {
		if !ValidFrequency(*upd.FrequencyType) {
			return nil, &ValidationError{Field: "frequencyType", Reason: "unknown frequency type"}
		}
		existing.FrequencyType = *upd.FrequencyType
	}
	if upd.FrequencyValue != nil {
		existing.FrequencyValue = *upd.FrequencyValue
	}
	if existing.FrequencyType == FrequencyCustom && existing.FrequencyValue < 1 {
		return nil, &ValidationError{Field: "frequencyValue", Reason: ErrInvalidFrequencyValue.Error()}
	}
	if upd.StartDate != nil {
		existing.StartDate = dateOnly(*upd.StartDate)
	}
	if upd.ClearEndDate {
		existing.EndDate = nil
	} else if upd.EndDate != nil {
		end := dateOnly(*upd.EndDate)
		existing.EndDate = &end
	}
	if existing.EndDate != nil && !existing.EndDate.After(existing.StartDate) {
		return nil, &ValidationError{Field: "endDate", Reason: "must be after start date"}
	}
	if upd.AdvanceNoticeDays != nil {
		if *upd.AdvanceNoticeDays < 0 {
			return nil, &ValidationError{Field: "advanceNoticeDays", Reason: "must not be negative"}
		}
		existing.AdvanceNoticeDays = *upd.AdvanceNoticeDays
	}
	if upd.NextDueDate != nil {
		existing.NextDueDate = dateOnly(*upd.NextDueDate)
	}
	// The cursor must never precede the start date, whichever of the
	// two fields this update moved.
	if existing.NextDueDate.Before(existing.StartDate) {
		if upd.NextDueDate != nil {
			return nil, &ValidationError{Field: "nextDueDate", Reason: "must not precede start date"}
		}
		return nil, &ValidationError{Field: "startDate", Reason: "must not exceed next due date"}
	}
	if upd.Active != nil {
		existing.Active = *upd.Active
	}

	if err := s.db.Save(existing).Error; err != nil {
		return nil, fmt.Errorf("update job schedule: %w", err)
	}
	return existing, nil
}

// Get retrieves a schedule by ID.
func (s *ScheduleStore) Get(id string) (*JobSchedule, error) {
	var sched JobSchedule
	if err := s.db.First(&sched, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("get job schedule: %w", err)
	}
	return &sched, nil
}

// List returns schedules joined with their template name, newest
// first. Inactive schedules are excluded unless includeInactive is set.
func (s *ScheduleStore) List(includeInactive bool) ([]ScheduleRow, error) {
	q := s.db.Table("job_schedules").
		Select("job_schedules.*, job_templates.name AS template_name").
		Joins("JOIN job_templates ON job_templates.id = job_schedules.job_template_id").
		Order("job_schedules.created_at DESC")
	if !includeInactive {
		q = q.Where("job_schedules.active = ?", true)
	}

	var rows []ScheduleRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list job schedules: %w", err)
	}
	return rows, nil
}

// ListActive returns every active schedule, for the generation engine.
func (s *ScheduleStore) ListActive() ([]JobSchedule, error) {
	var scheds []JobSchedule
	if err := s.db.Where("active = ?", true).Order("next_due_date ASC").Find(&scheds).Error; err != nil {
		return nil, fmt.Errorf("list active schedules: %w", err)
	}
	return scheds, nil
}

// Deactivate turns a schedule off without touching its cursor.
func (s *ScheduleStore) Deactivate(id string) error {
	result := s.db.Model(&JobSchedule{}).Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		return fmt.Errorf("deactivate schedule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

// dateOnly truncates a timestamp to midnight UTC. Schedule dates are
// calendar dates; keeping them normalized makes cursor comparisons and
// the (schedule, due date) uniqueness well defined.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
