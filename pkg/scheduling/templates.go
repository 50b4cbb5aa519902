package scheduling

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BenFNash/boom-power/pkg/reference"
)

// TicketTypeJob is the only ticket type a template may carry. Fault
// tickets are raised by people, not by schedules.
const TicketTypeJob = "Job"

// TemplateStore provides database operations for job templates.
type TemplateStore struct {
	db   *gorm.DB
	refs *reference.Store
}

// NewTemplateStore creates a new TemplateStore. Reference data is used
// to validate site, company, and contact references on writes.
func NewTemplateStore(db *gorm.DB, refs *reference.Store) *TemplateStore {
	return &TemplateStore{db: db, refs: refs}
}

// AutoMigrate creates or updates the job_templates table.
func (s *TemplateStore) AutoMigrate() error {
	return s.db.AutoMigrate(&JobTemplate{})
}

// Create validates and inserts a template. The site owner company is
// derived from the site record when not supplied.
func (s *TemplateStore) Create(t *JobTemplate) (*JobTemplate, error) {
	if t.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}
	if t.SubjectTitle == "" {
		return nil, &ValidationError{Field: "subjectTitle", Reason: "required"}
	}
	if t.EstimatedDurationDays < 0 {
		return nil, &ValidationError{Field: "estimatedDurationDays", Reason: "must not be negative"}
	}

	site, err := s.refs.SiteByID(t.SiteID)
	if err != nil {
		if errors.Is(err, reference.ErrSiteNotFound) {
			return nil, &ValidationError{Field: "siteId", Reason: "site does not exist"}
		}
		return nil, err
	}
	if t.SiteOwnerCompanyID == "" {
		t.SiteOwnerCompanyID = site.SiteOwnerCompanyID
	}

	if err := s.validateAssignment(t.AssignedCompanyID, t.AssignedContactID); err != nil {
		return nil, err
	}

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.TicketType = TicketTypeJob

	if err := s.db.Create(t).Error; err != nil {
		return nil, fmt.Errorf("create job template: %w", err)
	}
	return t, nil
}

// TemplateUpdate is a partial update. Nil fields are left unchanged.
// The ticket type is not updatable.
type TemplateUpdate struct {
	Name                  *string
	Description           *string
	SiteID                *string
	Priority              *string
	AssignedCompanyID     *string
	AssignedContactID     *string
	SubjectTitle          *string
	DescriptionTemplate   *string
	EstimatedDurationDays *int
	Active                *bool
}

// Update merges the partial update onto the stored template. Setting
// Active to false cascades: every schedule referencing the template is
// deactivated in the same transaction, so no active schedule can point
// at a retired template.
func (s *TemplateStore) Update(id string, upd TemplateUpdate) (*JobTemplate, error) {
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
	if upd.Description != nil {
		existing.Description = *upd.Description
	}
	if upd.SiteID != nil {
		site, err := s.refs.SiteByID(*upd.SiteID)
		if err != nil {
			if errors.Is(err, reference.ErrSiteNotFound) {
				return nil, &ValidationError{Field: "siteId", Reason: "site does not exist"}
			}
			return nil, err
		}
		existing.SiteID = site.ID
		existing.SiteOwnerCompanyID = site.SiteOwnerCompanyID
	}
	if upd.Priority != nil {
		existing.Priority = *upd.Priority
	}
	if upd.AssignedCompanyID != nil {
		existing.AssignedCompanyID = *upd.AssignedCompanyID
	}
	if upd.AssignedContactID != nil {
		existing.AssignedContactID = *upd.AssignedContactID
	}
	if upd.AssignedCompanyID != nil || upd.AssignedContactID != nil {
		if err := s.validateAssignment(existing.AssignedCompanyID, existing.AssignedContactID); err != nil {
			return nil, err
		}
	}
	if upd.SubjectTitle != nil {
		if *upd.SubjectTitle == "" {
			return nil, &ValidationError{Field: "subjectTitle", Reason: "required"}
		}
		existing.SubjectTitle = *upd.SubjectTitle
	}
	if upd.DescriptionTemplate != nil {
		existing.DescriptionTemplate = *upd.DescriptionTemplate
	}
	if upd.EstimatedDurationDays != nil {
		if *upd.EstimatedDurationDays < 0 {
			return nil, &ValidationError{Field: "estimatedDurationDays", Reason: "must not be negative"}
		}
		existing.EstimatedDurationDays = *upd.EstimatedDurationDays
	}

	deactivating := upd.Active != nil && !*upd.Active && existing.Active
	if upd.Active != nil {
		existing.Active = *upd.Active
	}
	existing.TicketType = TicketTypeJob

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(existing).Error; err != nil {
			return fmt.Errorf("update job template: %w", err)
		}
		if deactivating {
			if err := tx.Model(&JobSchedule{}).
				Where("job_template_id = ? AND active = ?", id, true).
				Update("active", false).Error; err != nil {
				return fmt.Errorf("cascade deactivate schedules: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// Get retrieves a template by ID.
func (s *TemplateStore) Get(id string) (*JobTemplate, error) {
	var t JobTemplate
	if err := s.db.First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("get job template: %w", err)
	}
	return &t, nil
}

// List returns templates joined with their reference-data display
// names, newest first. Inactive templates are excluded unless
// includeInactive is set.
func (s *TemplateStore) List(includeInactive bool) ([]TemplateRow, error) {
	q := s.db.Table("job_templates").
		Select(`job_templates.*,
			sites.site_name AS site_name,
			owner.company_name AS site_owner_company_name,
			assigned.company_name AS assigned_company_name,
			company_contacts.contact_name AS assigned_contact_name`).
		Joins("JOIN sites ON sites.id = job_templates.site_id").
		Joins("JOIN companies owner ON owner.id = job_templates.site_owner_company_id").
		Joins("JOIN companies assigned ON assigned.id = job_templates.assigned_company_id").
		Joins("JOIN company_contacts ON company_contacts.id = job_templates.assigned_contact_id").
		Order("job_templates.created_at DESC")
	if !includeInactive {
		q = q.Where("job_templates.active = ?", true)
	}

	var rows []TemplateRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list job templates: %w", err)
	}
	return rows, nil
}

// validateAssignment checks the assigned company and contact resolve
// and belong together.
func (s *TemplateStore) validateAssignment(companyID, contactID string) error {
	if _, err := s.refs.CompanyByID(companyID); err != nil {
		if errors.Is(err, reference.ErrCompanyNotFound) {
			return &ValidationError{Field: "assignedCompanyId", Reason: "company does not exist"}
		}
		return err
	}
	contact, err := s.refs.ContactByID(contactID)
	if err != nil {
		if errors.Is(err, reference.ErrContactNotFound) {
			return &ValidationError{Field: "assignedContactId", Reason: "contact does not exist"}
		}
		return err
	}
	if contact.CompanyID != companyID {
		return &ValidationError{Field: "assignedContactId", Reason: "contact does not belong to the assigned company"}
	}
	return nil
}
