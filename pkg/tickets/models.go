// Package tickets persists the tickets raised against sites and
// allocates their human-facing ticket numbers. The scheduling engine
// creates tickets through this package; the wider CRUD screens of the
// system are served elsewhere.
package tickets

import "time"

// Status is the lifecycle state of a ticket.
type Status string

const (
	StatusOpen      Status = "open"
	StatusAssigned  Status = "assigned"
	StatusResolved  Status = "resolved"
	StatusCancelled Status = "cancelled"
	StatusClosed    Status = "closed"
)

// Type distinguishes planned jobs from reported faults.
type Type string

const (
	TypeJob   Type = "job"
	TypeFault Type = "fault"
)

// Ticket is the GORM model for a ticket. Display names for the site,
// companies, and contact are snapshotted at creation time so the record
// stays readable even if reference data changes later.
type Ticket struct {
	ID                   string     `gorm:"primaryKey;column:id;type:varchar(36)"`
	TicketNumber         string     `gorm:"column:ticket_number;uniqueIndex;not null"`
	SiteID               string     `gorm:"column:site_id;index"`
	Site                 string     `gorm:"column:site"`
	SiteOwnerCompanyID   string     `gorm:"column:site_owner_company_id"`
	SiteOwnerCompany     string     `gorm:"column:site_owner_company"`
	Type                 Type       `gorm:"column:type;not null"`
	Priority             string     `gorm:"column:priority"`
	DateRaised           time.Time  `gorm:"column:date_raised;not null"`
	WhoRaised            string     `gorm:"column:who_raised"`
	TargetCompletionDate *time.Time `gorm:"column:target_completion_date"`
	CompanyToAssignID    string     `gorm:"column:company_to_assign_id"`
	CompanyToAssign      string     `gorm:"column:company_to_assign"`
	CompanyContactID     string     `gorm:"column:company_contact_id"`
	CompanyContact       string     `gorm:"column:company_contact"`
	Subject              string     `gorm:"column:subject;not null"`
	Description          string     `gorm:"column:description"`
	Status               Status     `gorm:"column:status;index;not null;default:open"`
	CreatedAt            time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Ticket) TableName() string { return "tickets" }

// IsTerminal returns true when the ticket can no longer change hands.
func (t *Ticket) IsTerminal() bool {
	switch t.Status {
	case StatusResolved, StatusCancelled, StatusClosed:
		return true
	}
	return false
}

// ticketSequence backs ticket number allocation. A single row holds the
// last issued sequence value.
type ticketSequence struct {
	ID       int   `gorm:"primaryKey;column:id"`
	LastUsed int64 `gorm:"column:last_used;not null"`
}

func (ticketSequence) TableName() string { return "ticket_sequence" }
