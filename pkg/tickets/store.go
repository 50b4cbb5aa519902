package tickets

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrTicketNotFound is returned when a ticket id does not resolve.
var ErrTicketNotFound = errors.New("ticket not found")

// Store provides database operations for tickets.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new ticket Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the ticket tables.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(&Ticket{}, &ticketSequence{})
}

// Create inserts a ticket, assigning its ID and the next ticket number.
// Number allocation and the insert happen in one transaction so numbers
// are never skipped or duplicated.
func (s *Store) Create(t *Ticket) (*Ticket, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = StatusOpen
	}
	if t.DateRaised.IsZero() {
		t.DateRaised = time.Now()
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Lock the sequence row so concurrent creates serialize instead
		// of racing to the same number. SQLite has no FOR UPDATE; its
		// single-writer transactions serialize on their own.
		read := tx
		if tx.Dialector.Name() != "sqlite" {
			read = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var seq ticketSequence
		err := read.First(&seq, "id = ?", 1).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			seq = ticketSequence{ID: 1, LastUsed: 0}
			if err := tx.Create(&seq).Error; err != nil {
				return fmt.Errorf("init ticket sequence: %w", err)
			}
		case err != nil:
			return fmt.Errorf("read ticket sequence: %w", err)
		}

		seq.LastUsed++
		if err := tx.Model(&ticketSequence{}).Where("id = ?", 1).
			Update("last_used", seq.LastUsed).Error; err != nil {
			return fmt.Errorf("advance ticket sequence: %w", err)
		}

		t.TicketNumber = fmt.Sprintf("T%05d", seq.LastUsed)

		if err := tx.Create(t).Error; err != nil {
			return fmt.Errorf("insert ticket: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Get retrieves a ticket by ID.
func (s *Store) Get(id string) (*Ticket, error) {
	var t Ticket
	if err := s.db.First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return &t, nil
}

// ListFilter defines filters for listing tickets.
type ListFilter struct {
	Status Status
	SiteID string
	Type   Type
}

// List returns tickets matching the filter, newest first.
func (s *Store) List(filter ListFilter) ([]Ticket, error) {
	q := s.db.Order("date_raised DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.SiteID != "" {
		q = q.Where("site_id = ?", filter.SiteID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	var records []Ticket
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return records, nil
}

// UpdateStatus transitions a ticket to the given status.
func (s *Store) UpdateStatus(id string, status Status) error {
	result := s.db.Model(&Ticket{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("update ticket status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTicketNotFound
	}
	return nil
}
