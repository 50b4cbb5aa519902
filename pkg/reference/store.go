package reference

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sentinel errors for lookups against reference data.
var (
	ErrCompanyNotFound = errors.New("company not found")
	ErrSiteNotFound    = errors.New("site not found")
	ErrContactNotFound = errors.New("company contact not found")
)

// Store provides database operations for reference data.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new reference data Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the reference data tables.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(&Company{}, &Site{}, &CompanyContact{})
}

// CreateCompany inserts a company, assigning an ID when absent.
func (s *Store) CreateCompany(c *Company) (*Company, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if err := s.db.Create(c).Error; err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}
	return c, nil
}

// CreateSite inserts a site after checking the owning company resolves.
func (s *Store) CreateSite(site *Site) (*Site, error) {
	if _, err := s.CompanyByID(site.SiteOwnerCompanyID); err != nil {
		return nil, err
	}
	if site.ID == "" {
		site.ID = uuid.New().String()
	}
	if err := s.db.Create(site).Error; err != nil {
		return nil, fmt.Errorf("create site: %w", err)
	}
	return site, nil
}

// CreateContact inserts a company contact after checking its company resolves.
func (s *Store) CreateContact(contact *CompanyContact) (*CompanyContact, error) {
	if _, err := s.CompanyByID(contact.CompanyID); err != nil {
		return nil, err
	}
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	if err := s.db.Create(contact).Error; err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return contact, nil
}

// CompanyByID resolves a company by ID.
func (s *Store) CompanyByID(id string) (*Company, error) {
	var c Company
	if err := s.db.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// SiteByID resolves a site by ID.
func (s *Store) SiteByID(id string) (*Site, error) {
	var site Site
	if err := s.db.First(&site, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteNotFound
		}
		return nil, fmt.Errorf("get site: %w", err)
	}
	return &site, nil
}

// ContactByID resolves a company contact by ID.
func (s *Store) ContactByID(id string) (*CompanyContact, error) {
	var contact CompanyContact
	if err := s.db.First(&contact, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return &contact, nil
}

// ListCompanies returns companies, active only unless includeInactive.
func (s *Store) ListCompanies(includeInactive bool) ([]Company, error) {
	q := s.db.Order("company_name ASC")
	if !includeInactive {
		q = q.Where("active = ?", true)
	}
	var companies []Company
	if err := q.Find(&companies).Error; err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return companies, nil
}

// ListSites returns sites, active only unless includeInactive.
func (s *Store) ListSites(includeInactive bool) ([]Site, error) {
	q := s.db.Order("site_name ASC")
	if !includeInactive {
		q = q.Where("active = ?", true)
	}
	var sites []Site
	if err := q.Find(&sites).Error; err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	return sites, nil
}

// ListContacts returns the contacts for a company, active only unless
// includeInactive.
func (s *Store) ListContacts(companyID string, includeInactive bool) ([]CompanyContact, error) {
	q := s.db.Where("company_id = ?", companyID).Order("contact_name ASC")
	if !includeInactive {
		q = q.Where("active = ?", true)
	}
	var contacts []CompanyContact
	if err := q.Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}
