// Package reference holds the reference data the ticketing system is
// built on: companies, the sites they own, and the contacts they employ.
// Scheduling templates validate against this data and reporting joins
// display names from it.
package reference

import "time"

// Company is the GORM model for a company record.
type Company struct {
	ID          string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	CompanyName string    `gorm:"column:company_name;uniqueIndex;not null"`
	Active      bool      `gorm:"column:active;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Company) TableName() string { return "companies" }

// Site is the GORM model for a site record. Every site is owned by
// exactly one company.
type Site struct {
	ID                 string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	SiteName           string    `gorm:"column:site_name;not null"`
	SiteOwnerCompanyID string    `gorm:"column:site_owner_company_id;index;not null"`
	Active             bool      `gorm:"column:active;not null"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Site) TableName() string { return "sites" }

// CompanyContact is the GORM model for a named contact at a company.
type CompanyContact struct {
	ID           string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	CompanyID    string    `gorm:"column:company_id;index;not null"`
	ContactName  string    `gorm:"column:contact_name;not null"`
	ContactEmail string    `gorm:"column:contact_email"`
	Active       bool      `gorm:"column:active;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (CompanyContact) TableName() string { return "company_contacts" }
