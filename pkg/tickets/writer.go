package tickets

import (
	"context"

	"github.com/BenFNash/boom-power/pkg/scheduling"
)

// Writer adapts the ticket Store to the generation engine's
// TicketWriter collaborator interface.
type Writer struct {
	store *Store
}

// NewWriter creates a Writer over the given Store.
func NewWriter(store *Store) *Writer {
	return &Writer{store: store}
}

// CreateTicket materializes an open job ticket from an engine request.
func (w *Writer) CreateTicket(_ context.Context, req *scheduling.TicketRequest) (*scheduling.CreatedTicket, error) {
	target := req.TargetCompletionDate
	t := &Ticket{
		SiteID:               req.SiteID,
		Site:                 req.SiteName,
		SiteOwnerCompanyID:   req.SiteOwnerCompanyID,
		SiteOwnerCompany:     req.SiteOwnerCompanyName,
		Type:                 TypeJob,
		Priority:             req.Priority,
		WhoRaised:            req.WhoRaised,
		TargetCompletionDate: &target,
		CompanyToAssignID:    req.AssignedCompanyID,
		CompanyToAssign:      req.AssignedCompanyName,
		CompanyContactID:     req.ContactID,
		CompanyContact:       req.ContactName,
		Subject:              req.Subject,
		Description:          req.Description,
		Status:               StatusOpen,
	}

	created, err := w.store.Create(t)
	if err != nil {
		return nil, err
	}
	return &scheduling.CreatedTicket{ID: created.ID, Number: created.TicketNumber}, nil
}
