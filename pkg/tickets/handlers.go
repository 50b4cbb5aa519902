package tickets

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/BenFNash/boom-power/pkg/authz"
	"github.com/BenFNash/boom-power/pkg/cache"
)

// ticketResponse is the API shape of a ticket.
type ticketResponse struct {
	ID                   string `json:"id"`
	TicketNumber         string `json:"ticketNumber"`
	SiteID               string `json:"siteId,omitempty"`
	Site                 string `json:"site,omitempty"`
	SiteOwnerCompany     string `json:"siteOwnerCompany,omitempty"`
	Type                 string `json:"type"`
	Priority             string `json:"priority,omitempty"`
	DateRaised           string `json:"dateRaised"`
	WhoRaised            string `json:"whoRaised,omitempty"`
	TargetCompletionDate string `json:"targetCompletionDate,omitempty"`
	CompanyToAssign      string `json:"companyToAssign,omitempty"`
	CompanyContact       string `json:"companyContact,omitempty"`
	Subject              string `json:"subject"`
	Description          string `json:"description,omitempty"`
	Status               string `json:"status"`
}

func toResponse(t *Ticket) ticketResponse {
	resp := ticketResponse{
		ID:               t.ID,
		TicketNumber:     t.TicketNumber,
		SiteID:           t.SiteID,
		Site:             t.Site,
		SiteOwnerCompany: t.SiteOwnerCompany,
		Type:             string(t.Type),
		Priority:         t.Priority,
		DateRaised:       t.DateRaised.Format(time.RFC3339),
		WhoRaised:        t.WhoRaised,
		CompanyToAssign:  t.CompanyToAssign,
		CompanyContact:   t.CompanyContact,
		Subject:          t.Subject,
		Description:      t.Description,
		Status:           string(t.Status),
	}
	if t.TargetCompletionDate != nil {
		resp.TargetCompletionDate = t.TargetCompletionDate.Format("2006-01-02")
	}
	return resp
}

// ListTicketsHandler handles GET /tickets?status=&siteId=&type=
func ListTicketsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		records, err := store.List(ListFilter{
			Status: Status(q.Get("status")),
			SiteID: q.Get("siteId"),
			Type:   Type(q.Get("type")),
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list tickets: %v", err))
			return
		}
		tickets := make([]ticketResponse, len(records))
		for i := range records {
			tickets[i] = toResponse(&records[i])
		}
		writeJSON(w, http.StatusOK, map[string]any{"tickets": tickets})
	}
}

// GetTicketHandler handles GET /tickets/{ticketId}
func GetTicketHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := store.Get(chi.URLParam(r, "ticketId"))
		if err != nil {
			if errors.Is(err, ErrTicketNotFound) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, toResponse(t))
	}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateTicketStatusHandler handles PATCH /tickets/{ticketId}/status
func UpdateTicketStatusHandler(store *Store) http.HandlerFunc {
	valid := map[Status]bool{
		StatusOpen: true, StatusAssigned: true, StatusResolved: true,
		StatusCancelled: true, StatusClosed: true,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		status := Status(req.Status)
		if !valid[status] {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", req.Status))
			return
		}

		id := chi.URLParam(r, "ticketId")
		if err := store.UpdateStatus(id, status); err != nil {
			if errors.Is(err, ErrTicketNotFound) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		t, err := store.Get(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, toResponse(t))
	}
}

// Router returns the HTTP routes for tickets. A nil cache manager
// disables response caching.
func Router(store *Store, caches *cache.Manager, authorizer authz.Authorizer) chi.Router {
	r := chi.NewRouter()

	cached := caches.TicketsMiddleware()

	r.With(authz.RequirePermission(authorizer, authz.ResourceTickets, authz.VerbList), cached).
		Get("/", ListTicketsHandler(store))
	r.With(authz.RequirePermission(authorizer, authz.ResourceTickets, authz.VerbGet), cached).
		Get("/{ticketId}", GetTicketHandler(store))
	r.With(authz.RequirePermission(authorizer, authz.ResourceTickets, authz.VerbUpdate),
		cache.InvalidateOnWrite(caches.InvalidateTickets)).
		Patch("/{ticketId}/status", UpdateTicketStatusHandler(store))

	return r
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
