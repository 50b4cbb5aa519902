package audit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/BenFNash/boom-power/pkg/authz"
)

// eventResponse is the API shape of one audit event.
type eventResponse struct {
	ID         string `json:"id"`
	Actor      string `json:"actor,omitempty"`
	EventType  string `json:"eventType"`
	ResourceID string `json:"resourceId,omitempty"`
	Detail     string `json:"detail,omitempty"`
	CreatedAt  string `json:"createdAt"`
}

// ListEventsHandler handles GET /events
// Query params: eventType, pageSize, pageToken
func ListEventsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageSize := 20
		if ps := r.URL.Query().Get("pageSize"); ps != "" {
			if v, err := strconv.Atoi(ps); err == nil && v > 0 {
				pageSize = v
			}
		}

		records, nextToken, total, err := store.List(pageSize,
			r.URL.Query().Get("pageToken"),
			r.URL.Query().Get("eventType"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list audit events: %v", err))
			return
		}

		events := make([]eventResponse, len(records))
		for i, rec := range records {
			events[i] = eventResponse{
				ID:         rec.ID,
				Actor:      rec.Actor,
				EventType:  rec.EventType,
				ResourceID: rec.ResourceID,
				Detail:     rec.Detail,
				CreatedAt:  rec.CreatedAt.Format(time.RFC3339),
			}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"events":        events,
			"nextPageToken": nextToken,
			"totalSize":     total,
		})
	}
}

// Router creates a chi.Router for the audit read API.
func Router(store *Store, authorizer authz.Authorizer) chi.Router {
	r := chi.NewRouter()

	listHandler := ListEventsHandler(store)
	if authorizer != nil {
		r.Get("/events", authz.RequirePermission(authorizer, authz.ResourceAudit, authz.VerbList)(listHandler).ServeHTTP)
	} else {
		r.Get("/events", listHandler)
	}

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
