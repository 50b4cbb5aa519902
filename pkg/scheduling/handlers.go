package scheduling

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/BenFNash/boom-power/pkg/audit"
	"github.com/BenFNash/boom-power/pkg/authz"
)

const dateLayout = "2006-01-02"

// templateResponse is the API shape of a job template. Display names
// are populated on list responses, where the join is available.
type templateResponse struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	Description           string `json:"description,omitempty"`
	SiteID                string `json:"siteId"`
	SiteName              string `json:"siteName,omitempty"`
	SiteOwnerCompanyID    string `json:"siteOwnerCompanyId"`
	SiteOwnerCompanyName  string `json:"siteOwnerCompanyName,omitempty"`
	TicketType            string `json:"ticketType"`
	Priority              string `json:"priority,omitempty"`
	AssignedCompanyID     string `json:"assignedCompanyId"`
	AssignedCompanyName   string `json:"assignedCompanyName,omitempty"`
	AssignedContactID     string `json:"assignedContactId"`
	AssignedContactName   string `json:"assignedContactName,omitempty"`
	SubjectTitle          string `json:"subjectTitle"`
	DescriptionTemplate   string `json:"descriptionTemplate,omitempty"`
	EstimatedDurationDays int    `json:"estimatedDurationDays"`
	Active                bool   `json:"active"`
	CreatedBy             string `json:"createdBy,omitempty"`
	CreatedAt             string `json:"createdAt"`
	UpdatedAt             string `json:"updatedAt"`
}

func templateToResponse(t *JobTemplate) templateResponse {
	return templateResponse{
		ID:                    t.ID,
		Name:                  t.Name,
		Description:           t.Description,
		SiteID:                t.SiteID,
		SiteOwnerCompanyID:    t.SiteOwnerCompanyID,
		TicketType:            t.TicketType,
		Priority:              t.Priority,
		AssignedCompanyID:     t.AssignedCompanyID,
		AssignedContactID:     t.AssignedContactID,
		SubjectTitle:          t.SubjectTitle,
		DescriptionTemplate:   t.DescriptionTemplate,
		EstimatedDurationDays: t.EstimatedDurationDays,
		Active:                t.Active,
		CreatedBy:             t.CreatedBy,
		CreatedAt:             t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             t.UpdatedAt.Format(time.RFC3339),
	}
}

func templateRowToResponse(row *TemplateRow) templateResponse {
	resp := templateToResponse(&row.JobTemplate)
	resp.SiteName = row.SiteName
	resp.SiteOwnerCompanyName = row.SiteOwnerCompanyName
	resp.AssignedCompanyName = row.AssignedCompanyName
	resp.AssignedContactName = row.AssignedContactName
	return resp
}

// scheduleResponse is the API shape of a job schedule.
type scheduleResponse struct {
	ID                string `json:"id"`
	JobTemplateID     string `json:"jobTemplateId"`
	TemplateName      string `json:"templateName,omitempty"`
	Name              string `json:"name"`
	FrequencyType     string `json:"frequencyType"`
	FrequencyValue    int    `json:"frequencyValue,omitempty"`
	StartDate         string `json:"startDate"`
	EndDate           string `json:"endDate,omitempty"`
	AdvanceNoticeDays int    `json:"advanceNoticeDays"`
	NextDueDate       string `json:"nextDueDate"`
	Active            bool   `json:"active"`
	CreatedBy         string `json:"createdBy,omitempty"`
	CreatedAt         string `json:"createdAt"`
	UpdatedAt         string `json:"updatedAt"`
}

func scheduleToResponse(s *JobSchedule) scheduleResponse {
	resp := scheduleResponse{
		ID:                s.ID,
		JobTemplateID:     s.JobTemplateID,
		Name:              s.Name,
		FrequencyType:     string(s.FrequencyType),
		FrequencyValue:    s.FrequencyValue,
		StartDate:         s.StartDate.Format(dateLayout),
		AdvanceNoticeDays: s.AdvanceNoticeDays,
		NextDueDate:       s.NextDueDate.Format(dateLayout),
		Active:            s.Active,
		CreatedBy:         s.CreatedBy,
		CreatedAt:         s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         s.UpdatedAt.Format(time.RFC3339),
	}
	if s.EndDate != nil {
		resp.EndDate = s.EndDate.Format(dateLayout)
	}
	return resp
}

// instanceResponse is the API shape of a generated instance.
type instanceResponse struct {
	ID            string             `json:"id"`
	JobScheduleID string             `json:"jobScheduleId"`
	TicketID      string             `json:"ticketId,omitempty"`
	DueDate       string             `json:"dueDate"`
	CreatedDate   string             `json:"createdDate"`
	Status        string             `json:"status"`
	CreatedAt     string             `json:"createdAt"`
	Schedule      instanceSchedule   `json:"schedule"`
	Ticket        *instanceTicketRef `json:"ticket,omitempty"`
}

type instanceSchedule struct {
	Name         string `json:"name"`
	TemplateName string `json:"templateName"`
}

type instanceTicketRef struct {
	TicketNumber string `json:"ticketNumber"`
	Subject      string `json:"subject"`
	Status       string `json:"status"`
}

// ListTemplatesHandler handles GET /templates?includeInactive=true
func ListTemplatesHandler(store *TemplateStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := store.List(r.URL.Query().Get("includeInactive") == "true")
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list templates: %v", err))
			return
		}
		templates := make([]templateResponse, len(rows))
		for i := range rows {
			templates[i] = templateRowToResponse(&rows[i])
		}
		writeJSON(w, http.StatusOK, map[string]any{"templates": templates})
	}
}

type createTemplateRequest struct {
	Name                  string `json:"name"`
	Description           string `json:"description"`
	SiteID                string `json:"siteId"`
	SiteOwnerCompanyID    string `json:"siteOwnerCompanyId"`
	Priority              string `json:"priority"`
	AssignedCompanyID     string `json:"assignedCompanyId"`
	AssignedContactID     string `json:"assignedContactId"`
	SubjectTitle          string `json:"subjectTitle"`
	DescriptionTemplate   string `json:"descriptionTemplate"`
	EstimatedDurationDays int    `json:"estimatedDurationDays"`
	Active                *bool  `json:"active"`
}

// CreateTemplateHandler handles POST /templates
func CreateTemplateHandler(store *TemplateStore, recorder *audit.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTemplateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}

		id, _ := authz.IdentityFromContext(r.Context())
		tmpl := &JobTemplate{
			Name:                  req.Name,
			Description:           req.Description,
			SiteID:                req.SiteID,
			SiteOwnerCompanyID:    req.SiteOwnerCompanyID,
			Priority:              req.Priority,
			AssignedCompanyID:     req.AssignedCompanyID,
			AssignedContactID:     req.AssignedContactID,
			SubjectTitle:          req.SubjectTitle,
			DescriptionTemplate:   req.DescriptionTemplate,
			EstimatedDurationDays: req.EstimatedDurationDays,
			Active:                req.Active == nil || *req.Active,
			CreatedBy:             id.User,
		}

		created, err := store.Create(tmpl)
		if err != nil {
			respondStoreError(w, err)
			return
		}

		recorder.Record(id.User, audit.EventTemplateCreated, created.ID, created.Name)
		writeJSON(w, http.StatusCreated, templateToResponse(created))
	}
}

type updateTemplateRequest struct {
	Name                  *string `json:"name"`
	Description           *string `json:"description"`
	SiteID                *string `json:"siteId"`
	Priority              *string `json:"priority"`
	AssignedCompanyID     *string `json:"assignedCompanyId"`
	AssignedContactID     *string `json:"assignedContactId"`
	SubjectTitle          *string `json:"subjectTitle"`
	DescriptionTemplate   *string `json:"descriptionTemplate"`
	EstimatedDurationDays *int    `json:"estimatedDurationDays"`
	Active                *bool   `json:"active"`
}

// UpdateTemplateHandler handles PATCH /templates/{templateId}
func UpdateTemplateHandler(store *TemplateStore, recorder *audit.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templateID := chi.URLParam(r, "templateId")
		if templateID == "" {
			writeError(w, http.StatusBadRequest, "missing template ID")
			return
		}

		var req updateTemplateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}

		updated, err := store.Update(templateID, TemplateUpdate{
			Name:                  req.Name,
			Description:           req.Description,
			SiteID:                req.SiteID,
			Priority:              req.Priority,
			AssignedCompanyID:     req.AssignedCompanyID,
			AssignedContactID:     req.AssignedContactID,
			SubjectTitle:          req.SubjectTitle,
			DescriptionTemplate:   req.DescriptionTemplate,
			EstimatedDurationDays: req.EstimatedDurationDays,
			Active:                req.Active,
		})
		if err != nil {
			respondStoreError(w, err)
			return
		}

		id, _ := authz.IdentityFromContext(r.Context())
		recorder.Record(id.User, audit.EventTemplateUpdated, updated.ID, updated.Name)
		writeJSON(w, http.StatusOK, templateToResponse(updated))
	}
}

// ListSchedulesHandler handles GET /schedules?includeInactive=true
func ListSchedulesHandler(store *ScheduleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := store.List(r.URL.Query().Get("includeInactive") == "true")
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list schedules: %v", err))
			return
		}
		schedules := make([]scheduleResponse, len(rows))
		for i := range rows {
			schedules[i] = scheduleToResponse(&rows[i].JobSchedule)
			schedules[i].TemplateName = rows[i].TemplateName
		}
		writeJSON(w, http.StatusOK, map[string]any{"schedules": schedules})
	}
}

type createScheduleRequest struct {
	JobTemplateID     string `json:"jobTemplateId"`
	Name              string `json:"name"`
	FrequencyType     string `json:"frequencyType"`
	FrequencyValue    int    `json:"frequencyValue"`
	StartDate         string `json:"startDate"`
	EndDate           string `json:"endDate"`
	AdvanceNoticeDays int    `json:"advanceNoticeDays"`
	NextDueDate       string `json:"nextDueDate"`
	Active            *bool  `json:"active"`
}

// CreateScheduleHandler handles POST /schedules
func CreateScheduleHandler(store *ScheduleStore, recorder *audit.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}

		startDate, err := parseDate(req.StartDate, "startDate")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		id, _ := authz.IdentityFromContext(r.Context())
		sched := &JobSchedule{
			JobTemplateID:     req.JobTemplateID,
			Name:              req.Name,
			FrequencyType:     FrequencyType(req.FrequencyType),
			FrequencyValue:    req.FrequencyValue,
			StartDate:         startDate,
			AdvanceNoticeDays: req.AdvanceNoticeDays,
			Active:            req.Active == nil || *req.Active,
			CreatedBy:         id.User,
		}

		// An empty end date from a form means "no end date".
		if req.EndDate != "" {
			endDate, err := parseDate(req.EndDate, "endDate")
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			sched.EndDate = &endDate
		}
		if req.NextDueDate != "" {
			next, err := parseDate(req.NextDueDate, "nextDueDate")
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			sched.NextDueDate = next
		}

		created, err := store.Create(sched)
		if err != nil {
			respondStoreError(w, err)
			return
		}

		recorder.Record(id.User, audit.EventScheduleCreated, created.ID, created.Name)
		writeJSON(w, http.StatusCreated, scheduleToResponse(created))
	}
}

type updateScheduleRequest struct {
	Name              *string `json:"name"`
	FrequencyType     *string `json:"frequencyType"`
	FrequencyValue    *int    `json:"frequencyValue"`
	StartDate         *string `json:"startDate"`
	EndDate           *string `json:"endDate"`
	AdvanceNoticeDays *int    `json:"advanceNoticeDays"`
	NextDueDate       *string `json:"nextDueDate"`
	Active            *bool   `json:"active"`
}

// UpdateScheduleHandler handles PATCH /schedules/{scheduleId}
func UpdateScheduleHandler(store *ScheduleStore, recorder *audit.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scheduleID := chi.URLParam(r, "scheduleId")
		if scheduleID == "" {
			writeError(w, http.StatusBadRequest, "missing schedule ID")
			return
		}

		var req updateScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}

		upd := ScheduleUpdate{
			Name:              req.Name,
			FrequencyValue:    req.FrequencyValue,
			AdvanceNoticeDays: req.AdvanceNoticeDays,
			Active:            req.Active,
		}
		if req.FrequencyType != nil {
			ft := FrequencyType(*req.FrequencyType)
			upd.FrequencyType = &ft
		}
		if req.StartDate != nil {
			start, err := parseDate(*req.StartDate, "startDate")
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			upd.StartDate = &start
		}
		if req.EndDate != nil {
			if *req.EndDate == "" {
				upd.ClearEndDate = true
			} else {
				end, err := parseDate(*req.EndDate, "endDate")
				if err != nil {
					writeError(w, http.StatusBadRequest, err.Error())
					return
				}
				upd.EndDate = &end
			}
		}
		if req.NextDueDate != nil {
			next, err := parseDate(*req.NextDueDate, "nextDueDate")
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			upd.NextDueDate = &next
		}

		updated, err := store.Update(scheduleID, upd)
		if err != nil {
			respondStoreError(w, err)
			return
		}

		id, _ := authz.IdentityFromContext(r.Context())
		recorder.Record(id.User, audit.EventScheduleUpdated, updated.ID, updated.Name)
		writeJSON(w, http.StatusOK, scheduleToResponse(updated))
	}
}

// ListInstancesHandler handles GET /instances
func ListInstancesHandler(store *InstanceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := store.List()
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list instances: %v", err))
			return
		}

		instances := make([]instanceResponse, len(rows))
		for i, row := range rows {
			instances[i] = instanceResponse{
				ID:            row.ID,
				JobScheduleID: row.JobScheduleID,
				TicketID:      row.TicketID,
				DueDate:       row.DueDate.Format(dateLayout),
				CreatedDate:   row.CreatedDate.Format(dateLayout),
				Status:        string(row.Status),
				CreatedAt:     row.CreatedAt.Format(time.RFC3339),
				Schedule: instanceSchedule{
					Name:         row.ScheduleName,
					TemplateName: row.TemplateName,
				},
			}
			if row.TicketNumber != "" {
				instances[i].Ticket = &instanceTicketRef{
					TicketNumber: row.TicketNumber,
					Subject:      row.TicketSubject,
					Status:       row.TicketStatus,
				}
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"instances": instances})
	}
}

// GenerateHandler handles POST /schedules:generate?asOf=2025-01-01
func GenerateHandler(engine *Engine, recorder *audit.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var asOf time.Time
		if v := r.URL.Query().Get("asOf"); v != "" {
			parsed, err := parseDate(v, "asOf")
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			asOf = parsed
		}

		created, err := engine.GenerateDueTickets(r.Context(), asOf)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("generation failed: %v", err))
			return
		}

		id, _ := authz.IdentityFromContext(r.Context())
		recorder.Record(id.User, audit.EventGenerationRun, "", fmt.Sprintf("created %d tickets", created))
		writeJSON(w, http.StatusOK, map[string]int{"created": created})
	}
}

func parseDate(value, field string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: expected %s date, got %q", field, dateLayout, value)
	}
	return t, nil
}

func respondStoreError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, ErrTemplateNotFound), errors.Is(err, ErrScheduleNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
