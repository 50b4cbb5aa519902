package main

// Response shapes mirrored from the server API. Only the fields the CLI
// displays are declared.

type templateView struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	SiteName              string `json:"siteName"`
	AssignedCompanyName   string `json:"assignedCompanyName"`
	AssignedContactName   string `json:"assignedContactName"`
	SubjectTitle          string `json:"subjectTitle"`
	EstimatedDurationDays int    `json:"estimatedDurationDays"`
	Active                bool   `json:"active"`
}

type scheduleView struct {
	ID                string `json:"id"`
	TemplateName      string `json:"templateName"`
	Name              string `json:"name"`
	FrequencyType     string `json:"frequencyType"`
	FrequencyValue    int    `json:"frequencyValue"`
	StartDate         string `json:"startDate"`
	EndDate           string `json:"endDate"`
	AdvanceNoticeDays int    `json:"advanceNoticeDays"`
	NextDueDate       string `json:"nextDueDate"`
	Active            bool   `json:"active"`
}

type instanceView struct {
	ID       string `json:"id"`
	DueDate  string `json:"dueDate"`
	Status   string `json:"status"`
	Schedule struct {
		Name         string `json:"name"`
		TemplateName string `json:"templateName"`
	} `json:"schedule"`
	Ticket *struct {
		TicketNumber string `json:"ticketNumber"`
		Status       string `json:"status"`
	} `json:"ticket"`
}

type ticketView struct {
	ID                   string `json:"id"`
	TicketNumber         string `json:"ticketNumber"`
	Site                 string `json:"site"`
	Type                 string `json:"type"`
	Subject              string `json:"subject"`
	Status               string `json:"status"`
	TargetCompletionDate string `json:"targetCompletionDate"`
}

type auditEventView struct {
	Actor      string `json:"actor"`
	EventType  string `json:"eventType"`
	ResourceID string `json:"resourceId"`
	Detail     string `json:"detail"`
	CreatedAt  string `json:"createdAt"`
}
