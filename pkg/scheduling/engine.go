package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BenFNash/boom-power/internal/ha"
	"github.com/BenFNash/boom-power/pkg/reference"
)

// TicketRequest carries the fields the engine materializes from a
// template when a schedule fires.
type TicketRequest struct {
	SiteID               string
	SiteName             string
	SiteOwnerCompanyID   string
	SiteOwnerCompanyName string
	Priority             string
	WhoRaised            string
	TargetCompletionDate time.Time
	AssignedCompanyID    string
	AssignedCompanyName  string
	ContactID            string
	ContactName          string
	Subject              string
	Description          string
}

// CreatedTicket identifies a ticket the collaborator created.
type CreatedTicket struct {
	ID     string
	Number string
}

// TicketWriter is the ticket-creation collaborator. It is satisfied by
// tickets.Writer but avoids a dependency on the tickets package.
type TicketWriter interface {
	CreateTicket(ctx context.Context, req *TicketRequest) (*CreatedTicket, error)
}

// Engine scans active schedules and creates one ticket per due
// schedule per invocation. It is safe to invoke at any cadence: the
// (schedule, due date) uniqueness on instances prevents duplicates, and
// the run lock serializes overlapping passes.
type Engine struct {
	db        *gorm.DB
	schedules *ScheduleStore
	templates *TemplateStore
	instances *InstanceStore
	refs      *reference.Store
	writer    TicketWriter
	locker    ha.Locker
	logger    *slog.Logger
}

// NewEngine creates a generation engine.
func NewEngine(db *gorm.DB, schedules *ScheduleStore, templates *TemplateStore,
	instances *InstanceStore, refs *reference.Store, writer TicketWriter,
	locker ha.Locker, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if locker == nil {
		locker = ha.NewLocker(db, "ticket-generation")
	}
	return &Engine{
		db:        db,
		schedules: schedules,
		templates: templates,
		instances: instances,
		refs:      refs,
		writer:    writer,
		locker:    locker,
		logger:    logger,
	}
}

// GenerateDueTickets runs one generation pass as of the given date
// (today when zero) and returns the number of tickets created.
//
// Each schedule fires at most once per pass, even when asOf has skipped
// several periods; regular invocation cadence catches later periods.
// A failure on one schedule is logged and skipped; the pass continues
// and the count reflects successes only.
func (e *Engine) GenerateDueTickets(ctx context.Context, asOf time.Time) (int, error) {
	if asOf.IsZero() {
		asOf = time.Now()
	}
	asOf = dateOnly(asOf)

	created := 0
	err := e.locker.WithLock(ctx, func() error {
		scheds, err := e.schedules.ListActive()
		if err != nil {
			return err
		}

		for i := range scheds {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if e.fireIfDue(ctx, &scheds[i], asOf) {
				created++
			}
		}
		return nil
	})
	if err != nil {
		return created, fmt.Errorf("generation pass: %w", err)
	}

	e.logger.Info("generation pass complete", "asOf", asOf.Format("2006-01-02"), "created", created)
	return created, nil
}

// fireIfDue processes one schedule and reports whether a ticket was
// created for it.
func (e *Engine) fireIfDue(ctx context.Context, sched *JobSchedule, asOf time.Time) bool {
	dueDate := dateOnly(sched.NextDueDate)
	trigger := dueDate.AddDate(0, 0, -sched.AdvanceNoticeDays)
	if asOf.Before(trigger) {
		return false
	}

	// Already generated for this period. The unique index would reject
	// the insert anyway; checking first avoids a wasted ticket.
	exists, err := e.instances.ExistsFor(sched.ID, dueDate)
	if err != nil {
		e.logger.Error("failed to check for existing instance", "scheduleID", sched.ID, "error", err)
		return false
	}
	if exists {
		return false
	}

	// Exhausted schedules are deactivated, never silently skipped.
	if sched.EndDate != nil && dueDate.After(*sched.EndDate) {
		if err := e.schedules.Deactivate(sched.ID); err != nil {
			e.logger.Error("failed to deactivate exhausted schedule", "scheduleID", sched.ID, "error", err)
		} else {
			e.logger.Info("schedule exhausted", "scheduleID", sched.ID, "name", sched.Name,
				"endDate", sched.EndDate.Format("2006-01-02"))
		}
		return false
	}

	tmpl, err := e.templates.Get(sched.JobTemplateID)
	if err != nil {
		e.logger.Error("failed to load template for schedule", "scheduleID", sched.ID,
			"templateID", sched.JobTemplateID, "error", err)
		return false
	}

	req := e.materialize(sched, tmpl, dueDate)
	ticket, err := e.writer.CreateTicket(ctx, req)
	if err != nil {
		e.logger.Error("ticket creation failed", "scheduleID", sched.ID, "name", sched.Name, "error", err)
		return false
	}

	next, err := NextDueDate(dueDate, sched.FrequencyType, sched.FrequencyValue)
	if err != nil {
		e.logger.Error("cannot advance schedule cursor", "scheduleID", sched.ID, "error", err)
		return false
	}

	// Instance insert and cursor advance commit together: either this
	// period is fully recorded or the next pass retries it.
	err = e.db.Transaction(func(tx *gorm.DB) error {
		inst := &ScheduledJobInstance{
			ID:            uuid.New().String(),
			JobScheduleID: sched.ID,
			TicketID:      ticket.ID,
			DueDate:       dueDate,
			CreatedDate:   asOf,
			Status:        InstanceCreated,
		}
		if err := insertInTx(tx, inst); err != nil {
			return err
		}
		return tx.Model(&JobSchedule{}).Where("id = ?", sched.ID).
			Update("next_due_date", next).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			// A concurrent pass won the race; its commit stands.
			e.logger.Info("instance already recorded by a concurrent pass", "scheduleID", sched.ID)
			return false
		}
		e.logger.Error("failed to commit firing", "scheduleID", sched.ID, "error", err)
		return false
	}

	e.logger.Info("generated ticket",
		"scheduleID", sched.ID,
		"name", sched.Name,
		"ticket", ticket.Number,
		"dueDate", dueDate.Format("2006-01-02"))
	return true
}

// materialize builds the ticket request from the template, resolving
// {{placeholder}} tokens in the description template against known
// template fields.
func (e *Engine) materialize(sched *JobSchedule, tmpl *JobTemplate, dueDate time.Time) *TicketRequest {
	var siteName, ownerName, assignedName, contactName string
	if site, err := e.refs.SiteByID(tmpl.SiteID); err == nil {
		siteName = site.SiteName
	}
	if owner, err := e.refs.CompanyByID(tmpl.SiteOwnerCompanyID); err == nil {
		ownerName = owner.CompanyName
	}
	if assigned, err := e.refs.CompanyByID(tmpl.AssignedCompanyID); err == nil {
		assignedName = assigned.CompanyName
	}
	if contact, err := e.refs.ContactByID(tmpl.AssignedContactID); err == nil {
		contactName = contact.ContactName
	}

	description := strings.NewReplacer(
		"{{site_name}}", siteName,
		"{{company_name}}", assignedName,
		"{{contact_name}}", contactName,
		"{{template_name}}", tmpl.Name,
		"{{schedule_name}}", sched.Name,
		"{{due_date}}", dueDate.Format("2006-01-02"),
	).Replace(tmpl.DescriptionTemplate)

	target := dueDate.AddDate(0, 0, tmpl.EstimatedDurationDays)

	return &TicketRequest{
		SiteID:               tmpl.SiteID,
		SiteName:             siteName,
		SiteOwnerCompanyID:   tmpl.SiteOwnerCompanyID,
		SiteOwnerCompanyName: ownerName,
		Priority:             tmpl.Priority,
		WhoRaised:            "scheduler",
		TargetCompletionDate: target,
		AssignedCompanyID:    tmpl.AssignedCompanyID,
		AssignedCompanyName:  assignedName,
		ContactID:            tmpl.AssignedContactID,
		ContactName:          contactName,
		Subject:              tmpl.SubjectTitle,
		Description:          description,
	}
}

// isDuplicateKey reports whether err is a unique constraint violation.
// GORM translates these when the dialect supports it; the string check
// covers dialects that do not.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
