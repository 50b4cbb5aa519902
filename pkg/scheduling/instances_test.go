package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedSchedule(t *testing.T, db *gorm.DB) (*JobSchedule, *ScheduleStore) {
	t.Helper()
	refs, fx := seedReference(t, db)
	templates := NewTemplateStore(db, refs)
	schedules := NewScheduleStore(db, templates)

	tmpl, err := templates.Create(validTemplate(fx))
	require.NoError(t, err)

	sched, err := schedules.Create(&JobSchedule{
		JobTemplateID: tmpl.ID,
		Name:          "Monthly inspection",
		FrequencyType: FrequencyMonthly,
		StartDate:     date(2025, 1, 1),
		NextDueDate:   date(2025, 1, 1),
		Active:        true,
	})
	require.NoError(t, err)
	return sched, schedules
}

func TestInstanceStore_ExistsFor(t *testing.T) {
	db := setupTestDB(t)
	sched, _ := seedSchedule(t, db)
	store := NewInstanceStore(db)

	exists, err := store.ExistsFor(sched.ID, date(2025, 1, 1))
	require.NoError(t, err)
	assert.False(t, exists)

	err = db.Create(&ScheduledJobInstance{
		ID:            uuid.New().String(),
		JobScheduleID: sched.ID,
		DueDate:       date(2025, 1, 1),
		CreatedDate:   date(2025, 1, 1),
		Status:        InstanceCreated,
	}).Error
	require.NoError(t, err)

	exists, err = store.ExistsFor(sched.ID, date(2025, 1, 1))
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.ExistsFor(sched.ID, date(2025, 1, 31))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInstanceStore_UniqueScheduleDueDate(t *testing.T) {
	db := setupTestDB(t)
	sched, _ := seedSchedule(t, db)

	first := &ScheduledJobInstance{
		ID:            uuid.New().String(),
		JobScheduleID: sched.ID,
		DueDate:       date(2025, 1, 1),
		CreatedDate:   date(2025, 1, 1),
		Status:        InstanceCreated,
	}
	require.NoError(t, db.Create(first).Error)

	dup := &ScheduledJobInstance{
		ID:            uuid.New().String(),
		JobScheduleID: sched.ID,
		DueDate:       date(2025, 1, 1),
		CreatedDate:   date(2025, 1, 2),
		Status:        InstanceCreated,
	}
	err := db.Create(dup).Error
	require.Error(t, err)
	assert.True(t, isDuplicateKey(err))

	// Same schedule, different period is fine.
	next := &ScheduledJobInstance{
		ID:            uuid.New().String(),
		JobScheduleID: sched.ID,
		DueDate:       date(2025, 1, 31),
		CreatedDate:   date(2025, 1, 31),
		Status:        InstanceCreated,
	}
	assert.NoError(t, db.Create(next).Error)
}

func TestInstanceStore_ListJoinsTicketDetails(t *testing.T) {
	db := setupTestDB(t)
	sched, _ := seedSchedule(t, db)
	store := NewInstanceStore(db)

	ticket := &testTicket{ID: uuid.New().String(), TicketNumber: "T00001", Subject: "Fire alarm service visit", Status: "open"}
	require.NoError(t, db.Create(ticket).Error)

	withTicket := &ScheduledJobInstance{
		ID:            uuid.New().String(),
		JobScheduleID: sched.ID,
		TicketID:      ticket.ID,
		DueDate:       date(2025, 1, 1),
		CreatedDate:   date(2025, 1, 1),
		Status:        InstanceCreated,
	}
	require.NoError(t, db.Create(withTicket).Error)

	orphan := &ScheduledJobInstance{
		ID:            uuid.New().String(),
		JobScheduleID: sched.ID,
		DueDate:       date(2025, 1, 31),
		CreatedDate:   date(2025, 1, 31),
		Status:        InstanceCreated,
	}
	require.NoError(t, db.Create(orphan).Error)

	rows, err := store.List()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Ordered by due date descending: the orphan is newest.
	assert.Equal(t, orphan.ID, rows[0].ID)
	assert.Empty(t, rows[0].TicketNumber)
	assert.Equal(t, withTicket.ID, rows[1].ID)
	assert.Equal(t, "T00001", rows[1].TicketNumber)
	assert.Equal(t, "Fire alarm service visit", rows[1].TicketSubject)
	assert.Equal(t, "open", rows[1].TicketStatus)
	assert.Equal(t, "Monthly inspection", rows[1].ScheduleName)
	assert.Equal(t, "Fire alarm service", rows[1].TemplateName)
}

func TestInstanceStore_SyncStatuses(t *testing.T) {
	db := setupTestDB(t)
	sched, _ := seedSchedule(t, db)
	store := NewInstanceStore(db)

	mk := func(due time.Time, ticketStatus string) *ScheduledJobInstance {
		ticket := &testTicket{ID: uuid.New().String(), TicketNumber: "T" + due.Format("0102"), Status: ticketStatus}
		require.NoError(t, db.Create(ticket).Error)
		inst := &ScheduledJobInstance{
			ID:            uuid.New().String(),
			JobScheduleID: sched.ID,
			TicketID:      ticket.ID,
			DueDate:       due,
			CreatedDate:   due,
			Status:        InstanceCreated,
		}
		require.NoError(t, db.Create(inst).Error)
		return inst
	}

	resolved := mk(date(2025, 1, 1), "resolved")
	closed := mk(date(2025, 1, 31), "closed")
	cancelled := mk(date(2025, 3, 2), "cancelled")
	open := mk(date(2025, 4, 1), "open")

	updated, err := store.SyncStatuses()
	require.NoError(t, err)
	assert.EqualValues(t, 3, updated)

	check := func(id string, want InstanceStatus) {
		var inst ScheduledJobInstance
		require.NoError(t, db.First(&inst, "id = ?", id).Error)
		assert.Equal(t, want, inst.Status)
	}
	check(resolved.ID, InstanceCompleted)
	check(closed.ID, InstanceCompleted)
	check(cancelled.ID, InstanceCancelled)
	check(open.ID, InstanceCreated)

	// A second sync is a no-op.
	updated, err = store.SyncStatuses()
	require.NoError(t, err)
	assert.Zero(t, updated)
}
