package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupScheduleStores(t *testing.T) (*gorm.DB, *TemplateStore, *ScheduleStore, refFixture) {
	t.Helper()
	db := setupTestDB(t)
	refs, fx := seedReference(t, db)
	templates := NewTemplateStore(db, refs)
	schedules := NewScheduleStore(db, templates)
	return db, templates, schedules, fx
}

func TestScheduleStore_CreateComputesInitialCursor(t *testing.T) {
	_, templates, schedules, fx := setupScheduleStores(t)

	tmpl, err := templates.Create(validTemplate(fx))
	require.NoError(t, err)

	created, err := schedules.Create(&JobSchedule{
		JobTemplateID: tmpl.ID,
		Name:          "Monthly inspection",
		FrequencyType: FrequencyMonthly,
		StartDate:     date(2025, 1, 1),
		Active:        true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	// No cursor supplied: the first due date is one period after start.
	assert.Equal(t, date(2025, 1, 31), created.NextDueDate)
}

func TestScheduleStore_CreateHonorsSuppliedCursor(t *testing.T) {
	_, templates, schedules, fx := setupScheduleStores(t)

	tmpl, err := templates.Create(validTemplate(fx))
	require.NoError(t, err)

	created, err := schedules.Create(&JobSchedule{
		JobTemplateID: tmpl.ID,
		Name:          "Monthly inspection",
		FrequencyType: FrequencyMonthly,
		StartDate:     date(2025, 1, 1),
		NextDueDate:   date(2025, 1, 1),
		Active:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, date(2025, 1, 1), created.NextDueDate)

	_, err = schedules.Create(&JobSchedule{
		JobTemplateID: tmpl.ID,
		Name:          "Backdated cursor",
		FrequencyType: FrequencyMonthly,
		StartDate:     date(2025, 1, 1),
		NextDueDate:   date(2024, 12, 1),
		Active:        true,
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "nextDueDate", ve.Field)
}

func TestScheduleStore_CreateValidation(t *testing.T) {
	_, templates, schedules, fx := setupScheduleStores(t)

	tmpl, err := templates.Create(validTemplate(fx))
	require.NoError(t, err)

	valid := func() *JobSchedule {
		end := date(2025, 12, 31)
		return &JobSchedule{
			JobTemplateID:     tmpl.ID,
			Name:              "Monthly inspection",
			FrequencyType:     FrequencyMonthly,
			StartDate:         date(2025, 1, 1),
			EndDate:           &end,
			AdvanceNoticeDays: 7,
			Active:            true,
		}
	}

	cases := []struct {
		name   string
		mutate func(*JobSchedule)
		field  string
	}{
		{"missing name", func(s *JobSchedule) { s.Name = "" }, "name"},
		{"missing start date", func(s *JobSchedule) { s.StartDate = time.Time{} }, "startDate"},
		{"unknown frequency", func(s *JobSchedule) { s.FrequencyType = "fortnightly" }, "frequencyType"},
		{"custom without value", func(s *JobSchedule) { s.FrequencyType = FrequencyCustom; s.FrequencyValue = 0 }, "frequencyValue"},
		{"negative advance notice", func(s *JobSchedule) { s.AdvanceNoticeDays = -1 }, "advanceNoticeDays"},
		{"unknown template", func(s *JobSchedule) { s.JobTemplateID = "nope" }, "jobTemplateId"},
		{"end date before start", func(s *JobSchedule) { end := date(2024, 12, 1); s.EndDate = &end }, "endDate"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sched := valid()
			tc.mutate(sched)

			_, err := schedules.Create(sched)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestScheduleStore_UpdateFrequencyKeepsCursor(t *testing.T) {
	_, templates, schedules, fx := setupScheduleStores(t)

	tmpl, err := templates.Create(validTemplate(fx))
	require.NoError(t, err)

	created, err := schedules.Create(&JobSchedule{
		JobTemplateID: tmpl.ID,
		Name:          "Monthly inspection",
		FrequencyType: FrequencyMonthly,
		StartDate:     date(2025, 1, 1),
		Active:        true,
	})
	require.NoError(t, err)
	require.Equal(t, date(2025, 1, 31), created.NextDueDate)

	quarterly := FrequencyQuarterly
	updated, err := schedules.Update(created.ID, ScheduleUpdate{FrequencyType: &quarterly})
	require.NoError(t, err)
	assert.Equal(t, FrequencyQuarterly, updated.FrequencyType)
	// The cursor only moves when the engine fires or an operator sets it.
	assert.Equal(t, date(2025, 1, 31), updated.NextDueDate)

	next := date(2025, 3, 1)
	updated, err = schedules.Update(created.ID, ScheduleUpdate{NextDueDate: &next})
	require.NoError(t, err)
	assert.Equal(t, date(2025, 3, 1), updated.NextDueDate)
}

func TestScheduleStore_UpdateEndDate(t *testing.T) {
	_, templates, schedules, fx := setupScheduleStores(t)

	tmpl, err := templates.Create(validTemplate(fx))
	require.NoError(t, err)

	end := date(2025, 6, 30)
	created, err := schedules.Create(&JobSchedule{
		JobTemplateID: tmpl.ID,
		Name:          "Monthly inspection",
		FrequencyType: FrequencyMonthly,
		StartDate:     date(2025, 1, 1),
		EndDate:       &end,
		Active:        true,
	})
	require.NoError(t, err)

	updated, err := schedules.Update(created.ID, ScheduleUpdate{ClearEndDate: true})
	require.NoError(t, err)
	assert.Nil(t, updated.EndDate)

	badEnd := date(2024, 6, 30)
	_, err = schedules.Update(created.ID, ScheduleUpdate{EndDate: &badEnd})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "endDate", ve.Field)
}

func TestScheduleStore_UpdateStartDateGuardsCursor(t *testing.T) {
	_, templates, schedules, fx := setupScheduleStores(t)

	tmpl, err := templates.Create(validTemplate(fx))
	require.NoError(t, err)

	created, err := schedules.Create(&JobSchedule{
		JobTemplateID: tmpl.ID,
		Name:          "Monthly inspection",
		FrequencyType: FrequencyMonthly,
		StartDate:     date(2025, 1, 1),
		Active:        true,
	})
	require.NoError(t, err)
	require.Equal(t, date(2025, 1, 31), created.NextDueDate)

	// Moving the start past the cursor on its own is rejected.
	lateStart := date(2025, 6, 1)
	_, err = schedules.Update(created.ID, ScheduleUpdate{StartDate: &lateStart})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "startDate", ve.Field)

	got, err := schedules.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, date(2025, 1, 1), got.StartDate)

	// Moving start and cursor together is fine.
	next := date(2025, 6, 30)
	updated, err := schedules.Update(created.ID, ScheduleUpdate{StartDate: &lateStart, NextDueDate: &next})
	require.NoError(t, err)
	assert.Equal(t, date(2025, 6, 1), updated.StartDate)
	assert.Equal(t, date(2025, 6, 30), updated.NextDueDate)

	// Backdating the start keeps the cursor valid.
	earlier := date(2025, 5, 1)
	updated, err = schedules.Update(created.ID, ScheduleUpdate{StartDate: &earlier})
	require.NoError(t, err)
	assert.Equal(t, date(2025, 6, 30), updated.NextDueDate)
}

func TestScheduleStore_ListAndDeactivate(t *testing.T) {
	_, templates, schedules, fx := setupScheduleStores(t)

	tmpl, err := templates.Create(validTemplate(fx))
	require.NoError(t, err)

	first, err := schedules.Create(&JobSchedule{
		JobTemplateID: tmpl.ID,
		Name:          "Monthly inspection",
		FrequencyType: FrequencyMonthly,
		StartDate:     date(2025, 1, 1),
		Active:        true,
	})
	require.NoError(t, err)
	_, err = schedules.Create(&JobSchedule{
		JobTemplateID: tmpl.ID,
		Name:          "Quarterly visit",
		FrequencyType: FrequencyQuarterly,
		StartDate:     date(2025, 1, 1),
		Active:        true,
	})
	require.NoError(t, err)

	rows, err := schedules.List(false)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, tmpl.Name, rows[0].TemplateName)

	require.NoError(t, schedules.Deactivate(first.ID))
	assert.ErrorIs(t, schedules.Deactivate("missing"), ErrScheduleNotFound)

	active, err := schedules.ListActive()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Quarterly visit", active[0].Name)

	all, err := schedules.List(true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
