package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorker_DisabledReturnsImmediately(t *testing.T) {
	env := setupEngine(t)
	w := NewWorker(env.engine, env.instances, &Config{Enabled: false}, nil)

	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("disabled worker did not return")
	}
}

func TestWorker_RunOnStartFiresDueSchedules(t *testing.T) {
	env := setupEngine(t)
	env.addSchedule(t, &JobSchedule{
		Name:          "Monthly inspection",
		FrequencyType: FrequencyMonthly,
		StartDate:     date(2020, 1, 1),
		NextDueDate:   date(2020, 1, 1),
		Active:        true,
	})

	cfg := &Config{Enabled: true, Interval: time.Hour, RunOnStart: true}
	w := NewWorker(env.engine, env.instances, cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.Eventually(t, func() bool {
		rows, err := env.instances.List()
		return err == nil && len(rows) == 1
	}, 5*time.Second, 20*time.Millisecond)

	rows, err := env.instances.List()
	require.NoError(t, err)
	assert.Equal(t, InstanceCreated, rows[0].Status)
}

func TestWorker_TickerFires(t *testing.T) {
	env := setupEngine(t)
	env.addSchedule(t, &JobSchedule{
		Name:          "Monthly inspection",
		FrequencyType: FrequencyMonthly,
		StartDate:     date(2020, 1, 1),
		NextDueDate:   date(2020, 1, 1),
		Active:        true,
	})

	cfg := &Config{Enabled: true, Interval: 20 * time.Millisecond, RunOnStart: false}
	w := NewWorker(env.engine, env.instances, cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.Eventually(t, func() bool {
		rows, err := env.instances.List()
		return err == nil && len(rows) >= 1
	}, 5*time.Second, 20*time.Millisecond)
}
