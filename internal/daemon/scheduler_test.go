package daemon

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

func newScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s, err := NewScheduler()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop(context.Background()) })
	return s
}

func TestSchedulerJobDefinitions(t *testing.T) {
	tests := []struct {
		name string
		add  func(*Scheduler) (string, error)
		ok   bool
	}{
		{"every 15m", func(s *Scheduler) (string, error) { return s.ScheduleEvery("sync", 15*time.Minute, func() {}) }, true},
		{"zero interval", func(s *Scheduler) (string, error) { return s.ScheduleEvery("sync", 0, func() {}) }, false},
		{"negative interval", func(s *Scheduler) (string, error) { return s.ScheduleEvery("sync", -time.Second, func() {}) }, false},
		{"hourly cron", func(s *Scheduler) (string, error) { return s.ScheduleCron("sync", "0 * * * *", func() {}) }, true},
		{"garbage cron", func(s *Scheduler) (string, error) { return s.ScheduleCron("sync", "every tuesday", func() {}) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := tt.add(newScheduler(t))
			if !tt.ok {
				require.Error(t, err)
				assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
				return
			}
			require.NoError(t, err)
			_, perr := uuid.Parse(id)
			assert.NoError(t, perr)
		})
	}
}

func TestSchedulerRunsJobs(t *testing.T) {
	s := newScheduler(t)

	var runs atomic.Int32
	_, err := s.ScheduleEvery("tick", 20*time.Millisecond, func() { runs.Add(1) })
	require.NoError(t, err)
	s.Start()
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 3*time.Second, 10*time.Millisecond)
}
