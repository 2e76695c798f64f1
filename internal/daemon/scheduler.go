package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// Scheduler wraps a gocron scheduler. Jobs run in singleton mode: a run that
// is due while the previous one is still going is skipped.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a stopped scheduler.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryDaemon, "failed to create scheduler").Build()
	}
	return &Scheduler{scheduler: s}, nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler", slog.Int("jobs", len(s.scheduler.Jobs())))
	s.scheduler.Start()
}

// Stop waits for running jobs and shuts the scheduler down.
func (s *Scheduler) Stop(_ context.Context) error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// ScheduleEvery runs task every interval and returns the job id.
func (s *Scheduler) ScheduleEvery(name string, interval time.Duration, task func()) (string, error) {
	if interval <= 0 {
		return "", errors.ConfigError("schedule interval must be positive").
			WithContext("interval", interval.String()).
			Build()
	}
	return s.add(name, gocron.DurationJob(interval), task)
}

// ScheduleCron runs task on a five field cron expression and returns the job id.
func (s *Scheduler) ScheduleCron(name, expr string, task func()) (string, error) {
	return s.add(name, gocron.CronJob(expr, false), task)
}

func (s *Scheduler) add(name string, def gocron.JobDefinition, task func()) (string, error) {
	job, err := s.scheduler.NewJob(
		def,
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryConfig, "invalid schedule").
			WithContext("job", name).
			UserAction().
			Build()
	}
	return job.ID().String(), nil
}
