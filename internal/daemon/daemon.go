package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docnav/internal/build"
	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/git"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/observability"
	"git.home.luguber.info/inful/docnav/internal/preview"
)

// TriggerSchedule marks builds started by the daemon.
const TriggerSchedule = "schedule"

// Syncer updates the source checkout.
type Syncer interface {
	Sync(ctx context.Context) (git.Result, error)
}

// Options configures a daemon.
type Options struct {
	// Schedule is a Go duration ("15m") or a cron expression.
	Schedule  string
	Addr      string
	OutputDir string
	Mode      build.Mode
	Registry  *prometheus.Registry
	Recorder  metrics.Recorder
	// Ready, when set, is called once the server listens.
	Ready func(*preview.Server)
}

// Daemon periodically syncs and rebuilds the site.
type Daemon struct {
	opts    Options
	syncer  Syncer
	builder preview.Builder
	status  *preview.Status

	mu    sync.Mutex
	built string // commit of the last successful build
}

// New creates a daemon.
func New(syncer Syncer, builder preview.Builder, opts Options) *Daemon {
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Mode == "" {
		opts.Mode = build.ModeFull
	}
	return &Daemon{opts: opts, syncer: syncer, builder: builder, status: preview.NewStatus()}
}

// Status returns the build status served at /api/status.
func (d *Daemon) Status() *preview.Status { return d.status }

// Run performs one cycle, starts serving and then cycles on the schedule
// until ctx ends. A failing first cycle does not stop the daemon.
func (d *Daemon) Run(ctx context.Context) error {
	sched, err := NewScheduler()
	if err != nil {
		return err
	}
	if err := d.schedule(ctx, sched); err != nil {
		_ = sched.Stop(context.Background())
		return err
	}

	if _, err := d.Cycle(ctx); err != nil {
		slog.Error("Initial cycle failed", logfields.Error(err))
	}

	srv := &preview.Server{
		Addr:     d.opts.Addr,
		Dir:      d.opts.OutputDir,
		Status:   d.status,
		Registry: d.opts.Registry,
	}
	if err := srv.Start(); err != nil {
		_ = sched.Stop(context.Background())
		return err
	}
	if d.opts.Ready != nil {
		d.opts.Ready(srv)
	}
	sched.Start()

	<-ctx.Done()
	slog.Info("Shutting down daemon")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sched.Stop(shutdownCtx); err != nil {
		slog.Warn("Scheduler shutdown failed", logfields.Error(err))
	}
	return srv.Stop(shutdownCtx)
}

func (d *Daemon) schedule(ctx context.Context, sched *Scheduler) error {
	task := func() {
		if _, err := d.Cycle(ctx); err != nil {
			slog.Error("Scheduled cycle failed", logfields.Error(err))
		}
	}
	if iv, err := time.ParseDuration(d.opts.Schedule); err == nil {
		_, err = sched.ScheduleEvery("docnav-sync", iv, task)
		return err
	}
	_, err := sched.ScheduleCron("docnav-sync", d.opts.Schedule, task)
	return err
}

// Cycle syncs the checkout and builds when the commit changed since the last
// successful build. The report is nil when the build was skipped.
func (d *Daemon) Cycle(ctx context.Context) (*build.Report, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	ctx = observability.WithTrigger(ctx, TriggerSchedule)

	start := time.Now()
	res, err := d.syncer.Sync(ctx)
	d.opts.Recorder.ObserveSyncDuration(time.Since(start), err == nil)
	if err != nil {
		d.status.Record(nil, err)
		return nil, err
	}

	if res.Commit == d.built {
		observability.DebugContext(ctx, "Source unchanged; skipping build", logfields.Commit(short(res.Commit)))
		return nil, nil
	}

	d.status.Begin()
	rep, err := d.builder.Run(ctx, build.Request{Mode: d.opts.Mode, Trigger: TriggerSchedule})
	d.status.Record(rep, err)
	if err != nil {
		return rep, errors.WrapError(err, errors.CategoryDaemon, "scheduled build failed").
			WithContext("commit", res.Commit).
			Build()
	}
	d.built = res.Commit
	observability.InfoContext(ctx, "Site rebuilt",
		logfields.Commit(short(res.Commit)),
		logfields.BuildID(rep.BuildID),
		logfields.Count(rep.Pages()))
	return rep, nil
}

// LastBuiltCommit returns the commit of the last successful build.
func (d *Daemon) LastBuiltCommit() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.built
}

func short(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
