// Package preview serves a rendered site locally and rebuilds it when the
// sources change.
package preview

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docnav/internal/build"
	"git.home.luguber.info/inful/docnav/internal/logfields"
)

// Builder runs one build.
type Builder interface {
	Run(ctx context.Context, req build.Request) (*build.Report, error)
}

// Options configures a preview session.
type Options struct {
	Addr      string
	OutputDir string
	Mode      build.Mode
	Debounce  time.Duration

	// WatchDirs are watched recursively; WatchFiles individually.
	WatchDirs  []string
	WatchFiles []string

	Registry *prometheus.Registry

	// Reload, when set, is called before every rebuild to pick up
	// configuration changes.
	Reload func() (Builder, error)
	// Ready, when set, is called once the server listens.
	Ready func(*Server)
}

// Preview owns the server, the watcher and the rebuild loop.
type Preview struct {
	opts     Options
	builder  Builder
	hub      *LiveReloadHub
	status   *Status
	requests chan struct{}
}

// New creates a preview around builder.
func New(builder Builder, opts Options) *Preview {
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}
	return &Preview{
		opts:     opts,
		builder:  builder,
		hub:      NewLiveReloadHub(),
		status:   NewStatus(),
		requests: make(chan struct{}, 1),
	}
}

// Status returns the status tracker.
func (p *Preview) Status() *Status { return p.status }

// Run builds once, serves the output and rebuilds on change until ctx ends.
// A failing build keeps the server up with the last good output.
func (p *Preview) Run(ctx context.Context) error {
	p.rebuild(ctx)

	srv := &Server{
		Addr:     p.opts.Addr,
		Dir:      p.opts.OutputDir,
		Hub:      p.hub,
		Status:   p.status,
		Registry: p.opts.Registry,
	}
	if err := srv.Start(); err != nil {
		return err
	}
	if p.opts.Ready != nil {
		p.opts.Ready(srv)
	}

	watcher, err := NewWatcher(p.opts.WatchDirs, p.opts.WatchFiles, p.opts.Debounce)
	if err != nil {
		_ = srv.Stop(context.Background())
		return err
	}
	defer func() { _ = watcher.Close() }()
	go watcher.Run(ctx, p.Request)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Shutting down preview server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Stop(shutdownCtx)
		case <-p.requests:
			p.rebuild(ctx)
		}
	}
}

// Request schedules a rebuild. Requests made while a build runs collapse
// into one follow-up build.
func (p *Preview) Request() {
	select {
	case p.requests <- struct{}{}:
	default:
	}
}

func (p *Preview) rebuild(ctx context.Context) {
	if p.opts.Reload != nil {
		b, err := p.opts.Reload()
		if err != nil {
			slog.Warn("Configuration reload failed; keeping previous settings", logfields.Error(err))
		} else {
			p.builder = b
		}
	}

	p.status.Begin()
	rep, err := p.builder.Run(ctx, build.Request{Mode: p.opts.Mode, Trigger: "preview"})
	p.status.Record(rep, err)
	if err != nil {
		slog.Warn("Rebuild failed", logfields.Error(err))
		return
	}
	p.hub.Broadcast(rep.BuildID)
}
