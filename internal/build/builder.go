package build

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docnav/internal/docs"
	"git.home.luguber.info/inful/docnav/internal/eventstore"
	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/landing"
	"git.home.luguber.info/inful/docnav/internal/lint"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/nav"
	"git.home.luguber.info/inful/docnav/internal/notify"
	"git.home.luguber.info/inful/docnav/internal/observability"
	"git.home.luguber.info/inful/docnav/internal/site"
)

// Builder runs builds for one site. It is not safe for concurrent use;
// callers serialize builds.
type Builder struct {
	opts      Options
	recorder  metrics.Recorder
	events    eventstore.Store
	fps       eventstore.FingerprintStore
	publisher notify.Publisher
	newID     func() string
}

// Option configures a Builder.
type Option func(*Builder)

// WithRecorder reports stage and build metrics to r.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) { b.recorder = r }
}

// WithEventStore records lifecycle events in s.
func WithEventStore(s eventstore.Store) Option {
	return func(b *Builder) { b.events = s }
}

// WithFingerprints persists page fingerprints for incremental builds.
func WithFingerprints(s eventstore.FingerprintStore) Option {
	return func(b *Builder) { b.fps = s }
}

// WithPublisher publishes build and broken link events.
func WithPublisher(p notify.Publisher) Option {
	return func(b *Builder) { b.publisher = p }
}

// WithIDGenerator overrides build ID generation.
func WithIDGenerator(fn func() string) Option {
	return func(b *Builder) { b.newID = fn }
}

// New creates a Builder.
func New(opts Options, options ...Option) *Builder {
	if opts.RouteBase == "" {
		opts.RouteBase = nav.DefaultRouteBase
	}
	b := &Builder{
		opts:      opts,
		recorder:  metrics.NoopRecorder{},
		publisher: notify.NoopPublisher{},
		newID:     uuid.NewString,
	}
	for _, o := range options {
		o(b)
	}
	return b
}

// Options returns the builder's options.
func (b *Builder) Options() Options { return b.opts }

// Inputs is the loaded and validated state of a site.
type Inputs struct {
	Tree   *nav.Tree
	Docs   *docs.Set
	Router *nav.Router
	Lint   *lint.Result
}

// run is the state of one build in progress.
type run struct {
	report   *Report
	inputs   Inputs
	start    time.Time
	renderer *site.Renderer
	// fingerprints maps route to page fingerprint for this build.
	fingerprints map[string]string
}

// Run executes every stage. The returned report is never nil; on failure
// its Status is failed or canceled and err is a classified error.
func (b *Builder) Run(ctx context.Context, req Request) (*Report, error) {
	if req.Mode == "" {
		req.Mode = ModeFull
	}
	r := &run{
		start: time.Now(),
		report: &Report{
			BuildID:   b.newID(),
			Mode:      req.Mode,
			Trigger:   req.Trigger,
			StartedAt: time.Now(),
			OutputDir: b.opts.OutputDir,
		},
	}
	ctx = observability.WithBuildID(ctx, r.report.BuildID)
	if req.Trigger != "" {
		ctx = observability.WithTrigger(ctx, req.Trigger)
	}
	observability.InfoContext(ctx, "Build started", slog.String("mode", string(req.Mode)))
	b.emit(ctx, r.report.BuildID, eventstore.TypeBuildStarted, eventstore.BuildStartedData{
		Mode: string(req.Mode), Trigger: req.Trigger,
	})

	out := newOutput(b.opts.OutputDir, req.Mode)
	defer out.cleanup(ctx)

	stages := []struct {
		name string
		fn   func(context.Context, *run) error
	}{
		{StageLoadNav, b.loadNav},
		{StageDiscoverDocs, b.discoverDocs},
		{StageValidate, b.validate},
		{StageRenderPages, func(ctx context.Context, r *run) error { return b.renderPages(ctx, r, out) }},
		{StageRenderLanding, func(ctx context.Context, r *run) error { return b.renderLanding(ctx, r, out) }},
		{StageVerifyLinks, func(ctx context.Context, r *run) error { return b.verifyLinks(ctx, r, out) }},
		{StageFinalize, func(ctx context.Context, r *run) error { return b.finalize(ctx, r, out) }},
	}
	for _, st := range stages {
		if err := b.stage(ctx, r, st.name, st.fn); err != nil {
			return r.report, b.fail(ctx, r, st.name, err)
		}
	}

	r.report.Status = StatusSuccess
	if r.report.Warnings() > 0 {
		r.report.Status = StatusWarning
	}
	r.report.Duration = time.Since(r.start)
	b.recorder.IncBuildOutcome(string(r.report.Status))
	b.recorder.ObserveBuildDuration(r.report.Duration)

	b.emit(ctx, r.report.BuildID, eventstore.TypeBuildCompleted, eventstore.BuildCompletedData{
		Status:      string(r.report.Status),
		DurationMS:  r.report.Duration.Milliseconds(),
		Pages:       r.report.Pages(),
		Warnings:    r.report.Warnings(),
		BrokenLinks: len(r.report.BrokenLinks),
		OutputDir:   r.report.OutputDir,
	})
	b.publish(ctx, r.report, "")

	observability.InfoContext(ctx, "Build completed",
		slog.String("status", string(r.report.Status)),
		slog.Int("rendered", r.report.Rendered),
		slog.Int("skipped", r.report.Skipped),
		logfields.DurationMS(float64(r.report.Duration.Milliseconds())))
	return r.report, nil
}

// Validate runs the load, discover and validate stages only. The lint
// result is returned even when it contains errors; err is set only when
// the inputs cannot be loaded.
func (b *Builder) Validate(ctx context.Context) (*Inputs, error) {
	r := &run{start: time.Now(), report: &Report{}}
	if err := b.loadNav(ctx, r); err != nil {
		return nil, err
	}
	if err := b.discoverDocs(ctx, r); err != nil {
		return nil, err
	}
	r.inputs.Router = nav.NewRouter(b.opts.RouteBase, r.inputs.Docs.RouteOverrides())
	r.inputs.Lint = b.lint(r.inputs)
	return &r.inputs, nil
}

func (b *Builder) stage(ctx context.Context, r *run, name string, fn func(context.Context, *run) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx = observability.WithStage(ctx, name)
	start := time.Now()
	err := fn(ctx, r)
	d := time.Since(start)
	r.report.Stages = append(r.report.Stages, StageTiming{Name: name, Duration: d})
	b.recorder.ObserveStageDuration(name, d)

	switch {
	case err == nil:
		b.recorder.IncStageResult(name, metrics.ResultSuccess)
		observability.DebugContext(ctx, "Stage completed", logfields.DurationMS(float64(d.Microseconds())/1000))
	case ctx.Err() != nil:
		b.recorder.IncStageResult(name, metrics.ResultCanceled)
	default:
		b.recorder.IncStageResult(name, metrics.ResultFatal)
	}
	return err
}

func (b *Builder) fail(ctx context.Context, r *run, stage string, err error) error {
	r.report.FailedStage = stage
	r.report.Duration = time.Since(r.start)
	r.report.Status = StatusFailed
	if ctx.Err() != nil {
		r.report.Status = StatusCanceled
		err = errors.WrapError(ctx.Err(), errors.CategoryBuild, "build canceled").
			WithContext("stage", stage).
			Build()
	} else if !errors.IsClassified(err) {
		err = errors.WrapError(err, errors.CategoryBuild, "build stage failed").
			WithContext("stage", stage).
			Build()
	}
	b.recorder.IncBuildOutcome(string(r.report.Status))
	b.recorder.ObserveBuildDuration(r.report.Duration)

	// Use a fresh context: ctx may be canceled, the failure should still be recorded.
	bg := context.WithoutCancel(ctx)
	b.emit(bg, r.report.BuildID, eventstore.TypeBuildFailed, eventstore.BuildFailedData{
		Stage:      stage,
		Error:      err.Error(),
		DurationMS: r.report.Duration.Milliseconds(),
	})
	b.publish(bg, r.report, err.Error())

	observability.ErrorContext(ctx, "Build failed", logfields.Stage(stage), logfields.Error(err))
	return err
}

func (b *Builder) emit(ctx context.Context, buildID, eventType string, data any) {
	if b.events == nil {
		return
	}
	e, err := eventstore.NewEvent(buildID, eventType, data)
	if err == nil {
		err = b.events.Append(ctx, e)
	}
	if err != nil {
		slog.Warn("Failed to record build event", logfields.BuildID(buildID), slog.String("type", eventType), logfields.Error(err))
	}
}

func (b *Builder) publish(ctx context.Context, rep *Report, errMsg string) {
	ev := &notify.BuildEvent{
		BuildID:     rep.BuildID,
		Status:      string(rep.Status),
		Mode:        string(rep.Mode),
		Trigger:     rep.Trigger,
		Pages:       rep.Pages(),
		Skipped:     rep.Skipped,
		Warnings:    rep.Warnings(),
		BrokenLinks: len(rep.BrokenLinks),
		DurationMS:  rep.Duration.Milliseconds(),
		Error:       errMsg,
	}
	if err := b.publisher.PublishBuild(ctx, ev); err != nil {
		slog.Warn("Failed to publish build event", logfields.BuildID(rep.BuildID), logfields.Error(err))
	}
}

func (b *Builder) loadNav(ctx context.Context, r *run) error {
	tree, err := nav.Load(b.opts.NavFile)
	if err != nil {
		return err
	}
	r.inputs.Tree = tree
	r.report.Leaves = len(tree.Slugs())
	b.emit(ctx, r.report.BuildID, eventstore.TypeNavigationLoaded, eventstore.NavigationLoadedData{
		Sidebars: len(tree.Sidebars),
		Leaves:   r.report.Leaves,
		TreeHash: nav.Hash(tree),
	})
	observability.DebugContext(ctx, "Navigation loaded", logfields.Path(b.opts.NavFile), logfields.Count(r.report.Leaves))
	return nil
}

func (b *Builder) discoverDocs(ctx context.Context, r *run) error {
	set, err := docs.Discover(b.opts.DocsDir)
	if err != nil {
		return err
	}
	r.inputs.Docs = set
	r.report.Documents = set.Len()
	r.report.Assets = len(set.Assets)
	b.emit(ctx, r.report.BuildID, eventstore.TypeDocumentsDiscovered, eventstore.DocumentsDiscoveredData{
		Documents: set.Len(),
		Assets:    len(set.Assets),
		DocsHash:  set.Hash(),
	})
	observability.DebugContext(ctx, "Documents discovered", logfields.Path(b.opts.DocsDir), logfields.Count(set.Len()))
	return nil
}

func (b *Builder) lint(in Inputs) *lint.Result {
	cfg := b.opts.Lint
	return lint.NewLinter(&cfg).Lint(&lint.Input{
		NavFile:      b.opts.NavFile,
		Tree:         in.Tree,
		Docs:         in.Docs,
		Router:       in.Router,
		LandingLinks: landing.Links(b.opts.Landing),
		Reserved:     map[string]string{LandingRoute: "the landing page"},
	})
}

func (b *Builder) validate(ctx context.Context, r *run) error {
	r.inputs.Router = nav.NewRouter(b.opts.RouteBase, r.inputs.Docs.RouteOverrides())
	res := b.lint(r.inputs)
	r.inputs.Lint = res
	r.report.Lint = res
	for _, issue := range res.Issues {
		b.recorder.IncLintIssue(issue.Rule, strings.ToLower(issue.Severity.String()))
		if issue.Severity == lint.SeverityWarning {
			observability.WarnContext(ctx, issue.Message, slog.String("rule", issue.Rule), logfields.Slug(issue.Slug))
		}
	}
	return res.Err()
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// ensureDir creates dir when it does not exist.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", dir).
			Build()
	}
	return nil
}
