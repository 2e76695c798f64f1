package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docnav/internal/build"
	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/eventstore"
	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/lint"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/notify"
	"git.home.luguber.info/inful/docnav/internal/site"
)

// siteSource overrides where documents are read from, for the daemon's
// checkout.
type siteSource struct {
	DocsDir string
	NavFile string
}

// buildOptions maps the configuration onto build options.
func buildOptions(cfg *config.Config, src *siteSource) build.Options {
	opts := build.Options{
		DocsDir:   cfg.Resolve(cfg.Docs.Dir),
		NavFile:   cfg.Resolve(cfg.Docs.NavFile),
		OutputDir: cfg.Resolve(cfg.Output.Dir),
		RouteBase: cfg.Docs.RouteBase,
		Site: site.Options{
			Site:       cfg.Site.SiteInfo,
			NavLinks:   cfg.Site.NavLinks,
			Footer:     cfg.Site.Footer,
			UnsafeHTML: cfg.Output.UnsafeHTML,
		},
		Landing:        cfg.LandingContent(),
		Lint:           lint.Config{Disabled: cfg.Lint.Disabled},
		VerifyLinks:    cfg.Output.ShouldVerifyLinks(),
		CheckFragments: cfg.Output.CheckFragments,
	}
	if src != nil {
		opts.DocsDir = src.DocsDir
		opts.NavFile = src.NavFile
	}
	return opts
}

// services bundles the long-lived services a build uses.
type services struct {
	store     *eventstore.SQLiteStore
	publisher notify.Publisher
	registry  *prometheus.Registry
	recorder  metrics.Recorder
}

// openServices opens the state database and the notification publisher.
// withMetrics registers a Prometheus recorder for commands that serve
// /metrics.
func openServices(ctx context.Context, cfg *config.Config, withMetrics bool) (*services, error) {
	rt := &services{recorder: metrics.NoopRecorder{}, publisher: notify.NoopPublisher{}}

	dbPath := cfg.Resolve(cfg.State.DB)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to create state directory").
			WithContext("path", dbPath).
			Build()
	}
	store, err := eventstore.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, err
	}
	rt.store = store

	pub, err := notify.New(ctx, notify.Config{
		URL:      cfg.Notify.NATSURL,
		Subject:  cfg.Notify.Subject,
		Stream:   cfg.Notify.Stream,
		KVBucket: cfg.Notify.KVBucket,
	})
	if err != nil {
		// Notifications are best effort; builds continue without them.
		slog.Warn("Notifications disabled", logfields.URL(cfg.Notify.NATSURL), logfields.Error(err))
	} else {
		rt.publisher = pub
	}

	if withMetrics {
		rt.registry = metrics.NewRegistry()
		rt.recorder = metrics.NewPrometheusRecorder(rt.registry)
	}
	return rt, nil
}

func (rt *services) builder(opts build.Options) *build.Builder {
	return build.New(opts,
		build.WithRecorder(rt.recorder),
		build.WithEventStore(rt.store),
		build.WithFingerprints(rt.store),
		build.WithPublisher(rt.publisher),
	)
}

func (rt *services) Close() {
	if err := rt.publisher.Close(); err != nil {
		slog.Warn("Failed to close publisher", logfields.Error(err))
	}
	if err := rt.store.Close(); err != nil {
		slog.Warn("Failed to close state database", logfields.Error(err))
	}
}

func modeFor(incremental bool) build.Mode {
	if incremental {
		return build.ModeIncremental
	}
	return build.ModeFull
}
