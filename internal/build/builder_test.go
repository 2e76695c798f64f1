package build

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docnav/internal/eventstore"
	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/landing"
	"git.home.luguber.info/inful/docnav/internal/linkverify"
	"git.home.luguber.info/inful/docnav/internal/notify"
	"git.home.luguber.info/inful/docnav/internal/site"
)

const fixtureNav = `sidebars:
  docs:
    - intro
    - type: category
      label: Guide
      items:
        - guide/setup
`

type fixture struct {
	root    string
	docsDir string
	navFile string
	outDir  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		root:    root,
		docsDir: filepath.Join(root, "docs"),
		navFile: filepath.Join(root, "sidebars.yaml"),
		outDir:  filepath.Join(root, "build"),
	}
	f.write(t, "docs/intro.md", "---\ntitle: Introduction\n---\n# Introduction\n\nSee [the guide](guide/setup.md).\n")
	f.write(t, "docs/guide/setup.md", "# Setup\n\nRun it.\n\n![logo](../img/logo.png)\n")
	f.write(t, "docs/img/logo.png", "png")
	f.write(t, "sidebars.yaml", fixtureNav)
	return f
}

func (f *fixture) write(t *testing.T, rel, content string) {
	t.Helper()
	p := filepath.Join(f.root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func (f *fixture) options() Options {
	return Options{
		DocsDir:   f.docsDir,
		NavFile:   f.navFile,
		OutputDir: f.outDir,
		Site:      site.Options{Site: landing.SiteInfo{Title: "Test"}},
		Landing: landing.Content{
			Intro:   "Hello",
			Buttons: []landing.Link{{Label: "Start", To: "/docs/intro"}},
		},
		VerifyLinks: true,
	}
}

func (f *fixture) read(t *testing.T, route string) *goquery.Document {
	t.Helper()
	data, err := os.ReadFile(site.OutputPath(f.outDir, route))
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	require.NoError(t, err)
	return doc
}

func openStore(t *testing.T) *eventstore.SQLiteStore {
	t.Helper()
	store, err := eventstore.NewSQLiteStore(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

type recordingPublisher struct {
	builds []*notify.BuildEvent
	broken []linkverify.BrokenLinkEvent
}

func (p *recordingPublisher) PublishBuild(_ context.Context, e *notify.BuildEvent) error {
	p.builds = append(p.builds, e)
	return nil
}

func (p *recordingPublisher) PublishBrokenLinks(_ context.Context, events []linkverify.BrokenLinkEvent) error {
	p.broken = append(p.broken, events...)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func TestFullBuild(t *testing.T) {
	f := newFixture(t)
	store := openStore(t)
	pub := &recordingPublisher{}
	b := New(f.options(), WithEventStore(store), WithPublisher(pub), WithIDGenerator(func() string { return "build-1" }))

	rep, err := b.Run(context.Background(), Request{Trigger: "cli"})
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, rep.Status)
	assert.Equal(t, ModeFull, rep.Mode)
	assert.Equal(t, "build-1", rep.BuildID)
	assert.Equal(t, 2, rep.Leaves)
	assert.Equal(t, 2, rep.Documents)
	assert.Equal(t, 1, rep.Assets)
	assert.Equal(t, 2, rep.Rendered)
	assert.Zero(t, rep.Skipped)
	assert.Empty(t, rep.BrokenLinks)

	names := make([]string, 0, len(rep.Stages))
	for _, s := range rep.Stages {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		StageLoadNav, StageDiscoverDocs, StageValidate, StageRenderPages,
		StageRenderLanding, StageVerifyLinks, StageFinalize,
	}, names)

	intro := f.read(t, "/docs/intro")
	assert.Equal(t, "Introduction | Test", intro.Find("title").Text())
	assert.Equal(t, "/docs/guide/setup", intro.Find("article a").AttrOr("href", ""))
	assert.Equal(t, "/docs/intro", intro.Find("a.menu__link--active").AttrOr("href", ""))

	setup := f.read(t, "/docs/guide/setup")
	assert.Equal(t, "/docs/img/logo.png", setup.Find("article img").AttrOr("src", ""))

	home := f.read(t, "/")
	assert.Equal(t, "Hello", home.Find(".hero__intro").Text())

	assert.FileExists(t, filepath.Join(f.outDir, NotFoundFile))
	assert.FileExists(t, filepath.Join(f.outDir, "assets", "docnav.css"))
	assert.FileExists(t, filepath.Join(f.outDir, "docs", "img", "logo.png"))

	require.Len(t, pub.builds, 1)
	assert.Equal(t, "success", pub.builds[0].Status)
	assert.Equal(t, 2, pub.builds[0].Pages)

	history, err := eventstore.History(context.Background(), store, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "build-1", history[0].BuildID)
	assert.Equal(t, "success", history[0].Status)
	assert.Equal(t, "cli", history[0].Trigger)
	assert.Equal(t, 2, history[0].Leaves)
	assert.Equal(t, 2, history[0].Rendered)
	assert.Len(t, history[0].DocsHash, 64)
}

func TestFailedBuildKeepsPreviousOutput(t *testing.T) {
	f := newFixture(t)
	b := New(f.options())
	_, err := b.Run(context.Background(), Request{})
	require.NoError(t, err)

	f.write(t, "sidebars.yaml", fixtureNav+"    - missing/page\n")
	store := openStore(t)
	pub := &recordingPublisher{}
	b = New(f.options(), WithEventStore(store), WithPublisher(pub))

	rep, err := b.Run(context.Background(), Request{})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNavigation))
	assert.Equal(t, StatusFailed, rep.Status)
	assert.Equal(t, StageValidate, rep.FailedStage)
	require.NotNil(t, rep.Lint)
	assert.Len(t, rep.Lint.ByRule("unresolved-slug"), 1)

	// Previous site is intact and no staging directory is left behind.
	assert.FileExists(t, site.OutputPath(f.outDir, "/docs/intro"))
	entries, err := os.ReadDir(f.root)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), "staging")
	}

	require.Len(t, pub.builds, 1)
	assert.Equal(t, "failed", pub.builds[0].Status)
	assert.NotEmpty(t, pub.builds[0].Error)

	history, err := eventstore.History(context.Background(), store, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "failed", history[0].Status)
	assert.Equal(t, StageValidate, history[0].ErrorStage)
}

func TestStructuralErrorIsValidationCategory(t *testing.T) {
	f := newFixture(t)
	f.write(t, "sidebars.yaml", "sidebars:\n  docs:\n    - intro\n    - guide/setup\n    - type: category\n      label: Empty\n      items: []\n")

	_, err := New(f.options()).Run(context.Background(), Request{})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestRouteCollisionFailsBuild(t *testing.T) {
	f := newFixture(t)
	f.write(t, "docs/guide/index.md", "# Guide index\n")
	f.write(t, "docs/guide/guide.md", "# Guide self-named\n")
	f.write(t, "sidebars.yaml", fixtureNav+"        - guide/index\n        - guide/guide\n")

	rep, err := New(f.options()).Run(context.Background(), Request{})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	assert.Equal(t, StatusFailed, rep.Status)
	assert.Equal(t, StageValidate, rep.FailedStage)
	require.NotNil(t, rep.Lint)
	collisions := rep.Lint.ByRule("route-collision")
	require.Len(t, collisions, 1)
	assert.Contains(t, collisions[0].Message, "/docs/guide")
	assert.Zero(t, rep.Rendered)
	assert.NoFileExists(t, site.OutputPath(f.outDir, "/docs/guide/"))
}

func TestRootRouteBase(t *testing.T) {
	f := newFixture(t)
	opts := f.options()
	opts.RouteBase = "/"
	opts.Landing.Buttons = []landing.Link{{Label: "Start", To: "/intro"}}

	_, err := New(opts).Run(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "Introduction", f.read(t, "/intro").Find("article h1").Text())
	assert.Equal(t, "Hello", f.read(t, "/").Find(".hero__intro").Text())

	// A root README would be served where the landing page goes.
	f.write(t, "docs/README.md", "# Readme\n")
	f.write(t, "sidebars.yaml", fixtureNav+"    - README\n")
	rep, err := New(opts).Run(context.Background(), Request{})
	require.Error(t, err)
	require.NotNil(t, rep.Lint)
	collisions := rep.Lint.ByRule("route-collision")
	require.Len(t, collisions, 1)
	assert.Equal(t, "README", collisions[0].Slug)
	assert.Contains(t, collisions[0].Message, "landing page")
	assert.Equal(t, "Hello", f.read(t, "/").Find(".hero__intro").Text())
}

func TestIncrementalBuildSkipsUnchangedPages(t *testing.T) {
	f := newFixture(t)
	store := openStore(t)
	b := New(f.options(), WithFingerprints(store))
	ctx := context.Background()

	rep, err := b.Run(ctx, Request{Mode: ModeIncremental})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Rendered)

	rep, err = b.Run(ctx, Request{Mode: ModeIncremental})
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Rendered)
	assert.Equal(t, 2, rep.Skipped)

	f.write(t, "docs/guide/setup.md", "# Setup\n\nRun it twice.\n")
	rep, err = b.Run(ctx, Request{Mode: ModeIncremental})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Rendered)
	assert.Equal(t, 1, rep.Skipped)
	assert.Contains(t, f.read(t, "/docs/guide/setup").Find("article").Text(), "Run it twice.")

	// A label change touches every page through the sidebar.
	f.write(t, "docs/intro.md", "---\ntitle: Welcome\n---\n# Welcome\n\nSee [the guide](guide/setup.md).\n")
	rep, err = b.Run(ctx, Request{Mode: ModeIncremental})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Rendered)

	// Removed documents lose their pages.
	require.NoError(t, os.Remove(filepath.Join(f.docsDir, "guide", "setup.md")))
	f.write(t, "docs/intro.md", "# Welcome\n")
	f.write(t, "sidebars.yaml", "sidebars:\n  docs:\n    - intro\n")
	rep, err = b.Run(ctx, Request{Mode: ModeIncremental})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Removed)
	assert.NoFileExists(t, site.OutputPath(f.outDir, "/docs/guide/setup"))
	assert.NoDirExists(t, filepath.Join(f.outDir, "docs", "guide"))
}

func TestFullBuildAfterIncrementalRendersEverything(t *testing.T) {
	f := newFixture(t)
	store := openStore(t)
	b := New(f.options(), WithFingerprints(store))

	_, err := b.Run(context.Background(), Request{Mode: ModeIncremental})
	require.NoError(t, err)
	rep, err := b.Run(context.Background(), Request{Mode: ModeFull})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Rendered)
	assert.Zero(t, rep.Skipped)
}

func TestBrokenLinksProduceWarning(t *testing.T) {
	f := newFixture(t)
	f.write(t, "docs/intro.md", "# Introduction\n\n[gone](/docs/gone/)\n")
	pub := &recordingPublisher{}

	rep, err := New(f.options(), WithPublisher(pub), WithIDGenerator(func() string { return "b-links" })).
		Run(context.Background(), Request{})
	require.NoError(t, err)

	assert.Equal(t, StatusWarning, rep.Status)
	require.Len(t, rep.BrokenLinks, 1)
	assert.Equal(t, "/docs/gone/", rep.BrokenLinks[0].URL)
	assert.Equal(t, "/docs/intro/", rep.BrokenLinks[0].Route)
	assert.Equal(t, 1, rep.Warnings())

	require.Len(t, pub.broken, 1)
	assert.Equal(t, "b-links", pub.broken[0].BuildID)
	// Broken links do not block publishing.
	assert.FileExists(t, site.OutputPath(f.outDir, "/docs/intro"))
}

func TestCanceledBuild(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := New(f.options()).Run(ctx, Request{})
	require.Error(t, err)
	assert.Equal(t, StatusCanceled, rep.Status)
	assert.Equal(t, StageLoadNav, rep.FailedStage)
	assert.NoDirExists(t, f.outDir)
}

func TestValidate(t *testing.T) {
	f := newFixture(t)
	in, err := New(f.options()).Validate(context.Background())
	require.NoError(t, err)
	assert.False(t, in.Lint.HasErrors())
	assert.Equal(t, "/docs/guide/setup", in.Router.Route("guide/setup"))

	_, err = New(Options{NavFile: filepath.Join(f.root, "absent.yaml"), DocsDir: f.docsDir}).Validate(context.Background())
	require.Error(t, err)
}
