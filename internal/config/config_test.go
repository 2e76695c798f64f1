package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/landing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, "Clyp", cfg.Site.Title)
	assert.Equal(t, "docs", cfg.Docs.Dir)
	assert.Equal(t, "sidebars.yaml", cfg.Docs.NavFile)
	assert.Equal(t, "/docs", cfg.Docs.RouteBase)
	assert.Equal(t, "build", cfg.Output.Dir)
	assert.True(t, cfg.Output.ShouldVerifyLinks())
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Equal(t, 300*time.Millisecond, cfg.Preview.DebounceDuration())
	assert.Empty(t, cfg.Notify.NATSURL)
	assert.Equal(t, "docnav.events", cfg.Notify.Subject)
	assert.Equal(t, landing.DefaultContent(), cfg.LandingContent())

	iv, ok := cfg.Daemon.Interval()
	assert.True(t, ok)
	assert.Equal(t, 15*time.Minute, iv)
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse([]byte(`
site:
  title: Other
docs:
  dir: content
  route_base: /guide
output:
  dir: public
  verify_links: false
logging:
  level: WARNING
  format: Pretty
daemon:
  schedule: "*/5 * * * *"
landing:
  intro: Hello
  buttons:
    - label: Start
      to: /guide/
`))
	require.NoError(t, err)

	assert.Equal(t, "Other", cfg.Site.Title)
	assert.Equal(t, "A tiny scripting language and standard library", cfg.Site.Tagline)
	assert.Equal(t, "content", cfg.Docs.Dir)
	assert.Equal(t, "content", cfg.Daemon.Git.DocsPath)
	assert.Equal(t, "/guide", cfg.Docs.RouteBase)
	assert.False(t, cfg.Output.ShouldVerifyLinks())
	assert.Equal(t, LogLevelWarn, cfg.Logging.Level)
	assert.Equal(t, LogFormatPretty, cfg.Logging.Format)
	assert.Equal(t, "Hello", cfg.LandingContent().Intro)

	_, ok := cfg.Daemon.Interval()
	assert.False(t, ok)
}

func TestValidateErrors(t *testing.T) {
	cases := map[string]string{
		"version":     `version: "9"`,
		"route base":  "docs:\n  route_base: docs",
		"same dirs":   "docs:\n  dir: out\noutput:\n  dir: out",
		"out in docs": "docs:\n  dir: docs\noutput:\n  dir: docs/build",
		"docs in out": "docs:\n  dir: site/docs\noutput:\n  dir: ./site",
		"format":      "logging:\n  format: xml",
		"debounce":    "preview:\n  debounce: soon",
		"button":      "landing:\n  buttons:\n    - label: x",
		"card":        "landing:\n  quick_links:\n    - heading: x",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
		})
	}
}

func TestValidateAllowsSiblingDirs(t *testing.T) {
	_, err := Parse([]byte("docs:\n  dir: docs\noutput:\n  dir: docs-build"))
	require.NoError(t, err)
	_, err = Parse([]byte("docs:\n  dir: site/docs\noutput:\n  dir: site/build"))
	require.NoError(t, err)
}

func TestLoadExpandsEnvAndResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docnav.yaml")
	require.NoError(t, os.WriteFile(path, []byte("notify:\n  nats_url: ${DOCNAV_TEST_NATS}\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCNAV_TEST_NATS=nats://from-env:4222\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("DOCNAV_TEST_NATS") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "nats://from-env:4222", cfg.Notify.NATSURL)
	assert.Equal(t, filepath.Join(dir, "docs"), cfg.Resolve(cfg.Docs.Dir))
	assert.Equal(t, "/abs/out", cfg.Resolve("/abs/out"))
}

func TestEnvLocalWinsOverEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docnav.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  title: ${DOCNAV_TEST_TITLE}\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCNAV_TEST_TITLE=shared\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("DOCNAV_TEST_TITLE=local\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("DOCNAV_TEST_TITLE") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Site.Title)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoadOrDefault(t *testing.T) {
	missingDefault := filepath.Join(t.TempDir(), DefaultFile)
	cfg, err := LoadOrDefault(missingDefault)
	require.NoError(t, err)
	assert.Equal(t, "Clyp", cfg.Site.Title)

	_, err = LoadOrDefault(filepath.Join(t.TempDir(), "custom.yaml"))
	require.Error(t, err)
}

func TestInitWritesLoadableExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", DefaultFile)
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Clyp", cfg.Site.Title)
	assert.Equal(t, []landing.Link{{Label: "Docs", To: "/docs/"}}, cfg.Site.NavLinks)

	err = Init(path, false)
	require.Error(t, err)
	require.NoError(t, Init(path, true))
}
