package commands

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/docs"
	"git.home.luguber.info/inful/docnav/internal/eventstore"
	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	var out bytes.Buffer
	parser, err := kong.New(&cli,
		kong.Name("docnav"),
		kong.Vars{"version": "test"},
		kong.Bind(&cli),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	err = ctx.Run(&Global{Out: &out})
	return out.String(), err
}

// initSite runs `docnav init` in a fresh directory and returns the config path.
func initSite(t *testing.T) string {
	t.Helper()
	t.Setenv("NATS_URL", "")
	t.Setenv("DOCS_REPO_URL", "")
	t.Setenv("GIT_TOKEN", "")
	cfgPath := filepath.Join(t.TempDir(), "docnav.yaml")
	_, err := runCLI(t, "init", "-c", cfgPath)
	require.NoError(t, err)
	return cfgPath
}

func TestInitWritesConfigDocsAndNav(t *testing.T) {
	cfgPath := initSite(t)
	dir := filepath.Dir(cfgPath)

	assert.FileExists(t, cfgPath)
	assert.FileExists(t, filepath.Join(dir, "docs", "welcome", "index.md"))
	assert.FileExists(t, filepath.Join(dir, "sidebars.yaml"))

	set, err := docs.Discover(filepath.Join(dir, "docs"))
	require.NoError(t, err)
	stdlib, ok := set.Lookup("stdlib/index")
	require.True(t, ok)
	assert.Equal(t, "Standard Library", stdlib.Title)
	assert.Equal(t, "Stdlib", stdlib.SidebarLabel)

	_, err = runCLI(t, "init", "-c", cfgPath)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	_, err = runCLI(t, "init", "-c", cfgPath, "--force")
	require.NoError(t, err)
}

func TestBuildThenHistory(t *testing.T) {
	cfgPath := initSite(t)
	dir := filepath.Dir(cfgPath)

	out, err := runCLI(t, "build", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Build ")
	assert.FileExists(t, filepath.Join(dir, "build", "index.html"))
	assert.FileExists(t, filepath.Join(dir, "build", "docs", "welcome", "index.html"))
	assert.FileExists(t, filepath.Join(dir, ".docnav", "state.db"))

	out, err = runCLI(t, "build", "-c", cfgPath, "--incremental")
	require.NoError(t, err)
	assert.Contains(t, out, "(incremental)")

	out, err = runCLI(t, "history", "-c", cfgPath, "-f", "json")
	require.NoError(t, err)
	var builds []eventstore.BuildSummary
	require.NoError(t, json.Unmarshal([]byte(out), &builds))
	require.Len(t, builds, 2)
	assert.Equal(t, "incremental", builds[0].Mode)
	assert.Equal(t, "cli", builds[0].Trigger)

	out, err = runCLI(t, "history", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "TRIGGER")
}

func TestHistoryWithoutState(t *testing.T) {
	cfgPath := initSite(t)
	out, err := runCLI(t, "history", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No builds recorded.")
}

func TestValidateAndRoutes(t *testing.T) {
	cfgPath := initSite(t)

	out, err := runCLI(t, "validate", "-c", cfgPath, "-f", "json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))

	out, err = runCLI(t, "routes", "-c", cfgPath, "-f", "json")
	require.NoError(t, err)
	var entries []RouteEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	routes := map[string]string{}
	for _, e := range entries {
		routes[e.Slug] = e.Route
	}
	assert.Equal(t, "/docs/welcome/", routes["welcome/index"])
	assert.Equal(t, "/docs/stdlib/", routes["stdlib/index"])
}

func TestValidateReportsUnresolvedSlug(t *testing.T) {
	cfgPath := initSite(t)
	navFile := filepath.Join(filepath.Dir(cfgPath), "sidebars.yaml")
	data, err := os.ReadFile(navFile)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(navFile, []byte(strings.Replace(string(data), "welcome/index", "welcome/missing", 1)), 0o600))

	out, err := runCLI(t, "validate", "-c", cfgPath)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNavigation))
	assert.Contains(t, out, "welcome/missing")

	_, err = runCLI(t, "build", "-c", cfgPath)
	require.Error(t, err)
	assert.Equal(t, 3, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestGenerate(t *testing.T) {
	cfgPath := initSite(t)

	out, err := runCLI(t, "generate", "-c", cfgPath, "--stdout")
	require.NoError(t, err)
	assert.Contains(t, out, "welcome/index")

	_, err = runCLI(t, "generate", "-c", cfgPath)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	target := filepath.Join(t.TempDir(), "nav.yaml")
	_, err = runCLI(t, "generate", "-c", cfgPath, "-o", target)
	require.NoError(t, err)
	assert.FileExists(t, target)
}

func TestExplicitConfigMustExist(t *testing.T) {
	_, err := runCLI(t, "build", "-c", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestDaemonRequiresRepository(t *testing.T) {
	cfgPath := initSite(t)
	_, err := runCLI(t, "daemon", "-c", cfgPath)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelInfo, config.LogFormatJSON).Info("hello", slog.String("k", "v"))
	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))

	buf.Reset()
	NewLogger(&buf, slog.LevelWarn, config.LogFormatText).Info("hidden")
	assert.Empty(t, buf.String())

	buf.Reset()
	NewLogger(&buf, slog.LevelInfo, config.LogFormatPretty).Info("pretty")
	assert.Contains(t, buf.String(), "pretty")
}
