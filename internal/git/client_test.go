package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/retry"
)

func commitFile(t *testing.T, repo *git.Repository, dir, name, content string) plumbing.Hash {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	_, err = wt.Add(name)
	require.NoError(t, err)
	hash, err := wt.Commit("add "+name, &git.CommitOptions{Author: &object.Signature{Name: "tester", Email: "t@example.com", When: time.Now()}})
	require.NoError(t, err)
	return hash
}

// seedRemote creates a bare remote and a working clone that pushes to it.
func seedRemote(t *testing.T) (remote string, seed *git.Repository, seedDir string) {
	t.Helper()
	tmp := t.TempDir()
	remote = filepath.Join(tmp, "remote.git")
	_, err := git.PlainInit(remote, true)
	require.NoError(t, err)

	seedDir = filepath.Join(tmp, "seed")
	seed, err = git.PlainInit(seedDir, false)
	require.NoError(t, err)
	_, err = seed.CreateRemote(&ggitcfg.RemoteConfig{Name: "origin", URLs: []string{remote}})
	require.NoError(t, err)
	return remote, seed, seedDir
}

func push(t *testing.T, repo *git.Repository) {
	t.Helper()
	require.NoError(t, repo.Push(&git.PushOptions{RemoteName: "origin"}))
}

func TestSyncLifecycle(t *testing.T) {
	remote, seed, seedDir := seedRemote(t)
	first := commitFile(t, seed, seedDir, "docs/intro.md", "# Intro")
	push(t, seed)

	dir := filepath.Join(t.TempDir(), "checkout")
	c := NewClient(dir, Source{URL: remote, Branch: "master"})
	ctx := context.Background()

	res, err := c.Sync(ctx)
	require.NoError(t, err)
	assert.True(t, res.Cloned)
	assert.True(t, res.Changed())
	assert.Equal(t, first.String(), res.Commit)
	assert.FileExists(t, filepath.Join(dir, "docs", "intro.md"))

	res, err = c.Sync(ctx)
	require.NoError(t, err)
	assert.False(t, res.Cloned)
	assert.False(t, res.Changed())

	second := commitFile(t, seed, seedDir, "docs/guide.md", "# Guide")
	push(t, seed)
	res, err = c.Sync(ctx)
	require.NoError(t, err)
	assert.True(t, res.Changed())
	assert.False(t, res.Forced)
	assert.Equal(t, first.String(), res.Previous)
	assert.Equal(t, second.String(), res.Commit)
	assert.FileExists(t, filepath.Join(dir, "docs", "guide.md"))

	head, err := c.Head()
	require.NoError(t, err)
	assert.Equal(t, second.String(), head)
}

func TestSyncResetsDivergedCheckout(t *testing.T) {
	remote, seed, seedDir := seedRemote(t)
	commitFile(t, seed, seedDir, "a.md", "A")
	push(t, seed)

	dir := filepath.Join(t.TempDir(), "checkout")
	c := NewClient(dir, Source{URL: remote, Branch: "master"})
	_, err := c.Sync(context.Background())
	require.NoError(t, err)

	local, err := git.PlainOpen(dir)
	require.NoError(t, err)
	commitFile(t, local, dir, "local.md", "edited in place")

	upstream := commitFile(t, seed, seedDir, "c.md", "C")
	push(t, seed)

	res, err := c.Sync(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Forced)
	assert.Equal(t, upstream.String(), res.Commit)
	assert.NoFileExists(t, filepath.Join(dir, "local.md"))
	assert.FileExists(t, filepath.Join(dir, "c.md"))
}

func TestSyncMissingBranch(t *testing.T) {
	remote, seed, seedDir := seedRemote(t)
	commitFile(t, seed, seedDir, "a.md", "A")
	push(t, seed)

	dir := filepath.Join(t.TempDir(), "checkout")
	c := NewClient(dir, Source{URL: remote, Branch: "does-not-exist"})
	c.Retry = retry.NewPolicy(retry.BackoffFixed, time.Millisecond, time.Millisecond, 0)
	_, err := c.Sync(context.Background())
	require.Error(t, err)
	ce, ok := derrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, derrors.CategoryGit, ce.Category())
	assert.NoDirExists(t, dir)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("x", Source{URL: "https://example.com/docs.git"})
	assert.Equal(t, DefaultBranch, c.Source.Branch)
	assert.Nil(t, c.auth())

	c = NewClient("x", Source{URL: "https://example.com/docs.git", Token: "secret"})
	assert.NotNil(t, c.auth())
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err      error
		category derrors.ErrorCategory
		retry    bool
	}{
		{transport.ErrAuthenticationRequired, derrors.CategoryGit, false},
		{transport.ErrRepositoryNotFound, derrors.CategoryGit, false},
		{errors.New("dial tcp: i/o timeout"), derrors.CategoryNetwork, true},
		{errors.New("unsupported protocol scheme \"ftp\""), derrors.CategoryConfig, false},
		{fmt.Errorf("wrapped: %w", context.Canceled), derrors.CategoryRuntime, false},
		{errors.New("object not found"), derrors.CategoryGit, true},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			ce, ok := derrors.AsClassified(classify(tc.err, "fetch", "https://example.com/docs.git"))
			require.True(t, ok)
			assert.Equal(t, tc.category, ce.Category())
			assert.Equal(t, tc.retry, ce.CanRetry())
			assert.ErrorIs(t, ce, tc.err)
		})
	}
	assert.NoError(t, classify(nil, "fetch", ""))
}
