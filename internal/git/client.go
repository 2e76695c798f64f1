package git

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	derrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/retry"
)

// DefaultBranch is used when Source.Branch is empty.
const DefaultBranch = "main"

// tokenUser is the basic auth username sent with a token. Forges ignore it.
const tokenUser = "docnav"

// Source describes the remote repository.
type Source struct {
	URL    string
	Branch string
	Token  string
}

// Result describes one sync.
type Result struct {
	Commit   string
	Previous string
	Cloned   bool
	// Forced is set when local history diverged and was replaced.
	Forced bool
}

// Changed reports whether the checkout moved to a different commit.
func (r Result) Changed() bool { return r.Commit != r.Previous }

// Client syncs one repository into Dir.
type Client struct {
	Dir    string
	Source Source
	// Retry is applied to transient transport failures.
	Retry retry.Policy
}

// NewClient creates a client for src checked out at dir.
func NewClient(dir string, src Source) *Client {
	if src.Branch == "" {
		src.Branch = DefaultBranch
	}
	return &Client{Dir: dir, Source: src, Retry: retry.DefaultPolicy()}
}

func (c *Client) auth() transport.AuthMethod {
	if c.Source.Token == "" {
		return nil
	}
	return &http.BasicAuth{Username: tokenUser, Password: c.Source.Token}
}

// Sync clones the repository when Dir holds no checkout, otherwise fetches
// and moves the branch to the remote tip.
func (c *Client) Sync(ctx context.Context) (Result, error) {
	var res Result
	err := c.Retry.Do(ctx, "git sync", func(ctx context.Context) error {
		var err error
		if _, serr := os.Stat(filepath.Join(c.Dir, ".git")); serr != nil {
			res, err = c.clone(ctx)
		} else {
			res, err = c.update(ctx)
		}
		return err
	})
	return res, err
}

func (c *Client) clone(ctx context.Context) (Result, error) {
	slog.Info("Cloning docs repository", logfields.URL(c.Source.URL), slog.String("branch", c.Source.Branch), logfields.Path(c.Dir))
	if err := os.RemoveAll(c.Dir); err != nil {
		return Result{}, derrors.FileSystemError("failed to clear checkout directory").WithCause(err).WithContext("path", c.Dir).Build()
	}
	if err := os.MkdirAll(filepath.Dir(c.Dir), 0o750); err != nil {
		return Result{}, derrors.FileSystemError("failed to create checkout parent").WithCause(err).WithContext("path", c.Dir).Build()
	}
	repo, err := git.PlainCloneContext(ctx, c.Dir, false, &git.CloneOptions{
		URL:           c.Source.URL,
		Auth:          c.auth(),
		ReferenceName: plumbing.NewBranchReferenceName(c.Source.Branch),
		SingleBranch:  true,
		Tags:          git.NoTags,
	})
	if err != nil {
		_ = os.RemoveAll(c.Dir)
		return Result{}, classify(err, "clone", c.Source.URL)
	}
	head, err := repo.Head()
	if err != nil {
		return Result{}, classify(err, "head", c.Source.URL)
	}
	commit := head.Hash().String()
	slog.Info("Repository cloned", logfields.Commit(short(commit)))
	return Result{Commit: commit, Cloned: true}, nil
}

func (c *Client) update(ctx context.Context) (Result, error) {
	repo, err := git.PlainOpen(c.Dir)
	if err != nil {
		return Result{}, classify(err, "open", c.Source.URL)
	}
	branch := c.Source.Branch
	spec := ggitcfg.RefSpec("+refs/heads/" + branch + ":refs/remotes/origin/" + branch)
	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: "origin",
		RefSpecs:   []ggitcfg.RefSpec{spec},
		Auth:       c.auth(),
		Tags:       git.NoTags,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return Result{}, classify(err, "fetch", c.Source.URL)
	}

	remote, err := repo.Reference(plumbing.NewRemoteReferenceName("origin", branch), true)
	if err != nil {
		return Result{}, classify(err, "remote ref", c.Source.URL)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return Result{}, classify(err, "worktree", c.Source.URL)
	}

	local := plumbing.NewBranchReferenceName(branch)
	var previous plumbing.Hash
	if ref, lerr := repo.Reference(local, true); lerr == nil {
		previous = ref.Hash()
		err = wt.Checkout(&git.CheckoutOptions{Branch: local, Force: true})
	} else {
		err = wt.Checkout(&git.CheckoutOptions{Branch: local, Hash: remote.Hash(), Create: true, Force: true})
	}
	if err != nil {
		return Result{}, classify(err, "checkout", c.Source.URL)
	}

	res := Result{Previous: previous.String(), Commit: remote.Hash().String()}
	if previous == remote.Hash() {
		slog.Debug("Repository up to date", logfields.Commit(short(res.Commit)))
		return res, nil
	}
	if !previous.IsZero() {
		ff, aerr := isAncestor(repo, previous, remote.Hash())
		if aerr != nil {
			slog.Warn("Ancestor check failed", logfields.Error(aerr))
		}
		res.Forced = !ff
	}
	if err := wt.Reset(&git.ResetOptions{Commit: remote.Hash(), Mode: git.HardReset}); err != nil {
		return Result{}, classify(err, "reset", c.Source.URL)
	}
	if res.Forced {
		slog.Warn("Local history diverged; reset to remote", slog.String("branch", branch),
			slog.String("from", short(res.Previous)), slog.String("to", short(res.Commit)))
	} else {
		slog.Info("Repository updated", slog.String("branch", branch),
			slog.String("from", short(res.Previous)), slog.String("to", short(res.Commit)))
	}
	return res, nil
}

// Head returns the commit checked out in Dir.
func (c *Client) Head() (string, error) {
	repo, err := git.PlainOpen(c.Dir)
	if err != nil {
		return "", classify(err, "open", c.Source.URL)
	}
	ref, err := repo.Head()
	if err != nil {
		return "", classify(err, "head", c.Source.URL)
	}
	return ref.Hash().String(), nil
}

// isAncestor walks b's history breadth first looking for a.
func isAncestor(repo *git.Repository, a, b plumbing.Hash) (bool, error) {
	if a == b {
		return true, nil
	}
	seen := map[plumbing.Hash]struct{}{}
	queue := []plumbing.Hash{b}
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if h == a {
			return true, nil
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		commit, err := repo.CommitObject(h)
		if err != nil {
			return false, err
		}
		queue = append(queue, commit.ParentHashes...)
	}
	return false, nil
}

func short(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
