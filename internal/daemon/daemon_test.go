package daemon

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docnav/internal/build"
	derrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/git"
	"git.home.luguber.info/inful/docnav/internal/preview"
)

type fakeSyncer struct {
	mu     sync.Mutex
	commit string
	err    error
	calls  int
}

func (f *fakeSyncer) set(commit string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commit, f.err = commit, err
}

func (f *fakeSyncer) Sync(context.Context) (git.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return git.Result{}, f.err
	}
	return git.Result{Commit: f.commit}, nil
}

type fakeBuilder struct {
	mu   sync.Mutex
	runs int
	err  error
	reqs []build.Request
}

func (f *fakeBuilder) Run(_ context.Context, req build.Request) (*build.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs++
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return &build.Report{Status: build.StatusFailed}, f.err
	}
	return &build.Report{BuildID: "b", Status: build.StatusSuccess, Mode: req.Mode, Rendered: 3}, nil
}

func (f *fakeBuilder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs
}

func TestCycleSkipsUnchangedCommit(t *testing.T) {
	syncer := &fakeSyncer{commit: "aaaa1111"}
	builder := &fakeBuilder{}
	d := New(syncer, builder, Options{})
	ctx := context.Background()

	rep, err := d.Cycle(ctx)
	require.NoError(t, err)
	require.NotNil(t, rep)
	assert.Equal(t, 1, builder.count())
	assert.Equal(t, "aaaa1111", d.LastBuiltCommit())
	assert.Equal(t, build.Request{Mode: build.ModeFull, Trigger: TriggerSchedule}, builder.reqs[0])

	rep, err = d.Cycle(ctx)
	require.NoError(t, err)
	assert.Nil(t, rep)
	assert.Equal(t, 1, builder.count())
}

func TestCycleRetriesAfterFailedBuild(t *testing.T) {
	syncer := &fakeSyncer{commit: "aaaa1111"}
	builder := &fakeBuilder{}
	d := New(syncer, builder, Options{Mode: build.ModeIncremental})
	ctx := context.Background()

	_, err := d.Cycle(ctx)
	require.NoError(t, err)

	syncer.set("bbbb2222", nil)
	builder.err = derrors.NavigationError("unresolved slug").Build()
	_, err = d.Cycle(ctx)
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryDaemon))
	assert.Equal(t, "aaaa1111", d.LastBuiltCommit())
	snap, serr := d.Status().Snapshot()
	require.Error(t, serr)
	assert.Equal(t, "failed", snap.State)
	assert.True(t, snap.HasGoodBuild)

	builder.err = nil
	rep, err := d.Cycle(ctx)
	require.NoError(t, err)
	require.NotNil(t, rep)
	assert.Equal(t, 3, builder.count())
	assert.Equal(t, "bbbb2222", d.LastBuiltCommit())
	assert.Equal(t, build.ModeIncremental, builder.reqs[2].Mode)
}

func TestCycleSyncFailure(t *testing.T) {
	syncer := &fakeSyncer{err: derrors.NetworkError("git transport failed").Build()}
	builder := &fakeBuilder{}
	d := New(syncer, builder, Options{})

	_, err := d.Cycle(context.Background())
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryNetwork))
	assert.Equal(t, 0, builder.count())
}

func TestCycleCanceled(t *testing.T) {
	d := New(&fakeSyncer{commit: "a"}, &fakeBuilder{}, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Cycle(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunServesAndCycles(t *testing.T) {
	syncer := &fakeSyncer{commit: "c1"}
	builder := &fakeBuilder{}
	ready := make(chan *preview.Server, 1)
	d := New(syncer, builder, Options{
		Schedule:  "30ms",
		Addr:      "127.0.0.1:0",
		OutputDir: t.TempDir(),
		Ready:     func(s *preview.Server) { ready <- s },
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	var srv *preview.Server
	select {
	case srv = <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not start serving")
	}
	assert.Equal(t, 1, builder.count())

	resp, err := http.Get(srv.URL() + preview.StatusPath)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	syncer.set("c2", nil)
	require.Eventually(t, func() bool { return builder.count() == 2 }, 5*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		syncer.mu.Lock()
		defer syncer.mu.Unlock()
		return syncer.calls >= 4
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 2, builder.count())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop")
	}
}

func TestRunRejectsBadSchedule(t *testing.T) {
	d := New(&fakeSyncer{}, &fakeBuilder{}, Options{Schedule: "every tuesday", Addr: "127.0.0.1:0"})
	err := d.Run(context.Background())
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
}
