package build

import (
	"context"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/observability"
	"git.home.luguber.info/inful/docnav/internal/site"
	"git.home.luguber.info/inful/docnav/internal/workspace"
)

// output is where a build writes. Full builds write into a staging
// workspace; incremental builds write into the output directory.
type output struct {
	target  string
	mode    Mode
	staging *workspace.Manager
	dir     string
}

func newOutput(target string, mode Mode) *output {
	return &output{target: target, mode: mode}
}

// open prepares the directory pages are written to.
func (o *output) open() error {
	if o.dir != "" {
		return nil
	}
	if o.mode == ModeIncremental {
		if err := ensureDir(o.target); err != nil {
			return err
		}
		o.dir = o.target
		return nil
	}
	o.staging = workspace.NewStaging(o.target)
	if err := o.staging.Create(); err != nil {
		return err
	}
	o.dir = o.staging.GetPath()
	return nil
}

func (o *output) writer() site.Writer { return site.Writer{Dir: o.dir} }

// commit publishes the staged output.
func (o *output) commit() error {
	if o.staging == nil {
		return nil
	}
	if err := o.staging.Promote(o.target); err != nil {
		return err
	}
	o.dir = o.target
	return nil
}

// cleanup removes a staging directory that was never promoted.
func (o *output) cleanup(ctx context.Context) {
	if o.staging == nil {
		return
	}
	if err := o.staging.Cleanup(); err != nil {
		observability.WarnContext(ctx, "Failed to remove staging directory", logfields.Error(err))
	}
}

// removePage deletes the rendered file for route and prunes empty parents.
func (o *output) removePage(route string) error {
	p := site.OutputPath(o.dir, route)
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	root := filepath.Clean(o.dir)
	for dir := filepath.Dir(p); dir != root && len(dir) > len(root); dir = filepath.Dir(dir) {
		if err := os.Remove(dir); err != nil {
			break
		}
	}
	return nil
}
