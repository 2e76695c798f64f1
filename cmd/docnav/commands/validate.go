package commands

import (
	"context"

	"git.home.luguber.info/inful/docnav/internal/build"
	"git.home.luguber.info/inful/docnav/internal/lint"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct {
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
}

// Run lints the navigation tree. Lint errors are returned so the exit code
// reflects them; warnings alone exit zero.
func (v *ValidateCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	opts := buildOptions(cfg, nil)
	in, err := build.New(opts).Validate(context.Background())
	if err != nil {
		return err
	}
	if err := lint.NewFormatter(v.Format).Format(g.Out, in.Lint, opts.NavFile); err != nil {
		return writeError(err)
	}
	return in.Lint.Err()
}
