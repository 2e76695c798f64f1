package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/docnav/internal/build"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Output directory (overrides output.dir)"`
	Incremental bool   `short:"i" help:"Re-render only pages whose inputs changed"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc, err := openServices(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer svc.Close()

	opts := buildOptions(cfg, nil)
	if b.Output != "" {
		opts.OutputDir = b.Output
	}
	rep, err := svc.builder(opts).Run(ctx, build.Request{
		Mode:    modeFor(b.Incremental || cfg.Output.Incremental),
		Trigger: "cli",
	})
	if err != nil {
		return err
	}
	return printReport(g, rep)
}

func printReport(g *Global, rep *build.Report) error {
	_, err := fmt.Fprintf(g.Out, "Build %s: %s (%s)\n  %d pages (%d rendered, %d unchanged, %d removed)\n  %d warnings, %d broken links\n  output: %s\n",
		rep.BuildID, rep.Status, rep.Mode,
		rep.Pages(), rep.Rendered, rep.Skipped, rep.Removed,
		rep.Warnings(), len(rep.BrokenLinks),
		rep.OutputDir)
	if err != nil {
		return writeError(err)
	}
	for _, bl := range rep.BrokenLinks {
		if _, err := fmt.Fprintf(g.Out, "  broken: %s -> %s (%s)\n", bl.Route, bl.URL, bl.Reason); err != nil {
			return writeError(err)
		}
	}
	return nil
}
