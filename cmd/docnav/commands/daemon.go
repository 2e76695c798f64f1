package commands

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"

	"git.home.luguber.info/inful/docnav/internal/daemon"
	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/git"
)

// DaemonCmd implements the 'daemon' command.
type DaemonCmd struct {
	Addr     string `help:"Listen address (overrides daemon.addr)"`
	Schedule string `help:"Sync schedule, a duration or cron expression (overrides daemon.schedule)"`
}

func (dc *DaemonCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Daemon.Git.URL == "" {
		return errors.ConfigError("daemon.git.url is required").Build()
	}
	if dc.Addr != "" {
		cfg.Daemon.Addr = dc.Addr
	}
	if dc.Schedule != "" {
		cfg.Daemon.Schedule = dc.Schedule
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc, err := openServices(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer svc.Close()

	checkout := cfg.Resolve(cfg.Daemon.Git.Dir)
	client := git.NewClient(checkout, git.Source{
		URL:    cfg.Daemon.Git.URL,
		Branch: cfg.Daemon.Git.Branch,
		Token:  cfg.Daemon.Git.Token,
	})
	opts := buildOptions(cfg, &siteSource{
		DocsDir: filepath.Join(checkout, filepath.FromSlash(cfg.Daemon.Git.DocsPath)),
		NavFile: filepath.Join(checkout, filepath.FromSlash(cfg.Daemon.Git.NavPath)),
	})

	d := daemon.New(client, svc.builder(opts), daemon.Options{
		Schedule:  cfg.Daemon.Schedule,
		Addr:      cfg.Daemon.Addr,
		OutputDir: opts.OutputDir,
		Mode:      modeFor(cfg.Output.Incremental),
		Registry:  svc.registry,
		Recorder:  svc.recorder,
	})
	return d.Run(ctx)
}
