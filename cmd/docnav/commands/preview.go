package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/docnav/internal/build"
	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/preview"
)

// PreviewCmd implements the 'preview' command.
type PreviewCmd struct {
	Addr string `help:"Listen address (overrides preview.addr)"`
	Full bool   `help:"Re-render every page on each change"`
}

func (p *PreviewCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc, err := openServices(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer svc.Close()

	opts := previewOptions(cfg)
	addr := cfg.Preview.Addr
	if p.Addr != "" {
		addr = p.Addr
	}
	mode := build.ModeIncremental
	if p.Full {
		mode = build.ModeFull
	}

	watchFiles := []string{opts.NavFile}
	if _, err := os.Stat(root.Config); err == nil {
		watchFiles = append(watchFiles, root.Config)
	}

	pv := preview.New(svc.builder(opts), preview.Options{
		Addr:       addr,
		OutputDir:  opts.OutputDir,
		Mode:       mode,
		Debounce:   cfg.Preview.DebounceDuration(),
		WatchDirs:  []string{opts.DocsDir},
		WatchFiles: watchFiles,
		Registry:   svc.registry,
		Reload: func() (preview.Builder, error) {
			next, err := root.loadConfig()
			if err != nil {
				return nil, err
			}
			o := previewOptions(next)
			// The server keeps serving the directory it started with.
			o.OutputDir = opts.OutputDir
			return svc.builder(o), nil
		},
		Ready: func(s *preview.Server) {
			slog.Info("Preview ready", slog.String("url", s.URL()))
		},
	})
	return pv.Run(ctx)
}

func previewOptions(cfg *config.Config) build.Options {
	opts := buildOptions(cfg, nil)
	opts.Site.LiveReload = true
	return opts
}
