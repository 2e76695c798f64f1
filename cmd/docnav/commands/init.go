package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/docs"
	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/frontmatter"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/nav"
)

type starterDoc struct {
	fields map[string]any
	body   string
}

// starterDocs are written when the docs directory does not exist yet. They
// satisfy every link of the default landing page.
var starterDocs = map[string]starterDoc{
	"welcome/index.md": {
		fields: map[string]any{"title": "Welcome", "description": "Getting started with Clyp"},
		body:   "# Welcome\n\nStart here.\n",
	},
	"stdlib/index.md": {
		fields: map[string]any{"title": "Standard Library", "sidebar_label": "Stdlib"},
		body:   "# Standard Library\n\nHelpers that ship with the language.\n",
	},
	"examples/index.md": {
		fields: map[string]any{"title": "Examples"},
		body:   "# Examples\n\nRunnable examples.\n",
	},
}

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration and navigation files"`
}

func (ic *InitCmd) Run(g *Global, root *CLI) error {
	if err := config.Init(root.Config, ic.Force); err != nil {
		return err
	}
	slog.Info("Configuration written", logfields.Path(root.Config))

	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	docsDir := cfg.Resolve(cfg.Docs.Dir)
	if _, err := os.Stat(docsDir); os.IsNotExist(err) {
		if err := writeStarterDocs(docsDir); err != nil {
			return err
		}
	}

	navFile := cfg.Resolve(cfg.Docs.NavFile)
	if _, err := os.Stat(navFile); err == nil && !ic.Force {
		slog.Info("Keeping existing navigation file", logfields.Path(navFile))
		return nil
	}
	set, err := docs.Discover(docsDir)
	if err != nil {
		return err
	}
	return writeNav(navFile, nav.Generate(set), true)
}

func writeStarterDocs(dir string) error {
	for rel, sd := range starterDocs {
		content, err := frontmatter.Join(sd.fields, []byte(sd.body))
		if err != nil {
			return errors.WrapError(err, errors.CategoryInternal, "failed to encode starter frontmatter").
				WithContext("file", rel).
				Build()
		}
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create docs directory").
				WithContext("path", p).
				Build()
		}
		if err := os.WriteFile(p, content, 0o600); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to write starter document").
				WithContext("path", p).
				Build()
		}
	}
	slog.Info("Starter documents written", logfields.Path(dir), logfields.Count(len(starterDocs)))
	return nil
}
