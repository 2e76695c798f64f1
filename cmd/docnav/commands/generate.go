package commands

import (
	"log/slog"
	"os"

	"git.home.luguber.info/inful/docnav/internal/docs"
	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/nav"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Output string `short:"o" help:"Navigation file to write (defaults to docs.nav_file)"`
	Force  bool   `help:"Overwrite an existing navigation file"`
	Stdout bool   `help:"Print the navigation file instead of writing it"`
}

func (gc *GenerateCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	set, err := docs.Discover(cfg.Resolve(cfg.Docs.Dir))
	if err != nil {
		return err
	}
	tree := nav.Generate(set)

	if gc.Stdout {
		data, err := nav.Marshal(tree)
		if err != nil {
			return err
		}
		if _, err := g.Out.Write(data); err != nil {
			return writeError(err)
		}
		return nil
	}

	target := gc.Output
	if target == "" {
		target = cfg.Resolve(cfg.Docs.NavFile)
	}
	return writeNav(target, tree, gc.Force)
}

func writeNav(path string, tree *nav.Tree, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("navigation file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}
	if err := nav.Save(path, tree); err != nil {
		return err
	}
	slog.Info("Navigation file written", logfields.Path(path), logfields.Count(len(tree.Slugs())))
	return nil
}
