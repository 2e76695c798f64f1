// Package commands implements the docnav command line.
package commands

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// Global is shared with every command.
type Global struct {
	// Out receives command output; logs go to stderr.
	Out io.Writer
}

// CLI is the root command with its global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docnav.yaml" env:"DOCNAV_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Render the documentation site"`
	Validate ValidateCmd `cmd:"" help:"Check the navigation tree against the documents"`
	Routes   RoutesCmd   `cmd:"" help:"List every document route in navigation order"`
	Generate GenerateCmd `cmd:"" help:"Generate a navigation file from the docs directory"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration and navigation file"`
	Preview  PreviewCmd  `cmd:"" help:"Serve the site locally and rebuild on change"`
	Daemon   DaemonCmd   `cmd:"" help:"Sync the docs repository on a schedule and serve the site"`
	History  HistoryCmd  `cmd:"" help:"Show recent builds"`
}

// AfterApply installs a default logger before any command runs. Commands
// that load a configuration reapply its logging settings.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(NewLogger(os.Stderr, c.level(config.LogLevelInfo), config.LogFormatText))
	return nil
}

func (c *CLI) level(configured config.LogLevel) slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	switch configured {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a slog logger for format: JSON, colorized (pretty) or
// plain text.
func NewLogger(w io.Writer, level slog.Level, format config.LogFormat) *slog.Logger {
	switch format {
	case config.LogFormatJSON:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	case config.LogFormatPretty:
		return slog.New(tint.NewHandler(w, &tint.Options{Level: level, TimeFormat: time.Kitchen}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	}
}

// loadConfig reads the configuration and applies its logging settings. The
// default file may be absent; an explicitly named one may not.
func (c *CLI) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.Config == config.DefaultFile {
		cfg, err = config.LoadOrDefault(c.Config)
	} else {
		cfg, err = config.Load(c.Config)
	}
	if err != nil {
		return nil, err
	}
	slog.SetDefault(NewLogger(os.Stderr, c.level(cfg.Logging.Level), cfg.Logging.Format))
	return cfg, nil
}

func writeError(err error) error {
	return errors.WrapError(err, errors.CategoryRuntime, "failed to write output").Build()
}
