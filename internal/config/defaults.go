package config

import (
	"git.home.luguber.info/inful/docnav/internal/landing"
	"git.home.luguber.info/inful/docnav/internal/nav"
	"git.home.luguber.info/inful/docnav/internal/notify"
)

// Default values applied to unset fields.
const (
	DefaultDocsDir         = "docs"
	DefaultNavFile         = "sidebars.yaml"
	DefaultOutputDir       = "build"
	DefaultPreviewAddr     = ":3000"
	DefaultPreviewDebounce = "300ms"
	DefaultDaemonSchedule  = "15m"
	DefaultDaemonAddr      = ":8080"
	DefaultGitBranch       = "main"
	DefaultGitDir          = ".docnav/source"
	DefaultStateDB         = ".docnav/state.db"
)

func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}

	def := landing.DefaultSiteInfo()
	if cfg.Site.Title == "" {
		cfg.Site.Title = def.Title
	}
	if cfg.Site.Tagline == "" {
		cfg.Site.Tagline = def.Tagline
	}
	if cfg.Site.Description == "" {
		cfg.Site.Description = def.Description
	}

	if cfg.Docs.Dir == "" {
		cfg.Docs.Dir = DefaultDocsDir
	}
	if cfg.Docs.NavFile == "" {
		cfg.Docs.NavFile = DefaultNavFile
	}
	if cfg.Docs.RouteBase == "" {
		cfg.Docs.RouteBase = nav.DefaultRouteBase
	}

	if cfg.Output.Dir == "" {
		cfg.Output.Dir = DefaultOutputDir
	}

	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}

	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = notify.DefaultSubject
	}
	if cfg.Notify.Stream == "" {
		cfg.Notify.Stream = notify.DefaultStream
	}
	if cfg.Notify.KVBucket == "" {
		cfg.Notify.KVBucket = notify.DefaultKVBucket
	}

	if cfg.Preview.Addr == "" {
		cfg.Preview.Addr = DefaultPreviewAddr
	}
	if cfg.Preview.Debounce == "" {
		cfg.Preview.Debounce = DefaultPreviewDebounce
	}

	if cfg.Daemon.Schedule == "" {
		cfg.Daemon.Schedule = DefaultDaemonSchedule
	}
	if cfg.Daemon.Addr == "" {
		cfg.Daemon.Addr = DefaultDaemonAddr
	}
	if cfg.Daemon.Git.Branch == "" {
		cfg.Daemon.Git.Branch = DefaultGitBranch
	}
	if cfg.Daemon.Git.Dir == "" {
		cfg.Daemon.Git.Dir = DefaultGitDir
	}
	if cfg.Daemon.Git.DocsPath == "" {
		cfg.Daemon.Git.DocsPath = cfg.Docs.Dir
	}
	if cfg.Daemon.Git.NavPath == "" {
		cfg.Daemon.Git.NavPath = cfg.Docs.NavFile
	}

	if cfg.State.DB == "" {
		cfg.State.DB = DefaultStateDB
	}
}
