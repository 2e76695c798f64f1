package config

import (
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// Validate checks a defaulted configuration.
func Validate(cfg *Config) error {
	if cfg.Version != CurrentVersion {
		return errors.ConfigError("unsupported configuration version").
			WithContext("version", cfg.Version).
			WithContext("expected", CurrentVersion).
			Build()
	}

	if cfg.Site.Title == "" {
		return errors.ConfigError("site.title cannot be empty").Build()
	}
	if !strings.HasPrefix(cfg.Docs.RouteBase, "/") {
		return errors.ConfigError("docs.route_base must start with /").
			WithContext("route_base", cfg.Docs.RouteBase).
			Build()
	}
	if filepath.Clean(cfg.Docs.Dir) == filepath.Clean(cfg.Output.Dir) {
		return errors.ConfigError("output.dir must differ from docs.dir").
			WithContext("dir", cfg.Output.Dir).
			Build()
	}
	// The preview watcher would see its own output, and a full build
	// replaces the output dir wholesale.
	if within(cfg.Output.Dir, cfg.Docs.Dir) {
		return errors.ConfigError("output.dir must not be inside docs.dir").
			WithContext("output", cfg.Output.Dir).
			WithContext("docs", cfg.Docs.Dir).
			Build()
	}
	if within(cfg.Docs.Dir, cfg.Output.Dir) {
		return errors.ConfigError("docs.dir must not be inside output.dir").
			WithContext("output", cfg.Output.Dir).
			WithContext("docs", cfg.Docs.Dir).
			Build()
	}

	if _, err := ParseLogFormat(string(cfg.Logging.Format)); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid logging.format").Build()
	}
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))

	if d, err := time.ParseDuration(cfg.Preview.Debounce); err != nil || d < 0 {
		return errors.ConfigError("invalid preview.debounce").
			WithContext("debounce", cfg.Preview.Debounce).
			Build()
	}

	if cfg.Landing != nil {
		for i, b := range cfg.Landing.Buttons {
			if b.Label == "" || b.To == "" {
				return errors.ConfigError("landing button needs label and to").
					WithContext("index", i).
					Build()
			}
		}
		for i, c := range cfg.Landing.QuickLinks {
			if c.Heading == "" || c.Link.To == "" {
				return errors.ConfigError("landing quick link needs heading and link.to").
					WithContext("index", i).
					Build()
			}
		}
	}
	return nil
}

// DebounceDuration returns the parsed preview debounce.
func (p PreviewConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(p.Debounce)
	if err != nil {
		return 300 * time.Millisecond
	}
	return d
}

// Interval returns the schedule as a duration when it is one.
func (d DaemonConfig) Interval() (time.Duration, bool) {
	iv, err := time.ParseDuration(d.Schedule)
	if err != nil || iv <= 0 {
		return 0, false
	}
	return iv, true
}

// within reports whether p lies below dir. Paths that cannot be related
// (one absolute, one relative) are treated as unrelated.
func within(p, dir string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(p))
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
