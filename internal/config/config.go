// Package config loads docnav configuration from YAML.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/landing"
)

// CurrentVersion is the configuration format version written by Init.
const CurrentVersion = "1"

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "docnav.yaml"

// Config is the complete docnav configuration.
type Config struct {
	Version string           `yaml:"version"`
	Site    SiteConfig       `yaml:"site"`
	Docs    DocsConfig       `yaml:"docs"`
	Landing *landing.Content `yaml:"landing,omitempty"`
	Output  OutputConfig     `yaml:"output"`
	Logging LoggingConfig    `yaml:"logging"`
	Notify  NotifyConfig     `yaml:"notify"`
	Preview PreviewConfig    `yaml:"preview"`
	Daemon  DaemonConfig     `yaml:"daemon"`
	State   StateConfig      `yaml:"state"`
	Lint    LintConfig       `yaml:"lint"`

	// baseDir is the directory relative paths are resolved against.
	baseDir string
}

// SiteConfig holds site metadata and chrome.
type SiteConfig struct {
	landing.SiteInfo `yaml:",inline"`
	NavLinks         []landing.Link `yaml:"nav_links,omitempty"`
	Footer           string         `yaml:"footer,omitempty"`
}

// DocsConfig locates the documents and their navigation.
type DocsConfig struct {
	Dir       string `yaml:"dir"`
	NavFile   string `yaml:"nav_file"`
	RouteBase string `yaml:"route_base"`
}

// OutputConfig controls where and how the site is written.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	Incremental bool   `yaml:"incremental"`
	// VerifyLinks defaults to true; a nil value means "not set".
	VerifyLinks    *bool `yaml:"verify_links,omitempty"`
	CheckFragments bool  `yaml:"check_fragments"`
	UnsafeHTML     bool  `yaml:"unsafe_html"`
}

// LoggingConfig selects log level and handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// NotifyConfig enables NATS notifications when NATSURL is set.
type NotifyConfig struct {
	NATSURL  string `yaml:"nats_url"`
	Subject  string `yaml:"subject"`
	Stream   string `yaml:"stream"`
	KVBucket string `yaml:"kv_bucket"`
}

// PreviewConfig configures the local preview server.
type PreviewConfig struct {
	Addr     string `yaml:"addr"`
	Debounce string `yaml:"debounce"`
}

// DaemonConfig configures scheduled sync and build.
type DaemonConfig struct {
	// Schedule is either a Go duration ("15m") or a cron expression.
	Schedule string    `yaml:"schedule"`
	Addr     string    `yaml:"addr"`
	Git      GitConfig `yaml:"git"`
}

// GitConfig names the repository the docs are synced from.
type GitConfig struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch"`
	// Token is used for HTTP basic auth; usually "${GIT_TOKEN}".
	Token string `yaml:"token,omitempty"`
	Dir   string `yaml:"dir"`
	// DocsPath is the docs directory inside the checkout.
	DocsPath string `yaml:"docs_path"`
	// NavPath is the navigation file inside the checkout.
	NavPath string `yaml:"nav_path"`
}

// StateConfig locates the build state database.
type StateConfig struct {
	DB string `yaml:"db"`
}

// LintConfig disables lint rules by name.
type LintConfig struct {
	Disabled []string `yaml:"disabled,omitempty"`
}

// Load reads, expands, defaults and validates the configuration at path.
// Environment variables from .env.local and .env are loaded first.
func Load(path string) (*Config, error) {
	loadEnvFiles(filepath.Dir(path))

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", path).
				UserAction().
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid configuration").
			WithContext("path", path).
			Build()
	}
	abs, err := filepath.Abs(filepath.Dir(path))
	if err == nil {
		cfg.baseDir = abs
	}
	return cfg, nil
}

// LoadOrDefault loads path when it exists. A missing DefaultFile yields
// the defaults; a missing explicitly named file is an error.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}
	if _, err := os.Stat(path); os.IsNotExist(err) && filepath.Base(path) == DefaultFile {
		loadEnvFiles(".")
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes YAML, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse config").Build()
	}
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// Resolve returns p relative to the configuration file's directory.
// Absolute paths are returned unchanged.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.baseDir == "" {
		return p
	}
	return filepath.Join(c.baseDir, p)
}

// LandingContent returns the configured landing content or the default.
func (c *Config) LandingContent() landing.Content {
	if c.Landing != nil {
		return *c.Landing
	}
	return landing.DefaultContent()
}

// ShouldVerifyLinks reports whether rendered links are checked.
func (o OutputConfig) ShouldVerifyLinks() bool {
	return o.VerifyLinks == nil || *o.VerifyLinks
}
