package config

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

const exampleConfig = `version: "1"

site:
  title: Clyp
  tagline: A tiny scripting language and standard library
  description: "Clyp: a tiny scripting language and standard library"
  nav_links:
    - label: Docs
      to: /docs/
  footer: Built with docnav

docs:
  dir: docs
  nav_file: sidebars.yaml
  route_base: /docs

output:
  dir: build
  incremental: false
  verify_links: true

logging:
  level: info
  format: text # text, json or pretty

notify:
  nats_url: "${NATS_URL}" # empty disables notifications

preview:
  addr: ":3000"
  debounce: 300ms

daemon:
  schedule: 15m # duration or cron expression
  addr: ":8080"
  git:
    url: "${DOCS_REPO_URL}"
    branch: main
    token: "${GIT_TOKEN}"
    dir: .docnav/source

state:
  db: .docnav/state.db
`

// Example returns the example configuration written by Init.
func Example() []byte { return []byte(exampleConfig) }

// Init writes the example configuration to path.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			UserAction().
			Build()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create config directory").
				WithContext("path", dir).
				Build()
		}
	}
	if err := os.WriteFile(path, Example(), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", path).
			Build()
	}
	return nil
}
