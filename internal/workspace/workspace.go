package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/logfields"
)

// Manager handles workspace operations (both ephemeral and persistent)
type Manager struct {
	baseDir    string
	prefix     string
	tempDir    string
	persistent bool // If true, use baseDir/subdir directly and never remove it
}

// NewManager creates a workspace manager with ephemeral, uniquely named directories
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir, prefix: "docnav-"}
}

// NewStaging creates an ephemeral workspace next to outDir. Keeping it on the
// same filesystem lets Promote swap it into place with a rename.
func NewStaging(outDir string) *Manager {
	clean := filepath.Clean(outDir)
	return &Manager{
		baseDir: filepath.Dir(clean),
		prefix:  "." + filepath.Base(clean) + "-staging-",
	}
}

// NewPersistentManager creates a workspace manager that uses a persistent directory.
// The workspace directory is fixed (baseDir/subdirName) and not cleaned up on Cleanup().
func NewPersistentManager(baseDir, subdirName string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if subdirName == "" {
		subdirName = "working"
	}
	return &Manager{
		baseDir:    baseDir,
		tempDir:    filepath.Join(baseDir, subdirName),
		persistent: true,
	}
}

// Create creates the workspace directory.
func (m *Manager) Create() error {
	if m.persistent {
		if err := os.MkdirAll(m.tempDir, 0o750); err != nil {
			return fsError("failed to create persistent workspace directory", m.tempDir, err)
		}
		slog.Debug("Using persistent workspace", logfields.Path(m.tempDir))
		return nil
	}

	if err := os.MkdirAll(m.baseDir, 0o750); err != nil {
		return fsError("failed to create workspace base directory", m.baseDir, err)
	}
	tempDir, err := os.MkdirTemp(m.baseDir, m.prefix)
	if err != nil {
		return fsError("failed to create workspace directory", m.baseDir, err)
	}
	m.tempDir = tempDir
	slog.Debug("Created workspace", logfields.Path(tempDir))
	return nil
}

// GetPath returns the path to the workspace directory
func (m *Manager) GetPath() string {
	return m.tempDir
}

// Cleanup removes an ephemeral workspace. Persistent workspaces are kept.
func (m *Manager) Cleanup() error {
	if m.tempDir == "" || m.persistent {
		return nil
	}
	if err := os.RemoveAll(m.tempDir); err != nil {
		return fsError("failed to cleanup workspace", m.tempDir, err)
	}
	slog.Debug("Cleaned up workspace", logfields.Path(m.tempDir))
	m.tempDir = ""
	return nil
}

// Promote replaces target with the workspace contents. The previous target
// is restored if the swap fails. After Promote the manager owns nothing.
func (m *Manager) Promote(target string) error {
	if m.tempDir == "" || m.persistent {
		return errors.InternalError("workspace not promotable").
			WithContext("path", m.tempDir).
			Build()
	}

	backup := ""
	if _, err := os.Stat(target); err == nil {
		backup = fmt.Sprintf("%s.old-%d", target, time.Now().UnixNano())
		if err := os.Rename(target, backup); err != nil {
			return fsError("failed to move previous output aside", target, err)
		}
	}

	if err := os.Rename(m.tempDir, target); err != nil {
		if backup != "" {
			_ = os.Rename(backup, target)
		}
		return fsError("failed to promote workspace", target, err)
	}
	// Staging dirs are created 0700 by MkdirTemp; published output is world-readable.
	_ = os.Chmod(target, 0o755) //nolint:gosec // served content

	m.tempDir = ""
	if backup != "" {
		if err := os.RemoveAll(backup); err != nil {
			slog.Warn("Failed to remove previous output", logfields.Path(backup), logfields.Error(err))
		}
	}
	slog.Debug("Promoted workspace", logfields.Path(target))
	return nil
}

// CreateSubdir creates a subdirectory within the workspace
func (m *Manager) CreateSubdir(name string) (string, error) {
	if m.tempDir == "" {
		return "", errors.InternalError("workspace not created").Build()
	}
	subdir := filepath.Join(m.tempDir, name)
	if err := os.MkdirAll(subdir, 0o750); err != nil {
		return "", fsError("failed to create subdirectory", subdir, err)
	}
	return subdir, nil
}

func fsError(msg, path string, err error) error {
	return errors.WrapError(err, errors.CategoryFileSystem, msg).
		WithContext("path", path).
		Build()
}
