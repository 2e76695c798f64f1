package errors

import (
	"errors"
	"log/slog"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("category without children").Build(), expected: 2},
		{name: "navigation", err: NavigationError("unresolved slug").Build(), expected: 3},
		{name: "config", err: ConfigError("missing title").Build(), expected: 7},
		{name: "git", err: GitError("clone failed").Build(), expected: 8},
		{name: "build", err: BuildError("render failed").Build(), expected: 11},
		{name: "unclassified", err: errors.New("boom"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	err := WrapError(errors.New("no such file"), CategoryConfig, "read config").Build()

	quiet := NewCLIErrorAdapter(false, nil)
	if got := quiet.FormatError(err); got != "Error: read config (no such file)" {
		t.Errorf("unexpected quiet format %q", got)
	}

	verbose := NewCLIErrorAdapter(true, nil)
	if got := verbose.FormatError(err); got != err.Error() {
		t.Errorf("verbose format should be the full error, got %q", got)
	}

	if got := quiet.FormatError(errors.New("plain")); got != "Error: plain" {
		t.Errorf("unexpected plain format %q", got)
	}
}
