// Package eventstore persists build lifecycle events and page fingerprints.
package eventstore

import (
	"context"
	"time"
)

// Store is an append-only log of build events. Reads return events in
// append order.
type Store interface {
	Append(ctx context.Context, e Event) error
	GetByBuildID(ctx context.Context, buildID string) ([]Event, error)
	// GetRange returns events whose timestamp lies in [start, end].
	GetRange(ctx context.Context, start, end time.Time) ([]Event, error)
	Close() error
}

// FingerprintStore remembers the fingerprint each page was last rendered
// with, so incremental builds can skip unchanged pages.
type FingerprintStore interface {
	LoadFingerprints(ctx context.Context) (map[string]string, error)
	// SaveFingerprints replaces all stored fingerprints.
	SaveFingerprints(ctx context.Context, fps map[string]string) error
}
