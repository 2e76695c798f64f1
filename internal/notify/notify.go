// Package notify publishes build and broken link events to NATS JetStream.
package notify

import (
	"context"
	"time"

	"git.home.luguber.info/inful/docnav/internal/linkverify"
)

// BuildEvent is published when a build finishes, successfully or not.
type BuildEvent struct {
	BuildID     string    `json:"build_id"`
	Status      string    `json:"status"`
	Mode        string    `json:"mode"`
	Trigger     string    `json:"trigger,omitempty"`
	Pages       int       `json:"pages"`
	Skipped     int       `json:"skipped"`
	Warnings    int       `json:"warnings"`
	BrokenLinks int       `json:"broken_links"`
	DurationMS  int64     `json:"duration_ms"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher delivers build notifications.
type Publisher interface {
	PublishBuild(ctx context.Context, event *BuildEvent) error
	PublishBrokenLinks(ctx context.Context, events []linkverify.BrokenLinkEvent) error
	Close() error
}

// NoopPublisher drops every event. It is used when NATS is not configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishBuild(context.Context, *BuildEvent) error { return nil }
func (NoopPublisher) PublishBrokenLinks(context.Context, []linkverify.BrokenLinkEvent) error {
	return nil
}
func (NoopPublisher) Close() error { return nil }
