package linkverify

import (
	"time"
)

// BrokenLinkEvent represents a broken link discovered during verification.
// It is published to NATS when notifications are enabled.
type BrokenLinkEvent struct {
	URL    string `json:"url"`
	Tag    string `json:"tag"`
	Reason string `json:"reason"`

	// Source page
	SourceRoute string `json:"source_route"`
	SourceFile  string `json:"source_file"`

	BuildID   string    `json:"build_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Events converts the report's broken links into events for buildID.
func (r *Report) Events(buildID string) []BrokenLinkEvent {
	now := time.Now()
	out := make([]BrokenLinkEvent, 0, len(r.Broken))
	for _, b := range r.Broken {
		out = append(out, BrokenLinkEvent{
			URL:         b.URL,
			Tag:         b.Tag,
			Reason:      b.Reason,
			SourceRoute: b.Route,
			SourceFile:  b.File,
			BuildID:     buildID,
			Timestamp:   now,
		})
	}
	return out
}
