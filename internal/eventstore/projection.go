package eventstore

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"git.home.luguber.info/inful/docnav/internal/logfields"
)

const (
	buildStatusRunning = "running"
	buildStatusFailed  = "failed"
)

// BuildSummary is a read model of one build.
type BuildSummary struct {
	BuildID      string     `json:"build_id"`
	Status       string     `json:"status"` // "running", "success", "warning", "failed"
	Mode         string     `json:"mode,omitempty"`
	Trigger      string     `json:"trigger,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	DurationMS   int64      `json:"duration_ms,omitempty"`
	Leaves       int        `json:"leaves"`
	Documents    int        `json:"documents"`
	Rendered     int        `json:"rendered"`
	Skipped      int        `json:"skipped"`
	BrokenLinks  int        `json:"broken_links"`
	TreeHash     string     `json:"tree_hash,omitempty"`
	DocsHash     string     `json:"docs_hash,omitempty"`
	ErrorStage   string     `json:"error_stage,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// History reconstructs build summaries from every stored event, newest
// first, returning at most limit entries (all when limit <= 0).
func History(ctx context.Context, store Store, limit int) ([]BuildSummary, error) {
	events, err := store.GetRange(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return nil, err
	}

	builds := make(map[string]*BuildSummary)
	var order []string // first-seen, oldest first
	for _, e := range events {
		if _, ok := builds[e.BuildID]; !ok {
			order = append(order, e.BuildID)
		}
		apply(builds, e)
	}

	// Newest first; builds started in the same millisecond keep store order.
	out := make([]BuildSummary, 0, len(builds))
	for _, id := range slices.Backward(order) {
		out = append(out, *builds[id])
	}
	slices.SortStableFunc(out, func(a, b BuildSummary) int {
		return b.StartedAt.Compare(a.StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func apply(builds map[string]*BuildSummary, e Event) {
	b, ok := builds[e.BuildID]
	if !ok {
		b = &BuildSummary{BuildID: e.BuildID, Status: buildStatusRunning, StartedAt: e.At}
		builds[e.BuildID] = b
	}

	var err error
	switch e.Type {
	case TypeBuildStarted:
		var d BuildStartedData
		if err = Decode(e, &d); err == nil {
			b.Mode, b.Trigger, b.StartedAt = d.Mode, d.Trigger, e.At
		}
	case TypeNavigationLoaded:
		var d NavigationLoadedData
		if err = Decode(e, &d); err == nil {
			b.Leaves, b.TreeHash = d.Leaves, d.TreeHash
		}
	case TypeDocumentsDiscovered:
		var d DocumentsDiscoveredData
		if err = Decode(e, &d); err == nil {
			b.Documents, b.DocsHash = d.Documents, d.DocsHash
		}
	case TypePagesRendered:
		var d PagesRenderedData
		if err = Decode(e, &d); err == nil {
			b.Rendered, b.Skipped = d.Rendered, d.Skipped
		}
	case TypeLinksVerified:
		var d LinksVerifiedData
		if err = Decode(e, &d); err == nil {
			b.BrokenLinks = d.Broken
		}
	case TypeBuildCompleted:
		var d BuildCompletedData
		if err = Decode(e, &d); err == nil {
			ts := e.At
			b.Status, b.DurationMS, b.CompletedAt = d.Status, d.DurationMS, &ts
		}
	case TypeBuildFailed:
		var d BuildFailedData
		if err = Decode(e, &d); err == nil {
			ts := e.At
			b.Status, b.ErrorStage, b.ErrorMessage = buildStatusFailed, d.Stage, d.Error
			b.DurationMS, b.CompletedAt = d.DurationMS, &ts
		}
	}
	if err != nil {
		slog.Warn("Skipping undecodable event", logfields.BuildID(e.BuildID), slog.String("type", e.Type), logfields.Error(err))
	}
}
