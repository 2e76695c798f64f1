package eventstore

import (
	"encoding/json"
	"time"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// Event is one stored build lifecycle record. Seq is assigned by the store.
type Event struct {
	Seq     int64
	BuildID string
	Type    string
	At      time.Time
	Payload json.RawMessage
	Meta    map[string]string
}

// Event type names.
const (
	TypeBuildStarted        = "BuildStarted"
	TypeNavigationLoaded    = "NavigationLoaded"
	TypeDocumentsDiscovered = "DocumentsDiscovered"
	TypePagesRendered       = "PagesRendered"
	TypeLinksVerified       = "LinksVerified"
	TypeBuildCompleted      = "BuildCompleted"
	TypeBuildFailed         = "BuildFailed"
)

// BuildStartedData is the payload of a BuildStarted event.
type BuildStartedData struct {
	Mode    string `json:"mode"`    // "full" or "incremental"
	Trigger string `json:"trigger"` // "cli", "preview", "daemon"
}

// NavigationLoadedData is the payload of a NavigationLoaded event.
type NavigationLoadedData struct {
	Sidebars int    `json:"sidebars"`
	Leaves   int    `json:"leaves"`
	TreeHash string `json:"tree_hash"`
}

// DocumentsDiscoveredData is the payload of a DocumentsDiscovered event.
type DocumentsDiscoveredData struct {
	Documents int    `json:"documents"`
	Assets    int    `json:"assets"`
	DocsHash  string `json:"docs_hash"`
}

// PagesRenderedData is the payload of a PagesRendered event.
type PagesRenderedData struct {
	Rendered int `json:"rendered"`
	Skipped  int `json:"skipped"`
}

// LinksVerifiedData is the payload of a LinksVerified event.
type LinksVerifiedData struct {
	Checked int `json:"checked"`
	Broken  int `json:"broken"`
}

// BuildCompletedData is the payload of a BuildCompleted event.
type BuildCompletedData struct {
	Status      string `json:"status"` // "success" or "warning"
	DurationMS  int64  `json:"duration_ms"`
	Pages       int    `json:"pages"`
	Warnings    int    `json:"warnings"`
	BrokenLinks int    `json:"broken_links"`
	OutputDir   string `json:"output_dir"`
}

// BuildFailedData is the payload of a BuildFailed event.
type BuildFailedData struct {
	Stage      string `json:"stage"`
	Error      string `json:"error"`
	DurationMS int64  `json:"duration_ms"`
}

// NewEvent wraps a typed payload as an Event stamped with the current time.
func NewEvent(buildID, eventType string, data any) (Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return Event{}, errors.EventStoreError("failed to marshal " + eventType + " payload").
			WithCause(err).
			WithContext("build_id", buildID).
			Build()
	}
	return Event{BuildID: buildID, Type: eventType, At: time.Now(), Payload: payload}, nil
}

// Decode unmarshals an event payload into out.
func Decode(e Event, out any) error {
	if err := json.Unmarshal(e.Payload, out); err != nil {
		return errors.EventStoreError("failed to unmarshal " + e.Type + " payload").
			WithCause(err).
			WithContext("build_id", e.BuildID).
			Build()
	}
	return nil
}
