package preview

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/docnav/internal/build"
	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// BuildStatus is the JSON body of /api/status.
type BuildStatus struct {
	State       string    `json:"state"` // "idle", "building", "ready", "failed"
	BuildID     string    `json:"build_id,omitempty"`
	Status      string    `json:"status,omitempty"`
	Mode        string    `json:"mode,omitempty"`
	FinishedAt  time.Time `json:"finished_at,omitempty"`
	DurationMS  int64     `json:"duration_ms,omitempty"`
	Rendered    int       `json:"rendered"`
	Skipped     int       `json:"skipped"`
	Warnings    int       `json:"warnings"`
	BrokenLinks int       `json:"broken_links"`
	// HasGoodBuild reports whether the served output came from a successful build.
	HasGoodBuild bool `json:"has_good_build"`
}

// Status tracks the latest build for the status endpoint.
type Status struct {
	mu       sync.RWMutex
	current  BuildStatus
	lastErr  error
	adapter  *errors.HTTPErrorAdapter
	building bool
}

// NewStatus creates an idle status tracker.
func NewStatus() *Status {
	return &Status{current: BuildStatus{State: "idle"}, adapter: errors.NewHTTPErrorAdapter(nil)}
}

// Begin marks a build as running.
func (s *Status) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.building = true
}

// Record stores a finished build.
func (s *Status) Record(rep *build.Report, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.building = false
	s.lastErr = err

	good := s.current.HasGoodBuild
	next := BuildStatus{State: "ready", FinishedAt: time.Now()}
	if rep != nil {
		next.BuildID = rep.BuildID
		next.Status = string(rep.Status)
		next.Mode = string(rep.Mode)
		next.DurationMS = rep.Duration.Milliseconds()
		next.Rendered = rep.Rendered
		next.Skipped = rep.Skipped
		next.Warnings = rep.Warnings()
		next.BrokenLinks = len(rep.BrokenLinks)
	}
	if err != nil {
		next.State = "failed"
	} else {
		good = true
	}
	next.HasGoodBuild = good
	s.current = next
}

// Snapshot returns the current status and last build error.
func (s *Status) Snapshot() (BuildStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.current
	if s.building {
		st.State = "building"
	}
	return st, s.lastErr
}

// ServeHTTP writes the status as JSON. A failed last build is reported
// through the HTTP error adapter.
func (s *Status) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	st, err := s.Snapshot()
	if err != nil {
		s.adapter.WriteErrorResponse(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(st)
}
