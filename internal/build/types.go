package build

import (
	"time"

	"git.home.luguber.info/inful/docnav/internal/landing"
	"git.home.luguber.info/inful/docnav/internal/linkverify"
	"git.home.luguber.info/inful/docnav/internal/lint"
	"git.home.luguber.info/inful/docnav/internal/site"
)

// Stage names, in execution order.
const (
	StageLoadNav       = "load_nav"
	StageDiscoverDocs  = "discover_docs"
	StageValidate      = "validate"
	StageRenderPages   = "render_pages"
	StageRenderLanding = "render_landing"
	StageVerifyLinks   = "verify_links"
	StageFinalize      = "finalize"
)

// Mode selects full or incremental rendering.
type Mode string

const (
	ModeFull        Mode = "full"
	ModeIncremental Mode = "incremental"
)

// Status represents the outcome of a build.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusWarning  Status = "warning"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
)

// IsSuccess returns true if the build produced output.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess || s == StatusWarning
}

// Options are the inputs every build of one site shares.
type Options struct {
	DocsDir   string
	NavFile   string
	OutputDir string
	RouteBase string

	Site    site.Options
	Landing landing.Content
	Lint    lint.Config

	VerifyLinks    bool
	CheckFragments bool
}

// Request describes a single build invocation.
type Request struct {
	Mode Mode
	// Trigger names what started the build: "cli", "preview", "daemon".
	Trigger string
}

// StageTiming records one stage's duration.
type StageTiming struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`
}

// Report is the outcome of a build.
type Report struct {
	BuildID   string        `json:"build_id"`
	Mode      Mode          `json:"mode"`
	Trigger   string        `json:"trigger,omitempty"`
	Status    Status        `json:"status"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Stages    []StageTiming `json:"stages"`
	// FailedStage is set when Status is failed or canceled.
	FailedStage string `json:"failed_stage,omitempty"`

	Leaves    int `json:"leaves"`
	Documents int `json:"documents"`
	Assets    int `json:"assets"`
	Rendered  int `json:"rendered"`
	Skipped   int `json:"skipped"`
	Removed   int `json:"removed"`

	Lint        *lint.Result            `json:"-"`
	Links       *linkverify.Report      `json:"-"`
	BrokenLinks []linkverify.BrokenLink `json:"broken_links,omitempty"`
	OutputDir   string                  `json:"output_dir"`
}

// Warnings counts lint warnings and broken links.
func (r *Report) Warnings() int {
	n := len(r.BrokenLinks)
	if r.Lint != nil {
		n += r.Lint.WarningCount()
	}
	return n
}

// Pages is the number of pages present in the output.
func (r *Report) Pages() int { return r.Rendered + r.Skipped }
