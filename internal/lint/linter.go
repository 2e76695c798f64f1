package lint

import (
	"fmt"
	"slices"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/nav"
)

// Linter runs a set of rules.
type Linter struct {
	cfg   *Config
	rules []Rule
}

// DefaultRules returns every rule in reporting order.
func DefaultRules() []Rule {
	return []Rule{StructureRule{}, UnresolvedSlugRule{}, LandingLinkRule{}, RouteCollisionRule{}, OrphanDocRule{}}
}

// NewLinter creates a linter with the default rules minus the disabled ones.
func NewLinter(cfg *Config) *Linter {
	if cfg == nil {
		cfg = &Config{Format: "text"}
	}
	l := &Linter{cfg: cfg}
	for _, r := range DefaultRules() {
		if slices.Contains(cfg.Disabled, r.Name()) {
			continue
		}
		l.rules = append(l.rules, r)
	}
	return l
}

// Lint runs every rule over in.
func (l *Linter) Lint(in *Input) *Result {
	res := &Result{Issues: []Issue{}}
	if in.Tree == nil {
		in.Tree = &nav.Tree{}
	}
	if in.Docs != nil {
		res.DocsTotal = in.Docs.Len()
	}
	res.LeavesTotal = len(in.Tree.Slugs())
	for _, r := range l.rules {
		for _, issue := range r.Check(in) {
			if l.cfg.Quiet && issue.Severity < SeverityError {
				continue
			}
			res.Issues = append(res.Issues, issue)
		}
	}
	res.sort()
	return res
}

// Err converts an erroneous result into a classified error. Unresolved
// references are navigation errors; everything else is a validation error.
func (r *Result) Err() error {
	if !r.HasErrors() {
		return nil
	}
	category := errors.CategoryValidation
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError && (issue.Rule == RuleUnresolvedSlug || issue.Rule == RuleLandingLink) {
			category = errors.CategoryNavigation
			break
		}
	}
	first := r.Issues[0]
	return errors.NewError(category, fmt.Sprintf("%d lint error(s): %s", r.ErrorCount(), first.Message)).
		WithContext("rule", first.Rule).
		WithContext("errors", r.ErrorCount()).
		UserAction().
		Build()
}
