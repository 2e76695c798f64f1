package lint

import (
	"fmt"
	"maps"
	"slices"

	"git.home.luguber.info/inful/docnav/internal/docs"
	"git.home.luguber.info/inful/docnav/internal/landing"
	"git.home.luguber.info/inful/docnav/internal/nav"
)

// Rule names reported in addition to the structural ones from nav.Validate.
const (
	RuleUnresolvedSlug = "unresolved-slug"
	RuleLandingLink    = "landing-link"
	RuleOrphanDoc      = "orphan-doc"
	RuleRouteCollision = "route-collision"
)

// Input is everything a lint run looks at.
type Input struct {
	NavFile string
	Tree    *nav.Tree
	Docs    *docs.Set
	Router  *nav.Router
	// LandingLinks are the link targets of the landing page.
	LandingLinks []string
	// Reserved maps routes the build writes itself, such as the landing
	// page, to a description used in messages.
	Reserved map[string]string
}

// Rule checks one aspect of the input.
type Rule interface {
	// Name returns the unique identifier for this rule.
	Name() string

	// Check returns any issues found.
	Check(in *Input) []Issue
}

// StructureRule reports broken tree invariants: category labels and
// children, leaf shape and duplicate slugs.
type StructureRule struct{}

func (StructureRule) Name() string { return "structure" }

func (StructureRule) Check(in *Input) []Issue {
	var out []Issue
	for _, v := range nav.Validate(in.Tree) {
		out = append(out, Issue{
			File:     in.NavFile,
			Location: v.Location,
			Slug:     v.Slug,
			Severity: SeverityError,
			Rule:     v.Rule,
			Message:  v.Message,
			Fix:      structureFix(v.Rule),
		})
	}
	return out
}

func structureFix(rule string) string {
	switch rule {
	case nav.RuleCategoryLabel:
		return "give the category a non-empty label"
	case nav.RuleCategoryChildren:
		return "add at least one item to the category or remove it"
	case nav.RuleCategoryShape:
		return "remove the id from the category and add the document as one of its items"
	case nav.RuleLeafShape:
		return "a leaf is a single document id; move labels to the document's sidebar_label"
	case nav.RuleDuplicateSlug:
		return "reference each document from exactly one place"
	case nav.RuleEmptySidebar:
		return "add items to the sidebar or remove it"
	}
	return ""
}

// UnresolvedSlugRule reports leaves that name no document.
type UnresolvedSlugRule struct{}

func (UnresolvedSlugRule) Name() string { return RuleUnresolvedSlug }

func (UnresolvedSlugRule) Check(in *Input) []Issue {
	if in.Docs == nil {
		return nil
	}
	var out []Issue
	for _, sb := range in.Tree.Sidebars {
		forEachLeaf(sb, func(loc, slug string) {
			if slug == "" {
				return
			}
			if _, ok := in.Docs.Lookup(slug); ok {
				return
			}
			out = append(out, Issue{
				File:        in.NavFile,
				Location:    loc,
				Slug:        slug,
				Severity:    SeverityError,
				Rule:        RuleUnresolvedSlug,
				Message:     fmt.Sprintf("no document for slug %q", slug),
				Explanation: "Every leaf must name an existing document by its path without extension, or by its frontmatter id.",
				Fix:         fmt.Sprintf("create %s.md or correct the slug", slug),
			})
		})
	}
	return out
}

// LandingLinkRule reports landing page targets that do not resolve to a
// leaf route. External links are not checked.
type LandingLinkRule struct{}

func (LandingLinkRule) Name() string { return RuleLandingLink }

func (LandingLinkRule) Check(in *Input) []Issue {
	if in.Router == nil {
		return nil
	}
	idx, _ := in.Router.Index(in.Tree.Slugs())
	var out []Issue
	for _, to := range in.LandingLinks {
		if !landing.IsInternal(to) {
			continue
		}
		if _, ok := idx.Lookup(to); ok {
			continue
		}
		out = append(out, Issue{
			File:     "landing",
			Severity: SeverityError,
			Rule:     RuleLandingLink,
			Message:  fmt.Sprintf("landing link %q does not resolve to any sidebar document", to),
			Fix:      "point the link at a route listed by `docnav routes`",
		})
	}
	return out
}

// RouteCollisionRule reports documents whose routes clash with another
// document or with a route the build reserves. Every document is rendered,
// sidebar or not, so all of them are checked.
type RouteCollisionRule struct{}

func (RouteCollisionRule) Name() string { return RuleRouteCollision }

func (RouteCollisionRule) Check(in *Input) []Issue {
	if in.Router == nil {
		return nil
	}
	slugs := in.Tree.Slugs()
	if in.Docs != nil {
		slugs = in.Docs.Slugs()
	}
	idx, conflicts := in.Router.Index(slugs)

	var out []Issue
	for _, c := range conflicts {
		for _, slug := range c.Slugs[1:] {
			out = append(out, Issue{
				File:        docFile(in, slug),
				Slug:        slug,
				Severity:    SeverityError,
				Rule:        RuleRouteCollision,
				Message:     fmt.Sprintf("documents %q and %q both resolve to route %q", c.Slugs[0], slug, c.Route),
				Explanation: "Index, README and directory-named documents route to their directory, so they share it.",
				Fix:         "rename or merge one of the documents, or give it a distinct frontmatter slug",
			})
		}
	}
	for _, route := range slices.Sorted(maps.Keys(in.Reserved)) {
		slug, ok := idx.Lookup(route)
		if !ok {
			continue
		}
		out = append(out, Issue{
			File:     docFile(in, slug),
			Slug:     slug,
			Severity: SeverityError,
			Rule:     RuleRouteCollision,
			Message:  fmt.Sprintf("document %q resolves to route %q, which is %s", slug, route, in.Reserved[route]),
			Fix:      "change docs.route_base or give the document a frontmatter slug",
		})
	}
	return out
}

func docFile(in *Input, slug string) string {
	if in.Docs != nil {
		if d, ok := in.Docs.Lookup(slug); ok {
			return d.RelativePath
		}
	}
	return in.NavFile
}

// OrphanDocRule warns about documents no sidebar references.
type OrphanDocRule struct{}

func (OrphanDocRule) Name() string { return RuleOrphanDoc }

func (OrphanDocRule) Check(in *Input) []Issue {
	if in.Docs == nil {
		return nil
	}
	referenced := make(map[string]bool)
	for _, s := range in.Tree.Slugs() {
		referenced[s] = true
	}
	var out []Issue
	for _, d := range in.Docs.Docs() {
		if referenced[d.Slug] {
			continue
		}
		out = append(out, Issue{
			File:     d.RelativePath,
			Slug:     d.Slug,
			Severity: SeverityWarning,
			Rule:     RuleOrphanDoc,
			Message:  fmt.Sprintf("document %q is not referenced by any sidebar", d.Slug),
			Fix:      "add it to a sidebar, or ignore if it is only linked from other pages",
		})
	}
	return out
}

func forEachLeaf(sb nav.Sidebar, fn func(loc, slug string)) {
	var visit func(items []*nav.Node, path string)
	visit = func(items []*nav.Node, path string) {
		for i, n := range items {
			loc := fmt.Sprintf("%s[%d]", path, i)
			switch {
			case n.IsLeaf():
				fn(loc, n.ID)
			case n.IsCategory():
				visit(n.Children, loc+".items")
			}
		}
	}
	visit(sb.Items, sb.Name)
}
