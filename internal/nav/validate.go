package nav

import (
	"fmt"
	"strings"
)

// Rule identifiers reported by Validate.
const (
	RuleCategoryLabel    = "category-label"
	RuleCategoryChildren = "category-children"
	RuleCategoryShape    = "category-shape"
	RuleLeafShape        = "leaf-shape"
	RuleDuplicateSlug    = "duplicate-slug"
	RuleEmptySidebar     = "empty-sidebar"
)

// Violation is a broken structural invariant.
type Violation struct {
	Rule    string
	Sidebar string
	// Location is a path such as "docs[5].items[2]".
	Location string
	Slug     string
	Message  string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s (%s)", v.Location, v.Message, v.Rule)
}

// Validate checks the structural invariants of t: categories carry a label,
// at least one child and no id, leaves carry exactly one slug and nothing else, and
// slugs are unique across every sidebar.
func Validate(t *Tree) []Violation {
	if t == nil {
		return nil
	}
	var out []Violation
	firstSeen := make(map[string]string)
	for _, sb := range t.Sidebars {
		if len(sb.Items) == 0 {
			out = append(out, Violation{
				Rule:     RuleEmptySidebar,
				Sidebar:  sb.Name,
				Location: sb.Name,
				Message:  "sidebar has no items",
			})
		}
		validateItems(sb.Name, sb.Items, sb.Name, firstSeen, &out)
	}
	return out
}

func validateItems(sidebar string, items []*Node, path string, firstSeen map[string]string, out *[]Violation) {
	for i, n := range items {
		loc := fmt.Sprintf("%s[%d]", path, i)
		if n == nil {
			continue
		}
		switch n.Kind {
		case KindLeaf:
			validateLeaf(sidebar, n, loc, firstSeen, out)
		case KindCategory:
			if strings.TrimSpace(n.Label) == "" {
				*out = append(*out, Violation{
					Rule: RuleCategoryLabel, Sidebar: sidebar, Location: loc,
					Message: "category has an empty label",
				})
			}
			if id := strings.TrimSpace(n.ID); id != "" {
				*out = append(*out, Violation{
					Rule: RuleCategoryShape, Sidebar: sidebar, Location: loc, Slug: id,
					Message: fmt.Sprintf("category %q must not carry an id; list %q as a child leaf instead", n.Label, id),
				})
			}
			if len(n.Children) == 0 {
				*out = append(*out, Violation{
					Rule: RuleCategoryChildren, Sidebar: sidebar, Location: loc,
					Message: fmt.Sprintf("category %q has no children", n.Label),
				})
			}
			validateItems(sidebar, n.Children, loc+".items", firstSeen, out)
		default:
			*out = append(*out, Violation{
				Rule: RuleLeafShape, Sidebar: sidebar, Location: loc,
				Message: fmt.Sprintf("unknown node kind %q", n.Kind),
			})
		}
	}
}

func validateLeaf(sidebar string, n *Node, loc string, firstSeen map[string]string, out *[]Violation) {
	slug := strings.TrimSpace(n.ID)
	if slug == "" {
		*out = append(*out, Violation{
			Rule: RuleLeafShape, Sidebar: sidebar, Location: loc,
			Message: "leaf does not reference a document",
		})
		return
	}
	if len(n.Children) > 0 {
		*out = append(*out, Violation{
			Rule: RuleLeafShape, Sidebar: sidebar, Location: loc, Slug: slug,
			Message: fmt.Sprintf("leaf %q must not have children", slug),
		})
	}
	if n.Label != "" {
		*out = append(*out, Violation{
			Rule: RuleLeafShape, Sidebar: sidebar, Location: loc, Slug: slug,
			Message: fmt.Sprintf("leaf %q must not carry a label; set sidebar_label in the document instead", slug),
		})
	}
	if prev, dup := firstSeen[slug]; dup {
		*out = append(*out, Violation{
			Rule: RuleDuplicateSlug, Sidebar: sidebar, Location: loc, Slug: slug,
			Message: fmt.Sprintf("slug %q already referenced at %s", slug, prev),
		})
		return
	}
	firstSeen[slug] = loc
}
