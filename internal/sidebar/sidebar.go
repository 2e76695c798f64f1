// Package sidebar renders navigation trees as HTML: the sidebar menu, the
// previous/next pager and breadcrumbs.
package sidebar

import (
	"strconv"

	"github.com/gosimple/slug"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/docnav/internal/markup"
	"git.home.luguber.info/inful/docnav/internal/nav"
)

// Labeler returns the display label for a document slug.
type Labeler func(slug string) string

// Router resolves slugs to routes.
type Router interface {
	Route(slug string) string
}

// Renderer renders sidebars for one tree.
type Renderer struct {
	Labels Labeler
	Router Router
}

// Render builds the menu for sb with active marked as the current page.
// Categories containing active are always expanded; other categories follow
// their Collapsed flag.
func (r Renderer) Render(sb nav.Sidebar, active string) *html.Node {
	ids := map[string]int{}
	list := r.list(sb.Items, active, ids)
	return markup.El("nav", []markup.Attr{
		markup.Class("sidebar"),
		markup.A("aria-label", "Docs sidebar"),
		markup.A("data-sidebar", sb.Name),
	}, list)
}

func (r Renderer) list(items []*nav.Node, active string, ids map[string]int) *html.Node {
	ul := markup.El("ul", []markup.Attr{markup.Class("menu__list")})
	for _, n := range items {
		switch {
		case n.IsLeaf():
			markup.Append(ul, r.leaf(n, active))
		case n.IsCategory():
			markup.Append(ul, r.category(n, active, ids))
		}
	}
	return ul
}

func (r Renderer) leaf(n *nav.Node, active string) *html.Node {
	attrs := []markup.Attr{markup.Class("menu__link"), markup.A("href", r.Router.Route(n.ID))}
	if n.ID == active {
		attrs[0] = markup.Class("menu__link menu__link--active")
		attrs = append(attrs, markup.A("aria-current", "page"))
	}
	return markup.El("li", []markup.Attr{markup.Class("menu__list-item")},
		markup.El("a", attrs, markup.Text(r.label(n.ID))),
	)
}

func (r Renderer) category(n *nav.Node, active string, ids map[string]int) *html.Node {
	id := uniqueID("cat-"+slug.Make(n.Label), ids)
	expanded := !n.Collapsed || contains(n, active)

	class := "menu__list-item menu__list-item--category"
	detailsAttrs := []markup.Attr{markup.A("id", id)}
	if expanded {
		detailsAttrs = append(detailsAttrs, markup.Bool("open"))
	} else {
		class += " menu__list-item--collapsed"
	}
	return markup.El("li", []markup.Attr{markup.Class(class)},
		markup.El("details", detailsAttrs,
			markup.El("summary", []markup.Attr{markup.Class("menu__caret")}, markup.Text(n.Label)),
			r.list(n.Children, active, ids),
		),
	)
}

func (r Renderer) label(slug string) string {
	if r.Labels != nil {
		if l := r.Labels(slug); l != "" {
			return l
		}
	}
	return slug
}

func contains(n *nav.Node, slug string) bool {
	if slug == "" {
		return false
	}
	for _, s := range nav.Leaves(n.Children) {
		if s == slug {
			return true
		}
	}
	return false
}

func uniqueID(base string, seen map[string]int) string {
	seen[base]++
	if c := seen[base]; c > 1 {
		return base + "-" + strconv.Itoa(c)
	}
	return base
}
