package sidebar

import (
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/docnav/internal/markup"
	"git.home.luguber.info/inful/docnav/internal/nav"
)

// Crumb is one breadcrumb entry. Route is empty for categories.
type Crumb struct {
	Label string
	Route string
}

// Crumbs returns the category chain leading to slug, followed by the page
// itself. It returns nil when slug is not in tree.
func (r Renderer) Crumbs(tree *nav.Tree, slug string) []Crumb {
	loc, ok := tree.Find(slug)
	if !ok {
		return nil
	}
	out := make([]Crumb, 0, len(loc.Ancestors)+1)
	for _, a := range loc.Ancestors {
		out = append(out, Crumb{Label: a.Label})
	}
	return append(out, Crumb{Label: r.label(slug), Route: r.Router.Route(slug)})
}

// Breadcrumbs renders Crumbs as a list. The last entry is the current page.
func (r Renderer) Breadcrumbs(tree *nav.Tree, slug string) *html.Node {
	crumbs := r.Crumbs(tree, slug)
	if len(crumbs) == 0 {
		return nil
	}
	ul := markup.El("ul", []markup.Attr{markup.Class("breadcrumbs")})
	for i, c := range crumbs {
		var item *html.Node
		if i == len(crumbs)-1 {
			item = markup.El("span", []markup.Attr{markup.Class("breadcrumbs__link"), markup.A("aria-current", "page")}, markup.Text(c.Label))
		} else {
			item = markup.El("span", []markup.Attr{markup.Class("breadcrumbs__link")}, markup.Text(c.Label))
		}
		markup.Append(ul, markup.El("li", []markup.Attr{markup.Class("breadcrumbs__item")}, item))
	}
	return markup.El("nav", []markup.Attr{markup.A("aria-label", "Breadcrumbs")}, ul)
}
