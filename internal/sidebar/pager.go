package sidebar

import (
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/docnav/internal/markup"
	"git.home.luguber.info/inful/docnav/internal/nav"
)

// Pager renders previous/next links for slug in seq. It returns nil when
// slug has no neighbours or is not part of the sequence.
func (r Renderer) Pager(seq *nav.Sequence, slug string) *html.Node {
	prev, next, ok := seq.Neighbors(slug)
	if !ok || (prev == "" && next == "") {
		return nil
	}
	pager := markup.El("nav", []markup.Attr{markup.Class("pagination-nav"), markup.A("aria-label", "Docs pages")})
	if prev != "" {
		markup.Append(pager, r.pagerLink(prev, "Previous", "pagination-nav__link pagination-nav__link--prev", "prev"))
	}
	if next != "" {
		markup.Append(pager, r.pagerLink(next, "Next", "pagination-nav__link pagination-nav__link--next", "next"))
	}
	return pager
}

func (r Renderer) pagerLink(slug, sub, class, rel string) *html.Node {
	return markup.El("a", []markup.Attr{markup.Class(class), markup.A("href", r.Router.Route(slug)), markup.A("rel", rel)},
		markup.El("div", []markup.Attr{markup.Class("pagination-nav__sublabel")}, markup.Text(sub)),
		markup.El("div", []markup.Attr{markup.Class("pagination-nav__label")}, markup.Text(r.label(slug))),
	)
}
