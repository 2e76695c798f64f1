package landing

import (
	"io"
	"strconv"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/docnav/internal/markup"
)

// HTMLPrimitives renders the page as an x/net/html tree.
type HTMLPrimitives struct {
	Stylesheets []string
	LiveReload  bool
	// Header and Footer are the site chrome placed around the page.
	Header *html.Node
	Footer *html.Node
}

var _ Primitives[*html.Node] = HTMLPrimitives{}

func (p HTMLPrimitives) Layout(title, description string, children ...*html.Node) *html.Node {
	body := make([]*html.Node, 0, len(children)+2)
	body = append(body, p.Header)
	body = append(body, children...)
	body = append(body, p.Footer)
	return markup.Document(markup.Page{
		Title:       title,
		Description: description,
		Stylesheets: p.Stylesheets,
		LiveReload:  p.LiveReload,
	}, body...)
}

func (HTMLPrimitives) Hero(children ...*html.Node) *html.Node {
	return markup.El("header", []markup.Attr{markup.Class("hero hero--primary heroBanner")}, children...)
}

func (HTMLPrimitives) Heading(level int, id, class, text string) *html.Node {
	if level < 1 || level > 6 {
		level = 2
	}
	return markup.El("h"+strconv.Itoa(level), []markup.Attr{markup.A("id", id), markup.Class(class)}, markup.Text(text))
}

func (HTMLPrimitives) Paragraph(class, text string) *html.Node {
	return markup.El("p", []markup.Attr{markup.Class(class)}, markup.Text(text))
}

func (HTMLPrimitives) Link(l Link) *html.Node {
	return markup.El("a", []markup.Attr{
		markup.Class(l.Class),
		markup.A("href", l.To),
		markup.A("aria-label", l.AriaLabel),
	}, markup.Text(l.Label))
}

func (HTMLPrimitives) Group(class string, children ...*html.Node) *html.Node {
	return markup.El("div", []markup.Attr{markup.Class(class)}, children...)
}

func (HTMLPrimitives) Section(class string, children ...*html.Node) *html.Node {
	return markup.El("section", []markup.Attr{markup.Class(class)}, children...)
}

func (HTMLPrimitives) Main(children ...*html.Node) *html.Node {
	return markup.El("main", nil, children...)
}

func (HTMLPrimitives) Card(labelledBy string, children ...*html.Node) *html.Node {
	return markup.El("div", []markup.Attr{markup.Class("quickCard"), markup.A("aria-labelledby", labelledBy)}, children...)
}

func (p HTMLPrimitives) Features(features []Feature) *html.Node {
	cols := make([]*html.Node, 0, len(features))
	for _, f := range features {
		cols = append(cols, markup.El("div", []markup.Attr{markup.Class("col col--4 feature")},
			p.Heading(3, "", "", f.Title),
			p.Paragraph("", f.Description),
		))
	}
	return p.Section("features",
		p.Group("container", p.Group("row", cols...)),
	)
}

// RenderHTML composes the page with ui and writes it to w.
func RenderHTML(w io.Writer, site SiteInfo, c Content, ui HTMLPrimitives) error {
	return markup.Render(w, Compose[*html.Node](site, c, ui))
}
