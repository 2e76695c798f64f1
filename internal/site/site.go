// Package site renders documentation pages and the landing page into a
// static output tree.
package site

import (
	"bytes"
	_ "embed"
	"path"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/docnav/internal/docs"
	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/landing"
	"git.home.luguber.info/inful/docnav/internal/markdown"
	"git.home.luguber.info/inful/docnav/internal/markup"
	"git.home.luguber.info/inful/docnav/internal/nav"
	"git.home.luguber.info/inful/docnav/internal/sidebar"
)

// StylesheetRoute is where the embedded stylesheet is served.
const StylesheetRoute = "/assets/docnav.css"

//go:embed assets/docnav.css
var stylesheet []byte

// Stylesheet returns the embedded site stylesheet.
func Stylesheet() []byte { return bytes.Clone(stylesheet) }

// Options configures page rendering.
type Options struct {
	Site       landing.SiteInfo
	NavLinks   []landing.Link
	Footer     string
	LiveReload bool
	// UnsafeHTML allows raw HTML inside documents.
	UnsafeHTML bool
}

// Renderer renders pages for one document set and tree.
type Renderer struct {
	opts   Options
	set    *docs.Set
	tree   *nav.Tree
	router *nav.Router
	menu   sidebar.Renderer
	seqs   map[string]*nav.Sequence
}

// NewRenderer prepares a renderer. Routes honour frontmatter slug overrides.
func NewRenderer(opts Options, set *docs.Set, tree *nav.Tree, router *nav.Router) *Renderer {
	r := &Renderer{
		opts:   opts,
		set:    set,
		tree:   tree,
		router: router,
		seqs:   make(map[string]*nav.Sequence, len(tree.Sidebars)),
	}
	r.menu = sidebar.Renderer{Labels: r.label, Router: router}
	for _, sb := range tree.Sidebars {
		r.seqs[sb.Name] = nav.NewSequence(sb.Items)
	}
	return r
}

func (r *Renderer) label(slug string) string {
	if d, ok := r.set.Lookup(slug); ok {
		return d.Label()
	}
	return ""
}

// DocPage renders the page for doc. Documents that are not referenced by
// any sidebar render without a sidebar and pager.
func (r *Renderer) DocPage(doc *docs.Doc) ([]byte, error) {
	res, err := markdown.Render(doc.Body, markdown.Options{
		ResolveLink: r.linkResolver(doc),
		Unsafe:      r.opts.UnsafeHTML,
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryBuild, "render markdown").
			WithContext("slug", doc.Slug).
			Build()
	}
	content, err := markup.Raw(res.HTML)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryBuild, "parse rendered markdown").
			WithContext("slug", doc.Slug).
			Build()
	}

	article := markup.El("article", []markup.Attr{markup.Class("markdown")})
	if !startsWithH1(res.Headings) {
		markup.Append(article, markup.El("h1", nil, markup.Text(doc.Title)))
	}
	markup.Append(article, content...)

	mainCol := markup.El("main", []markup.Attr{markup.Class("docs-main")})
	wrapper := markup.El("div", []markup.Attr{markup.Class("docs-wrapper")})

	if loc, ok := r.tree.Find(doc.Slug); ok {
		sb, _ := r.tree.Sidebar(loc.Sidebar)
		markup.Append(wrapper, markup.El("aside", []markup.Attr{markup.Class("docs-sidebar")}, r.menu.Render(sb, doc.Slug)))
		markup.Append(mainCol, r.menu.Breadcrumbs(r.tree, doc.Slug), article, r.menu.Pager(r.seqs[loc.Sidebar], doc.Slug))
	} else {
		markup.Append(mainCol, article)
	}
	markup.Append(wrapper, mainCol)

	title := doc.Title
	if r.opts.Site.Title != "" {
		title += " | " + r.opts.Site.Title
	}
	description := doc.Description
	if description == "" {
		description = r.opts.Site.Description
	}
	page := markup.Document(r.page(title, description), r.header(), wrapper, r.footer())
	return render(page)
}

// LandingPage composes the landing page with the HTML primitives.
func (r *Renderer) LandingPage(content landing.Content) ([]byte, error) {
	var buf bytes.Buffer
	ui := landing.HTMLPrimitives{
		Stylesheets: []string{StylesheetRoute},
		LiveReload:  r.opts.LiveReload,
		Header:      r.header(),
		Footer:      r.footer(),
	}
	if err := landing.RenderHTML(&buf, r.opts.Site, content, ui); err != nil {
		return nil, errors.WrapError(err, errors.CategoryBuild, "render landing page").Build()
	}
	return buf.Bytes(), nil
}

// NotFoundPage renders the 404 page.
func (r *Renderer) NotFoundPage() ([]byte, error) {
	body := markup.El("main", []markup.Attr{markup.Class("container padding-vert--lg")},
		markup.El("h1", nil, markup.Text("Page Not Found")),
		markup.El("p", nil, markup.Text("We could not find what you were looking for.")),
		markup.El("p", nil, markup.El("a", []markup.Attr{markup.A("href", "/")}, markup.Text("Back to the home page"))),
	)
	return render(markup.Document(r.page("Page Not Found", ""), r.header(), body, r.footer()))
}

func (r *Renderer) page(title, description string) markup.Page {
	return markup.Page{
		Title:       title,
		Description: description,
		Stylesheets: []string{StylesheetRoute},
		LiveReload:  r.opts.LiveReload,
	}
}

func (r *Renderer) header() *html.Node {
	bar := markup.El("nav", []markup.Attr{markup.Class("navbar")},
		markup.El("a", []markup.Attr{markup.Class("navbar__brand"), markup.A("href", "/")}, markup.Text(r.opts.Site.Title)),
	)
	for _, l := range r.opts.NavLinks {
		markup.Append(bar, markup.El("a", []markup.Attr{
			markup.Class("navbar__link"),
			markup.A("href", l.To),
			markup.A("aria-label", l.AriaLabel),
		}, markup.Text(l.Label)))
	}
	return bar
}

func (r *Renderer) footer() *html.Node {
	text := r.opts.Footer
	if text == "" {
		text = r.opts.Site.Title
	}
	return markup.El("footer", []markup.Attr{markup.Class("footer")}, markup.Text(text))
}

// linkResolver rewrites relative links inside doc: Markdown targets become
// routes and other files resolve against the route base.
func (r *Renderer) linkResolver(doc *docs.Doc) markdown.LinkResolver {
	return func(dest string) (string, bool) {
		if dest == "" || strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "#") || hasScheme(dest) {
			return "", false
		}
		target, fragment, _ := strings.Cut(dest, "#")
		rel := path.Clean(path.Join(doc.Dir, target))
		if rel == ".." || strings.HasPrefix(rel, "../") {
			return "", false
		}
		if fragment != "" {
			fragment = "#" + fragment
		}
		if isMarkdownLink(target) {
			if d, ok := r.set.ByPath(rel); ok {
				return r.router.Route(d.Slug) + fragment, true
			}
			return "", false
		}
		return r.router.Base() + "/" + rel + fragment, true
	}
}

func isMarkdownLink(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	return ext == ".md" || ext == ".markdown"
}

func hasScheme(dest string) bool {
	i := strings.Index(dest, ":")
	if i <= 0 {
		return false
	}
	for _, c := range dest[:i] {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.') {
			return false
		}
	}
	return true
}

func startsWithH1(headings []markdown.Heading) bool {
	return len(headings) > 0 && headings[0].Level == 1
}

func render(n *html.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := markup.Render(&buf, n); err != nil {
		return nil, errors.WrapError(err, errors.CategoryBuild, "serialize page").Build()
	}
	return buf.Bytes(), nil
}
