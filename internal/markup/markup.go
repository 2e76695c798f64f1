// Package markup builds and serializes golang.org/x/net/html node trees.
package markup

import (
	"bytes"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attr is a single attribute. Attributes with an empty value are dropped,
// except for boolean attributes built with Bool.
type Attr struct {
	Key   string
	Value string
	bool  bool
}

// A returns an attribute.
func A(key, value string) Attr { return Attr{Key: key, Value: value} }

// Bool returns a boolean attribute rendered without a value check.
func Bool(key string) Attr { return Attr{Key: key, bool: true} }

// Class is shorthand for A("class", value).
func Class(value string) Attr { return A("class", value) }

// El creates an element. Nil children are ignored.
func El(tag string, attrs []Attr, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for _, a := range attrs {
		if a.Value == "" && !a.bool {
			continue
		}
		n.Attr = append(n.Attr, html.Attribute{Key: a.Key, Val: a.Value})
	}
	Append(n, children...)
	return n
}

// Text creates a text node. The serializer escapes it.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Raw parses trusted HTML (for example rendered Markdown) into nodes that can
// be appended to a <div> context.
func Raw(src []byte) ([]*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	return html.ParseFragment(bytes.NewReader(src), ctx)
}

// Append adds children to parent, skipping nil nodes.
func Append(parent *html.Node, children ...*html.Node) {
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.Parent != nil {
			c.Parent.RemoveChild(c)
		}
		parent.AppendChild(c)
	}
}

// Page holds the <head> content of a document.
type Page struct {
	Title       string
	Description string
	Stylesheets []string
	// LiveReload injects the preview reload script.
	LiveReload bool
}

// Document wraps body content in a complete HTML document.
func Document(p Page, body ...*html.Node) *html.Node {
	head := El("head", nil,
		El("meta", []Attr{A("charset", "utf-8")}),
		El("meta", []Attr{A("name", "viewport"), A("content", "width=device-width, initial-scale=1")}),
		El("title", nil, Text(p.Title)),
	)
	if p.Description != "" {
		Append(head, El("meta", []Attr{A("name", "description"), A("content", p.Description)}))
	}
	for _, href := range p.Stylesheets {
		Append(head, El("link", []Attr{A("rel", "stylesheet"), A("href", href)}))
	}
	bodyEl := El("body", nil, body...)
	if p.LiveReload {
		Append(bodyEl, El("script", nil, Text(liveReloadScript)))
	}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	Append(doc, El("html", []Attr{A("lang", "en")}, head, bodyEl))
	return doc
}

const liveReloadScript = `(function(){var es=new EventSource("/livereload");es.onmessage=function(e){if(e.data==="reload"){location.reload();}};})();`

// Render serializes n to w.
func Render(w io.Writer, n *html.Node) error {
	return html.Render(w, n)
}

// RenderString serializes n to a string.
func RenderString(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
