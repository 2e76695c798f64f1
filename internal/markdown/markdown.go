// Package markdown renders document bodies to HTML and extracts structural
// information (headings, links) used by the build and the linter.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// LinkResolver maps a link destination found in a document to the
// destination written into the rendered page. Returning ok=false keeps the
// original destination.
type LinkResolver func(dest string) (string, bool)

// Options controls rendering.
type Options struct {
	// ResolveLink rewrites document links (for example `../fetch.md`) to
	// site routes. Nil leaves links untouched.
	ResolveLink LinkResolver
	// Unsafe allows raw HTML in documents.
	Unsafe bool
}

// Heading is a rendered section heading.
type Heading struct {
	Level int
	Text  string
	ID    string
}

// Result holds the rendered HTML and the document outline.
type Result struct {
	HTML     []byte
	Headings []Heading
}

// Render converts a Markdown body (frontmatter already removed) to HTML.
func Render(body []byte, opts Options) (*Result, error) {
	md := newGoldmark(opts)
	root := md.Parser().Parse(text.NewReader(body))

	headings := collectHeadings(root, body)

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, body, root); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return &Result{HTML: buf.Bytes(), Headings: headings}, nil
}

// FirstHeading returns the text of the first level-1 heading, or "" when the
// body has none.
func FirstHeading(body []byte) string {
	root := goldmark.New().Parser().Parse(text.NewReader(body))
	title := ""
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok && h.Level == 1 {
			title = nodeText(h, body)
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	return title
}

func newGoldmark(opts Options) goldmark.Markdown {
	parserOpts := []parser.Option{parser.WithAutoHeadingID()}
	if opts.ResolveLink != nil {
		parserOpts = append(parserOpts, parser.WithASTTransformers(
			util.Prioritized(&linkRewriter{resolve: opts.ResolveLink}, 100),
		))
	}
	var rendererOpts []renderer.Option
	if opts.Unsafe {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Typographer),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(rendererOpts...),
	)
}

func collectHeadings(root gmast.Node, source []byte) []Heading {
	var out []Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		id := ""
		if v, found := h.AttributeString("id"); found {
			if b, isBytes := v.([]byte); isBytes {
				id = string(b)
			}
		}
		out = append(out, Heading{Level: h.Level, Text: nodeText(h, source), ID: id})
		return gmast.WalkSkipChildren, nil
	})
	return out
}

func nodeText(n gmast.Node, source []byte) string {
	var sb strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *gmast.String:
			sb.Write(t.Value)
		case *gmast.CodeSpan:
			for child := t.FirstChild(); child != nil; child = child.NextSibling() {
				if seg, ok := child.(*gmast.Text); ok {
					sb.Write(seg.Segment.Value(source))
				}
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
