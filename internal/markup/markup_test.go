package markup

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestEl_DropsEmptyAttributesAndNilChildren(t *testing.T) {
	n := El("a", []Attr{A("href", "/docs/"), Class(""), Bool("hidden")}, nil, Text("Docs & more"))

	out, err := RenderString(n)
	require.NoError(t, err)
	require.Equal(t, `<a href="/docs/" hidden="">Docs &amp; more</a>`, out)
}

func TestDocument(t *testing.T) {
	doc := Document(Page{
		Title:       "Clyp",
		Description: "A tiny scripting language",
		Stylesheets: []string{"/assets/docnav.css"},
		LiveReload:  true,
	}, El("main", nil, Text("hi")))

	out, err := RenderString(doc)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))

	q, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, "Clyp", q.Find("head title").Text())
	content, _ := q.Find(`meta[name="description"]`).Attr("content")
	require.Equal(t, "A tiny scripting language", content)
	href, _ := q.Find(`link[rel="stylesheet"]`).Attr("href")
	require.Equal(t, "/assets/docnav.css", href)
	require.Equal(t, "hi", q.Find("body main").Text())
	require.Contains(t, q.Find("body script").Text(), "/livereload")
}

func TestRaw(t *testing.T) {
	nodes, err := Raw([]byte("<h1 id=\"x\">Title</h1><p>Body</p>"))
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	wrapper := El("article", nil, nodes...)
	out, err := RenderString(wrapper)
	require.NoError(t, err)
	require.Equal(t, `<article><h1 id="x">Title</h1><p>Body</p></article>`, out)
}
