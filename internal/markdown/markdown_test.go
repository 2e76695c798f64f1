package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_HeadingsGetIDs(t *testing.T) {
	res, err := Render([]byte("# Fetch\n\nSome text.\n\n## Retry `options`\n"), Options{})
	require.NoError(t, err)

	require.Len(t, res.Headings, 2)
	require.Equal(t, Heading{Level: 1, Text: "Fetch", ID: "fetch"}, res.Headings[0])
	require.Equal(t, 2, res.Headings[1].Level)
	require.Equal(t, "Retry options", res.Headings[1].Text)
	require.NotEmpty(t, res.Headings[1].ID)
	require.Contains(t, string(res.HTML), `<h1 id="fetch">Fetch</h1>`)
}

func TestRender_GFMTable(t *testing.T) {
	res, err := Render([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n"), Options{})
	require.NoError(t, err)
	require.Contains(t, string(res.HTML), "<table>")
}

func TestRender_RawHTMLOmittedUnlessUnsafe(t *testing.T) {
	body := []byte("<div class=\"x\">hi</div>\n")

	safe, err := Render(body, Options{})
	require.NoError(t, err)
	require.NotContains(t, string(safe.HTML), `<div class="x">`)

	unsafe, err := Render(body, Options{Unsafe: true})
	require.NoError(t, err)
	require.Contains(t, string(unsafe.HTML), `<div class="x">`)
}

func TestRender_ResolveLink(t *testing.T) {
	resolve := func(dest string) (string, bool) {
		if strings.HasSuffix(dest, ".md") {
			return "/docs/" + strings.TrimSuffix(dest, ".md"), true
		}
		return "", false
	}
	res, err := Render([]byte("See [fetch](stdlib/fetch.md) and [site](https://example.com).\n"), Options{ResolveLink: resolve})
	require.NoError(t, err)

	html := string(res.HTML)
	require.Contains(t, html, `href="/docs/stdlib/fetch"`)
	require.Contains(t, html, `href="https://example.com"`)
}

func TestFirstHeading(t *testing.T) {
	require.Equal(t, "Standard Library", FirstHeading([]byte("Intro\n\n## Sub\n\n# Standard Library\n")))
	require.Equal(t, "", FirstHeading([]byte("no heading here\n")))
}
