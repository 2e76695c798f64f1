package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractLinks_InlineImageAndAuto(t *testing.T) {
	links := ExtractLinks([]byte("See [docs](./welcome/index.md) ![logo](img/logo.png) <https://clyp.dev>\n"))

	require.Equal(t, []Link{
		{Kind: LinkKindInline, Destination: "./welcome/index.md"},
		{Kind: LinkKindImage, Destination: "img/logo.png"},
		{Kind: LinkKindAuto, Destination: "https://clyp.dev"},
	}, links)
}

func TestExtractLinks_ReferenceDefinitions(t *testing.T) {
	links := ExtractLinks([]byte("Read [the guide][guide].\n\n[guide]: /docs/welcome/\n"))

	require.Equal(t, []Link{
		{Kind: LinkKindInline, Destination: "/docs/welcome/"},
		{Kind: LinkKindReferenceDefinition, Destination: "/docs/welcome/"},
	}, links)
}

func TestExtractLinks_SkipsCode(t *testing.T) {
	links := ExtractLinks([]byte("`[not](a.md)`\n\n```\n[also not](b.md)\n```\n"))
	require.Empty(t, links)
}
