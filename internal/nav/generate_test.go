package nav

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docnav/internal/docs"
)

func mustDoc(t *testing.T, rel, content string) *docs.Doc {
	t.Helper()
	d, err := docs.LoadDoc(rel, []byte(content))
	require.NoError(t, err)
	return d
}

func TestGenerate_FromDirectoryLayout(t *testing.T) {
	set, err := docs.NewSet("", []*docs.Doc{
		mustDoc(t, "README.md", "# Clyp\n"),
		mustDoc(t, "faq.md", "# FAQ\n"),
		mustDoc(t, "welcome/index.md", "# Welcome\n"),
		mustDoc(t, "stdlib/index.md", "# Stdlib\n"),
		mustDoc(t, "stdlib/fetch.md", "---\nsidebar_position: 2\n---\n# fetch\n"),
		mustDoc(t, "stdlib/chunk.md", "---\nsidebar_position: 1\n---\n# chunk\n"),
		mustDoc(t, "stdlib/benchmark.md", "# benchmark\n"),
		mustDoc(t, "stdlib/modules/json.md", "# json\n"),
		mustDoc(t, "language-enhancements/overview.md", "# Overview\n"),
	})
	require.NoError(t, err)
	pos := 1
	collapsed := true
	set.Categories["stdlib"] = docs.CategoryMeta{Label: "Standard Library", Position: &pos, Collapsed: &collapsed}

	tree := Generate(set)
	require.Empty(t, Validate(tree))

	items := tree.Sidebars[0].Items
	require.Equal(t, "README", items[0].ID)
	require.Equal(t, "Standard Library", items[1].Label)
	require.True(t, items[1].Collapsed)

	// Unpositioned entries follow in name order.
	require.Equal(t, "faq", items[2].ID)
	require.Equal(t, "Language Enhancements", items[3].Label)
	require.Equal(t, "Welcome", items[4].Label)

	require.Equal(t, []string{
		"stdlib/index", "stdlib/chunk", "stdlib/fetch", "stdlib/benchmark", "stdlib/modules/json",
	}, Leaves(items[1].Children))
	require.Equal(t, "Modules", items[1].Children[4].Label)
}

func TestGenerate_EmptySet(t *testing.T) {
	set, err := docs.NewSet("", nil)
	require.NoError(t, err)
	tree := Generate(set)
	require.Len(t, tree.Sidebars, 1)
	require.Empty(t, tree.Sidebars[0].Items)
}
