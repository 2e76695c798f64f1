package nav

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadClypTree(t *testing.T) *Tree {
	t.Helper()
	tree, err := Load("testdata/sidebars.yaml")
	require.NoError(t, err)
	return tree
}

func TestLeafBeforeCategory(t *testing.T) {
	items := []*Node{Leaf("readme"), Category("Welcome", Leaf("welcome/index"))}

	require.True(t, items[0].IsLeaf())
	require.Equal(t, "readme", items[0].ID)
	require.True(t, items[1].IsCategory())
	require.Equal(t, "Welcome", items[1].Label)
	require.Len(t, items[1].Children, 1)
	require.Equal(t, "welcome/index", items[1].Children[0].ID)

	require.Equal(t, []string{"readme", "welcome/index"}, Leaves(items))
	require.Empty(t, Validate(NewTree(items...)))
}

func TestClypTree_Valid(t *testing.T) {
	tree := loadClypTree(t)
	require.Equal(t, 1, tree.Version)
	require.Len(t, tree.Sidebars, 1)
	require.Equal(t, DefaultSidebar, tree.Sidebars[0].Name)
	require.Empty(t, Validate(tree))

	leaves := tree.Slugs()
	require.Len(t, leaves, 41)
	require.Equal(t, "README", leaves[0])
	require.Equal(t, "welcome/index", leaves[1])
	require.Equal(t, "contributing/index", leaves[len(leaves)-1])
}

func TestClypTree_CategoriesHaveLabelsAndChildren(t *testing.T) {
	tree := loadClypTree(t)
	var labels []string
	err := Walk(tree.Sidebars[0].Items, func(n *Node, ancestors []*Node) error {
		if n.IsCategory() {
			assert.NotEmpty(t, n.Label)
			assert.NotEmpty(t, n.Children)
			if len(ancestors) == 0 {
				labels = append(labels, n.Label)
			}
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{
		"Welcome", "Language Enhancements (2.1.0)", "Syntax", "Types", "Standard Library",
		"Examples", "Tooling", "API Reference", "Reference",
	}, labels)
}

func TestWalk_SkipChildren(t *testing.T) {
	tree := loadClypTree(t)
	var visited []string
	err := Walk(tree.Sidebars[0].Items, func(n *Node, _ []*Node) error {
		if n.IsCategory() && n.Label == "Standard Library" {
			return SkipChildren
		}
		if n.IsLeaf() {
			visited = append(visited, n.ID)
		}
		return nil
	})
	require.NoError(t, err)
	require.NotContains(t, visited, "stdlib/fetch")
	require.Contains(t, visited, "examples/index")
}

func TestWalk_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	err := Walk([]*Node{Leaf("a"), Leaf("b")}, func(n *Node, _ []*Node) error {
		if n.ID == "b" {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
}

func TestFind(t *testing.T) {
	tree := loadClypTree(t)

	loc, ok := tree.Find("stdlib/modules/json")
	require.True(t, ok)
	require.Equal(t, DefaultSidebar, loc.Sidebar)
	require.Len(t, loc.Ancestors, 2)
	require.Equal(t, "Standard Library", loc.Ancestors[0].Label)
	require.Equal(t, "std modules", loc.Ancestors[1].Label)
	require.Equal(t, "stdlib/modules/json", loc.Node.ID)

	loc, ok = tree.Find("README")
	require.True(t, ok)
	require.Empty(t, loc.Ancestors)

	_, ok = tree.Find("missing")
	require.False(t, ok)
}

func TestSequence_Neighbors(t *testing.T) {
	tree := loadClypTree(t)
	seq := NewSequence(tree.Sidebars[0].Items)

	prev, next, ok := seq.Neighbors("README")
	require.True(t, ok)
	require.Empty(t, prev)
	require.Equal(t, "welcome/index", next)

	prev, next, ok = seq.Neighbors("stdlib/stdlib-overview")
	require.True(t, ok)
	require.Equal(t, "stdlib/index", prev)
	require.Equal(t, "stdlib/response", next)

	prev, next, ok = seq.Neighbors("stdlib/random_choice_weighted")
	require.True(t, ok)
	require.Equal(t, "stdlib/ping", prev)
	require.Equal(t, "stdlib/modules/index", next)

	prev, next, ok = seq.Neighbors("contributing/index")
	require.True(t, ok)
	require.Equal(t, "faq/index", prev)
	require.Empty(t, next)

	_, _, ok = seq.Neighbors("nope")
	require.False(t, ok)
}

func TestHash_StableAndOrderSensitive(t *testing.T) {
	a := NewTree(Leaf("a"), Category("C", Leaf("b")))
	b := NewTree(Leaf("a"), Category("C", Leaf("b")))
	swapped := NewTree(Category("C", Leaf("b")), Leaf("a"))
	collapsed := NewTree(Leaf("a"), &Node{Kind: KindCategory, Label: "C", Children: []*Node{Leaf("b")}, Collapsed: true})

	require.Equal(t, Hash(a), Hash(b))
	require.NotEqual(t, Hash(a), Hash(swapped))
	require.NotEqual(t, Hash(a), Hash(collapsed))
}

func TestHash_SeparatorsInContent(t *testing.T) {
	// Field text that looks like a separator must not shift field boundaries.
	idPipe := NewTree(Leaf("x|"))
	labelPipe := NewTree(&Node{Kind: KindLeaf, ID: "x", Label: "|"})
	require.NotEqual(t, Hash(idPipe), Hash(labelPipe))

	nested := NewTree(Category("A", Leaf("b")))
	flat := NewTree(&Node{Kind: KindCategory, Label: "A\n leaf|b||false", Children: []*Node{}})
	require.NotEqual(t, Hash(nested), Hash(flat))
}
