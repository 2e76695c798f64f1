package nav

import "errors"

// Kind distinguishes leaf nodes from category nodes.
type Kind string

const (
	KindLeaf     Kind = "leaf"
	KindCategory Kind = "category"
)

// DefaultSidebar is the name used for single-sidebar trees.
const DefaultSidebar = "docs"

// CurrentVersion is the tree file format version written by Marshal.
const CurrentVersion = 1

// Node is one entry of a sidebar.
type Node struct {
	// ID is the document slug for leaves and empty for categories.
	ID       string
	Kind     Kind
	Label    string
	Children []*Node
	// Collapsed is the initial state of a category in the rendered sidebar.
	Collapsed bool
}

// Leaf returns a leaf node referencing slug.
func Leaf(slug string) *Node {
	return &Node{ID: slug, Kind: KindLeaf}
}

// Category returns a category node grouping children under label.
func Category(label string, children ...*Node) *Node {
	return &Node{Kind: KindCategory, Label: label, Children: children}
}

// IsLeaf reports whether n references a document.
func (n *Node) IsLeaf() bool { return n != nil && n.Kind == KindLeaf }

// IsCategory reports whether n groups children.
func (n *Node) IsCategory() bool { return n != nil && n.Kind == KindCategory }

// Sidebar is a named, ordered root sequence of nodes.
type Sidebar struct {
	Name  string
	Items []*Node
}

// Tree is the versioned navigation configuration.
type Tree struct {
	Version  int
	Sidebars []Sidebar
}

// NewTree returns a single-sidebar tree named DefaultSidebar.
func NewTree(items ...*Node) *Tree {
	return &Tree{Version: CurrentVersion, Sidebars: []Sidebar{{Name: DefaultSidebar, Items: items}}}
}

// Sidebar returns the sidebar with the given name.
func (t *Tree) Sidebar(name string) (Sidebar, bool) {
	if t == nil {
		return Sidebar{}, false
	}
	for _, sb := range t.Sidebars {
		if sb.Name == name {
			return sb, true
		}
	}
	return Sidebar{}, false
}

// Visit is called for every node during Walk. Ancestors holds the enclosing
// categories from the root down to the node's parent.
type Visit func(n *Node, ancestors []*Node) error

// Walk visits items depth-first in authored order. Returning SkipChildren
// from fn prunes the current category.
func Walk(items []*Node, fn Visit) error {
	return walk(items, nil, fn)
}

func walk(items []*Node, ancestors []*Node, fn Visit) error {
	for _, n := range items {
		if n == nil {
			continue
		}
		err := fn(n, ancestors)
		if errors.Is(err, SkipChildren) {
			continue
		}
		if err != nil {
			return err
		}
		if n.IsCategory() {
			chain := append(ancestors[:len(ancestors):len(ancestors)], n)
			if err := walk(n.Children, chain, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Leaves returns the leaf slugs of items in reading order.
func Leaves(items []*Node) []string {
	var out []string
	_ = Walk(items, func(n *Node, _ []*Node) error {
		if n.IsLeaf() {
			out = append(out, n.ID)
		}
		return nil
	})
	return out
}

// Slugs returns every leaf slug of every sidebar in authored order.
func (t *Tree) Slugs() []string {
	if t == nil {
		return nil
	}
	var out []string
	for _, sb := range t.Sidebars {
		out = append(out, Leaves(sb.Items)...)
	}
	return out
}

// Location describes where a slug lives in a tree.
type Location struct {
	Sidebar   string
	Ancestors []*Node
	Node      *Node
}

// Find returns the first location of slug across all sidebars.
func (t *Tree) Find(slug string) (Location, bool) {
	if t == nil {
		return Location{}, false
	}
	for _, sb := range t.Sidebars {
		var loc Location
		found := false
		_ = Walk(sb.Items, func(n *Node, ancestors []*Node) error {
			if n.IsLeaf() && n.ID == slug {
				loc = Location{Sidebar: sb.Name, Ancestors: append([]*Node(nil), ancestors...), Node: n}
				found = true
				return errStop
			}
			return nil
		})
		if found {
			return loc, true
		}
	}
	return Location{}, false
}
