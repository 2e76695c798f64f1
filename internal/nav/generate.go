package nav

import (
	"cmp"
	"math"
	"path"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/docnav/internal/docs"
)

// Generate builds a single-sidebar tree from the directory layout of set.
//
// Every directory becomes a category labelled from its `_category_.yml`, or
// the title-cased directory name. Inside a directory the index document comes
// first, then documents and subdirectories ordered by position
// (sidebar_position or the category position) and then by name. Directories
// without any documents are left out.
func Generate(set *docs.Set) *Tree {
	root := &genDir{subdirs: map[string]*genDir{}}
	for _, d := range set.Docs() {
		root.insert(d)
	}
	return NewTree(root.items(set.Categories)...)
}

type genDir struct {
	name    string
	path    string
	docs    []*docs.Doc
	subdirs map[string]*genDir
}

func (g *genDir) insert(d *docs.Doc) {
	cur := g
	if d.Dir != "" {
		for _, seg := range strings.Split(d.Dir, "/") {
			next, ok := cur.subdirs[seg]
			if !ok {
				next = &genDir{name: seg, path: path.Join(cur.path, seg), subdirs: map[string]*genDir{}}
				cur.subdirs[seg] = next
			}
			cur = next
		}
	}
	cur.docs = append(cur.docs, d)
}

type genEntry struct {
	node     *Node
	name     string
	position int
	index    bool
}

func (g *genDir) items(meta map[string]docs.CategoryMeta) []*Node {
	var entries []genEntry
	for _, d := range g.docs {
		pos := math.MaxInt
		if d.HasPosition {
			pos = d.SidebarPosition
		}
		entries = append(entries, genEntry{
			node:     Leaf(d.Slug),
			name:     strings.ToLower(d.Name()),
			position: pos,
			index:    IsIndexSlug(d.Slug),
		})
	}
	for _, sub := range g.subdirs {
		children := sub.items(meta)
		if len(children) == 0 {
			continue
		}
		cat := Category(categoryLabel(sub, meta), children...)
		pos := math.MaxInt
		if m, ok := meta[sub.path]; ok {
			if m.Position != nil {
				pos = *m.Position
			}
			if m.Collapsed != nil {
				cat.Collapsed = *m.Collapsed
			}
		}
		entries = append(entries, genEntry{node: cat, name: strings.ToLower(sub.name), position: pos})
	}

	slices.SortStableFunc(entries, func(a, b genEntry) int {
		if a.index != b.index {
			if a.index {
				return -1
			}
			return 1
		}
		return cmp.Or(cmp.Compare(a.position, b.position), cmp.Compare(a.name, b.name))
	})

	out := make([]*Node, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.node)
	}
	return out
}

func categoryLabel(g *genDir, meta map[string]docs.CategoryMeta) string {
	if m, ok := meta[g.path]; ok && strings.TrimSpace(m.Label) != "" {
		return m.Label
	}
	// A Caser keeps state between calls, so each label gets its own.
	return cases.Title(language.English).String(strings.NewReplacer("-", " ", "_", " ").Replace(g.name))
}
