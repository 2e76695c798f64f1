// Package docs discovers the Markdown documents that navigation leaves refer
// to and exposes them as a Set keyed by slug.
package docs

import (
	"path"
	"strings"
)

// Doc is a discovered Markdown document.
type Doc struct {
	Path         string // absolute path on disk
	RelativePath string // slash-separated, relative to the docs root
	Dir          string // slash-separated directory of RelativePath, "" at the root
	Slug         string

	Title           string
	SidebarLabel    string
	SidebarPosition int
	HasPosition     bool
	// RouteSlug is the frontmatter `slug` override, empty when unset.
	RouteSlug   string
	Description string

	Frontmatter    map[string]any
	RawFrontmatter []byte
	Body           []byte
}

// Label is the text shown for the document in a sidebar.
func (d *Doc) Label() string {
	if d.SidebarLabel != "" {
		return d.SidebarLabel
	}
	return d.Title
}

// Name returns the file name without extension.
func (d *Doc) Name() string {
	base := path.Base(d.RelativePath)
	return strings.TrimSuffix(base, path.Ext(base))
}

// Asset is a non-Markdown file copied verbatim into the site.
type Asset struct {
	Path         string
	RelativePath string
}

// CategoryMeta is the content of a directory's `_category_.yml`.
type CategoryMeta struct {
	Label     string `yaml:"label"`
	Position  *int   `yaml:"position"`
	Collapsed *bool  `yaml:"collapsed"`
}
