// Package landing composes the documentation landing page.
//
// Composition is a pure function over explicit inputs: site metadata, page
// content and a set of UI primitives. The primitives decide what a node is,
// so the same composition can produce an HTML tree or any other
// representation.
package landing

import (
	"strings"

	"github.com/gosimple/slug"
)

// SiteInfo is the site-wide metadata the page reads.
type SiteInfo struct {
	Title       string `yaml:"title"`
	Tagline     string `yaml:"tagline"`
	Description string `yaml:"description"`
}

// Link is a call-to-action or card link. To is a site route.
type Link struct {
	Label     string `yaml:"label"`
	To        string `yaml:"to"`
	Class     string `yaml:"class,omitempty"`
	AriaLabel string `yaml:"aria_label,omitempty"`
}

// Feature is one entry of the features grid.
type Feature struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Card is a quick-link card.
type Card struct {
	ID      string `yaml:"id,omitempty"`
	Heading string `yaml:"heading"`
	Body    string `yaml:"body"`
	Link    Link   `yaml:"link"`
}

// Content is the page content.
type Content struct {
	Intro      string    `yaml:"intro"`
	Buttons    []Link    `yaml:"buttons"`
	Features   []Feature `yaml:"features"`
	QuickLinks []Card    `yaml:"quick_links"`
}

// CardID returns the card's DOM id, deriving one from the heading when unset.
func (c Card) CardID() string {
	if c.ID != "" {
		return c.ID
	}
	return "ql-" + slug.Make(c.Heading)
}

// Links returns every link target on the page in display order, without
// duplicates.
func Links(c Content) []string {
	seen := map[string]bool{}
	var out []string
	add := func(to string) {
		if to == "" || seen[to] {
			return
		}
		seen[to] = true
		out = append(out, to)
	}
	for _, b := range c.Buttons {
		add(b.To)
	}
	for _, q := range c.QuickLinks {
		add(q.Link.To)
	}
	return out
}

// IsInternal reports whether a link target is a site route rather than an
// external URL.
func IsInternal(to string) bool {
	return strings.HasPrefix(to, "/") && !strings.HasPrefix(to, "//")
}
