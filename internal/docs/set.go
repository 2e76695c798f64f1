package docs

import (
	"crypto/sha256"
	"encoding/hex"
	"maps"
	"slices"
)

// Set is the collection of documents discovered under one docs root.
type Set struct {
	Root       string
	Assets     []Asset
	Categories map[string]CategoryMeta // keyed by slash-separated directory

	docs   []*Doc
	bySlug map[string]*Doc
	byPath map[string]*Doc
}

// NewSet builds a Set from already loaded documents. It returns
// ErrDuplicateSlug when two documents share a slug.
func NewSet(root string, list []*Doc) (*Set, error) {
	s := &Set{
		Root:       root,
		Categories: map[string]CategoryMeta{},
		bySlug:     make(map[string]*Doc, len(list)),
		byPath:     make(map[string]*Doc, len(list)),
	}
	for _, d := range list {
		if err := s.add(d); err != nil {
			return nil, err
		}
	}
	s.sort()
	return s, nil
}

func (s *Set) add(d *Doc) error {
	if prev, ok := s.bySlug[d.Slug]; ok {
		return duplicateSlugError(d.Slug, prev.RelativePath, d.RelativePath)
	}
	s.bySlug[d.Slug] = d
	s.byPath[d.RelativePath] = d
	s.docs = append(s.docs, d)
	return nil
}

func (s *Set) sort() {
	slices.SortFunc(s.docs, func(a, b *Doc) int {
		switch {
		case a.Slug < b.Slug:
			return -1
		case a.Slug > b.Slug:
			return 1
		}
		return 0
	})
}

// Lookup returns the document with the given slug.
func (s *Set) Lookup(slug string) (*Doc, bool) {
	d, ok := s.bySlug[slug]
	return d, ok
}

// ByPath returns the document at the slash-separated path relative to the
// docs root.
func (s *Set) ByPath(rel string) (*Doc, bool) {
	d, ok := s.byPath[rel]
	return d, ok
}

// HasAsset reports whether rel names a discovered asset.
func (s *Set) HasAsset(rel string) bool {
	for _, a := range s.Assets {
		if a.RelativePath == rel {
			return true
		}
	}
	return false
}

// Docs returns all documents ordered by slug.
func (s *Set) Docs() []*Doc { return slices.Clone(s.docs) }

// Slugs returns all slugs in sorted order.
func (s *Set) Slugs() []string {
	return slices.Sorted(maps.Keys(s.bySlug))
}

// Len reports the number of documents.
func (s *Set) Len() int { return len(s.docs) }

// RouteOverrides maps slugs to their frontmatter `slug` value.
func (s *Set) RouteOverrides() map[string]string {
	out := map[string]string{}
	for _, d := range s.docs {
		if d.RouteSlug != "" {
			out[d.Slug] = d.RouteSlug
		}
	}
	return out
}

// Labels maps slugs to their sidebar label.
func (s *Set) Labels() map[string]string {
	out := make(map[string]string, len(s.docs))
	for _, d := range s.docs {
		out[d.Slug] = d.Label()
	}
	return out
}

// Hash is a stable digest over every document's path and content.
func (s *Set) Hash() string {
	h := sha256.New()
	for _, d := range s.docs {
		h.Write([]byte(d.Slug))
		h.Write([]byte{0})
		h.Write([]byte(d.RelativePath))
		h.Write([]byte{0})
		h.Write(d.RawFrontmatter)
		h.Write([]byte{0})
		h.Write(d.Body)
		h.Write([]byte{0})
	}
	for _, a := range s.Assets {
		h.Write([]byte(a.RelativePath))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
