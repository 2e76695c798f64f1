package docs

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/frontmatter"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/markdown"
)

// Discover walks root and loads every Markdown document, asset and
// `_category_.yml` below it. Hidden entries and files starting with "_" are
// skipped.
func Discover(root string) (*Set, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, ferrors.DocsError("docs directory not found").
			WithCause(errors.Join(ErrDocsDirNotFound, err)).
			WithContext("path", root).
			UserAction().
			Build()
	}

	var (
		list       []*Doc
		assets     []Asset
		categories = map[string]CategoryMeta{}
	)

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		name := d.Name()
		if p != root && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		dir := path.Dir(rel)
		if dir == "." {
			dir = ""
		}

		switch {
		case isCategoryFile(name):
			meta, catErr := loadCategory(p)
			if catErr != nil {
				return catErr
			}
			categories[dir] = meta
		case strings.HasPrefix(name, "_"):
			return nil
		case isMarkdownFile(name):
			doc, docErr := loadDoc(p, rel, dir)
			if docErr != nil {
				return docErr
			}
			list = append(list, doc)
			slog.Debug("Discovered document", logfields.File(rel), logfields.Slug(doc.Slug))
		case isAsset(name):
			assets = append(assets, Asset{Path: p, RelativePath: rel})
		}
		return nil
	})
	if err != nil {
		if ferrors.IsClassified(err) {
			return nil, err
		}
		return nil, ferrors.FileSystemError("walk docs directory").
			WithCause(err).
			WithContext("path", root).
			Build()
	}

	set, err := NewSet(root, list)
	if err != nil {
		return nil, err
	}
	set.Assets = assets
	set.Categories = categories

	slog.Info("Documentation discovered",
		logfields.Path(root),
		logfields.Count(set.Len()),
		slog.Int("assets", len(assets)))
	return set, nil
}

// LoadDoc parses a single document from content. rel is the slash-separated
// path relative to the docs root.
func LoadDoc(rel string, content []byte) (*Doc, error) {
	dir := path.Dir(rel)
	if dir == "." {
		dir = ""
	}
	return parseDoc("", rel, dir, content)
}

func loadDoc(abs, rel, dir string) (*Doc, error) {
	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, ferrors.FileSystemError("read document").
			WithCause(err).
			WithContext("file", rel).
			Build()
	}
	return parseDoc(abs, rel, dir, content)
}

func parseDoc(abs, rel, dir string, content []byte) (*Doc, error) {
	rawFM, body, _, err := frontmatter.Split(content)
	if err != nil {
		return nil, frontmatterError(rel, err)
	}
	fields, err := frontmatter.ParseYAML(rawFM)
	if err != nil {
		return nil, frontmatterError(rel, err)
	}

	doc := &Doc{
		Path:           abs,
		RelativePath:   rel,
		Dir:            dir,
		Frontmatter:    fields,
		RawFrontmatter: rawFM,
		Body:           body,
		SidebarLabel:   frontmatter.String(fields, "sidebar_label"),
		RouteSlug:      frontmatter.String(fields, "slug"),
		Description:    frontmatter.String(fields, "description"),
	}
	doc.Slug = slugFor(dir, doc.Name(), frontmatter.String(fields, "id"))
	doc.SidebarPosition, doc.HasPosition = frontmatter.Int(fields, "sidebar_position")

	doc.Title = frontmatter.String(fields, "title")
	if doc.Title == "" {
		doc.Title = markdown.FirstHeading(body)
	}
	if doc.Title == "" {
		doc.Title = path.Base(doc.Slug)
	}
	return doc, nil
}

// slugFor derives a slug from the document's directory and file name; a
// frontmatter id replaces the file name.
func slugFor(dir, name, id string) string {
	last := name
	if id = strings.Trim(strings.TrimSpace(id), "/"); id != "" {
		last = id
	}
	if dir == "" {
		return last
	}
	return dir + "/" + last
}

func loadCategory(p string) (CategoryMeta, error) {
	var meta CategoryMeta
	data, err := os.ReadFile(p)
	if err != nil {
		return meta, ferrors.FileSystemError("read category file").WithCause(err).WithContext("file", p).Build()
	}
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return meta, ferrors.DocsError("invalid category file").
			WithCause(fmt.Errorf("%w: %w", ErrInvalidCategoryFile, err)).
			WithContext("file", p).
			UserAction().
			Build()
	}
	return meta, nil
}

func frontmatterError(rel string, err error) error {
	return ferrors.DocsError("invalid frontmatter").
		WithCause(fmt.Errorf("%w: %w", ErrInvalidFrontmatter, err)).
		WithContext("file", rel).
		UserAction().
		Build()
}

func duplicateSlugError(slug, first, second string) error {
	return ferrors.DocsError(fmt.Sprintf("documents %s and %s both resolve to slug %q", first, second, slug)).
		WithCause(ErrDuplicateSlug).
		WithContext("slug", slug).
		UserAction().
		Build()
}

func isCategoryFile(name string) bool {
	return name == "_category_.yml" || name == "_category_.yaml"
}

func isMarkdownFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".markdown"
}

func isAsset(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".ico", ".pdf":
		return true
	}
	return false
}
