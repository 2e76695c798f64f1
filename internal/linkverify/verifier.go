package linkverify

import (
	"context"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/logfields"
)

// Reasons reported for broken links.
const (
	ReasonNotFound        = "target not found"
	ReasonMissingFragment = "fragment not found in target page"
)

// BrokenLink is an internal link whose target does not exist.
type BrokenLink struct {
	Route  string // route of the page containing the link
	File   string // output file of that page
	URL    string
	Tag    string
	Reason string
}

// Report summarizes a verification run.
type Report struct {
	Pages   int
	Checked int
	// Skipped counts external and special links, which are not verified.
	Skipped int
	Broken  []BrokenLink
}

// Verifier checks internal links of a rendered site directory.
type Verifier struct {
	Dir string
	// CheckFragments also requires "#id" targets to exist in the linked page.
	CheckFragments bool
}

// Verify scans every HTML page under the output directory.
func (v *Verifier) Verify(ctx context.Context) (*Report, error) {
	pages := map[string]*Page{}
	files := map[string]string{}

	err := filepath.WalkDir(v.Dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".html") {
			return nil
		}
		page, err := ExtractLinks(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(v.Dir, p)
		if err != nil {
			return err
		}
		rel = "/" + filepath.ToSlash(rel)
		pages[rel] = page
		files[rel] = p
		return nil
	})
	if err != nil {
		if errors.IsClassified(err) {
			return nil, err
		}
		return nil, errors.WrapError(err, errors.CategoryBuild, "scan rendered site").
			WithContext("dir", v.Dir).
			Build()
	}

	keys := make([]string, 0, len(pages))
	for k := range pages {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	report := &Report{Pages: len(pages)}
	for _, filePath := range keys {
		route := routeOf(filePath)
		for _, link := range pages[filePath].Links {
			if !link.IsInternal || !ShouldVerifyLink(link) {
				report.Skipped++
				continue
			}
			report.Checked++
			if reason := v.check(route, link.URL, pages); reason != "" {
				report.Broken = append(report.Broken, BrokenLink{
					Route: route, File: files[filePath], URL: link.URL, Tag: link.Tag, Reason: reason,
				})
				slog.Debug("Broken link", logfields.Route(route), logfields.URL(link.URL), slog.String("reason", reason))
			}
		}
	}
	return report, nil
}

// check returns an empty string when target resolves from the page at route.
func (v *Verifier) check(route, target string, pages map[string]*Page) string {
	u, err := url.Parse(target)
	if err != nil {
		return ReasonNotFound
	}
	resolved := (&url.URL{Path: route}).ResolveReference(u)
	p := path.Clean("/" + resolved.Path)

	local := filepath.Join(v.Dir, filepath.FromSlash(strings.TrimPrefix(p, "/")))
	info, err := os.Stat(local)
	if err != nil {
		return ReasonNotFound
	}
	pageKey := p
	if info.IsDir() {
		if _, err := os.Stat(filepath.Join(local, "index.html")); err != nil {
			return ReasonNotFound
		}
		pageKey = path.Join(p, "index.html")
	}

	if v.CheckFragments && u.Fragment != "" {
		if page, ok := pages[pageKey]; ok && !page.IDs[u.Fragment] {
			return ReasonMissingFragment
		}
	}
	return ""
}

// routeOf maps "/docs/a/index.html" to "/docs/a/" and other files to themselves.
func routeOf(filePath string) string {
	if path.Base(filePath) == "index.html" {
		dir := path.Dir(filePath)
		if dir == "/" {
			return "/"
		}
		return dir + "/"
	}
	return filePath
}
