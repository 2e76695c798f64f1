package nav

import (
	"net/url"
	"path"
	"strings"
)

// DefaultRouteBase is the route prefix under which documents are served.
const DefaultRouteBase = "/docs"

// Router resolves document slugs to site routes.
//
// A slug maps to base + "/" + slug, except for index documents: when the last
// segment is "index" or "README" (case-insensitive) or repeats the parent
// directory name, the route is the directory itself with a trailing slash.
// So "welcome/index" resolves to "/docs/welcome/" and a root "README" to
// "/docs/".
type Router struct {
	base      string
	overrides map[string]string
}

// NewRouter creates a router for base. Overrides map slugs to a route slug
// taken from document frontmatter: absolute values are relative to base,
// relative values to the document's directory.
func NewRouter(base string, overrides map[string]string) *Router {
	base = "/" + strings.Trim(strings.TrimSpace(base), "/")
	if base == "/" {
		base = ""
	}
	return &Router{base: base, overrides: overrides}
}

// Base returns the normalized route prefix ("" for the site root).
func (r *Router) Base() string { return r.base }

// Route resolves slug to its route.
func (r *Router) Route(slug string) string {
	slug = strings.Trim(slug, "/")
	dir, last := path.Split(slug)
	dir = strings.TrimSuffix(dir, "/")

	if override, ok := r.overrides[slug]; ok && override != "" {
		return r.join(resolveOverride(dir, override))
	}
	if IsIndexSlug(slug) {
		if dir == "" {
			return r.base + "/"
		}
		return r.join(dir) + "/"
	}
	return r.join(dir, last)
}

// IsIndexSlug reports whether slug names the index document of its directory.
func IsIndexSlug(slug string) bool {
	dir, last := path.Split(strings.Trim(slug, "/"))
	if strings.EqualFold(last, "index") || strings.EqualFold(last, "readme") {
		return true
	}
	dir = strings.TrimSuffix(dir, "/")
	return dir != "" && strings.EqualFold(last, path.Base(dir))
}

func resolveOverride(dir, override string) string {
	if strings.HasPrefix(override, "/") {
		return override
	}
	return path.Join(dir, override) + trailingSlash(override)
}

func trailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return "/"
	}
	return ""
}

func (r *Router) join(parts ...string) string {
	var segs []string
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			segs = append(segs, p)
		}
	}
	joined := r.base + "/" + strings.Join(segs, "/")
	if len(parts) > 0 && strings.HasSuffix(parts[len(parts)-1], "/") && !strings.HasSuffix(joined, "/") {
		joined += "/"
	}
	return joined
}

// NormalizeRoute strips query, fragment and a trailing slash so that
// "/docs/examples" and "/docs/examples/" compare equal. The site root stays "/".
func NormalizeRoute(route string) string {
	if u, err := url.Parse(route); err == nil {
		route = u.Path
	}
	if route == "" {
		return "/"
	}
	if len(route) > 1 {
		route = strings.TrimRight(route, "/")
		if route == "" {
			route = "/"
		}
	}
	return route
}

// RouteIndex maps normalized routes back to slugs.
type RouteIndex map[string]string

// RouteConflict is a route that more than one slug resolves to. Slugs are
// listed in index order.
type RouteConflict struct {
	Route string
	Slugs []string
}

// Index resolves every slug and returns the reverse lookup table. When
// several slugs share a route the first one keeps it and the clash is
// returned as a conflict.
func (r *Router) Index(slugs []string) (RouteIndex, []RouteConflict) {
	idx := make(RouteIndex, len(slugs))
	var (
		conflicts []RouteConflict
		at        = map[string]int{}
	)
	for _, s := range slugs {
		route := NormalizeRoute(r.Route(s))
		first, taken := idx[route]
		if !taken {
			idx[route] = s
			continue
		}
		i, seen := at[route]
		if !seen {
			i = len(conflicts)
			at[route] = i
			conflicts = append(conflicts, RouteConflict{Route: route, Slugs: []string{first}})
		}
		conflicts[i].Slugs = append(conflicts[i].Slugs, s)
	}
	return idx, conflicts
}

// Lookup finds the slug served at route, ignoring a trailing slash.
func (idx RouteIndex) Lookup(route string) (string, bool) {
	slug, ok := idx[NormalizeRoute(route)]
	return slug, ok
}
