package site

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/nav"
)

// OutputPath maps a route to its file below outDir using pretty URLs:
// "/docs/a/b" and "/docs/a/b/" both become outDir/docs/a/b/index.html.
func OutputPath(outDir, route string) string {
	route = nav.NormalizeRoute(route)
	if route == "/" {
		return filepath.Join(outDir, "index.html")
	}
	return filepath.Join(outDir, filepath.FromSlash(strings.TrimPrefix(route, "/")), "index.html")
}

// Writer writes rendered files into an output directory.
type Writer struct {
	Dir string
}

// WritePage writes page data for route.
func (w Writer) WritePage(route string, data []byte) (string, error) {
	target := OutputPath(w.Dir, route)
	return target, w.write(target, data)
}

// WriteFile writes data at a slash-separated path relative to the output
// directory.
func (w Writer) WriteFile(rel string, data []byte) error {
	return w.write(filepath.Join(w.Dir, filepath.FromSlash(rel)), data)
}

// WriteStylesheet writes the embedded stylesheet to its route.
func (w Writer) WriteStylesheet() error {
	return w.WriteFile(strings.TrimPrefix(StylesheetRoute, "/"), stylesheet)
}

// CopyFile copies src to a slash-separated path relative to the output
// directory.
func (w Writer) CopyFile(src, rel string) error {
	target := filepath.Join(w.Dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fsError(err, target)
	}
	in, err := os.Open(src)
	if err != nil {
		return fsError(err, src)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(target)
	if err != nil {
		return fsError(err, target)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fsError(err, target)
	}
	if err := out.Close(); err != nil {
		return fsError(err, target)
	}
	return nil
}

func (w Writer) write(target string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fsError(err, target)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fsError(err, target)
	}
	return nil
}

func fsError(err error, p string) error {
	return errors.WrapError(err, errors.CategoryFileSystem, "write output").
		WithContext("path", p).
		Build()
}
