// Package assets resolves and publishes static assets: path helpers
// for templates plus the copy/minify pipeline.
package assets

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/afero"
)

var (
	imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp"}
	fontExtensions  = []string{".woff2", ".woff", ".ttf", ".otf", ".eot"}
)

// NotFoundError reports an asset a template asked for that does not
// exist under the assets directory.
type NotFoundError struct {
	Name     string
	Kind     string
	Searched []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s asset %q not found (searched %s)", e.Kind, e.Name, strings.Join(e.Searched, ", "))
}

// Resolver answers template asset-path helpers against the on-disk
// assets tree. urlFn maps a site-absolute path to its final URL form.
type Resolver struct {
	fs        afero.Fs
	assetsDir string
	urlFn     func(string) string
}

func NewResolver(fs afero.Fs, assetsDir string, urlFn func(string) string) *Resolver {
	if urlFn == nil {
		urlFn = func(p string) string { return p }
	}
	return &Resolver{fs: fs, assetsDir: assetsDir, urlFn: urlFn}
}

// JSPath resolves a script name under assets/js, appending .js when
// the name has no extension.
func (r *Resolver) JSPath(name string) (string, error) {
	return r.resolve("js", name, "js", []string{".js"})
}

// CSSPath resolves a stylesheet name under assets/css.
func (r *Resolver) CSSPath(name string) (string, error) {
	return r.resolve("css", name, "css", []string{".css"})
}

// ImgPath resolves an image name under assets/images, probing known
// image extensions when the name carries none.
func (r *Resolver) ImgPath(name string) (string, error) {
	return r.resolve("images", name, "image", imageExtensions)
}

// FontPath resolves a font name under assets/fonts, probing known font
// extensions when the name carries none.
func (r *Resolver) FontPath(name string) (string, error) {
	return r.resolve("fonts", name, "font", fontExtensions)
}

func (r *Resolver) resolve(subdir, name, kind string, exts []string) (string, error) {
	candidates := []string{name}
	if path.Ext(name) == "" {
		candidates = candidates[:0]
		for _, ext := range exts {
			candidates = append(candidates, name+ext)
		}
	}

	searched := make([]string, 0, len(candidates))
	for _, c := range candidates {
		rel := path.Join(subdir, c)
		searched = append(searched, rel)
		full := path.Join(r.assetsDir, rel)
		if exists, _ := afero.Exists(r.fs, full); exists {
			return r.urlFn("/assets/" + rel), nil
		}
	}
	return "", &NotFoundError{Name: name, Kind: kind, Searched: searched}
}
