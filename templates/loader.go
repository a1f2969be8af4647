// Package templates renders pages through Jinja-syntax layouts with
// the site data and helper functions in scope.
package templates

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"github.com/flosch/pongo2/v6"
	"github.com/spf13/afero"
)

// aferoLoader serves templates from the site tree: layouts and
// partials by bare name, page sources by site-relative path.
type aferoLoader struct {
	fs      afero.Fs
	siteDir string
}

var _ pongo2.TemplateLoader = (*aferoLoader)(nil)

func newLoader(fs afero.Fs, siteDir string) *aferoLoader {
	return &aferoLoader{fs: fs, siteDir: siteDir}
}

// Abs implements pongo2.TemplateLoader. Template names are already
// site-scoped, so inclusion never resolves against the includer.
func (l *aferoLoader) Abs(_, name string) string { return name }

// Get implements pongo2.TemplateLoader, probing the layouts and
// partials directories before the site root.
func (l *aferoLoader) Get(p string) (io.Reader, error) {
	for _, dir := range []string{"_layouts", "_partials", ""} {
		full := filepath.Join(l.siteDir, dir, filepath.FromSlash(p))
		data, err := afero.ReadFile(l.fs, full)
		if err == nil {
			return bytes.NewReader(data), nil
		}
	}
	return nil, fmt.Errorf("template %q not found", p)
}
