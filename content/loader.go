package content

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/gorgon-dev/gorgon/markup"
)

// Loader discovers renderable content files under the site directory.
type Loader struct {
	fs      afero.Fs
	siteDir string
}

func NewLoader(fs afero.Fs, siteDir string) *Loader {
	return &Loader{fs: fs, siteDir: siteDir}
}

// Files lists renderable source files as sorted site-relative slash
// paths. Underscore-prefixed directories (layouts, partials, drafts)
// are skipped entirely; underscore-prefixed files are drafts and only
// included on request.
func (l *Loader) Files(includeDrafts bool) ([]string, error) {
	var files []string
	err := afero.Walk(l.fs, l.siteDir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		name := info.Name()
		if info.IsDir() {
			if p != l.siteDir && strings.HasPrefix(name, "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, "_") && !includeDrafts {
			return nil
		}
		if markup.TypeOf(name) == markup.SourceUnknown {
			return nil
		}
		rel, err := filepath.Rel(l.siteDir, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
