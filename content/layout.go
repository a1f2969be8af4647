package content

import (
	"path"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

const (
	layoutsDir    = "_layouts"
	defaultLayout = "default"
)

var layoutSuffixRE = regexp.MustCompile(`\[([^\[\]]+)\]\s*$`)

// layout probe order, most specific template form first.
var layoutExtensions = []string{".html.jinja", ".jinja", ".html", ""}

// LayoutOverride returns the explicit layout named in a bracket suffix
// of the filename stem, e.g. "about[page]" selects layout "page". The
// second result is the stem with the suffix removed.
func LayoutOverride(stem string) (string, string) {
	m := layoutSuffixRE.FindStringSubmatch(stem)
	if m == nil {
		return "", stem
	}
	return m[1], strings.TrimSpace(layoutSuffixRE.ReplaceAllString(stem, ""))
}

// ResolveLayout picks the layout for a page. An explicit [name] suffix
// wins; otherwise candidates are probed against the _layouts directory
// from most to least specific: folder-scoped stem, the page's group,
// the bare stem for root pages, then "default".
func ResolveLayout(fs afero.Fs, siteDir, stem, folder string) string {
	name, cleanStem := LayoutOverride(stem)
	if name != "" {
		return name
	}

	var candidates []string
	if folder != "" {
		candidates = append(candidates, path.Join(folder, cleanStem))
		candidates = append(candidates, group(folder))
	} else {
		candidates = append(candidates, cleanStem)
	}
	candidates = append(candidates, defaultLayout)

	for _, c := range candidates {
		for _, ext := range layoutExtensions {
			p := path.Join(siteDir, layoutsDir, c+ext)
			if exists, _ := afero.Exists(fs, p); exists {
				return c
			}
		}
	}
	return defaultLayout
}

// group reports the top-level folder of a site-relative path, or "".
func group(folder string) string {
	if folder == "" {
		return ""
	}
	if i := strings.Index(folder, "/"); i >= 0 {
		return folder[:i]
	}
	return folder
}
