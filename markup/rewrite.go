package markup

import (
	"path"
	"regexp"
	"strings"
)

var imageSrcRE = regexp.MustCompile(`(?i)<img\s+[^>]*src="([^"]+)"`)

// RewriteImagePath maps a relative image source into the published
// assets tree, resolved against the page's folder. Absolute, external,
// protocol-relative and rooted URLs pass through, as does anything
// carrying a template expression.
func RewriteImagePath(src, folder string) string {
	if src == "" ||
		strings.HasPrefix(src, "http://") ||
		strings.HasPrefix(src, "https://") ||
		strings.HasPrefix(src, "//") ||
		strings.HasPrefix(src, "/") ||
		strings.Contains(src, "{{") {
		return src
	}
	return "/assets/images/" + path.Join(folder, src)
}

// RewriteInlineImages applies RewriteImagePath to img tags already
// present in rendered HTML (e.g. raw HTML embedded in Markdown, or
// plain HTML sources).
func RewriteInlineImages(html, folder string) string {
	return imageSrcRE.ReplaceAllStringFunc(html, func(m string) string {
		sub := imageSrcRE.FindStringSubmatch(m)
		if sub == nil {
			return m
		}
		rewritten := RewriteImagePath(sub[1], folder)
		if rewritten == sub[1] {
			return m
		}
		return strings.Replace(m, sub[1], rewritten, 1)
	})
}
