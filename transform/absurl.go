// Package transform applies post-render rewrites to finished HTML.
package transform

import (
	"regexp"
	"strings"
)

var urlAttrRE = regexp.MustCompile(`(\b(?:href|src|action)=["'])([^"']+)(["'])`)

var skipPrefixes = []string{
	"http://", "https://", "//", "mailto:", "tel:", "#", "javascript:",
}

// AbsURL prefixes site-absolute href/src/action attribute values with
// the base URL. External, protocol-relative, fragment and scheme'd
// values pass through, as do already-relative paths.
func AbsURL(html, baseURL string) string {
	if baseURL == "" {
		return html
	}
	base := strings.TrimRight(baseURL, "/")
	return urlAttrRE.ReplaceAllStringFunc(html, func(m string) string {
		sub := urlAttrRE.FindStringSubmatch(m)
		val := sub[2]
		for _, p := range skipPrefixes {
			if strings.HasPrefix(val, p) {
				return m
			}
		}
		if !strings.HasPrefix(val, "/") {
			return m
		}
		return sub[1] + base + val + sub[3]
	})
}

// JoinURL joins a base URL and a site-absolute path.
func JoinURL(base, p string) string {
	if base == "" {
		return p
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p, "/")
}
