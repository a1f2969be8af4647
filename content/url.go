package content

import "strings"

// DeriveURL builds the site-absolute URL for a page from its folder
// path and slug. Index slugs collapse to their folder; the site root
// index becomes "/".
func DeriveURL(folder, slug string) string {
	var segments []string
	for _, seg := range strings.Split(folder, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	if slug != "index" {
		segments = append(segments, slug)
	}
	if len(segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(segments, "/") + "/"
}
