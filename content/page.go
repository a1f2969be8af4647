// Package content turns source files into fully resolved Page records:
// metadata extraction, layout resolution, URL derivation and rendering.
package content

import (
	"time"

	"github.com/gorgon-dev/gorgon/common/maps"
	"github.com/gorgon-dev/gorgon/markup"
)

// Page is one site page. It is immutable once built; rebuilds construct
// fresh pages rather than mutating existing ones.
type Page struct {
	Title       string
	Body        string // raw source with frontmatter removed
	Content     string // rendered HTML, or passthrough source
	Description string // first paragraph, capped at 160 characters
	Excerpt     string // full first paragraph, Markdown sources only
	URL         string // absolute-rooted, trailing slash except "/"
	Slug        string
	Date        time.Time
	Tags        []string // first-seen order, deduplicated
	Draft       bool
	Layout      string // layout name, not a path
	Group       string // top-level folder, or ""
	Path        string // path relative to the site directory
	Folder      string
	Filename    string
	Type        markup.SourceType
	Frontmatter maps.Params
	TOC         []markup.Heading
}
