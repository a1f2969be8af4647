// Package collections groups built pages for template consumption:
// ordered page lists, group and tag lookups.
package collections

import (
	"sort"

	"github.com/gorgon-dev/gorgon/content"
)

// Pages is a plain ordered slice of pages.
type Pages []*content.Page

// Group returns the pages whose top-level folder matches.
func (ps Pages) Group(name string) Pages {
	var out Pages
	for _, p := range ps {
		if p.Group == name {
			out = append(out, p)
		}
	}
	return out
}

// WithTag returns the pages carrying the given tag.
func (ps Pages) WithTag(tag string) Pages {
	var out Pages
	for _, p := range ps {
		for _, t := range p.Tags {
			if t == tag {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Drafts returns only draft pages.
func (ps Pages) Drafts() Pages {
	var out Pages
	for _, p := range ps {
		if p.Draft {
			out = append(out, p)
		}
	}
	return out
}

// Published returns only non-draft pages.
func (ps Pages) Published() Pages {
	var out Pages
	for _, p := range ps {
		if !p.Draft {
			out = append(out, p)
		}
	}
	return out
}

// Collection holds a page set with its descending order precomputed.
// The descending order (newest first) is what templates iterate most.
type Collection struct {
	pages  Pages
	byDesc Pages
}

// New builds a collection, computing the descending sort up front so
// repeated template iteration never re-sorts.
func New(pages Pages) *Collection {
	desc := make(Pages, len(pages))
	copy(desc, pages)
	defaultPageSortReverse.Sort(desc)
	return &Collection{pages: pages, byDesc: desc}
}

// All returns the pages in source-discovery order.
func (c *Collection) All() Pages { return c.pages }

// Sorted returns pages newest-first when reverse is true (the memoized
// order) and oldest-first otherwise.
func (c *Collection) Sorted(reverse bool) Pages {
	if reverse {
		return c.byDesc
	}
	asc := make(Pages, len(c.pages))
	copy(asc, c.pages)
	defaultPageSort.Sort(asc)
	return asc
}

// Latest returns up to n of the newest pages.
func (c *Collection) Latest(n int) Pages {
	if n > len(c.byDesc) {
		n = len(c.byDesc)
	}
	if n < 0 {
		n = 0
	}
	return c.byDesc[:n]
}

func (c *Collection) Len() int { return len(c.pages) }

// Tags maps a tag name to the collection of pages carrying it.
type Tags map[string]*Collection

// BuildTags indexes pages by tag. Tag names are sortable via Names.
func BuildTags(pages Pages) Tags {
	byTag := make(map[string]Pages)
	for _, p := range pages {
		for _, t := range p.Tags {
			byTag[t] = append(byTag[t], p)
		}
	}
	tags := make(Tags, len(byTag))
	for t, ps := range byTag {
		tags[t] = New(ps)
	}
	return tags
}

// Names returns the tag names in lexical order.
func (t Tags) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
