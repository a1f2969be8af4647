package collections

import (
	"math"
	"sort"
	"strings"

	"github.com/gorgon-dev/gorgon/content"
)

// pageBy is a closure returning whether p1 comes before p2.
type pageBy func(p1, p2 *content.Page) bool

// Sort stable-sorts the given pages by the functor.
func (by pageBy) Sort(pages []*content.Page) {
	ps := &pageSorter{pages: pages, by: by}
	sort.Stable(ps)
}

type pageSorter struct {
	pages []*content.Page
	by    pageBy
}

func (ps *pageSorter) Len() int      { return len(ps.pages) }
func (ps *pageSorter) Swap(i, j int) { ps.pages[i], ps.pages[j] = ps.pages[j], ps.pages[i] }
func (ps *pageSorter) Less(i, j int) bool { return ps.by(ps.pages[i], ps.pages[j]) }

// less orders pages ascending: by date, then by filename order number,
// then by the stripped stem. Pages without an order number sort as if
// numbered math.MinInt64, so they precede numbered pages ascending and
// follow them descending.
func less(p1, p2 *content.Page) bool {
	if !p1.Date.Equal(p2.Date) {
		return p1.Date.Before(p2.Date)
	}
	n1 := orderNumber(p1)
	n2 := orderNumber(p2)
	if n1 != n2 {
		return n1 < n2
	}
	return sortStem(p1) < sortStem(p2)
}

var defaultPageSort = pageBy(less)

var defaultPageSortReverse = pageBy(func(p1, p2 *content.Page) bool {
	return less(p2, p1)
})

func orderNumber(p *content.Page) int64 {
	stem := content.Stem(p.Filename)
	if n, ok := content.ExtractNumberFromName(stem); ok {
		return int64(n)
	}
	return math.MinInt64
}

func sortStem(p *content.Page) string {
	return strings.ToLower(content.StripNumberPrefix(content.Stem(p.Filename)))
}
