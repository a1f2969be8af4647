package templates

import (
	"html"
	"strings"

	"github.com/gorgon-dev/gorgon/markup"
)

// RenderTOC renders headings as nested lists. A deeper heading opens a
// sublist inside the current item; a shallower one closes back to the
// nearest open list at or above its level.
func RenderTOC(headings []markup.Heading) string {
	if len(headings) == 0 {
		return ""
	}

	var b strings.Builder
	var open []int // levels of currently open lists

	for _, h := range headings {
		if len(open) == 0 || h.Level > open[len(open)-1] {
			b.WriteString("<ul>")
			open = append(open, h.Level)
		} else {
			b.WriteString("</li>")
			for len(open) > 1 && h.Level < open[len(open)-1] {
				b.WriteString("</ul></li>")
				open = open[:len(open)-1]
			}
		}
		b.WriteString(`<li><a href="#`)
		b.WriteString(html.EscapeString(h.ID))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(h.Text))
		b.WriteString(`</a>`)
	}

	b.WriteString("</li>")
	for range open[1:] {
		b.WriteString("</ul></li>")
	}
	b.WriteString("</ul>")
	return b.String()
}
