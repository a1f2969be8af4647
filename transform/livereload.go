package transform

import "strings"

// InjectLiveReload inserts the reload script before the closing body
// tag, or appends it when the document has none. Only the first
// closing tag is rewritten.
func InjectLiveReload(html, script string) string {
	if script == "" {
		return html
	}
	if i := strings.Index(html, "</body>"); i >= 0 {
		return html[:i] + script + html[i:]
	}
	return html + script
}
